/*
Package observability provides tools for monitoring the intent relay.

It includes Prometheus metrics for dispatched intents and device traffic,
lifecycle hooks that log and count every dispatch, and a device channel
decorator that records each write and query.
*/
package observability
