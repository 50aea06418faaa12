/*
Package runner serializes intents onto one instrument.

Transports receive intents on their own goroutines and hand them to a Runner.
The Runner owns a single worker goroutine that sanitizes each intent, asks
its interceptors whether it may run, and dispatches it. Every write and query
for one intent completes before the next intent is dequeued, so the device
channel is never used concurrently.

# Usage

	r := runner.New(dispatch.New(driver),
		runner.WithLogger(logger),
		runner.WithHooks(observability.Hooks(logger, metrics)),
	)
	go r.Run(ctx)

	outcome, err := r.Submit(ctx, intent)
*/
package runner
