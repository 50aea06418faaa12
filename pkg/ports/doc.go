/*
Package ports defines the driven ports (interfaces) between the intent
translation core and the outside world.

These interfaces decouple the dialect drivers from the physical connection to
the instrument, and the transports from the runner that serializes dispatch.

# Key Interfaces

  - DeviceChannel: the synchronous, line-framed duplex connection to one instrument.
  - Driver: the full abstract operation set, implemented once per dialect.
  - IntentDispatcher: maps an intent to an operation and applies it.
  - IntentSubmitter: what transports call to hand an intent to the runner.
  - DistributedLocker: a lease ensuring one process owns a given instrument.
*/
package ports
