/*
Package domain contains the core models shared by every layer of ollie.

It defines what an intent looks like once a transport has decoded it, the closed set of
instrument dialects and abstract operations, and the outcome/error taxonomy that drivers
report back. This package is kept pure and free of I/O so that validators, vocabularies,
drivers and transports can all depend on it.

# Key Entities

  - Intent: a named command with ordered, typed slots, produced from recognized speech.
  - Slot: one named parameter of an intent (enum string, integer or real number).
  - Dialect: one instrument family's command vocabulary and capability set.
  - Operation: an abstract oscilloscope operation, named after the intent that triggers it.
  - Outcome: what a dispatch did (ignored, applied, or stopped at a ladder boundary).
*/
package domain
