// Package schema validates the shape of an intent before any device I/O.
//
// Every operation declares the slots it needs as a Schema, a map of slot names
// to slot types. Validate checks the slot count and the presence and kind of
// each declared slot, failing fast with a *ValidationError:
//
//	err := schema.Validate(in, schema.Schema{
//	    "channel": schema.IntValue(),
//	    "scale":   schema.RealValue(),
//	    "units":   schema.EnumValue(),
//	})
//
// Operations that accept a slot only sometimes wrap its type with Optional.
// An empty schema performs no validation, so slotless operations ignore any
// slots they are given.
//
// After validation, drivers read values with the typed accessors Enum, Int
// and Real, or Lookup for optional slots. There are no silent defaults: a
// missing slot is always an error.
//
// The contract of each abstract operation is published by For, which transports
// use to describe operations to their callers.
package schema
