package schema

import "github.com/jmwilson/ollie/pkg/domain"

// Reader reads typed slot values with a sticky error: once a read fails,
// later reads return zero values and Err reports the first failure.
type Reader struct {
	in  domain.Intent
	err error
}

// Read validates in against the contract of op and returns a Reader over its slots.
func Read(in domain.Intent, op domain.Operation) *Reader {
	return &Reader{in: in, err: Validate(in, For(op))}
}

// Enum reads a required enumeration slot.
func (r *Reader) Enum(name string) string {
	if r.err != nil {
		return ""
	}
	v, err := Enum(r.in, name)
	r.err = err
	return v
}

// Int reads a required whole-number slot.
func (r *Reader) Int(name string) int {
	if r.err != nil {
		return 0
	}
	v, err := Int(r.in, name)
	r.err = err
	return v
}

// Real reads a required numeric slot.
func (r *Reader) Real(name string) float64 {
	if r.err != nil {
		return 0
	}
	v, err := Real(r.in, name)
	r.err = err
	return v
}

// Has reports whether an optional slot is present.
func (r *Reader) Has(name string) bool {
	_, ok := Lookup(r.in, name)
	return ok
}

// Err returns the first validation failure, if any.
func (r *Reader) Err() error {
	return r.err
}
