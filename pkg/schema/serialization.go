package schema

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON serializes the schema as a map of slot names to type strings.
// Optional slots carry a trailing "?", e.g. {"level":"real","source":"enum?"}.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}

	raw := make(map[string]string, len(s))
	for key, typ := range s {
		if typ == nil {
			return nil, fmt.Errorf("slot %s: type is nil", key)
		}
		raw[key] = typ.Name()
	}

	return json.Marshal(raw)
}
