package store

import (
	"encoding/json"
	"fmt"
)

// Codec converts values to and from the byte strings Redis holds.
// Structured values go through JSON; []byte and string values are treated as
// opaque and stored verbatim. The strategy is selected by the static type of
// the value (or destination pointer), so there is no decode-and-hope fallback
// at runtime.
type Codec struct{}

// Encode serializes a value for storage.
func (Codec) Encode(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("codec: failed to marshal value: %w", err)
		}
		return data, nil
	}
}

// Decode deserializes stored bytes into dst, which must be a pointer.
// *[]byte and *string destinations receive the raw bytes.
func (Codec) Decode(data []byte, dst interface{}) error {
	switch d := dst.(type) {
	case *[]byte:
		*d = data
		return nil
	case *string:
		*d = string(data)
		return nil
	default:
		if err := json.Unmarshal(data, dst); err != nil {
			return fmt.Errorf("codec: failed to unmarshal value: %w", err)
		}
		return nil
	}
}
