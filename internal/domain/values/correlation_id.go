// Package values contains domain value objects that encapsulate
// primitive types with validation and such.
package values

import (
	"fmt"

	"github.com/google/uuid"
)

// CorrelationID tags a single plugin build/test/symbol-graph request
// so its response can be matched back to the waiting caller when the
// host and plugin message loop is multiplexing several in-flight
// requests over one stdin/stdout pair.
type CorrelationID struct {
	value uuid.UUID
}

// NewCorrelationID creates a new random correlation id.
func NewCorrelationID() CorrelationID {
	return CorrelationID{value: uuid.New()}
}

// ParseCorrelationID parses a string into a CorrelationID.
func ParseCorrelationID(s string) (CorrelationID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return CorrelationID{}, fmt.Errorf("invalid correlation id: %w", err)
	}
	return CorrelationID{value: id}, nil
}

// String returns the string representation.
func (c CorrelationID) String() string { return c.value.String() }

// IsZero reports whether this is the unset value.
func (c CorrelationID) IsZero() bool { return c.value == uuid.Nil }

// Equals reports whether two correlation ids match.
func (c CorrelationID) Equals(other CorrelationID) bool { return c.value == other.value }

// MarshalJSON implements json.Marshaler.
func (c CorrelationID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.value.String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *CorrelationID) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 {
		return fmt.Errorf("invalid correlation id JSON")
	}
	id, err := ParseCorrelationID(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*c = id
	return nil
}
