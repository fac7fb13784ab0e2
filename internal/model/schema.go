package model

import (
	"encoding/json"
	"fmt"
	"os"
)

// Schema is the ordered list of feature names the model was trained on.
// Loaded once at startup and read-only afterwards; every feature vector is
// assembled against this order.
type Schema struct {
	names []string
}

// LoadSchema reads the feature-column artifact (a JSON array of names).
// Failure here is fatal to startup: no prediction may be served without the
// schema.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read feature schema %s: %w", path, err)
	}

	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("failed to parse feature schema %s: %w", path, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("feature schema %s is empty", path)
	}

	return &Schema{names: names}, nil
}

// NewSchema builds a schema from an in-memory name list. Used by tests and
// by callers that source the column order elsewhere.
func NewSchema(names []string) *Schema {
	copied := make([]string, len(names))
	copy(copied, names)
	return &Schema{names: copied}
}

// Names returns the feature names in training order. The returned slice is a
// copy; the registry itself is never mutated after load.
func (s *Schema) Names() []string {
	copied := make([]string, len(s.names))
	copy(copied, s.names)
	return copied
}

// Len returns the number of features the model expects.
func (s *Schema) Len() int {
	return len(s.names)
}
