// Package optional distinguishes an absent JSON field from one explicitly set,
// including one set to null.
package optional

import (
	"bytes"
	"encoding/json"
)

// Field holds a value decoded from JSON together with whether the key was present.
// For pointer types, Set with a nil Value means the client sent null.
type Field[T any] struct {
	Set   bool
	Value T
}

func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// UnmarshalJSON is only called by encoding/json when the key is present.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.Value = zero
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

// Get returns the value and whether it was present.
func (f Field[T]) Get() (T, bool) {
	return f.Value, f.Set
}

// Or returns the value when present and fallback otherwise.
func (f Field[T]) Or(fallback T) T {
	if f.Set {
		return f.Value
	}
	return fallback
}
