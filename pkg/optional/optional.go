// Package optional provides a three-state field for partial-update payloads:
// absent from the payload, explicit null, or set to a value. A plain pointer
// collapses "absent" and "null" into one state, which would silently clear
// fields the caller did not touch.
package optional

import (
	"bytes"
	"encoding/json"
)

// Field wraps a value that may be unset, null, or present.
// The zero value is unset. Use the `omitzero` JSON tag so unset fields are
// dropped from marshaled payloads.
type Field[T any] struct {
	value T
	set   bool
	null  bool
}

// Of returns a Field set to v.
func Of[T any](v T) Field[T] {
	return Field[T]{value: v, set: true}
}

// Null returns a Field explicitly set to null.
func Null[T any]() Field[T] {
	return Field[T]{set: true, null: true}
}

// IsSet reports whether the field was present in the payload, either as a
// value or as an explicit null.
func (f Field[T]) IsSet() bool {
	return f.set
}

// IsNull reports whether the field was explicitly set to null.
func (f Field[T]) IsNull() bool {
	return f.set && f.null
}

// Value returns the wrapped value and whether one is present. ok is false
// for both unset and null fields.
func (f Field[T]) Value() (v T, ok bool) {
	if !f.set || f.null {
		return v, false
	}
	return f.value, true
}

// IsZero reports whether the field is unset, letting `omitzero` drop it.
func (f Field[T]) IsZero() bool {
	return !f.set
}

var jsonNull = []byte("null")

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.set = true
	if bytes.Equal(data, jsonNull) {
		f.null = true
		var zero T
		f.value = zero
		return nil
	}
	f.null = false
	return json.Unmarshal(data, &f.value)
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.set || f.null {
		return jsonNull, nil
	}
	return json.Marshal(f.value)
}
