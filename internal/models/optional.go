package models

import "encoding/json"

// Optional carries a patch value for a nullable column. Set is false when
// the field was absent from the request body; Value is nil when the client
// explicitly sent null.
type Optional[T any] struct {
	Set   bool
	Value *T
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// Null returns an Optional that clears the column.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// UnmarshalJSON is only invoked for fields present in the document,
// including explicit nulls.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// MarshalJSON encodes the value or null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*o.Value)
}

// Apply returns the patched pointer: the new value when Set, else current.
func (o Optional[T]) Apply(current *T) *T {
	if !o.Set {
		return current
	}
	return o.Value
}

// IsZero lets `omitzero` drop absent fields when a patch is encoded.
func (o Optional[T]) IsZero() bool {
	return !o.Set
}
