// Package optional distinguishes a JSON field that was omitted from one that was
// sent, including one sent as an explicit null.
package optional

import "encoding/json"

// Value holds V only when Set is true. The zero Value means "absent".
type Value[T any] struct {
	V   T
	Set bool
}

func Of[T any](v T) Value[T] {
	return Value[T]{V: v, Set: true}
}

// ApplyTo overwrites *dst when the value is present.
func (o Value[T]) ApplyTo(dst *T) {
	if o.Set {
		*dst = o.V
	}
}

// UnmarshalJSON only runs for keys present in the document, null included.
func (o *Value[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	return json.Unmarshal(data, &o.V)
}
