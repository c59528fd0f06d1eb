package entity

import (
	"encoding/json"
)

// Optional is a tri-state JSON field for partial updates. It distinguishes
// a field that was absent from the request body from one that was provided
// as null, which a plain pointer cannot do once the body has been decoded.
//
//	{}               -> Set=false
//	{"f": null}      -> Set=true, Valid=false
//	{"f": <value>}   -> Set=true, Valid=true
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// Some returns an Optional carrying v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: v}
}

// Null returns an Optional that was explicitly provided as null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// UnmarshalJSON is only invoked by encoding/json when the key is present,
// so reaching it at all means Set=true.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// MarshalJSON round-trips the tri-state back to JSON; an unset field
// serializes as null since encoding/json cannot omit it.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Apply writes the field into a gorm update map under key when it was
// present in the request. An explicit null is stored as nil so the column
// is set to NULL rather than left untouched.
func (o Optional[T]) Apply(updates map[string]interface{}, key string) {
	if !o.Set {
		return
	}
	if !o.Valid {
		updates[key] = nil
		return
	}
	updates[key] = o.Value
}
