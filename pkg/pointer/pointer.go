// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer holds small generic helpers for optional values.

Partial updates decode into pointer fields so that an absent field leaves the
stored value alone. [Nullable] goes one step further for fields where an
explicit JSON null means "clear it".
*/
package pointer

import "encoding/json"

// To returns a pointer to v.
func To[T any](v T) *T {
	return &v
}

// Val dereferences p, returning the zero value when p is nil.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Nullable is a JSON field that tells "absent" apart from "null".
//
//	{}                 -> Set == false
//	{"chapterId":null} -> Set == true,  Value == nil
//	{"chapterId":"x"}  -> Set == true,  *Value == "x"
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON implements [json.Unmarshaler]. It only runs for present fields.
func (n *Nullable[T]) UnmarshalJSON(raw []byte) error {
	n.Set = true
	if string(raw) == "null" {
		n.Value = nil
		return nil
	}

	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return err
	}
	n.Value = &value
	return nil
}
