package domain

import (
	"bytes"
	"encoding/json"
)

// Ref is a reference the backend sends either as a bare id string or as the
// populated document. It always marshals back to the id.
type Ref[T any] struct {
	ID    string
	Value *T
}

// RefTo creates an unpopulated reference
func RefTo[T any](id string) *Ref[T] {
	return &Ref[T]{ID: id}
}

// UnmarshalJSON accepts "id" or {"_id": ...}
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref[T]{}
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref[T]{ID: id}
		return nil
	}

	var head struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Ref[T]{ID: head.ID, Value: &v}
	return nil
}

// MarshalJSON writes the id
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

// Populated reports whether the referenced document was included
func (r *Ref[T]) Populated() bool {
	return r != nil && r.Value != nil
}
