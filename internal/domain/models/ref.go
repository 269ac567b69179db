package models

import (
	"bytes"
	"encoding/json"
)

// Ref points at another document by id. Doc is set only when the reference
// was populated for the current response; it never changes what is stored.
type Ref[T any] struct {
	ID  string
	Doc *T
}

// MarshalJSON writes the referenced document when populated, else the id.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.Doc != nil {
		return json.Marshal(r.Doc)
	}
	return json.Marshal(r.ID)
}

// UnmarshalJSON accepts either an id string or a document with an "id" key.
func (r *Ref[T]) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		r.Doc = nil
		return json.Unmarshal(b, &r.ID)
	}
	var head struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(b, &head); err != nil {
		return err
	}
	var doc T
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	r.ID, r.Doc = head.ID, &doc
	return nil
}

// Populated reports whether the reference carries its document.
func (r Ref[T]) Populated() bool { return r.Doc != nil }

// RefsOf builds unpopulated references, never returning nil.
func RefsOf[T any](ids []string) []Ref[T] {
	out := make([]Ref[T], 0, len(ids))
	for _, id := range ids {
		out = append(out, Ref[T]{ID: id})
	}
	return out
}

// RefIDs returns the ids behind refs, never nil.
func RefIDs[T any](refs []Ref[T]) []string {
	out := make([]string, 0, len(refs))
	for _, r := range refs {
		out = append(out, r.ID)
	}
	return out
}
