// internal/transform/errors.go
//
// Transform error taxonomy.  Every defect found in one pass is reported;
// the transformer accumulates these instead of stopping at the first, so a
// misconfigured authority is fixed in one round trip instead of several.
package transform

import "fmt"

// MissingFieldError reports a raw record without one of its required
// fields.  RecordID may be empty when the id itself is the missing field.
type MissingFieldError struct {
	Kind  string
	ID    string
	Field string
}

func (e *MissingFieldError) Error() string {
	id := e.ID
	if id == "" {
		id = "?"
	}
	return fmt.Sprintf("%s %q: missing required field %q", e.Kind, id, e.Field)
}

// SecretResolutionError wraps a resolver failure with the record context it
// occurred in.
type SecretResolutionError struct {
	Kind  string
	ID    string
	Field string
	Err   error
}

func (e *SecretResolutionError) Error() string {
	return fmt.Sprintf("%s %q: resolve secret %q: %v", e.Kind, e.ID, e.Field, e.Err)
}

func (e *SecretResolutionError) Unwrap() error { return e.Err }

// DanglingReferenceError reports a reference to a record that does not
// exist in the same document.
type DanglingReferenceError struct {
	From string // e.g. `model "gpt4"`
	To   string // e.g. `provider "openai"`
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("%s references unknown %s", e.From, e.To)
}

// DuplicateIDError reports two records of the same kind sharing an id.
// Duplicates are rejected outright; picking a winner would route traffic by
// accident of ordering.
type DuplicateIDError struct {
	Kind string
	ID   string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate %s id %q", e.Kind, e.ID)
}
