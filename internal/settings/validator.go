// internal/settings/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/settings/loader.go` calls `validateStruct` immediately after it
// unmarshals the merged Koanf tree into a `Settings` instance.  Any tag
// mismatch or validation error aborts startup, ensuring the binary never
// runs with partial, malformed, or missing settings.
//
// Beyond `required` on the base URL and listener address, the cross-field
// `required_with` rules keep the auth header name and value an all-or-
// nothing pair; sending a header with an empty value would be worse than
// sending none.
package settings

import "github.com/go-playground/validator/v10"

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(s *Settings) error {
	return v.Struct(s)
}
