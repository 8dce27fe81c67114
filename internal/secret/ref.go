// internal/secret/ref.go
//
// Tagged secret references.
//
// Context
// -------
// Credential values in the remote configuration documents are never plain
// strings.  Each one is a small JSON object tagged by "type" that says where
// the value comes from:
//
//	{"type":"literal","value":"sk-..."}
//	{"type":"environment","variable_name":"OPENAI_API_KEY"}
//	{"type":"kubernetes","secret_name":"...","key":"...","namespace":"..."}
//
// The first two resolve locally.  Anything else is carried as a named
// backend reference with its remaining fields as string parameters, so new
// backend kinds parse today and resolve once a backend is registered.
//
// Notes
// -----
//   - Kind is the closed-but-growable dispatch tag; see resolver.go.
//   - Oxford commas, two spaces after periods.
package secret

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates the reference variants.
type Kind string

const (
	KindLiteral     Kind = "literal"
	KindEnvironment Kind = "environment"
	KindBackend     Kind = "backend"
)

// Ref describes where a credential value comes from.  Exactly one variant
// is populated, selected by Kind.
type Ref struct {
	Kind Kind

	// KindLiteral
	Value string

	// KindEnvironment
	VariableName string

	// KindBackend: the wire "type" tag plus every other string field.
	Backend string
	Params  map[string]string
}

// Literal builds an inline-value reference.  Used by tests and by the file
// and database fallback sources.
func Literal(value string) *Ref {
	return &Ref{Kind: KindLiteral, Value: value}
}

// Environment builds an env-var reference.
func Environment(name string) *Ref {
	return &Ref{Kind: KindEnvironment, VariableName: name}
}

// UnmarshalJSON decodes the internally-tagged wire form.  Unknown "type"
// tags are not an error here; they become backend references and fail at
// resolve time if no backend is registered under that name.
func (r *Ref) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("secret ref: %w", err)
	}

	tag, ok := raw["type"]
	if !ok {
		return fmt.Errorf("secret ref: missing \"type\" tag")
	}
	var kind string
	if err := json.Unmarshal(tag, &kind); err != nil {
		return fmt.Errorf("secret ref: %w", err)
	}

	switch kind {
	case "literal":
		r.Kind = KindLiteral
		if v, ok := raw["value"]; ok {
			if err := json.Unmarshal(v, &r.Value); err != nil {
				return fmt.Errorf("secret ref value: %w", err)
			}
		}
	case "environment":
		r.Kind = KindEnvironment
		if v, ok := raw["variable_name"]; ok {
			if err := json.Unmarshal(v, &r.VariableName); err != nil {
				return fmt.Errorf("secret ref variable_name: %w", err)
			}
		}
	default:
		r.Kind = KindBackend
		r.Backend = kind
		r.Params = make(map[string]string, len(raw)-1)
		for k, v := range raw {
			if k == "type" {
				continue
			}
			var s string
			// Non-string parameters (e.g., booleans) are skipped; no
			// supported backend takes any.
			if err := json.Unmarshal(v, &s); err == nil {
				r.Params[k] = s
			}
		}
	}
	return nil
}

// String renders the reference for logs without ever exposing a literal
// value.
func (r *Ref) String() string {
	switch r.Kind {
	case KindLiteral:
		return "literal:[redacted]"
	case KindEnvironment:
		return "environment:" + r.VariableName
	case KindBackend:
		return "backend:" + r.Backend
	}
	return "secret:?"
}
