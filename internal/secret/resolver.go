// internal/secret/resolver.go
//
// Reference resolution with a pluggable backend registry.
//
// Context
// -------
// The transformer calls Resolve for every Ref embedded in a fetched record,
// on every cycle.  Resolution is deliberately uncached: an operator who
// rotates an environment variable sees the new value applied on the next
// poll without restarting the gateway.
//
// Literal and environment references resolve in-process.  Named backend
// references dispatch through the registry; a reference to a backend that
// was never registered fails with UnsupportedBackendError rather than being
// silently ignored.  The kubernetes backend is planned but not implemented,
// so the zero registry rejects it along with everything else.
package secret

import (
	"context"
	"fmt"
	"os"
)

// EnvVarNotFoundError reports an environment reference whose variable is
// unset or empty.
type EnvVarNotFoundError struct {
	Var string
}

func (e *EnvVarNotFoundError) Error() string {
	return fmt.Sprintf("environment variable %q is not set", e.Var)
}

// UnsupportedBackendError reports a backend reference with no registered
// implementation.
type UnsupportedBackendError struct {
	Name string
}

func (e *UnsupportedBackendError) Error() string {
	return fmt.Sprintf("secret backend %q is not supported", e.Name)
}

// Backend resolves named-backend references.  Implementations must be safe
// for concurrent use and must never log resolved values.
type Backend interface {
	// Name is the wire "type" tag this backend serves, e.g. "vault".
	Name() string

	// Resolve turns the reference parameters into the secret value.
	Resolve(ctx context.Context, params map[string]string) (string, error)
}

// Resolver resolves Refs.  The zero-option resolver supports literal and
// environment references only; backends are opt-in via WithBackend.
type Resolver struct {
	backends map[string]Backend
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithBackend registers a named backend.  Registering two backends with the
// same name keeps the last one.
func WithBackend(b Backend) Option {
	return func(r *Resolver) { r.backends[b.Name()] = b }
}

// NewResolver builds a Resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{backends: make(map[string]Backend)}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Resolve returns the concrete value for ref.  The returned string must be
// held only as long as needed and never logged.
func (r *Resolver) Resolve(ctx context.Context, ref *Ref) (string, error) {
	switch ref.Kind {
	case KindLiteral:
		return ref.Value, nil
	case KindEnvironment:
		val := os.Getenv(ref.VariableName)
		if val == "" {
			return "", &EnvVarNotFoundError{Var: ref.VariableName}
		}
		return val, nil
	case KindBackend:
		b, ok := r.backends[ref.Backend]
		if !ok {
			return "", &UnsupportedBackendError{Name: ref.Backend}
		}
		return b.Resolve(ctx, ref.Params)
	}
	return "", fmt.Errorf("secret ref has unknown kind %q", ref.Kind)
}
