// internal/gateway/config.go
//
// Internal configuration model.
//
// Context
// -------
// Config is what the request-routing gateway actually consumes: providers
// keyed by id with resolved credentials, models keyed by id pointing at a
// provider, and an ordered list of pipelines pointing at models.  Instances
// are built only by the transformer, which guarantees every cross-reference
// resolves inside the same instance before the value is ever published.
//
// Notes
// -----
//   - Config values are immutable once built; the live holder swaps whole
//     pointers, never mutates in place.
//   - Secret redacts itself in String and MarshalJSON so a stray log line
//     or JSON dump cannot leak credentials.
package gateway

// Secret is a resolved credential value.  It prints and serializes as a
// placeholder; call Reveal at the single point of use.
type Secret string

// Reveal returns the underlying value.
func (s Secret) Reveal() string { return string(s) }

func (s Secret) String() string { return "[redacted]" }

// MarshalJSON always emits the placeholder, never the value.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"[redacted]"`), nil
}

// Provider is an upstream service definition with resolved credentials.
type Provider struct {
	ID     string
	Name   string
	Type   string
	APIKey Secret
	Params map[string]string
}

// Model is a named capability offered by a provider.
type Model struct {
	ID       string
	Name     string
	Type     string
	Provider string // Provider.ID, guaranteed present in the same Config
	Params   map[string]string
}

// Pipeline is an ordered composition of models exposed to gateway clients.
type Pipeline struct {
	ID     string
	Name   string
	Type   string
	Models []string // Model.IDs, guaranteed present in the same Config
}

// Config is one fully-validated configuration generation.
type Config struct {
	Providers map[string]Provider
	Models    map[string]Model
	Pipelines []Pipeline
}

// Counts returns the record totals, used for the post-publish summary log
// and the published-size gauges.
func (c *Config) Counts() (providers, models, pipelines int) {
	return len(c.Providers), len(c.Models), len(c.Pipelines)
}
