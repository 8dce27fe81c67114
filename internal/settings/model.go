// internal/settings/model.go
//
// Typed settings model for the sync client.
//
// Context
// -------
// These structs define the shape of the settings tree that
// `internal/settings/loader.go` builds from three overlay layers:
//
//   • optional `conf/.env`                       – dotenv values,
//   • optional `conf/gateway.yaml`               – static file,
//   • `CONFSYNC_`-prefixed environment overrides – highest precedence.
//
// Everything here is read once at process start and fixed for the process
// lifetime; the configuration that hot-reloads is the *fetched* one, held
// by internal/gateway.Holder.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • Split mode is selected by setting all three collection paths; the
//     defaults for unset paths live in remote.NewFetcher.
//   • Oxford commas, two spaces after periods.  No em-dash.
package settings

import "time"

//
// Remote section
//

// Remote describes the configuration authority.  The auth header is a
// single optional name/value pair attached to every request; setting one
// half without the other is a validation error.
type Remote struct {
	BaseURL      string        `koanf:"base_url"    validate:"required,url"`
	AuthHeader   string        `koanf:"auth_header" validate:"required_with=AuthValue"`
	AuthValue    string        `koanf:"auth_value"  validate:"required_with=AuthHeader"`
	Timeout      time.Duration `koanf:"timeout"`
	PollInterval time.Duration `koanf:"poll_interval"`

	// Full-mode endpoint; used unless split mode is selected.
	FullPath string `koanf:"full_path"`

	// Split-mode endpoints; setting all three selects split mode.
	ProvidersPath string `koanf:"providers_path"`
	ModelsPath    string `koanf:"models_path"`
	PipelinesPath string `koanf:"pipelines_path"`
}

// SplitMode reports whether the three-endpoint topology was selected.
func (r Remote) SplitMode() bool {
	return r.ProvidersPath != "" && r.ModelsPath != "" && r.PipelinesPath != ""
}

//
// Fallback section
//

// Fallback names optional local sources used instead of the HTTP authority,
// mainly for air-gapped development.  Empty means HTTP only.
type Fallback struct {
	File string `koanf:"file"` // YAML document path
	DSN  string `koanf:"dsn"`  // MySQL DSN for the config tables
}

//
// HTTP and Vault sections
//

// HTTP holds the status/metrics listener address.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
}

// Vault toggles the Vault secret backend.  Client address and token come
// from the standard VAULT_ADDR and VAULT_TOKEN environment variables.
type Vault struct {
	Enabled bool `koanf:"enabled"`
}

//
// Root aggregate
//

// Settings is the immutable aggregate returned by Load().
type Settings struct {
	Remote   Remote   `koanf:"remote"`
	Fallback Fallback `koanf:"fallback"`
	HTTP     HTTP     `koanf:"http"`
	Vault    Vault    `koanf:"vault"`
}
