// internal/remote/document.go
//
// Raw configuration documents as fetched from the authority.
//
// Context
// -------
// These structs mirror the wire schema one-to-one and live only for a
// single fetch cycle; the transformer turns them into gateway.Config.
// Unknown JSON fields are ignored everywhere, which keeps older gateways
// compatible with a newer authority.  Field *absence* is detected by the
// transformer via `validate` tags, not here.
package remote

import "github.com/yanizio/confsync/internal/secret"

// Record kinds, as they appear in error context.
const (
	KindProvider = "provider"
	KindModel    = "model"
	KindPipeline = "pipeline"
)

// RawProvider is one provider record.
type RawProvider struct {
	ID      string            `json:"id" validate:"required"`
	Name    string            `json:"name"`
	Type    string            `json:"type"`
	APIKey  *secret.Ref       `json:"api_key" validate:"required"`
	Params  map[string]string `json:"params"`
	Enabled *bool             `json:"enabled"` // nil means enabled
}

// RawModel is one model record.
type RawModel struct {
	ID       string            `json:"id" validate:"required"`
	Name     string            `json:"name"`
	Type     string            `json:"type"`
	Provider string            `json:"provider" validate:"required"`
	Params   map[string]string `json:"params"`
	Enabled  *bool             `json:"enabled"`
}

// RawPipeline is one pipeline record.
type RawPipeline struct {
	ID      string   `json:"id" validate:"required"`
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Models  []string `json:"models" validate:"required,min=1"`
	Enabled *bool    `json:"enabled"`
}

// Document is one complete fetched configuration, either decoded from the
// combined endpoint or assembled from the three split endpoints.
type Document struct {
	Providers []RawProvider `json:"providers"`
	Models    []RawModel    `json:"models"`
	Pipelines []RawPipeline `json:"pipelines"`
}

// On reports whether a record with this Enabled flag should be considered.
func On(enabled *bool) bool { return enabled == nil || *enabled }
