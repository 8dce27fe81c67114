// internal/source/db.go
//
// SQL database configuration source.
//
// Context
// -------
// Some installations keep the routing tables in the same MySQL instance
// that backs the rest of their control plane.  This source selects the
// provider, model, and pipeline tables and reshapes the rows into the same
// raw Document the HTTP fetcher produces, so the transformer stays unaware
// of where a document came from.
//
// Schema expectations
// -------------------
//	provider(id, name, type, api_key, params, enabled)
//	model(id, name, type, provider, params, enabled)
//	pipeline(id, name, type, models, enabled)
//
// `api_key`, `params`, and `models` are JSON columns holding the wire forms
// used by the HTTP authority.
package source

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/yanizio/confsync/internal/remote"
	"github.com/yanizio/confsync/internal/secret"
)

// DB reads a Document from the config tables on every Fetch.
type DB struct {
	db *sqlx.DB
}

// Open connects with a small pool sized for one poller.  Pings before
// returning so bootstrap fails fast on a bad DSN.
func Open(dsn string) (*DB, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(3)
	db.SetMaxIdleConns(1)
	if err := db.Ping(); err != nil {
		return nil, err
	}
	return &DB{db: db}, nil
}

// NewDB wraps an existing pool; used by tests.
func NewDB(db *sqlx.DB) *DB { return &DB{db: db} }

// Close releases the pool.
func (d *DB) Close() error { return d.db.Close() }

//
// row shapes
//

type providerRow struct {
	ID      string          `db:"id"`
	Name    sql.NullString  `db:"name"`
	Type    sql.NullString  `db:"type"`
	APIKey  json.RawMessage `db:"api_key"`
	Params  json.RawMessage `db:"params"`
	Enabled bool            `db:"enabled"`
}

type modelRow struct {
	ID       string          `db:"id"`
	Name     sql.NullString  `db:"name"`
	Type     sql.NullString  `db:"type"`
	Provider string          `db:"provider"`
	Params   json.RawMessage `db:"params"`
	Enabled  bool            `db:"enabled"`
}

type pipelineRow struct {
	ID      string          `db:"id"`
	Name    sql.NullString  `db:"name"`
	Type    sql.NullString  `db:"type"`
	Models  json.RawMessage `db:"models"`
	Enabled bool            `db:"enabled"`
}

//
// Fetch
//

// Fetch selects all three tables and assembles a Document.
func (d *DB) Fetch(ctx context.Context) (*remote.Document, error) {
	var doc remote.Document

	var provs []providerRow
	if err := d.db.SelectContext(ctx, &provs,
		`SELECT id, name, type, api_key, params, enabled FROM provider`); err != nil {
		return nil, fmt.Errorf("select providers: %w", err)
	}
	for _, r := range provs {
		rec := remote.RawProvider{
			ID:      r.ID,
			Name:    r.Name.String,
			Type:    r.Type.String,
			Enabled: boolPtr(r.Enabled),
		}
		if len(r.APIKey) > 0 {
			ref := new(secret.Ref)
			if err := json.Unmarshal(r.APIKey, ref); err != nil {
				return nil, fmt.Errorf("provider %s api_key: %w", r.ID, err)
			}
			rec.APIKey = ref
		}
		if err := decodeParams(r.Params, &rec.Params); err != nil {
			return nil, fmt.Errorf("provider %s params: %w", r.ID, err)
		}
		doc.Providers = append(doc.Providers, rec)
	}

	var models []modelRow
	if err := d.db.SelectContext(ctx, &models,
		`SELECT id, name, type, provider, params, enabled FROM model`); err != nil {
		return nil, fmt.Errorf("select models: %w", err)
	}
	for _, r := range models {
		rec := remote.RawModel{
			ID:       r.ID,
			Name:     r.Name.String,
			Type:     r.Type.String,
			Provider: r.Provider,
			Enabled:  boolPtr(r.Enabled),
		}
		if err := decodeParams(r.Params, &rec.Params); err != nil {
			return nil, fmt.Errorf("model %s params: %w", r.ID, err)
		}
		doc.Models = append(doc.Models, rec)
	}

	var pipes []pipelineRow
	if err := d.db.SelectContext(ctx, &pipes,
		`SELECT id, name, type, models, enabled FROM pipeline ORDER BY id`); err != nil {
		return nil, fmt.Errorf("select pipelines: %w", err)
	}
	for _, r := range pipes {
		rec := remote.RawPipeline{
			ID:      r.ID,
			Name:    r.Name.String,
			Type:    r.Type.String,
			Enabled: boolPtr(r.Enabled),
		}
		if len(r.Models) > 0 {
			if err := json.Unmarshal(r.Models, &rec.Models); err != nil {
				return nil, fmt.Errorf("pipeline %s models: %w", r.ID, err)
			}
		}
		doc.Pipelines = append(doc.Pipelines, rec)
	}

	return &doc, nil
}

func decodeParams(raw json.RawMessage, out *map[string]string) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func boolPtr(b bool) *bool { return &b }
