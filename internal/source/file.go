// internal/source/file.go
//
// YAML file configuration source.
//
// Context
// -------
// Development and air-gapped deployments can point the poller at a local
// YAML document instead of the HTTP authority.  The file uses the same
// schema as the combined endpoint, secret references included, so a config
// authored locally can be uploaded to the authority unchanged.
//
// The YAML tree is read with Koanf and re-encoded through encoding/json so
// the tagged secret-reference decoding in internal/secret applies to both
// transports identically.
package source

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"

	"github.com/yanizio/confsync/internal/remote"
)

// File reads a Document from one YAML file on every Fetch, so edits are
// picked up on the next poll just like remote changes.
type File struct {
	Path string
}

// NewFile builds a file source.
func NewFile(path string) *File { return &File{Path: path} }

// Fetch reads and decodes the document.
func (f *File) Fetch(ctx context.Context) (*remote.Document, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(f.Path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("config file %s: %w", f.Path, err)
	}

	raw, err := json.Marshal(k.Raw())
	if err != nil {
		return nil, fmt.Errorf("config file %s: %w", f.Path, err)
	}

	var doc remote.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("config file %s: %w", f.Path, err)
	}
	return &doc, nil
}
