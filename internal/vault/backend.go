// internal/vault/backend.go
//
// secret.Backend adapter.
//
// Context
// -------
// Makes the Vault client usable behind the resolver's backend seam.  Wire
// references look like:
//
//	{"type":"vault","path":"secret/gateway/openai","key":"api_key"}
//
// The adapter is registered by cmd/gateway only when vault.enabled is set;
// an unregistered "vault" reference fails with UnsupportedBackendError like
// any other unknown backend.
package vault

import (
	"context"
	"fmt"
)

// Backend adapts Client to the resolver's backend interface.
type Backend struct {
	cli *Client
}

// NewBackend wraps an existing client.
func NewBackend(cli *Client) *Backend { return &Backend{cli: cli} }

// Name returns the wire tag this backend serves.
func (b *Backend) Name() string { return "vault" }

// Resolve reads params["key"] from the KV-v2 secret at params["path"].
func (b *Backend) Resolve(ctx context.Context, params map[string]string) (string, error) {
	path, key := params["path"], params["key"]
	if path == "" || key == "" {
		return "", fmt.Errorf("vault ref needs both \"path\" and \"key\"")
	}
	return b.cli.GetKV(ctx, path, key)
}
