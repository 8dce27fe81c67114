// internal/gateway/holder.go
//
// Published-configuration holder.
//
// Context
// -------
// One Holder exists per process.  It is seeded exactly once during bootstrap
// with the first successfully transformed Config, and replaced wholesale by
// the poller after each successful cycle.  Request paths read it through
// Current with no locks; the swap is a single atomic pointer store, so a
// reader always observes a complete generation, never a half-applied one.
package gateway

import "sync/atomic"

// Holder publishes the current Config.  The zero value is empty; use Seed
// before handing it to readers.
type Holder struct {
	cur     atomic.Pointer[Config]
	version atomic.Uint64
}

// Seed installs the first configuration.  Returns the version (always 1).
func (h *Holder) Seed(cfg *Config) uint64 {
	h.cur.Store(cfg)
	h.version.Store(1)
	return 1
}

// Replace swaps in a new configuration and returns its version.  Only the
// poller calls this, one cycle at a time.
func (h *Holder) Replace(cfg *Config) uint64 {
	h.cur.Store(cfg)
	return h.version.Add(1)
}

// Current returns the live configuration.  Nil only before Seed.
func (h *Holder) Current() *Config { return h.cur.Load() }

// Version returns the generation counter, starting at 1 after Seed.
func (h *Holder) Version() uint64 { return h.version.Load() }
