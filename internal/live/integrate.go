// internal/live/integrate.go
//
// Bootstrap entry point for collaborators.
//
// Context
// -------
// Startup is two explicit phases, never one ambiguous code path:
//
//  1. A mandatory synchronous fetch+transform.  Failure here is fatal to
//     the caller; the gateway must not start serving with no configuration
//     at all, and the returned error carries the complete validation set.
//  2. A detached background poller, non-fatal on failure, started only
//     after phase 1 seeded the holder.
package live

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/confsync/internal/gateway"
	"github.com/yanizio/confsync/internal/secret"
)

// Service is the collaborator-facing surface: the gateway reads Holder on
// its request path and never touches the fetch/transform machinery.
type Service struct {
	Holder *gateway.Holder
	State  *gateway.State

	poller *Poller
}

// Refresh triggers one out-of-band poll cycle.
func (s *Service) Refresh(ctx context.Context) error {
	return s.poller.Refresh(ctx)
}

// Integrate performs the synchronous first load, seeds the holder, and
// starts the poller goroutine.  The caller owns ctx; cancelling it stops
// the poller without corrupting the published configuration.
func Integrate(ctx context.Context, src Source, res *secret.Resolver, interval time.Duration, log *zap.SugaredLogger) (*Service, error) {
	holder := &gateway.Holder{}
	state := &gateway.State{}
	p := NewPoller(src, res, holder, state, interval, log)

	if err := p.Cycle(ctx); err != nil {
		return nil, fmt.Errorf("initial configuration load: %w", err)
	}

	go p.Run(ctx)

	return &Service{Holder: holder, State: state, poller: p}, nil
}
