// internal/live/poller.go
//
// Timer-driven configuration poller.
//
// Context
// -------
// One Poller runs for the process lifetime.  Each tick fetches a document
// from its Source, transforms it, and on full success publishes the result
// into the shared Holder as one atomic swap.  On any failure the previous,
// known-good configuration keeps serving traffic; a flaky authority
// degrades the gateway to "stale but valid," never to "down."
//
// Workflow / Structure
// --------------------
//   - Ticks are sequential: a tick's fetch does not start until the
//     previous tick finished publishing or holding, so an older fetch can
//     never overwrite a newer one.
//   - The interval is fixed at construction; there is no backoff, because
//     the interval itself is the retry policy.
//   - Refresh offers an out-of-band cycle (e.g., from an admin endpoint);
//     concurrent callers are collapsed into one flight.
//
// Notes
// -----
//   - The loop only exits on context cancellation; an in-flight fetch is
//     abandoned by the same cancellation without publishing anything.
package live

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/confsync/internal/gateway"
	"github.com/yanizio/confsync/internal/metrics"
	"github.com/yanizio/confsync/internal/remote"
	"github.com/yanizio/confsync/internal/secret"
	"github.com/yanizio/confsync/internal/transform"
)

// Source yields one raw configuration document per call.  The HTTP fetcher
// is the usual implementation; internal/source adds file and database ones.
type Source interface {
	Fetch(ctx context.Context) (*remote.Document, error)
}

// Poller drives the fetch→transform→publish cycle.
type Poller struct {
	src      Source
	res      *secret.Resolver
	holder   *gateway.Holder
	state    *gateway.State
	interval time.Duration
	log      *zap.SugaredLogger

	mu sync.Mutex // serializes cycles (ticker vs. Refresh)
	sf singleflight.Group
}

// NewPoller wires a Poller.  It does not start anything; call Run.
func NewPoller(src Source, res *secret.Resolver, holder *gateway.Holder, state *gateway.State, interval time.Duration, log *zap.SugaredLogger) *Poller {
	return &Poller{
		src:      src,
		res:      res,
		holder:   holder,
		state:    state,
		interval: interval,
		log:      log,
	}
}

// Run loops until ctx is cancelled.  Errors never stop the loop.
func (p *Poller) Run(ctx context.Context) {
	t := time.NewTicker(p.interval)
	defer t.Stop()

	p.log.Infow("config poller online", "interval", p.interval)
	for {
		select {
		case <-ctx.Done():
			p.log.Infow("config poller stopped")
			return
		case <-t.C:
			// Errors are recorded and logged inside Cycle; the previous
			// configuration stays published.
			_ = p.Cycle(ctx)
		}
	}
}

// Refresh runs one out-of-band cycle.  Concurrent callers share a single
// flight and its result.
func (p *Poller) Refresh(ctx context.Context) error {
	_, err, _ := p.sf.Do("refresh", func() (any, error) {
		return nil, p.Cycle(ctx)
	})
	return err
}

// Cycle performs one fetch→transform→publish pass.  On failure it records
// state, bumps the error counter, logs, and returns the error; the holder
// is left untouched.
func (p *Poller) Cycle(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	metrics.PollTotal.Inc()

	doc, err := p.src.Fetch(ctx)
	if err != nil {
		return p.hold("fetch failed", err)
	}

	cfg, err := transform.Transform(ctx, doc, p.res)
	if err != nil {
		return p.hold("transform failed", err)
	}

	p.publish(cfg)
	return nil
}

//
// helpers
//

func (p *Poller) publish(cfg *gateway.Config) {
	var version uint64
	if p.holder.Version() == 0 {
		version = p.holder.Seed(cfg)
	} else {
		version = p.holder.Replace(cfg)
	}

	now := time.Now()
	p.state.RecordSuccess(now)

	providers, models, pipelines := cfg.Counts()
	metrics.LastSuccessTimestamp.Set(float64(now.Unix()))
	metrics.ConfigVersion.Set(float64(version))
	metrics.PublishedProviders.Set(float64(providers))
	metrics.PublishedModels.Set(float64(models))
	metrics.PublishedPipelines.Set(float64(pipelines))

	p.log.Infow("configuration published",
		"version", version,
		"providers", providers,
		"models", models,
		"pipelines", pipelines,
	)
}

func (p *Poller) hold(stage string, err error) error {
	p.state.RecordFailure(time.Now(), err)
	metrics.PollErrorsTotal.Inc()
	p.log.Errorw("configuration "+stage+"; keeping previous",
		"version", p.holder.Version(),
		"err", err,
	)
	return err
}
