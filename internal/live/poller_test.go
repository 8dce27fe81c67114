// internal/live/poller_test.go
//
// Unit-tests for the poll cycle and the bootstrap entry point.
//
// Context
// -------
// A scripted Source returns a fixed sequence of documents and errors, so
// the tests drive cycles directly through Cycle/Refresh instead of waiting
// on the ticker.  The properties under test:
//
//   • success publishes atomically and bumps the version
//   • any failure holds the previously published configuration
//   • bootstrap is fatal on first-load failure, and starts polling on
//     success
//
// Run: go test ./internal/live -v

package live

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/confsync/internal/gateway"
	"github.com/yanizio/confsync/internal/remote"
	"github.com/yanizio/confsync/internal/secret"
)

// scriptedSource pops one step per Fetch.
type scriptedSource struct {
	steps []func() (*remote.Document, error)
	calls int
}

func (s *scriptedSource) Fetch(context.Context) (*remote.Document, error) {
	step := s.steps[s.calls%len(s.steps)]
	s.calls++
	return step()
}

func docWithProvider(id, key string) *remote.Document {
	return &remote.Document{
		Providers: []remote.RawProvider{{ID: id, APIKey: secret.Literal(key)}},
	}
}

func newTestPoller(src Source) (*Poller, *gateway.Holder, *gateway.State) {
	holder := &gateway.Holder{}
	state := &gateway.State{}
	p := NewPoller(src, secret.NewResolver(), holder, state, time.Minute, zap.NewNop().Sugar())
	return p, holder, state
}

func TestCyclePublishesOnSuccess(t *testing.T) {
	src := &scriptedSource{steps: []func() (*remote.Document, error){
		func() (*remote.Document, error) { return docWithProvider("openai", "sk-1"), nil },
	}}
	p, holder, state := newTestPoller(src)

	if err := p.Cycle(context.Background()); err != nil {
		t.Fatalf("Cycle error: %v", err)
	}
	if holder.Version() != 1 {
		t.Fatalf("version = %d, want 1", holder.Version())
	}
	if holder.Current().Providers["openai"].APIKey.Reveal() != "sk-1" {
		t.Fatal("published config missing the provider")
	}
	if snap := state.Snapshot(); snap.Cycles != 1 || snap.Failures != 0 {
		t.Fatalf("state = %+v", snap)
	}
}

func TestFailedCycleHoldsPreviousConfig(t *testing.T) {
	src := &scriptedSource{steps: []func() (*remote.Document, error){
		func() (*remote.Document, error) { return docWithProvider("openai", "sk-1"), nil },
		func() (*remote.Document, error) { return nil, errors.New("authority down") },
	}}
	p, holder, state := newTestPoller(src)

	if err := p.Cycle(context.Background()); err != nil {
		t.Fatalf("first Cycle: %v", err)
	}
	before := holder.Current()

	if err := p.Cycle(context.Background()); err == nil {
		t.Fatal("second Cycle should fail")
	}
	if holder.Current() != before {
		t.Fatal("failed cycle replaced the published config")
	}
	if holder.Version() != 1 {
		t.Fatalf("version = %d, want 1", holder.Version())
	}
	if snap := state.Snapshot(); snap.Failures != 1 || snap.LastError == "" {
		t.Fatalf("state = %+v", snap)
	}
}

func TestTransformFailureHoldsPreviousConfig(t *testing.T) {
	// Second document fetches fine but fails validation; same hold rule.
	bad := &remote.Document{
		Models: []remote.RawModel{{ID: "gpt4", Provider: "ghost"}},
	}
	src := &scriptedSource{steps: []func() (*remote.Document, error){
		func() (*remote.Document, error) { return docWithProvider("openai", "sk-1"), nil },
		func() (*remote.Document, error) { return bad, nil },
	}}
	p, holder, _ := newTestPoller(src)

	_ = p.Cycle(context.Background())
	before := holder.Current()

	if err := p.Cycle(context.Background()); err == nil {
		t.Fatal("transform should fail")
	}
	if holder.Current() != before {
		t.Fatal("invalid config was published")
	}
}

func TestRefreshRunsOneCycle(t *testing.T) {
	src := &scriptedSource{steps: []func() (*remote.Document, error){
		func() (*remote.Document, error) { return docWithProvider("openai", "sk-1"), nil },
	}}
	p, holder, _ := newTestPoller(src)

	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if holder.Version() != 1 {
		t.Fatalf("version = %d, want 1", holder.Version())
	}
}

func TestIntegrateFatalOnFirstFailure(t *testing.T) {
	src := &scriptedSource{steps: []func() (*remote.Document, error){
		func() (*remote.Document, error) { return nil, errors.New("401") },
	}}

	_, err := Integrate(context.Background(), src, secret.NewResolver(), time.Minute, zap.NewNop().Sugar())
	if err == nil {
		t.Fatal("Integrate must fail when the first load fails")
	}
}

func TestIntegrateSeedsAndPolls(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := &scriptedSource{steps: []func() (*remote.Document, error){
		func() (*remote.Document, error) { return docWithProvider("openai", "sk-1"), nil },
	}}

	svc, err := Integrate(ctx, src, secret.NewResolver(), 10*time.Millisecond, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("Integrate error: %v", err)
	}
	if svc.Holder.Version() != 1 {
		t.Fatalf("seed version = %d, want 1", svc.Holder.Version())
	}

	// The background poller should tick at least once more.
	deadline := time.After(2 * time.Second)
	for svc.Holder.Version() < 2 {
		select {
		case <-deadline:
			t.Fatal("poller never ticked")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
