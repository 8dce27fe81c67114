// internal/gateway/holder_test.go
//
// Unit-tests for the published-configuration holder and poll state.

package gateway

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func cfgWith(id string) *Config {
	return &Config{
		Providers: map[string]Provider{id: {ID: id, APIKey: "sk"}},
		Models:    map[string]Model{},
	}
}

func TestHolderSeedAndReplace(t *testing.T) {
	var h Holder
	if h.Current() != nil || h.Version() != 0 {
		t.Fatal("zero holder not empty")
	}

	if v := h.Seed(cfgWith("a")); v != 1 {
		t.Fatalf("seed version = %d, want 1", v)
	}
	if v := h.Replace(cfgWith("b")); v != 2 {
		t.Fatalf("replace version = %d, want 2", v)
	}
	if _, ok := h.Current().Providers["b"]; !ok {
		t.Fatal("replace did not swap the config")
	}
}

func TestHolderConcurrentReaders(t *testing.T) {
	var h Holder
	h.Seed(cfgWith("a"))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				cfg := h.Current()
				// A reader must always see a complete generation.
				if cfg == nil || len(cfg.Providers) != 1 {
					t.Error("reader observed an incomplete config")
					return
				}
			}
		}()
	}
	for i := 0; i < 100; i++ {
		h.Replace(cfgWith("a"))
	}
	close(stop)
	wg.Wait()
}

func TestSecretRedaction(t *testing.T) {
	p := Provider{ID: "openai", APIKey: "sk-very-secret"}

	if s := p.APIKey.String(); strings.Contains(s, "sk-very-secret") {
		t.Fatalf("String leaked the secret: %q", s)
	}
	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "sk-very-secret") {
		t.Fatalf("MarshalJSON leaked the secret: %s", raw)
	}
	if p.APIKey.Reveal() != "sk-very-secret" {
		t.Fatal("Reveal lost the value")
	}
}

func TestStateSnapshot(t *testing.T) {
	var s State
	s.RecordSuccess(time.Unix(100, 0))
	s.RecordFailure(time.Unix(200, 0), errors.New("boom"))

	snap := s.Snapshot()
	if snap.Cycles != 2 || snap.Failures != 1 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap.LastError != "boom" || !snap.LastSuccess.Equal(time.Unix(100, 0)) {
		t.Fatalf("snapshot = %+v", snap)
	}
}
