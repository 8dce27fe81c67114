// internal/remote/fetcher_test.go
//
// Unit-tests for the HTTP fetcher against httptest servers.
//
// Context
// -------
// Covers both endpoint topologies and the whole error taxonomy:
//
//   • Full mode: combined document, auth and Accept headers on the wire.
//   • Split mode: three concurrent GETs joined into one document, and the
//     all-or-nothing rule with every endpoint failure reported together.
//   • Status, decode, and timeout classification.
//
// Run: go test ./internal/remote -v

package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const fullBody = `{
	"providers":[{"id":"openai","api_key":{"type":"literal","value":"sk-1"}}],
	"models":[{"id":"gpt4","provider":"openai"}],
	"pipelines":[{"id":"p1","models":["gpt4"]}]
}`

func TestFetchFull(t *testing.T) {
	var gotAuth, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/config" {
			t.Errorf("path = %q, want /config", r.URL.Path)
		}
		gotAuth = r.Header.Get("X-Api-Token")
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(fullBody))
	}))
	defer srv.Close()

	f := NewFetcher(Options{
		BaseURL:    srv.URL,
		AuthHeader: "X-Api-Token",
		AuthValue:  "t0ken",
	})
	doc, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(doc.Providers) != 1 || len(doc.Models) != 1 || len(doc.Pipelines) != 1 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if gotAuth != "t0ken" {
		t.Fatalf("auth header = %q, want t0ken", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Fatalf("accept header = %q", gotAccept)
	}
}

func TestFetchFullNoAuthHeaderWhenUnset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["X-Api-Token"]; ok {
			t.Error("auth header sent without auth configuration")
		}
		_, _ = w.Write([]byte(fullBody))
	}))
	defer srv.Close()

	f := NewFetcher(Options{BaseURL: srv.URL})
	if _, err := f.Fetch(context.Background()); err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
}

func TestFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	f := NewFetcher(Options{BaseURL: srv.URL})
	_, err := f.Fetch(context.Background())

	var serr *StatusError
	if !errors.As(err, &serr) {
		t.Fatalf("error = %v, want StatusError", err)
	}
	if serr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", serr.StatusCode)
	}
	if !strings.Contains(serr.Body, "no token") {
		t.Fatalf("body excerpt missing: %q", serr.Body)
	}
}

func TestFetchDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"providers": [`))
	}))
	defer srv.Close()

	f := NewFetcher(Options{BaseURL: srv.URL})
	_, err := f.Fetch(context.Background())

	var derr *DecodeError
	if !errors.As(err, &derr) {
		t.Fatalf("error = %v, want DecodeError", err)
	}
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(fullBody))
	}))
	defer srv.Close()

	f := NewFetcher(Options{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	_, err := f.Fetch(context.Background())

	var terr *TimeoutError
	if !errors.As(err, &terr) {
		t.Fatalf("error = %v, want TimeoutError", err)
	}
}

func TestFetchSplit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/providers":
			_, _ = w.Write([]byte(`[{"id":"openai","api_key":{"type":"literal","value":"sk-1"}}]`))
		case "/models":
			_, _ = w.Write([]byte(`[{"id":"gpt4","provider":"openai"}]`))
		case "/pipelines":
			_, _ = w.Write([]byte(`[{"id":"p1","models":["gpt4"]}]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(Options{BaseURL: srv.URL, Split: true})
	doc, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(doc.Providers) != 1 || len(doc.Models) != 1 || len(doc.Pipelines) != 1 {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestFetchSplitCollectsAllFailures(t *testing.T) {
	// Two of the three endpoints fail; both must appear in the error, not
	// just the first.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/providers":
			http.Error(w, "boom", http.StatusInternalServerError)
		case "/models":
			_, _ = w.Write([]byte(`[]`))
		case "/pipelines":
			http.Error(w, "gone", http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	f := NewFetcher(Options{BaseURL: srv.URL, Split: true})
	_, err := f.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}

	msg := err.Error()
	if !strings.Contains(msg, "providers") || !strings.Contains(msg, "pipelines") {
		t.Fatalf("combined error missing an endpoint: %v", msg)
	}
	if !strings.Contains(msg, "500") || !strings.Contains(msg, "502") {
		t.Fatalf("combined error missing a status: %v", msg)
	}
}
