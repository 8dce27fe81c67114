// cmd/gateway/main.go
//
// Configuration-sync entry point.
//
// Startup life-cycle
// ------------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Load settings (koanf overlay: .env → conf/gateway.yaml → CONFSYNC_*).
//
//  4. Build the secret resolver; register the Vault backend when enabled.
//
//  5. Pick the document source: YAML file or MySQL fallback when
//     configured, otherwise the HTTP authority in full or split mode.
//
//  6. live.Integrate – synchronous first load (fatal on failure), then the
//     background poller.
//
//  7. Serve /healthz, /status, and Prometheus /metrics until a shutdown
//     signal arrives.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanizio/confsync/internal/live"
	"github.com/yanizio/confsync/internal/logger"
	"github.com/yanizio/confsync/internal/remote"
	"github.com/yanizio/confsync/internal/secret"
	"github.com/yanizio/confsync/internal/settings"
	"github.com/yanizio/confsync/internal/source"
	"github.com/yanizio/confsync/internal/vault"
)

const serverEnvPath = "/usr/local/etc/confsync/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	rootDir, _ := os.Getwd()
	logOut, err := logger.New(rootDir, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//
	// ── 1.  Settings ────────────────────────────────────────────────────
	//
	cfg, err := settings.Load()
	if err != nil {
		logOut.Fatalf("load settings: %v", err)
	}

	//
	// ── 2.  Secret resolver (Vault backend optional) ────────────────────
	//
	var opts []secret.Option
	if cfg.Vault.Enabled {
		vcli, err := vault.New(ctx, logOut.Infof)
		if err != nil {
			logOut.Fatalf("vault client: %v", err)
		}
		opts = append(opts, secret.WithBackend(vault.NewBackend(vcli)))
		logOut.Infow("vault secret backend registered")
	}
	resolver := secret.NewResolver(opts...)

	//
	// ── 3.  Document source: file, database, or HTTP authority ─────────
	//
	var src live.Source
	switch {
	case cfg.Fallback.File != "":
		src = source.NewFile(cfg.Fallback.File)
		logOut.Infow("using file config source", "path", cfg.Fallback.File)
	case cfg.Fallback.DSN != "":
		db, err := source.Open(cfg.Fallback.DSN)
		if err != nil {
			logOut.Fatalf("connect config DB: %v", err)
		}
		defer db.Close()
		src = db
		logOut.Infow("using database config source")
	default:
		src = remote.NewFetcher(remote.Options{
			BaseURL:       cfg.Remote.BaseURL,
			AuthHeader:    cfg.Remote.AuthHeader,
			AuthValue:     cfg.Remote.AuthValue,
			Timeout:       cfg.Remote.Timeout,
			Split:         cfg.Remote.SplitMode(),
			FullPath:      cfg.Remote.FullPath,
			ProvidersPath: cfg.Remote.ProvidersPath,
			ModelsPath:    cfg.Remote.ModelsPath,
			PipelinesPath: cfg.Remote.PipelinesPath,
		})
		logOut.Infow("using HTTP config source",
			"base_url", cfg.Remote.BaseURL,
			"split_mode", cfg.Remote.SplitMode(),
		)
	}

	//
	// ── 4.  Bootstrap: synchronous first load, then background poller ──
	//
	svc, err := live.Integrate(ctx, src, resolver, cfg.Remote.PollInterval, logOut)
	if err != nil {
		// Serving with no configuration at all is worse than not serving.
		logOut.Fatalf("bootstrap: %v", err)
	}

	//
	// ── 5.  Status and metrics endpoints ────────────────────────────────
	//
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		providers, models, pipelines := svc.Holder.Current().Counts()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"version":   svc.Holder.Version(),
			"providers": providers,
			"models":    models,
			"pipelines": pipelines,
			"poll":      svc.State.Snapshot(),
		})
	})
	r.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              cfg.HTTP.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()

	logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logOut.Fatalf("http server: %v", err)
	}
	logOut.Infow("shutdown complete")
}
