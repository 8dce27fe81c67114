// internal/settings/loader.go
//
// Settings loader.
//
/*
Context
--------
`Load()` builds one immutable `Settings` struct from three layers (highest
precedence last):

  1. Optional `<root>/conf/.env` dotenv file.
  2. Optional `conf/gateway.yaml`.
  3. Environment variables prefixed `CONFSYNC_`, where `__` maps to “.”
     (e.g., `CONFSYNC_REMOTE__BASE_URL → remote.base_url`).

After merging, the tree is unmarshalled into strongly-typed structs,
defaulted, and validated.  Everything is read exactly once; nothing in this
package participates in hot reload.

Instrumentation
---------------
  • DEBUG spans — root discovery, YAML read, env overlay.
  • ERROR spans — YAML parse, env overlay, unmarshal, validation failures.
  • INFO  span  — final “settings loaded” with key highlights.
  • Logs use the global *sugared* logger (`zap.S()`) so early boot issues
    surface even before the file logger is installed (bootstrap console).

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/gateway.yaml`;
    this lets `go run ./cmd/gateway` work from any sub-directory.
  • Oxford commas, two spaces after periods.
*/
package settings

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// Defaults applied after unmarshalling.  The endpoint-path defaults live in
// remote.NewFetcher so that "explicitly set" stays detectable here.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultPollInterval = 30 * time.Second
	DefaultListenAddr   = ":8080"
)

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves CONFSYNC_ROOT or climbs directories until
// conf/gateway.yaml is found.  Falls back to the working directory.
func rootDir() string {
	if r := os.Getenv("CONFSYNC_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "gateway.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, defaults, validates, and returns
// the Settings aggregate.
func Load() (*Settings, error) {
	root := rootDir()
	zap.S().Debugw("settings root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	// YAML layer is optional; env alone is a complete configuration.
	yamlPath := filepath.Join(root, "conf", "gateway.yaml")
	if _, err := os.Stat(yamlPath); err == nil {
		if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
			zap.S().Errorw("settings yaml load failed", "file", yamlPath, "err", err)
			return nil, err
		}
		zap.S().Debugw("settings yaml loaded", "file", yamlPath)
	}

	// Env overrides: CONFSYNC_REMOTE__BASE_URL → remote.base_url
	if err := k.Load(env.Provider("CONFSYNC_", ".", func(s string) string {
		return strings.ToLower(strings.ReplaceAll(
			strings.TrimPrefix(s, "CONFSYNC_"), "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("settings env overlay failed", "err", err)
		return nil, err
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		zap.S().Errorw("settings unmarshal failed", "err", err)
		return nil, err
	}

	applyDefaults(&s)
	if err := validateStruct(&s); err != nil {
		zap.S().Errorw("settings validation failed", "err", err)
		return nil, err
	}

	zap.S().Infow("settings loaded",
		"base_url", s.Remote.BaseURL,
		"split_mode", s.Remote.SplitMode(),
		"poll_interval", s.Remote.PollInterval,
		"listen_addr", s.HTTP.ListenAddr,
	)
	return &s, nil
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func applyDefaults(s *Settings) {
	if s.Remote.Timeout <= 0 {
		s.Remote.Timeout = DefaultTimeout
	}
	if s.Remote.PollInterval <= 0 {
		s.Remote.PollInterval = DefaultPollInterval
	}
	if s.HTTP.ListenAddr == "" {
		s.HTTP.ListenAddr = DefaultListenAddr
	}
}
