// internal/config/loader.go
//
// Configuration loader and hot-reloader.
//
/*
Context
--------
`Load()` builds one immutable `Config` struct from three layers (highest
precedence last):

  1. Optional `.env` file — `<root>/conf/.env`.
  2. `conf/global.yaml`.
  3. Environment variables prefixed `SILO_`, where `__` maps to “.”
     (e.g., `SILO_PLATFORM__ROOT_DOMAIN → platform.root_domain`).

After merging, the tree is unmarshalled into strongly-typed structs,
defaulted, validated, enriched with the runtime root path, and cached in
an `atomic.Pointer` for lock-free reads.  `Reload()` simply calls `Load()`
again and swaps the pointer.

Defaults applied post-unmarshal keep the YAML surface small: reserved
subdomains, cache TTLs, and the build staleness window all have sane
values out of the box.

Notes
-----
  • `rootDir()` climbs the cwd tree until it finds `conf/global.yaml`;
    this lets `go run ./cmd/web` work from any sub-directory.
  • `vault:` references inside Database.Password and Revalidate.Token are
    resolved by cmd/web after Load(), not here.
  • Oxford commas, two spaces after periods.
*/
package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	koanf "github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

var current atomic.Pointer[Config]

// Baked-in fallbacks; every one can be overridden in YAML or env.
const (
	defaultFreshTTL        = 30 * time.Second
	defaultIdleTTL         = 30 * time.Minute
	defaultMaxEntries      = 500
	defaultStalenessWindow = 5 * time.Minute
)

var defaultReserved = []string{"www", "admin", "app", "api"}

/*──────────────────────────── root discovery ───────────────────────────────*/

// rootDir resolves SILO_ROOT or climbs directories until conf/global.yaml
// is found.  Falls back to the executable heuristic for production layout.
func rootDir() string {
	if r := os.Getenv("SILO_ROOT"); r != "" {
		return r
	}

	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "conf", "global.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir { // reached filesystem root
			break
		}
		dir = parent
	}

	exe, _ := os.Executable()
	if filepath.Base(filepath.Dir(exe)) == "bin" {
		return filepath.Dir(filepath.Dir(exe))
	}
	return wd
}

/*─────────────────────────────── loader ───────────────────────────────────*/

// Load reads .env, YAML, env overrides, validates, and caches Config.
func Load() (*Config, error) {
	root := rootDir()
	zap.S().Debugw("config root resolved", "root", root)

	// .env (optional, no error if missing)
	_ = godotenv.Load(filepath.Join(root, "conf", ".env"))

	k := koanf.New(".")

	yamlPath := filepath.Join(root, "conf", "global.yaml")
	if err := k.Load(file.Provider(yamlPath), yaml.Parser()); err != nil {
		zap.S().Errorw("config yaml load failed", "file", yamlPath, "err", err)
		return nil, err
	}

	// Env overrides: SILO_PLATFORM__ROOT_DOMAIN → platform.root_domain.
	// The callback receives the full variable name, so the prefix must be
	// stripped here or the key lands under "silo_…" and never unmarshals.
	if err := k.Load(env.Provider("SILO_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "SILO_")
		return strings.ToLower(strings.ReplaceAll(s, "__", "."))
	}), nil); err != nil {
		zap.S().Errorw("config env overlay failed", "err", err)
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		zap.S().Errorw("config unmarshal failed", "err", err)
		return nil, err
	}

	applyDefaults(&cfg)
	cfg.Paths.Root = root
	if err := validateStruct(&cfg); err != nil {
		zap.S().Errorw("config validation failed", "err", err)
		return nil, err
	}

	current.Store(&cfg)
	zap.S().Infow("config loaded",
		"listen_addr", cfg.HTTP.ListenAddr,
		"root_domain", cfg.Platform.RootDomain,
		"reserved", cfg.Platform.ReservedSubdomains,
		"root", cfg.Paths.Root,
	)
	return &cfg, nil
}

// applyDefaults fills zero values that have sensible platform-wide
// fallbacks.  Validation runs after, so required fields still fail fast.
func applyDefaults(cfg *Config) {
	if len(cfg.Platform.ReservedSubdomains) == 0 {
		cfg.Platform.ReservedSubdomains = defaultReserved
	}
	if cfg.Tenant.FreshTTL <= 0 {
		cfg.Tenant.FreshTTL = defaultFreshTTL
	}
	if cfg.Tenant.IdleTTL <= 0 {
		cfg.Tenant.IdleTTL = defaultIdleTTL
	}
	if cfg.Tenant.MaxEntries <= 0 {
		cfg.Tenant.MaxEntries = defaultMaxEntries
	}
	if cfg.Build.StalenessWindow <= 0 {
		cfg.Build.StalenessWindow = defaultStalenessWindow
	}
}

/*──────────────────────────── helpers ─────────────────────────────────────*/

func Get() *Config  { return current.Load() }
func Reload() error { _, err := Load(); return err }
