// internal/config/model.go
//
// Typed configuration model for SiloServe.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from three overlay layers:
//
//   • optional `conf/.env`                    – dotenv values,
//   • `conf/global.yaml`                      – primary static file,
//   • `SILO_`-prefixed environment overrides  – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client after unmarshalling, so handlers only ever see
// plain strings.
//
// The Platform block is the single source of truth for host routing: the
// edge middleware never hardcodes the root domain or the reserved
// subdomain list — both are injected from here so the router stays
// testable without environment coupling.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`—Koanf ignores `yaml` tags
//     unless configured otherwise.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr string `koanf:"listen_addr" validate:"required,hostname_port"`
	ForceHTTPS bool   `koanf:"force_https"`
}

//
// Platform section
//

// Platform describes how inbound hosts map to tenants.  RootDomain is the
// apex under which tenant subdomains live ({slug}.{root_domain});
// PreviewDomain covers platform-internal deploy previews and never
// resolves to a tenant.  ReservedSubdomains are platform surfaces (www,
// admin, app, api) that can never be claimed as a Site slug.
type Platform struct {
	RootDomain         string   `koanf:"root_domain"   validate:"required,fqdn"`
	PreviewDomain      string   `koanf:"preview_domain"`
	ReservedSubdomains []string `koanf:"reserved_subdomains"`
}

//
// Database section
//

// Database holds the control-plane DSN plus its secret.  The DSN template
// stays in YAML so operators can tweak host, port, or flags without
// touching Vault; the password is a `vault:` reference resolved at boot.
type Database struct {
	DSN      string `koanf:"dsn"      validate:"required"`
	Password string `koanf:"password"`
}

//
// Tenant section
//

// Tenant tunes the host→site cache.  FreshTTL bounds how stale a cached
// status may be (status pages are allowed to lag live state by at most
// this window); IdleTTL and MaxEntries bound memory.
type Tenant struct {
	FreshTTL   time.Duration `koanf:"fresh_ttl"`
	IdleTTL    time.Duration `koanf:"idle_ttl"`
	MaxEntries int           `koanf:"max_entries"`
}

//
// Build section
//

// Build governs the content-generation lifecycle.  StalenessWindow is how
// long a `building` status may sit unchanged before the retry operation
// treats the build as dead and permits a forced restart.
type Build struct {
	StalenessWindow time.Duration `koanf:"staleness_window"`
}

//
// Redis section
//

// Redis locates the render-cache store used by the revalidation endpoint.
type Redis struct {
	Addr string `koanf:"addr" validate:"required,hostname_port"`
	DB   int    `koanf:"db"`
}

//
// Revalidate section
//

// Revalidate holds the bearer token accepted by the internal
// cache-invalidation endpoint.  May be a `vault:` reference.
type Revalidate struct {
	Token string `koanf:"token" validate:"required"`
}

//
// Geo section
//

// Geo points at the optional GeoLite2 database used to annotate leads.
// An empty path disables geo lookups; lead capture degrades gracefully.
type Geo struct {
	DBPath string `koanf:"db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime—never set in YAML or env.  The loader
// discovers `Root` (repo root or SILO_ROOT override) so later code can
// build absolute file paths.
type Paths struct {
	Root string // SILO_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP       HTTP       `koanf:"http"`
	Platform   Platform   `koanf:"platform"`
	Database   Database   `koanf:"database"`
	Tenant     Tenant     `koanf:"tenant"`
	Build      Build      `koanf:"build"`
	Redis      Redis      `koanf:"redis"`
	Revalidate Revalidate `koanf:"revalidate"`
	Geo        Geo        `koanf:"geo"`
	Paths      Paths      `koanf:"-"` // not loaded from config files
}
