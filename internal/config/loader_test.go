// internal/config/loader_test.go
//
// Loader tests against a throwaway config root.
//
// Context
// -------
// Each test writes a minimal conf/global.yaml into a temp directory and
// points SILO_ROOT at it, so root discovery, the YAML layer, and the env
// overlay are all exercised without touching the real tree.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testYAML = `http:
  listen_addr: "0.0.0.0:8080"

platform:
  root_domain: "platform.com"
  preview_domain: "preview.platform.app"

database:
  dsn: "silo:%s@tcp(127.0.0.1:3306)/siloserve?parseTime=true"

tenant:
  fresh_ttl: 45s

redis:
  addr: "127.0.0.1:6379"

revalidate:
  token: "test-token"
`

func writeTestRoot(t *testing.T) {
	t.Helper()
	root := t.TempDir()
	confDir := filepath.Join(root, "conf")
	if err := os.MkdirAll(confDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(confDir, "global.yaml"), []byte(testYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SILO_ROOT", root)
}

func TestLoadAppliesYAMLAndDefaults(t *testing.T) {
	writeTestRoot(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Platform.RootDomain != "platform.com" {
		t.Errorf("root_domain = %q, want platform.com", cfg.Platform.RootDomain)
	}
	if cfg.Tenant.FreshTTL != 45*time.Second {
		t.Errorf("fresh_ttl = %s, want 45s", cfg.Tenant.FreshTTL)
	}

	// Unset values fall back to the baked-in defaults.
	if got := cfg.Platform.ReservedSubdomains; len(got) != 4 || got[0] != "www" {
		t.Errorf("reserved subdomains = %v, want the default set", got)
	}
	if cfg.Tenant.IdleTTL != defaultIdleTTL {
		t.Errorf("idle_ttl = %s, want default %s", cfg.Tenant.IdleTTL, defaultIdleTTL)
	}
	if cfg.Build.StalenessWindow != defaultStalenessWindow {
		t.Errorf("staleness_window = %s, want default %s",
			cfg.Build.StalenessWindow, defaultStalenessWindow)
	}
}

// SILO_-prefixed variables must override YAML: the provider hands the
// callback the full variable name, so the prefix has to be stripped before
// the `__` → `.` mapping or the override lands under a dead key.
func TestLoadEnvOverrideApplies(t *testing.T) {
	writeTestRoot(t)
	t.Setenv("SILO_PLATFORM__ROOT_DOMAIN", "other.example.com")
	t.Setenv("SILO_HTTP__LISTEN_ADDR", "127.0.0.1:9090")
	t.Setenv("SILO_REVALIDATE__TOKEN", "env-token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Platform.RootDomain != "other.example.com" {
		t.Errorf("root_domain = %q, want the env override", cfg.Platform.RootDomain)
	}
	if cfg.HTTP.ListenAddr != "127.0.0.1:9090" {
		t.Errorf("listen_addr = %q, want the env override", cfg.HTTP.ListenAddr)
	}
	if cfg.Revalidate.Token != "env-token" {
		t.Errorf("token = %q, want the env override", cfg.Revalidate.Token)
	}
	// YAML values without an override survive the overlay untouched.
	if cfg.Platform.PreviewDomain != "preview.platform.app" {
		t.Errorf("preview_domain = %q, want the YAML value", cfg.Platform.PreviewDomain)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	writeTestRoot(t)
	t.Setenv("SILO_HTTP__LISTEN_ADDR", "not-a-listen-addr")

	if _, err := Load(); err == nil {
		t.Fatal("expected a validation error for a malformed listen_addr")
	}
}
