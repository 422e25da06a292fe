// internal/vault/vault.go
//
// Vault client wrapper for SiloServe.
//
// Context
// -------
//   - Concurrency-safe singleton around the HashiCorp Vault Go SDK.
//   - Background token renewal, KV-v2 helpers, and per-key caching.
//   - Config values of the form `vault:<mount>/<path>#<key>` are resolved
//     through ResolveRef at boot, so the rest of the app only ever sees
//     plain strings.
//
// Public workflow
// ---------------
//  1. cli, err := vault.New(ctx)                      // during boot.
//  2. val, err := cli.ResolveRef(ctx, cfgValue)       // per config field.
//
// Environment expectations
// ------------------------
// • VAULT_ADDR   – scheme and host of the Vault server.
// • VAULT_TOKEN  – initial token (falls back to ~/.vault-token).
package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	vault "github.com/hashicorp/vault/api"
	"go.uber.org/zap"
)

// RefPrefix marks a config value as a Vault reference.
const RefPrefix = "vault:"

const renewInterval = 15 * time.Minute

// Client is safe for concurrent use.  Create once at startup.  The zero
// value is invalid; construct with New.
type Client struct {
	api *vault.Client

	cacheMu sync.RWMutex
	cache   map[string]cached // canonical path#key → value + expiry
}

type cached struct {
	val string
	exp time.Time
}

// New constructs a Vault client and starts a background token-renewal
// loop tied to ctx.
func New(ctx context.Context) (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}

	apiCli, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	if tok := os.Getenv("VAULT_TOKEN"); tok != "" {
		apiCli.SetToken(tok)
	}

	c := &Client{
		api:   apiCli,
		cache: make(map[string]cached),
	}
	go c.renewLoop(ctx)
	return c, nil
}

// IsRef reports whether a config value is a `vault:` reference.
func IsRef(val string) bool { return strings.HasPrefix(val, RefPrefix) }

// ResolveRef resolves `vault:<mount>/<path>#<key>` to its secret value.
// Plain strings pass through untouched, so callers may apply it to every
// secret-bearing config field unconditionally.
func (c *Client) ResolveRef(ctx context.Context, val string) (string, error) {
	if !IsRef(val) {
		return val, nil
	}
	ref := strings.TrimPrefix(val, RefPrefix)
	path, key, ok := strings.Cut(ref, "#")
	if !ok {
		return "", fmt.Errorf("vault ref %q: missing #key", val)
	}
	return c.GetKV(ctx, path, key, time.Hour)
}

// GetKV fetches a single key from a KV-v2 secret.  If ttl > 0 the result
// is cached; subsequent callers within the TTL receive the cached copy.
func (c *Client) GetKV(ctx context.Context, secretPath, key string, ttl time.Duration) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("secret path and key must be non-empty")
	}

	canonical := secretPath + "#" + key

	if ttl > 0 {
		c.cacheMu.RLock()
		if cv, ok := c.cache[canonical]; ok && time.Now().Before(cv.exp) {
			c.cacheMu.RUnlock()
			return cv.val, nil
		}
		c.cacheMu.RUnlock()
	}

	mount, rel := splitMount(secretPath)
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}

	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
	}
	sval, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s#%s is not a string", secretPath, key)
	}

	if ttl > 0 {
		c.cacheMu.Lock()
		c.cache[canonical] = cached{val: sval, exp: time.Now().Add(ttl)}
		c.cacheMu.Unlock()
	}
	return sval, nil
}

// splitMount separates "secret/data/path" style input into mount and
// relative path.  The first segment is the mount.
func splitMount(p string) (mount, rel string) {
	mount, rel, ok := strings.Cut(strings.Trim(p, "/"), "/")
	if !ok {
		return mount, ""
	}
	return mount, rel
}

// renewLoop keeps the token alive for the life of the process.  Renewal
// failures are logged and retried on the next tick; a revoked token will
// surface as request errors, which callers already handle.
func (c *Client) renewLoop(ctx context.Context) {
	t := time.NewTicker(renewInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := c.api.Auth().Token().RenewSelfWithContext(ctx, 0); err != nil {
				zap.S().Warnw("vault token renew failed", "err", err)
			}
		}
	}
}
