// cmd/web/main.go
//
// SiloServe – HTTP entry point.
//
// Request life-cycle
// ------------------
//
//  1. Load config (conf/.env → conf/global.yaml → SILO_ env overrides).
//
//  2. Start daily rotating logger (tees to console when running in a TTY).
//
//  3. Resolve `vault:` secret references (DB password, revalidate token).
//
//  4. Open the control-plane DB and log the active-site count.
//
//  5. Build the tenant cache (lazy-loads each site on first hit, short
//     fresh TTL so status changes propagate quickly).
//
//  6. Wire the chi router:
//
//     • security headers + request-info enrichment
//     • edge middleware – host classify → tenant resolve → internal
//       rewrite (/sites/{slug}[/locations/{loc}]/…) or status page
//     • /metrics                – Prometheus
//     • /api/revalidate         – render-cache invalidation (Redis)
//     • /api/sites/{site}/…     – leads + lifecycle operations
//     • /sites/… and /domain-not-found – page handlers
//
//  7. Wrap with ForceHTTPS when configured and serve with hardened
//     timeouts.
//
// Large comment blocks are framed by blank “//” lines; inline comments
// use a single “//”.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/siloserve/siloserve/internal/config"
	"github.com/siloserve/siloserve/internal/content"
	"github.com/siloserve/siloserve/internal/database"
	"github.com/siloserve/siloserve/internal/edge"
	"github.com/siloserve/siloserve/internal/lead"
	"github.com/siloserve/siloserve/internal/logger"
	"github.com/siloserve/siloserve/internal/middleware"
	"github.com/siloserve/siloserve/internal/pages"
	"github.com/siloserve/siloserve/internal/requestinfo"
	"github.com/siloserve/siloserve/internal/revalidate"
	"github.com/siloserve/siloserve/internal/server"
	"github.com/siloserve/siloserve/internal/site"
	"github.com/siloserve/siloserve/internal/siteapi"
	"github.com/siloserve/siloserve/internal/tenant"
	"github.com/siloserve/siloserve/internal/vault"
)

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func main() {
	ctx := context.Background()

	//
	// ── 1.  Config + logger ─────────────────────────────────────────────
	//
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logOut, err := logger.New(cfg.Paths.Root, runningInTTY())
	if err != nil {
		log.Fatalf("start logger: %v", err)
	}

	//
	// ── 2.  Secret resolution ───────────────────────────────────────────
	//
	dbPassword := cfg.Database.Password
	revalToken := cfg.Revalidate.Token
	if vault.IsRef(dbPassword) || vault.IsRef(revalToken) {
		cli, err := vault.New(ctx)
		if err != nil {
			logOut.Fatalf("vault client: %v", err)
		}
		if dbPassword, err = cli.ResolveRef(ctx, dbPassword); err != nil {
			logOut.Fatalf("resolve db password: %v", err)
		}
		if revalToken, err = cli.ResolveRef(ctx, revalToken); err != nil {
			logOut.Fatalf("resolve revalidate token: %v", err)
		}
	}

	//
	// ── 3.  Control-plane DB connect ────────────────────────────────────
	//
	dsn := cfg.Database.DSN
	if dbPassword != "" {
		// The DSN template carries one %s verb for the password.
		dsn = fmt.Sprintf(cfg.Database.DSN, dbPassword)
	}
	logOut.Infow("connecting to control-plane DB")
	db, err := database.Open(ctx, dsn)
	if err != nil {
		logOut.Fatalf("connect control-plane DB: %v", err)
	}
	defer db.Close()

	// Log active-site count as an early sanity check.
	var active int
	_ = db.Get(&active, `
	    SELECT COUNT(*) FROM site
	    WHERE status = ? AND deleted_at IS NULL`, site.StatusActive)
	logOut.Infow("control-plane DB online", "active_sites", active)

	//
	// ── 4.  Redis (render cache) + optional GeoLite2 ───────────────────
	//
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		// Revalidation degrades; routing does not depend on Redis.
		logOut.Warnw("redis unreachable, revalidation disabled until it returns",
			"addr", cfg.Redis.Addr, "err", err)
	}

	if cfg.Geo.DBPath != "" {
		if err := requestinfo.InitGeo(cfg.Geo.DBPath); err != nil {
			logOut.Warnw("geo database unavailable", "path", cfg.Geo.DBPath, "err", err)
		}
	}

	//
	// ── 5.  Tenant cache + host rules ──────────────────────────────────
	//
	rules := tenant.NewHostRules(
		cfg.Platform.RootDomain,
		cfg.Platform.PreviewDomain,
		cfg.Platform.ReservedSubdomains,
	)
	cache := tenant.New(db, cfg.Tenant.FreshTTL, cfg.Tenant.IdleTTL, cfg.Tenant.MaxEntries)

	//
	// ── 6.  Handlers + router ──────────────────────────────────────────
	//
	pageHandler := &pages.Handler{
		DB:       db,
		Resolver: &content.Resolver{DB: db},
	}
	leadHandler := lead.NewHandler(db)
	lifecycleHandler := &siteapi.Handler{
		DB:        db,
		Lifecycle: &site.Lifecycle{DB: db, Staleness: cfg.Build.StalenessWindow},
		Cache:     cache,
		Rules:     rules,
	}
	revalHandler := &revalidate.Handler{
		Cache: revalidate.NewRenderCache(rdb),
		Token: revalToken,
	}

	edgeMW := &edge.Middleware{Cache: cache, Rules: rules}

	r := chi.NewRouter()
	r.Use(middleware.Security)
	r.Use(requestinfo.Enrich)
	r.Use(edgeMW.Handler)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Mount("/revalidate", revalHandler.Routes())
		api.Route("/sites/{site}", func(sr chi.Router) {
			sr.Mount("/leads", leadHandler.Routes())
			lifecycleHandler.Register(sr)
		})
	})

	r.Mount("/", pageHandler.Routes())

	//
	// ── 7.  Serve ──────────────────────────────────────────────────────
	//
	var handler http.Handler = r
	if cfg.HTTP.ForceHTTPS {
		handler = middleware.ForceHTTPS(cache, rules, handler)
	}

	srv := server.New(cfg.HTTP.ListenAddr, handler)
	logOut.Infow("listening", "addr", cfg.HTTP.ListenAddr)
	if err := srv.ListenAndServe(); err != nil {
		logOut.Fatalf("http server: %v", err)
	}
}
