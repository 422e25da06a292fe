// Package metrics holds Prometheus instruments that are used across the
// platform.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ActiveTenants = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_tenants",
			Help: "Number of tenants currently loaded in memory.",
		})

	TenantLoadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_load_total",
			Help: "Cumulative number of tenants successfully loaded.",
		})

	TenantLoadErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_load_errors_total",
			Help: "Cumulative number of tenant load errors.",
		})

	TenantEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tenant_evict_total",
			Help: "Cumulative number of tenants evicted from the cache.",
		})

	// EdgeRewriteTotal counts edge-router outcomes.  Labels: outcome ∈
	// {content, location, status_page, domain_not_found, passthrough}.
	EdgeRewriteTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edge_rewrite_total",
			Help: "Edge middleware rewrite decisions by outcome.",
		}, []string{"outcome"})

	// StatusPageTotal counts status-page serves per lifecycle status.
	StatusPageTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "status_page_total",
			Help: "Status-page rewrites by site lifecycle status.",
		}, []string{"status"})

	LeadSubmitTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lead_submit_total",
			Help: "Cumulative number of accepted lead submissions.",
		})

	LeadRejectTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "lead_reject_total",
			Help: "Lead submissions rejected (inactive site or invalid payload).",
		})

	RevalidateTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "revalidate_paths_total",
			Help: "Cumulative number of canonical paths invalidated.",
		})
)

func init() {
	prometheus.MustRegister(
		ActiveTenants,
		TenantLoadTotal,
		TenantLoadErrorsTotal,
		TenantEvictTotal,
		EdgeRewriteTotal,
		StatusPageTotal,
		LeadSubmitTotal,
		LeadRejectTotal,
		RevalidateTotal,
	)
}
