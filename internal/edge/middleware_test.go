// internal/edge/middleware_test.go
//
// Edge rewrite tests over a mocked control-plane database.
//
// Context
// -------
// Each test classifies a Host header, loads the tenant through a fresh
// cache, and asserts the internal path the downstream handler observes.
// The external URL never changes; what is under test is the rewrite.

package edge

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/siloserve/siloserve/internal/site"
	"github.com/siloserve/siloserve/internal/tenant"
)

var siteCols = []string{
	"id", "org_id", "slug", "custom_domain", "custom_domain_verified",
	"status", "status_message", "status_updated_at", "website_type",
	"build_tasks_done", "build_tasks_total", "build_current_task",
	"build_started_at", "deleted_at", "created_at", "updated_at",
}

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

func siteRow(id int, slug, status, websiteType string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(siteCols).
		AddRow(id, 1, slug, nil, false, status, nil, now, websiteType,
			0, 0, "", nil, nil, now, now)
}

// expectSubdomainLoad queues the slug lookup plus the empty settings
// fetch that every tenant load performs.
func expectSubdomainLoad(mock sqlmock.Sqlmock, slug string, rows *sqlmock.Rows) {
	mock.ExpectQuery(`WHERE\s+slug`).WithArgs(slug).WillReturnRows(rows)
	mock.ExpectQuery(`FROM\s+site_setting`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}))
}

func newEdge(db *sqlx.DB) *Middleware {
	return &Middleware{
		Cache: tenant.New(db, time.Minute, time.Hour, 16),
		Rules: tenant.NewHostRules("platform.com", "preview.platform.app",
			[]string{"www", "admin", "app", "api"}),
	}
}

// serve runs one request through the middleware and returns the path the
// downstream handler saw.
func serve(t *testing.T, m *Middleware, url string) string {
	t.Helper()
	var got string
	next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = r.URL.Path
	})
	req := httptest.NewRequest(http.MethodGet, url, nil)
	m.Handler(next).ServeHTTP(httptest.NewRecorder(), req)
	return got
}

func TestRewriteActiveSingleLocation(t *testing.T) {
	db, mock := newMockDB(t)
	expectSubdomainLoad(mock, "acme", siteRow(1, "acme", site.StatusActive, site.TypeSingleLocation))

	got := serve(t, newEdge(db), "http://acme.platform.com/plumbing")
	if want := "/sites/acme/plumbing"; got != want {
		t.Fatalf("rewrote to %q, want %q", got, want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestRewriteRootPath(t *testing.T) {
	db, mock := newMockDB(t)
	expectSubdomainLoad(mock, "acme", siteRow(1, "acme", site.StatusActive, site.TypeSingleLocation))

	if got := serve(t, newEdge(db), "http://acme.platform.com/"); got != "/sites/acme/" {
		t.Fatalf("rewrote to %q, want /sites/acme/", got)
	}
}

// Non-active statuses gate every sub-path to the matching status page.
func TestRewriteStatusPages(t *testing.T) {
	cases := []struct{ status, seg string }{
		{site.StatusBuilding, "coming-soon"},
		{site.StatusPaused, "maintenance"},
		{site.StatusFailed, "build-error"},
		{site.StatusSuspended, "suspended"},
	}
	for _, c := range cases {
		db, mock := newMockDB(t)
		expectSubdomainLoad(mock, "acme", siteRow(1, "acme", c.status, site.TypeSingleLocation))

		got := serve(t, newEdge(db), "http://acme.platform.com/plumbing/drain-cleaning")
		if want := "/sites/acme/" + c.seg; got != want {
			t.Errorf("status %s rewrote to %q, want %q", c.status, got, want)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	}
}

func TestRewriteLocationPrefix(t *testing.T) {
	db, mock := newMockDB(t)
	expectSubdomainLoad(mock, "bigco", siteRow(2, "bigco", site.StatusActive, site.TypeMultiLocation))
	mock.ExpectQuery(`FROM\s+location`).WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"slug"}).AddRow("austin").AddRow("dallas"))

	got := serve(t, newEdge(db), "http://bigco.platform.com/austin/plumbing")
	if want := "/sites/bigco/locations/austin/plumbing"; got != want {
		t.Fatalf("rewrote to %q, want %q", got, want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// A first segment that is not a known location addresses the site
// directly; the resolver downstream decides whether it exists.
func TestRewriteUnknownFirstSegmentOnMultiLocation(t *testing.T) {
	db, mock := newMockDB(t)
	expectSubdomainLoad(mock, "bigco", siteRow(2, "bigco", site.StatusActive, site.TypeMultiLocation))
	mock.ExpectQuery(`FROM\s+location`).WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"slug"}).AddRow("austin").AddRow("dallas"))

	got := serve(t, newEdge(db), "http://bigco.platform.com/about")
	if want := "/sites/bigco/about"; got != want {
		t.Fatalf("rewrote to %q, want %q", got, want)
	}
}

func TestUnknownSubdomainRewritesDomainNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`WHERE\s+slug`).WithArgs("nosuch").
		WillReturnRows(sqlmock.NewRows(siteCols))

	got := serve(t, newEdge(db), "http://nosuch.platform.com/anything")
	if got != DomainNotFoundPath {
		t.Fatalf("rewrote to %q, want %q", got, DomainNotFoundPath)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// Unverified custom domains are filtered in SQL, so the lookup comes back
// empty and the request lands on domain-not-found.
func TestUnverifiedCustomDomainFailsClosed(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`WHERE\s+custom_domain`).WithArgs("unverifiedhvac.com").
		WillReturnRows(sqlmock.NewRows(siteCols))

	got := serve(t, newEdge(db), "http://unverifiedhvac.com/")
	if got != DomainNotFoundPath {
		t.Fatalf("rewrote to %q, want %q", got, DomainNotFoundPath)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestVerifiedCustomDomainServesTenant(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now()
	dom := "acmehvac.com"
	mock.ExpectQuery(`WHERE\s+custom_domain`).WithArgs(dom).
		WillReturnRows(sqlmock.NewRows(siteCols).
			AddRow(1, 1, "acme", dom, true, site.StatusActive, nil, now,
				site.TypeSingleLocation, 0, 0, "", nil, nil, now, now))
	mock.ExpectQuery(`FROM\s+site_setting`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "value"}))

	got := serve(t, newEdge(db), "http://acmehvac.com/plumbing")
	if want := "/sites/acme/plumbing"; got != want {
		t.Fatalf("rewrote to %q, want %q", got, want)
	}
}

// Platform-owned hosts and internal paths pass through untouched, with no
// database traffic.
func TestPassthroughs(t *testing.T) {
	for _, url := range []string{
		"http://platform.com/",
		"http://www.platform.com/pricing",
		"http://acme.platform.com/api/sites/acme/leads",
		"http://acme.platform.com/sites/acme/plumbing",
		"http://acme.platform.com/metrics",
	} {
		db, mock := newMockDB(t)
		req := httptest.NewRequest(http.MethodGet, url, nil)
		original := req.URL.Path

		if got := serve(t, newEdge(db), url); got != original {
			t.Errorf("%s: path changed to %q", url, got)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("%s: unexpected DB traffic: %v", url, err)
		}
	}
}

// A second request within the fresh TTL is served from the cache.
func TestTenantIsCachedAcrossRequests(t *testing.T) {
	db, mock := newMockDB(t)
	expectSubdomainLoad(mock, "acme", siteRow(1, "acme", site.StatusActive, site.TypeSingleLocation))
	m := newEdge(db)

	serve(t, m, "http://acme.platform.com/")
	got := serve(t, m, "http://acme.platform.com/about")
	if want := "/sites/acme/about"; got != want {
		t.Fatalf("second request rewrote to %q, want %q", got, want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
