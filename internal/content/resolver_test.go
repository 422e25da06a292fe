// internal/content/resolver_test.go
//
// Resolver tests over a mocked control-plane database.
//
// Context
// -------
// The fixture is a single-location HVAC contractor: primary category
// "hvac-repair" with service "ac-repair", secondary category "plumbing"
// with service "drain-cleaning".  The cases pin the disambiguation
// precedence for one ambiguous segment and the category-scoped service
// lookup for two segments.

package content

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/siloserve/siloserve/internal/site"
)

var (
	categoryCols = []string{
		"id", "site_id", "gbp_category_id", "slug", "is_primary",
		"sort_order", "created_at", "taxonomy_name", "display_name",
	}
	serviceCols = []string{
		"id", "site_id", "category_id", "slug", "name", "active",
		"sort_order", "created_at",
	}
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

func acmeSite() *site.Record {
	return &site.Record{ID: 1, Slug: "acme", Status: site.StatusActive,
		WebsiteType: site.TypeSingleLocation}
}

// expectCategories queues the category fixture: primary hvac-repair,
// secondary plumbing.
func expectCategories(mock sqlmock.Sqlmock) {
	now := time.Now()
	mock.ExpectQuery(`FROM\s+site_category`).WithArgs(1).
		WillReturnRows(sqlmock.NewRows(categoryCols).
			AddRow(10, 1, 501, "hvac-repair", true, 0, now, "hvac_contractor", "HVAC Repair").
			AddRow(11, 1, 502, "plumbing", false, 1, now, "plumber", "Plumbing"))
}

// expectNoPrimaryService queues an empty result for the primary-category
// service probe that precedes every category match.
func expectNoPrimaryService(mock sqlmock.Sqlmock, slug string) {
	mock.ExpectQuery(`FROM\s+service\s+WHERE`).WithArgs(1, 10, slug).
		WillReturnRows(sqlmock.NewRows(serviceCols))
}

func TestResolveHome(t *testing.T) {
	db, mock := newMockDB(t)
	expectCategories(mock)

	res, err := (&Resolver{DB: db}).Resolve(context.Background(), acmeSite(), nil, nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Kind != KindHome || !res.IsPrimaryCategory {
		t.Fatalf("home resolved to kind %d, primary=%v", res.Kind, res.IsPrimaryCategory)
	}
	if res.Category == nil || res.Category.Slug != "hvac-repair" {
		t.Fatalf("home category = %+v, want hvac-repair", res.Category)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestResolvePrimaryCategoryService(t *testing.T) {
	db, mock := newMockDB(t)
	expectCategories(mock)
	mock.ExpectQuery(`FROM\s+service\s+WHERE`).WithArgs(1, 10, "ac-repair").
		WillReturnRows(sqlmock.NewRows(serviceCols).
			AddRow(100, 1, 10, "ac-repair", "AC Repair", true, 0, time.Now()))

	res, err := (&Resolver{DB: db}).Resolve(context.Background(), acmeSite(), nil, []string{"ac-repair"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Kind != KindService || !res.IsPrimaryCategory {
		t.Fatalf("kind = %d, primary=%v, want primary service", res.Kind, res.IsPrimaryCategory)
	}
	if res.Service == nil || res.Service.Slug != "ac-repair" {
		t.Fatalf("service = %+v", res.Service)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// The primary category's own slug is the home alias, reachable only after
// the service probe misses.
func TestResolvePrimaryCategorySlugAliasesHome(t *testing.T) {
	db, mock := newMockDB(t)
	expectCategories(mock)
	expectNoPrimaryService(mock, "hvac-repair")

	res, err := (&Resolver{DB: db}).Resolve(context.Background(), acmeSite(), nil, []string{"hvac-repair"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Kind != KindHome || !res.IsPrimaryCategory {
		t.Fatalf("kind = %d, primary=%v, want home alias", res.Kind, res.IsPrimaryCategory)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestResolveSecondaryCategory(t *testing.T) {
	db, mock := newMockDB(t)
	expectCategories(mock)
	expectNoPrimaryService(mock, "plumbing")

	res, err := (&Resolver{DB: db}).Resolve(context.Background(), acmeSite(), nil, []string{"plumbing"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Kind != KindCategory || res.IsPrimaryCategory {
		t.Fatalf("kind = %d, primary=%v, want secondary category", res.Kind, res.IsPrimaryCategory)
	}
	if res.Category.ID != 11 {
		t.Fatalf("category id = %d, want 11", res.Category.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// Category matching accepts the taxonomy machine name and the normalized
// display name as alternate spellings.
func TestResolveCategoryAlternateSpellings(t *testing.T) {
	for _, seg := range []string{"plumber", "plumbing"} {
		db, mock := newMockDB(t)
		expectCategories(mock)
		expectNoPrimaryService(mock, seg)

		res, err := (&Resolver{DB: db}).Resolve(context.Background(), acmeSite(), nil, []string{seg})
		if err != nil {
			t.Fatalf("resolve(%q): %v", seg, err)
		}
		if res.Kind != KindCategory || res.Category == nil || res.Category.ID != 11 {
			t.Fatalf("resolve(%q) = kind %d, cat %+v", seg, res.Kind, res.Category)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	}
}

func TestResolveNestedService(t *testing.T) {
	db, mock := newMockDB(t)
	expectCategories(mock)
	mock.ExpectQuery(`FROM\s+service\s+WHERE`).WithArgs(1, 11, "drain-cleaning").
		WillReturnRows(sqlmock.NewRows(serviceCols).
			AddRow(101, 1, 11, "drain-cleaning", "Drain Cleaning", true, 0, time.Now()))

	res, err := (&Resolver{DB: db}).Resolve(context.Background(), acmeSite(), nil,
		[]string{"plumbing", "drain-cleaning"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Kind != KindService || res.IsPrimaryCategory {
		t.Fatalf("kind = %d, primary=%v, want nested service", res.Kind, res.IsPrimaryCategory)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// A secondary category's service is never reachable at top level.
func TestResolveNestedServiceNotAtTopLevel(t *testing.T) {
	db, mock := newMockDB(t)
	expectCategories(mock)
	expectNoPrimaryService(mock, "drain-cleaning")

	res, err := (&Resolver{DB: db}).Resolve(context.Background(), acmeSite(), nil,
		[]string{"drain-cleaning"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Kind != KindNotFound {
		t.Fatalf("kind = %d, want not found", res.Kind)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestResolveStaticAndIndexes(t *testing.T) {
	// No queries: these segments are fixed namespaces.
	cases := []struct {
		seg  string
		kind ResultKind
	}{
		{"about", KindStatic},
		{"contact", KindStatic},
		{"areas", KindAreaIndex},
		{"neighborhoods", KindNeighborhoodIndex},
	}
	for _, c := range cases {
		db, mock := newMockDB(t)
		res, err := (&Resolver{DB: db}).Resolve(context.Background(), acmeSite(), nil, []string{c.seg})
		if err != nil {
			t.Fatalf("resolve(%q): %v", c.seg, err)
		}
		if res.Kind != c.kind {
			t.Errorf("resolve(%q) kind = %d, want %d", c.seg, res.Kind, c.kind)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Error(err)
		}
	}
}

func TestResolveArea(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectQuery(`FROM\s+service_area`).WithArgs(1, "round-rock").
		WillReturnRows(sqlmock.NewRows([]string{"id", "site_id", "slug", "name", "created_at"}).
			AddRow(7, 1, "round-rock", "Round Rock", time.Now()))

	res, err := (&Resolver{DB: db}).Resolve(context.Background(), acmeSite(), nil,
		[]string{"areas", "round-rock"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Kind != KindArea || res.Area == nil || res.Area.Slug != "round-rock" {
		t.Fatalf("kind = %d, area = %+v", res.Kind, res.Area)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// Neighborhood lookups carry the location scope when one is supplied, so
// shared rows (NULL location_id) still match.
func TestResolveNeighborhoodLocationScoped(t *testing.T) {
	db, mock := newMockDB(t)
	locID := uint64(3)
	mock.ExpectQuery(`FROM\s+neighborhood`).WithArgs(1, "downtown", 3).
		WillReturnRows(sqlmock.NewRows([]string{"id", "site_id", "location_id", "slug", "name", "created_at"}).
			AddRow(9, 1, 3, "downtown", "Downtown", time.Now()))

	res, err := (&Resolver{DB: db}).Resolve(context.Background(), acmeSite(), &locID,
		[]string{"neighborhoods", "downtown"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Kind != KindNeighborhood || res.Neighborhood == nil {
		t.Fatalf("kind = %d, neighborhood = %+v", res.Kind, res.Neighborhood)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestResolveTooDeep(t *testing.T) {
	db, mock := newMockDB(t)
	res, err := (&Resolver{DB: db}).Resolve(context.Background(), acmeSite(), nil,
		[]string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if res.Kind != KindNotFound {
		t.Fatalf("kind = %d, want not found", res.Kind)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
