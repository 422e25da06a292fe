// internal/routing/paths_test.go
//
// Unit-tests for canonical path construction.
//
// Context
// -------
// The invariants that matter:
//
//   • Single-location topologies never emit a location prefix and their
//     home is exactly "/".
//   • Multi-location topologies prefix every path with /{loc}.
//   • The primary category page IS the home page, always.
//   • Services of the primary category are top-level; services of a
//     secondary category nest under it.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package routing

import (
	"strings"
	"testing"
)

var (
	single = Topology{}
	austin = Topology{MultiLocation: true, LocationSlug: "austin"}
)

func TestHome(t *testing.T) {
	if got := Home(single); got != "/" {
		t.Fatalf("single home = %q, want /", got)
	}
	if got := Home(austin); got != "/austin" {
		t.Fatalf("multi home = %q, want /austin", got)
	}
}

func TestPrimaryCategoryAliasesHome(t *testing.T) {
	for _, topo := range []Topology{single, austin} {
		if got, want := Category(topo, "hvac-repair", true), Home(topo); got != want {
			t.Fatalf("primary category path = %q, want home %q", got, want)
		}
	}
}

func TestCategoryAndServicePaths(t *testing.T) {
	cases := []struct {
		name string
		got  string
		want string
	}{
		{"secondary category, single", Category(single, "plumbing", false), "/plumbing"},
		{"secondary category, multi", Category(austin, "plumbing", false), "/austin/plumbing"},
		{"primary-category service, single", Service(single, "hvac-repair", true, "ac-repair"), "/ac-repair"},
		{"primary-category service, multi", Service(austin, "hvac-repair", true, "ac-repair"), "/austin/ac-repair"},
		{"nested service, single", Service(single, "plumbing", false, "drain-cleaning"), "/plumbing/drain-cleaning"},
		{"nested service, multi", Service(austin, "plumbing", false, "drain-cleaning"), "/austin/plumbing/drain-cleaning"},
		{"area index", AreaIndex(single), "/areas"},
		{"area", Area(austin, "round-rock"), "/austin/areas/round-rock"},
		{"neighborhood index", NeighborhoodIndex(austin), "/austin/neighborhoods"},
		{"neighborhood", Neighborhood(single, "downtown"), "/neighborhoods/downtown"},
		{"static about", Static(single, PageAbout), "/about"},
		{"static contact, multi", Static(austin, PageContact), "/austin/contact"},
		{"work detail", WorkDetail(austin, "kitchen-remodel"), "/austin/work/kitchen-remodel"},
	}
	for _, c := range cases {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.name, c.got, c.want)
		}
	}
}

// Every multi-location path must start with the location prefix, and no
// single-location path may contain it.
func TestLocationPrefixProperty(t *testing.T) {
	multiPaths := []string{
		Home(austin),
		Category(austin, "plumbing", false),
		Service(austin, "plumbing", false, "drain-cleaning"),
		Area(austin, "x"),
		AreaIndex(austin),
		Neighborhood(austin, "x"),
		NeighborhoodIndex(austin),
		Static(austin, PageJobs),
		WorkDetail(austin, "x"),
	}
	for _, p := range multiPaths {
		if p != "/austin" && !strings.HasPrefix(p, "/austin/") {
			t.Errorf("multi-location path %q lacks location prefix", p)
		}
	}

	singlePaths := []string{
		Home(single),
		Category(single, "plumbing", false),
		Service(single, "hvac-repair", true, "ac-repair"),
		Area(single, "x"),
		Static(single, PageAbout),
	}
	for _, p := range singlePaths {
		if strings.HasPrefix(p, "/austin") {
			t.Errorf("single-location path %q carries a location prefix", p)
		}
	}
}

func TestBuildPath(t *testing.T) {
	cases := []struct{ parent, suffix, want string }{
		{"", "", "/"},
		{"", "about", "/about"},
		{"austin", "", "/austin"},
		{"austin", "plumbing", "/austin/plumbing"},
		{"/austin/", "/plumbing/", "/austin/plumbing"},
	}
	for _, c := range cases {
		if got := BuildPath(c.parent, c.suffix); got != c.want {
			t.Errorf("BuildPath(%q, %q) = %q, want %q", c.parent, c.suffix, got, c.want)
		}
	}
}
