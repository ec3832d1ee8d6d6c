package execdata

import (
	"strings"
	"testing"

	"golang.org/x/tools/cover"
)

func parseProfiles(t *testing.T, text string) []*cover.Profile {
	t.Helper()
	profiles, err := cover.ParseProfilesFromReader(strings.NewReader(text))
	if err != nil {
		t.Fatalf("failed to parse profile fixture: %v", err)
	}
	return profiles
}

func addAll(t *testing.T, s *Store, text string, session int) {
	t.Helper()
	for _, p := range parseProfiles(t, text) {
		if err := s.Add(p, session); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
}

const setProfile = `mode: set
example.com/demo/pkg/calc.go:3.25,5.2 1 1
example.com/demo/pkg/calc.go:7.25,9.2 1 0
`

func TestAddMergesSetMode(t *testing.T) {
	store := NewStore()
	addAll(t, store, setProfile, 0)
	addAll(t, store, `mode: set
example.com/demo/pkg/calc.go:3.25,5.2 1 0
example.com/demo/pkg/calc.go:7.25,9.2 1 1
`, 1)

	u := store.Lookup("pkg/calc.go")
	if u == nil {
		t.Fatal("expected unit for pkg/calc.go")
	}
	if u.Blocks[0].Count != 1 || u.Blocks[1].Count != 1 {
		t.Errorf("set-mode merge should OR counts, got %d and %d", u.Blocks[0].Count, u.Blocks[1].Count)
	}
}

func TestAddMergesCountMode(t *testing.T) {
	store := NewStore()
	countProfile := `mode: count
example.com/demo/pkg/calc.go:3.25,5.2 1 4
`
	addAll(t, store, countProfile, 0)
	addAll(t, store, countProfile, 1)

	u := store.Lookup("pkg/calc.go")
	if u == nil {
		t.Fatal("expected unit for pkg/calc.go")
	}
	if u.Blocks[0].Count != 8 {
		t.Errorf("count-mode merge should sum counts, got %d", u.Blocks[0].Count)
	}
}

func TestIdempotentSetMerge(t *testing.T) {
	once := NewStore()
	addAll(t, once, setProfile, 0)
	twice := NewStore()
	addAll(t, twice, setProfile, 0)
	addAll(t, twice, setProfile, 1)

	a := once.Lookup("pkg/calc.go")
	b := twice.Lookup("pkg/calc.go")
	if a == nil || b == nil {
		t.Fatal("expected units in both stores")
	}
	for i := range a.Blocks {
		if a.Blocks[i].Count != b.Blocks[i].Count {
			t.Errorf("block %d: loading twice changed count %d -> %d", i, a.Blocks[i].Count, b.Blocks[i].Count)
		}
	}
}

func TestDisjointUnitsUnion(t *testing.T) {
	store := NewStore()
	addAll(t, store, setProfile, 0)
	addAll(t, store, `mode: set
example.com/demo/util/strings.go:10.1,12.2 2 1
`, 1)

	if store.Len() != 2 {
		t.Fatalf("expected union of 2 unit paths, got %d", store.Len())
	}
	if store.Lookup("pkg/calc.go") == nil {
		t.Error("first input's unit lost after loading second input")
	}
	if store.Lookup("util/strings.go") == nil {
		t.Error("second input's unit missing")
	}
}

func TestModeMismatch(t *testing.T) {
	store := NewStore()
	addAll(t, store, setProfile, 0)

	p := parseProfiles(t, `mode: count
example.com/demo/pkg/calc.go:3.25,5.2 1 4
`)[0]
	if err := store.Add(p, 1); err == nil {
		t.Error("expected error merging count profile into set store")
	}
}

func TestAtomicMergesIntoCount(t *testing.T) {
	store := NewStore()
	addAll(t, store, `mode: count
example.com/demo/pkg/calc.go:3.25,5.2 1 2
`, 0)
	addAll(t, store, `mode: atomic
example.com/demo/pkg/calc.go:3.25,5.2 1 3
`, 1)

	u := store.Lookup("pkg/calc.go")
	if u.Blocks[0].Count != 5 {
		t.Errorf("atomic should merge additively into count store, got %d", u.Blocks[0].Count)
	}
}

func TestFingerprint(t *testing.T) {
	a := parseProfiles(t, setProfile)[0]
	b := parseProfiles(t, setProfile)[0]
	if Fingerprint(a.Blocks) != Fingerprint(b.Blocks) {
		t.Error("identical geometry should yield identical fingerprints")
	}

	c := parseProfiles(t, `mode: set
example.com/demo/pkg/calc.go:3.25,6.2 1 1
`)[0]
	if Fingerprint(a.Blocks) == Fingerprint(c.Blocks) {
		t.Error("differing geometry should yield differing fingerprints")
	}
}

func TestRecompiledUnitLatestVariantWins(t *testing.T) {
	store := NewStore()
	addAll(t, store, setProfile, 0)
	// Same path recorded again after a recompile that changed the
	// block layout.
	addAll(t, store, `mode: set
example.com/demo/pkg/calc.go:3.25,6.2 2 1
`, 1)

	u := store.Lookup("pkg/calc.go")
	if u == nil {
		t.Fatal("expected unit for pkg/calc.go")
	}
	if len(u.Blocks) != 1 || u.Blocks[0].NumStmt != 2 {
		t.Errorf("expected the most recently recorded variant, got blocks %+v", u.Blocks)
	}
	if store.Len() != 1 {
		t.Errorf("variants share one path entry, got %d paths", store.Len())
	}
}

func TestLookupPrefersLongestPathMatch(t *testing.T) {
	store := NewStore()
	addAll(t, store, `mode: set
example.com/demo/pkg/calc.go:3.25,5.2 1 1
other.org/vendored/demo/pkg/calc.go:3.25,5.2 1 0
`, 0)

	u := store.Lookup("demo/pkg/calc.go")
	if u == nil {
		t.Fatal("expected a match")
	}
	if u.Path != "other.org/vendored/demo/pkg/calc.go" {
		t.Errorf("expected longest recorded path to win, got %s", u.Path)
	}

	if store.Lookup("nosuch/file.go") != nil {
		t.Error("expected nil for unmatched path")
	}
}
