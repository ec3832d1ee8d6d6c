package execdata

import (
	"os"
	"path/filepath"
	"testing"
)

func writeProfileFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestLoadTextProfile(t *testing.T) {
	tmp := t.TempDir()
	path := writeProfileFile(t, tmp, "coverage.out", setProfile)

	store := NewStore()
	sessions := &SessionLog{}
	loader := NewLoader(store, sessions)

	if err := loader.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 recorded unit, got %d", store.Len())
	}
	if store.Mode() != "set" {
		t.Errorf("expected mode set, got %q", store.Mode())
	}
	if sessions.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", sessions.Len())
	}
	s := sessions.Sessions()[0]
	if s.ID != "coverage.out" {
		t.Errorf("session ID should be the input base name, got %q", s.ID)
	}
	if s.Start.IsZero() || s.End.Before(s.Start) {
		t.Errorf("session times not derived from input: %+v", s)
	}
}

func TestLoadSameFileTwiceIdempotent(t *testing.T) {
	tmp := t.TempDir()
	path := writeProfileFile(t, tmp, "coverage.out", setProfile)

	store := NewStore()
	loader := NewLoader(store, &SessionLog{})
	if err := loader.Load(path); err != nil {
		t.Fatalf("first load: %v", err)
	}
	first := store.Lookup("pkg/calc.go")
	counts := []int{first.Blocks[0].Count, first.Blocks[1].Count}

	if err := loader.Load(path); err != nil {
		t.Fatalf("second load: %v", err)
	}
	again := store.Lookup("pkg/calc.go")
	if again.Blocks[0].Count != counts[0] || again.Blocks[1].Count != counts[1] {
		t.Error("loading the same set-mode file twice changed counters")
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 unit path after reload, got %d", store.Len())
	}
}

func TestLoadSessionOrder(t *testing.T) {
	tmp := t.TempDir()
	a := writeProfileFile(t, tmp, "run-a.out", setProfile)
	b := writeProfileFile(t, tmp, "run-b.out", setProfile)

	sessions := &SessionLog{}
	loader := NewLoader(NewStore(), sessions)
	if err := loader.Load(a); err != nil {
		t.Fatal(err)
	}
	if err := loader.Load(b); err != nil {
		t.Fatal(err)
	}

	got := sessions.Sessions()
	if len(got) != 2 || got[0].ID != "run-a.out" || got[1].ID != "run-b.out" {
		t.Errorf("sessions should keep load order, got %+v", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	loader := NewLoader(NewStore(), &SessionLog{})
	if err := loader.Load(filepath.Join(t.TempDir(), "nope.out")); err == nil {
		t.Error("expected error for missing input")
	}
}

func TestLoadCorruptProfile(t *testing.T) {
	tmp := t.TempDir()
	path := writeProfileFile(t, tmp, "bad.out", "not a profile at all\n")

	sessions := &SessionLog{}
	loader := NewLoader(NewStore(), sessions)
	if err := loader.Load(path); err == nil {
		t.Error("expected error for corrupt input")
	}
	if sessions.Len() != 0 {
		t.Error("failed load must not record a session")
	}
}

func TestIsCoverDir(t *testing.T) {
	tmp := t.TempDir()
	if IsCoverDir(tmp) {
		t.Error("empty directory is not a GOCOVERDIR")
	}

	if err := os.WriteFile(filepath.Join(tmp, "covmeta.1a2b3c"), []byte{0}, 0644); err != nil {
		t.Fatal(err)
	}
	if !IsCoverDir(tmp) {
		t.Error("directory with covmeta file should be detected")
	}

	file := writeProfileFile(t, t.TempDir(), "coverage.out", setProfile)
	if IsCoverDir(file) {
		t.Error("regular file is not a GOCOVERDIR")
	}
}

func TestLoadDirWithoutCoverageData(t *testing.T) {
	loader := NewLoader(NewStore(), &SessionLog{})
	if err := loader.Load(t.TempDir()); err == nil {
		t.Error("expected error for directory without coverage files")
	}
}
