// Package execdata loads recorded coverage execution data and accumulates
// it into in-memory stores. It understands Go text cover profiles
// (from `go test -coverprofile`) and binary GOCOVERDIR directories
// (from binaries built with `go build -cover`).
package execdata

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"golang.org/x/tools/cover"
)

// Unit is the merged execution data recorded for one instrumented source
// unit. Path is the import-path-qualified file path exactly as it appears
// in the profile. Fingerprint identifies the unit's block geometry: two
// profiles for the same path carry the same fingerprint only if the
// instrumented code shape was unchanged between recordings.
type Unit struct {
	Path        string
	Fingerprint uint64
	Blocks      []cover.ProfileBlock

	// lastSession is the index of the most recent session that
	// contributed counters to this variant. When a path has several
	// variants (the unit was recompiled between recordings), lookup
	// prefers the most recently loaded one.
	lastSession int
}

// Store accumulates execution data across all loaded inputs. Units are
// keyed by recorded path; each path may hold several variants, one per
// distinct block geometry.
type Store struct {
	mode  string
	units map[string][]*Unit
}

// NewStore returns an empty execution-data store.
func NewStore() *Store {
	return &Store{units: make(map[string][]*Unit)}
}

// Mode returns the coverage mode of the loaded data ("set", "count" or
// "atomic"), or "" if nothing has been loaded yet.
func (s *Store) Mode() string {
	return s.mode
}

// Len returns the number of distinct unit paths in the store.
func (s *Store) Len() int {
	return len(s.units)
}

// Add merges one parsed profile into the store. Counters for an already
// known (path, fingerprint) pair merge additively: "set" mode ORs the
// counts, "count" and "atomic" modes sum them. A profile whose geometry
// differs from the stored one is kept as a separate variant. session is
// the index of the session the profile was recorded in.
func (s *Store) Add(p *cover.Profile, session int) error {
	if s.mode == "" {
		s.mode = p.Mode
	} else if !compatibleModes(s.mode, p.Mode) {
		return fmt.Errorf("coverage mode mismatch: store has %q, profile for %s has %q", s.mode, p.FileName, p.Mode)
	}

	blocks := append([]cover.ProfileBlock(nil), p.Blocks...)
	sortBlocks(blocks)
	fp := Fingerprint(blocks)

	for _, u := range s.units[p.FileName] {
		if u.Fingerprint == fp {
			mergeCounts(u.Blocks, blocks, s.mode)
			if session > u.lastSession {
				u.lastSession = session
			}
			return nil
		}
	}

	s.units[p.FileName] = append(s.units[p.FileName], &Unit{
		Path:        p.FileName,
		Fingerprint: fp,
		Blocks:      blocks,
		lastSession: session,
	})
	return nil
}

// Lookup resolves the execution data for a unit identified by its path
// relative to a project's build tree. Recorded paths are import-path
// qualified, so resolution matches by trailing path segments; among
// candidate paths the longest (most specific) recorded path wins, and
// among variants of one path the most recently recorded one wins.
// Returns nil if no recorded unit matches.
func (s *Store) Lookup(relPath string) *Unit {
	var best *Unit
	bestLen := -1
	for path, variants := range s.units {
		if path != relPath && !strings.HasSuffix(path, "/"+relPath) {
			continue
		}
		u := latestVariant(variants)
		if len(path) > bestLen || (len(path) == bestLen && path < best.Path) {
			best = u
			bestLen = len(path)
		}
	}
	return best
}

// Paths returns all recorded unit paths, sorted.
func (s *Store) Paths() []string {
	paths := make([]string, 0, len(s.units))
	for p := range s.units {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func latestVariant(variants []*Unit) *Unit {
	best := variants[0]
	for _, u := range variants[1:] {
		if u.lastSession > best.lastSession {
			best = u
		}
	}
	return best
}

// Fingerprint hashes the geometry of a block list: positions and
// statement counts, but not execution counts. Blocks must be sorted.
func Fingerprint(blocks []cover.ProfileBlock) uint64 {
	h := fnv.New64a()
	for _, b := range blocks {
		fmt.Fprintf(h, "%d.%d,%d.%d %d;", b.StartLine, b.StartCol, b.EndLine, b.EndCol, b.NumStmt)
	}
	return h.Sum64()
}

// mergeCounts merges counters from src into dst. Both lists share the
// same geometry (equal fingerprints), so the merge is positional.
func mergeCounts(dst, src []cover.ProfileBlock, mode string) {
	for i := range dst {
		if mode == "set" {
			if src[i].Count > dst[i].Count {
				dst[i].Count = src[i].Count
			}
		} else {
			dst[i].Count += src[i].Count
		}
	}
}

// compatibleModes reports whether profiles of mode b can merge into a
// store of mode a. "count" and "atomic" share additive semantics.
func compatibleModes(a, b string) bool {
	if a == b {
		return true
	}
	additive := func(m string) bool { return m == "count" || m == "atomic" }
	return additive(a) && additive(b)
}

func sortBlocks(blocks []cover.ProfileBlock) {
	sort.Slice(blocks, func(i, j int) bool {
		a, b := blocks[i], blocks[j]
		if a.StartLine != b.StartLine {
			return a.StartLine < b.StartLine
		}
		return a.StartCol < b.StartCol
	})
}
