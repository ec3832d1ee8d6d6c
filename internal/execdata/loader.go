package execdata

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/tools/cover"
)

// Loader streams execution-data inputs into a Store and a SessionLog.
// Call Load once per input, in the order inputs were supplied; counter
// merging is order-independent, session ordering is not.
type Loader struct {
	Store    *Store
	Sessions *SessionLog

	sessionIdx int
}

// NewLoader returns a loader feeding the given stores.
func NewLoader(store *Store, sessions *SessionLog) *Loader {
	return &Loader{Store: store, Sessions: sessions}
}

// Load reads one execution-data input and merges it into the stores.
// The input is either a text cover profile file or a GOCOVERDIR directory
// holding binary covmeta/covcounters files. A failure aborts the load and
// propagates; counters merged before the failure remain in the store.
func (l *Loader) Load(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat execution data %s: %w", path, err)
	}

	var profiles []*cover.Profile
	var start, end time.Time

	if info.IsDir() {
		if !IsCoverDir(path) {
			return fmt.Errorf("%s is a directory but contains no covmeta/covcounters files", path)
		}
		profiles, err = parseCoverDir(path)
		if err != nil {
			return err
		}
		start, end = coverDirTimes(path)
	} else {
		profiles, err = cover.ParseProfiles(path)
		if err != nil {
			return fmt.Errorf("parse profile %s: %w", path, err)
		}
		start, end = info.ModTime(), info.ModTime()
	}

	if start.IsZero() {
		start = time.Now()
		end = start
	}

	for _, p := range profiles {
		if err := l.Store.Add(p, l.sessionIdx); err != nil {
			return fmt.Errorf("merge %s: %w", path, err)
		}
	}

	l.Sessions.Append(Session{ID: filepath.Base(path), Start: start, End: end})
	l.sessionIdx++
	return nil
}

// IsCoverDir reports whether path is a directory holding binary coverage
// data files written under GOCOVERDIR.
func IsCoverDir(path string) bool {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "covmeta.") || strings.HasPrefix(name, "covcounters.") {
			return true
		}
	}
	return false
}

// parseCoverDir converts a binary GOCOVERDIR to the text profile format
// with `go tool covdata textfmt` and parses the result. The binary format
// itself stays opaque to this tool.
func parseCoverDir(dir string) ([]*cover.Profile, error) {
	tmp, err := os.CreateTemp("", "covreport-*.out")
	if err != nil {
		return nil, fmt.Errorf("create temp profile: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	cmd := exec.Command("go", "tool", "covdata", "textfmt", "-i="+dir, "-o="+tmpPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("go tool covdata textfmt %s: %w\n%s", dir, err, out)
	}

	profiles, err := cover.ParseProfiles(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("parse converted profile for %s: %w", dir, err)
	}
	return profiles, nil
}

// coverDirTimes derives session start/end from the modification times of
// the coverage files in a GOCOVERDIR.
func coverDirTimes(dir string) (start, end time.Time) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, "covmeta.") && !strings.HasPrefix(name, "covcounters.") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		mt := info.ModTime()
		if start.IsZero() || mt.Before(start) {
			start = mt
		}
		if end.IsZero() || mt.After(end) {
			end = mt
		}
	}
	return
}
