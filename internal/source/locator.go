// Package source resolves source files for report rendering by probing a
// fixed, ordered list of candidate roots under a project's source
// directory.
package source

import (
	"errors"
	"io"
	"os"
	"path/filepath"
)

// ErrNotFound reports that no candidate root contains the requested file.
// A miss is a normal outcome: the report falls back to counters-only
// display for that file.
var ErrNotFound = errors.New("source file not found")

// Locator resolves source files for one project. Each project gets its
// own locator, built from its own source directory.
type Locator struct {
	roots []string
}

// NewLocator builds a locator probing <srcDir>/<root> for each root, in
// order. The conventional roots are "src" and "src_gen".
func NewLocator(srcDir string, roots ...string) *Locator {
	l := &Locator{}
	for _, r := range roots {
		l.roots = append(l.roots, filepath.Join(srcDir, r))
	}
	return l
}

// Open returns the contents of the first candidate root containing
// relPath, or ErrNotFound if none does. The caller closes the reader.
func (l *Locator) Open(relPath string) (io.ReadCloser, error) {
	for _, root := range l.roots {
		p := filepath.Join(root, filepath.FromSlash(relPath))
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	return nil, ErrNotFound
}

// ReadFile resolves relPath and reads it fully.
func (l *Locator) ReadFile(relPath string) ([]byte, error) {
	rc, err := l.Open(relPath)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
