// Package analyze matches compiled project trees against recorded
// execution data and produces per-project coverage bundles.
package analyze

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ProjectSpec names one project to analyze: the directory its sources
// live under and the build tree holding its instrumented units.
type ProjectSpec struct {
	SrcDir string
	BinDir string
}

// Name is the display name of the project's bundle: the base name of the
// source directory.
func (p ProjectSpec) Name() string {
	return filepath.Base(filepath.Clean(p.SrcDir))
}

// ParseProjectSpec parses a "<sourceDir>:<binaryDir>" specification.
// Exactly one colon is required and both segments must be non-empty;
// anything else is a configuration error.
func ParseProjectSpec(spec string) (ProjectSpec, error) {
	if strings.Count(spec, ":") != 1 {
		return ProjectSpec{}, fmt.Errorf("unsupported project specification %q: want <sourceDir>:<binaryDir>", spec)
	}
	parts := strings.SplitN(spec, ":", 2)
	if parts[0] == "" || parts[1] == "" {
		return ProjectSpec{}, fmt.Errorf("unsupported project specification %q: empty directory segment", spec)
	}
	return ProjectSpec{SrcDir: parts[0], BinDir: parts[1]}, nil
}

// ParseProjectSpecs parses all specifications, failing on the first
// malformed one. Order is preserved.
func ParseProjectSpecs(specs []string) ([]ProjectSpec, error) {
	projects := make([]ProjectSpec, 0, len(specs))
	for _, s := range specs {
		p, err := ParseProjectSpec(s)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}
