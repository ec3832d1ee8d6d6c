package analyze

import "golang.org/x/tools/cover"

// Counter is a covered/missed pair for one kind of coverage element.
type Counter struct {
	Covered int
	Missed  int
}

// Total returns the number of elements the counter tracks.
func (c Counter) Total() int {
	return c.Covered + c.Missed
}

// Percent returns the covered ratio as a percentage, 0 for an empty counter.
func (c Counter) Percent() float64 {
	if c.Total() == 0 {
		return 0
	}
	return float64(c.Covered) * 100 / float64(c.Total())
}

// Add accumulates another counter into c.
func (c *Counter) Add(o Counter) {
	c.Covered += o.Covered
	c.Missed += o.Missed
}

func (c *Counter) count(covered bool) {
	if covered {
		c.Covered++
	} else {
		c.Missed++
	}
}

// Function is coverage for one function or method in a file.
type Function struct {
	Name      string
	StartLine int
	EndLine   int
	Stmts     Counter
}

// File is coverage for one source unit found in a project's build tree.
// RelPath is the unit's path relative to the scanned directory, in slash
// form. Matched reports whether any recorded execution data resolved to
// the unit; an unmatched unit still appears, fully missed.
type File struct {
	RelPath     string
	Matched     bool
	Fingerprint uint64
	Blocks      []cover.ProfileBlock

	// LineHits maps tracked line numbers to whether they executed.
	// Lines absent from the map are untracked (blank, comments,
	// declarations outside statement blocks).
	LineHits map[int]bool

	Functions []Function

	Stmts Counter
	Lines Counter
	Funcs Counter
}

// Package groups the files of one directory within a bundle.
type Package struct {
	Name  string
	Files []*File

	Stmts Counter
	Lines Counter
	Funcs Counter
}

// Bundle is the coverage tree for one project: packages, files,
// functions and lines, with counters aggregated upward.
type Bundle struct {
	Name     string
	Packages []*Package

	Stmts Counter
	Lines Counter
	Funcs Counter
}

func (b *Bundle) aggregate() {
	for _, pkg := range b.Packages {
		pkg.Stmts, pkg.Lines, pkg.Funcs = Counter{}, Counter{}, Counter{}
		for _, f := range pkg.Files {
			pkg.Stmts.Add(f.Stmts)
			pkg.Lines.Add(f.Lines)
			pkg.Funcs.Add(f.Funcs)
		}
		b.Stmts.Add(pkg.Stmts)
		b.Lines.Add(pkg.Lines)
		b.Funcs.Add(pkg.Funcs)
	}
}
