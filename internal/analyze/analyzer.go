package analyze

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hargabyte/covreport/internal/execdata"
)

// skipDirs are directory names never scanned for units.
var skipDirs = map[string]bool{
	"testdata":     true,
	"vendor":       true,
	"node_modules": true,
}

// Analyzer cross-references project build trees against an execution-data
// store and produces coverage bundles.
type Analyzer struct {
	store   *execdata.Store
	exclude []string
}

// NewAnalyzer returns an analyzer reading from store. exclude lists path
// substrings whose units are left out of bundles.
func NewAnalyzer(store *execdata.Store, exclude []string) *Analyzer {
	return &Analyzer{store: store, exclude: exclude}
}

// AnalyzeProject recursively scans binDir for instrumented source units
// and builds a bundle named name. A unit with no recorded execution data
// is reported as fully unexecuted, not skipped. A missing or
// untraversable binDir is an error.
func (a *Analyzer) AnalyzeProject(binDir, name string) (*Bundle, error) {
	info, err := os.Stat(binDir)
	if err != nil {
		return nil, fmt.Errorf("binary directory %s: %w", binDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("binary directory %s is not a directory", binDir)
	}

	pkgs := make(map[string]*Package)
	err = filepath.WalkDir(binDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == binDir {
				return nil
			}
			if strings.HasPrefix(d.Name(), ".") || skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(d.Name(), ".go") || strings.HasSuffix(d.Name(), "_test.go") {
			return nil
		}
		rel, err := filepath.Rel(binDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if a.excluded(rel) {
			return nil
		}

		file, err := a.analyzeUnit(p, rel)
		if err != nil {
			return err
		}
		pkgName := packageName(rel)
		pkg, ok := pkgs[pkgName]
		if !ok {
			pkg = &Package{Name: pkgName}
			pkgs[pkgName] = pkg
		}
		pkg.Files = append(pkg.Files, file)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan binary directory %s: %w", binDir, err)
	}

	bundle := &Bundle{Name: name}
	for _, pkg := range pkgs {
		sort.Slice(pkg.Files, func(i, j int) bool { return pkg.Files[i].RelPath < pkg.Files[j].RelPath })
		bundle.Packages = append(bundle.Packages, pkg)
	}
	sort.Slice(bundle.Packages, func(i, j int) bool { return bundle.Packages[i].Name < bundle.Packages[j].Name })
	bundle.aggregate()
	return bundle, nil
}

func (a *Analyzer) excluded(rel string) bool {
	for _, ex := range a.exclude {
		if ex != "" && strings.Contains(rel, ex) {
			return true
		}
	}
	return false
}

// analyzeUnit builds the coverage record for one unit. Execution data is
// resolved through the store by relative path; the unit's own bytes
// provide function extents and statement positions.
func (a *Analyzer) analyzeUnit(absPath, rel string) (*File, error) {
	src, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("read unit %s: %w", rel, err)
	}
	info, parseErr := inspectSource(rel, src)

	file := &File{RelPath: rel, LineHits: make(map[int]bool)}
	unit := a.store.Lookup(rel)
	if unit != nil {
		file.Matched = true
		file.Fingerprint = unit.Fingerprint
		file.Blocks = unit.Blocks
		a.fillMatched(file, info)
	} else {
		a.fillUnmatched(file, info, parseErr, src)
	}

	for _, covered := range file.LineHits {
		file.Lines.count(covered)
	}
	return file, nil
}

func (a *Analyzer) fillMatched(file *File, info *sourceInfo) {
	for _, b := range file.Blocks {
		covered := b.Count > 0
		if covered {
			file.Stmts.Covered += b.NumStmt
		} else {
			file.Stmts.Missed += b.NumStmt
		}
		for l := b.StartLine; l <= b.EndLine; l++ {
			file.LineHits[l] = file.LineHits[l] || covered
		}
	}
	if info == nil {
		return
	}
	for _, fe := range info.funcs {
		fn := Function{Name: fe.name, StartLine: fe.startLine, EndLine: fe.endLine}
		for _, b := range file.Blocks {
			if b.StartLine > fe.endLine || b.EndLine < fe.startLine {
				continue
			}
			if b.Count > 0 {
				fn.Stmts.Covered += b.NumStmt
			} else {
				fn.Stmts.Missed += b.NumStmt
			}
		}
		file.Funcs.count(fn.Stmts.Covered > 0)
		file.Functions = append(file.Functions, fn)
	}
}

// fillUnmatched reports a unit with no recorded execution data as fully
// missed. Statement positions come from the parsed source; if the unit
// does not parse, countable lines stand in for statements.
func (a *Analyzer) fillUnmatched(file *File, info *sourceInfo, parseErr error, src []byte) {
	if parseErr != nil || info == nil {
		for _, l := range countableLines(src) {
			file.LineHits[l] = false
			file.Stmts.Missed++
		}
		return
	}
	file.Stmts.Missed = info.numStmts()
	for _, l := range info.stmtLines {
		file.LineHits[l] = false
	}
	for _, fe := range info.funcs {
		fn := Function{Name: fe.name, StartLine: fe.startLine, EndLine: fe.endLine}
		fn.Stmts.Missed = info.stmtsWithin(fe.startLine, fe.endLine)
		file.Funcs.count(false)
		file.Functions = append(file.Functions, fn)
	}
}

// packageName labels the package a unit belongs to by its directory
// within the scanned tree.
func packageName(rel string) string {
	dir := path.Dir(rel)
	if dir == "." {
		return "(root)"
	}
	return dir
}
