// Package report renders coverage bundles into a static, navigable HTML
// report tree: one index page, one page per project bundle, and one page
// per resolvable source file with line-level coverage markup.
package report

import (
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"

	"github.com/hargabyte/covreport/internal/analyze"
	"github.com/hargabyte/covreport/internal/execdata"
	"github.com/hargabyte/covreport/internal/source"
)

// ProjectReport pairs a coverage bundle with the source locator for the
// project it was built from. The locator is only used for rendering;
// it is not part of the bundle.
type ProjectReport struct {
	Bundle  *analyze.Bundle
	Sources *source.Locator
}

// Writer emits the report tree. The output directory is created if
// absent and existing pages are overwritten; partial output from a
// failed run is not cleaned up.
type Writer struct {
	OutputDir string
	Group     string
	TabWidth  int
}

// Write renders the whole report: sessions and totals on the index page,
// then each project bundle in the order supplied, which fixes the
// left-to-right navigation order.
func (w *Writer) Write(sessions []execdata.Session, projects []ProjectReport) error {
	if err := os.MkdirAll(w.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := w.writeFile("style.css", []byte(styleCSS)); err != nil {
		return err
	}
	if err := w.writeIndex(sessions, projects); err != nil {
		return err
	}
	for _, p := range projects {
		if err := w.writeBundle(p); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeIndex(sessions []execdata.Session, projects []ProjectReport) error {
	data := indexData{Group: w.Group}
	for _, s := range sessions {
		data.Sessions = append(data.Sessions, sessionView{
			ID:    s.ID,
			Start: s.Start.Format("2006-01-02 15:04:05"),
			End:   s.End.Format("2006-01-02 15:04:05"),
		})
	}
	for _, p := range projects {
		b := p.Bundle
		data.Projects = append(data.Projects, summaryRow{
			Name:  b.Name,
			Href:  bundleDir(b.Name) + "/index.html",
			Stmts: b.Stmts,
			Lines: b.Lines,
			Funcs: b.Funcs,
		})
		data.Totals.Stmts.Add(b.Stmts)
		data.Totals.Lines.Add(b.Lines)
		data.Totals.Funcs.Add(b.Funcs)
	}
	return w.render("index.html", indexTmpl, data)
}

func (w *Writer) writeBundle(p ProjectReport) error {
	b := p.Bundle
	dir := bundleDir(b.Name)
	if err := os.MkdirAll(filepath.Join(w.OutputDir, dir, "files"), 0755); err != nil {
		return fmt.Errorf("create bundle directory: %w", err)
	}

	data := bundleData{Group: w.Group, Name: b.Name, Totals: totals{b.Stmts, b.Lines, b.Funcs}}
	for _, pkg := range b.Packages {
		pv := packageView{Name: pkg.Name, Stmts: pkg.Stmts, Lines: pkg.Lines, Funcs: pkg.Funcs}
		for _, f := range pkg.Files {
			fv := fileRow{
				Path:  f.RelPath,
				Stmts: f.Stmts,
				Lines: f.Lines,
				Funcs: f.Funcs,
			}
			src, err := p.Sources.ReadFile(f.RelPath)
			if err == nil {
				// Source resolved: render a full page with line markup.
				page := filepath.ToSlash(filepath.Join("files", filePageName(f.RelPath)))
				if err := w.writeFilePage(dir, b.Name, page, f, src); err != nil {
					return err
				}
				fv.Href = page
			} else if !errors.Is(err, source.ErrNotFound) {
				return fmt.Errorf("resolve source for %s: %w", f.RelPath, err)
			}
			// A locator miss keeps the row's counters but drops the link.
			pv.Files = append(pv.Files, fv)
		}
		data.Packages = append(data.Packages, pv)
	}
	return w.render(filepath.Join(dir, "index.html"), bundleTmpl, data)
}

func (w *Writer) writeFilePage(dir, bundleName, page string, f *analyze.File, src []byte) error {
	data := fileData{
		Bundle: bundleName,
		Path:   f.RelPath,
		Stmts:  f.Stmts,
		Lines:  f.Lines,
		Funcs:  f.Funcs,
	}
	for _, fn := range f.Functions {
		data.Functions = append(data.Functions, functionView{
			Name:      fn.Name,
			StartLine: fn.StartLine,
			Stmts:     fn.Stmts,
		})
	}
	data.Source = annotateLines(src, f.LineHits, w.TabWidth)
	return w.render(filepath.Join(dir, page), fileTmpl, data)
}

func (w *Writer) writeFile(rel string, data []byte) error {
	p := filepath.Join(w.OutputDir, rel)
	if err := os.WriteFile(p, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", rel, err)
	}
	return nil
}

// bundleDir maps a bundle name to its directory within the report tree.
func bundleDir(name string) string {
	return sanitize(name)
}

// filePageName maps a unit's relative path to its page file name. The
// sanitized path alone is ambiguous ("pkg/a_b.go" and "pkg_a/b.go" both
// flatten to "pkg_a_b"), so a hash of the original path keeps the pages
// distinct.
func filePageName(relPath string) string {
	h := fnv.New32a()
	h.Write([]byte(relPath))
	return fmt.Sprintf("%s-%08x.html", sanitize(strings.TrimSuffix(relPath, ".go")), h.Sum32())
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
