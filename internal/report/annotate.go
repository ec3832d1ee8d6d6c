package report

import (
	"bufio"
	"bytes"
	"strings"
)

// annotateLines turns source bytes into rendered line views. Tracked
// lines get the "cov" or "miss" class from hits; untracked lines stay
// unclassed. Tabs are expanded to tabWidth spaces; source is treated as
// UTF-8 throughout.
func annotateLines(src []byte, hits map[int]bool, tabWidth int) []lineView {
	var out []lineView
	scanner := bufio.NewScanner(bytes.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for scanner.Scan() {
		n++
		class := ""
		if covered, tracked := hits[n]; tracked {
			if covered {
				class = "cov"
			} else {
				class = "miss"
			}
		}
		out = append(out, lineView{
			Num:   n,
			Class: class,
			Text:  expandTabs(scanner.Text(), tabWidth),
		})
	}
	return out
}

// expandTabs replaces tabs with spaces, honoring tab stops.
func expandTabs(s string, width int) string {
	if !strings.ContainsRune(s, '\t') {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			pad := width - col%width
			b.WriteString(strings.Repeat(" ", pad))
			col += pad
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}
