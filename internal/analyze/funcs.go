package analyze

import (
	"bufio"
	"bytes"
	"go/ast"
	"go/parser"
	"go/token"
	"sort"
	"strings"
)

// funcExtent is the line range of one function declaration.
type funcExtent struct {
	name      string
	startLine int
	endLine   int
}

// sourceInfo is the structural information extracted from one Go source
// unit: its function extents and the lines carrying statements. stmts
// holds one line entry per statement; stmtLines is the deduplicated,
// sorted set of those lines.
type sourceInfo struct {
	funcs     []funcExtent
	stmts     []int
	stmtLines []int
}

func (si *sourceInfo) numStmts() int {
	return len(si.stmts)
}

// stmtsWithin counts statements whose line falls inside [start, end].
func (si *sourceInfo) stmtsWithin(start, end int) int {
	n := 0
	for _, l := range si.stmts {
		if l >= start && l <= end {
			n++
		}
	}
	return n
}

// inspectSource parses a Go source unit and extracts function extents and
// statement positions.
func inspectSource(filename string, src []byte) (*sourceInfo, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, 0)
	if err != nil {
		return nil, err
	}

	info := &sourceInfo{}
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Body == nil {
			continue
		}
		info.funcs = append(info.funcs, funcExtent{
			name:      funcName(fd),
			startLine: fset.Position(fd.Pos()).Line,
			endLine:   fset.Position(fd.End()).Line,
		})
	}

	lines := make(map[int]bool)
	ast.Inspect(file, func(n ast.Node) bool {
		stmt, ok := n.(ast.Stmt)
		if !ok {
			return true
		}
		if _, isBlock := stmt.(*ast.BlockStmt); isBlock {
			return true
		}
		line := fset.Position(stmt.Pos()).Line
		info.stmts = append(info.stmts, line)
		lines[line] = true
		return true
	})
	sort.Ints(info.stmts)
	for l := range lines {
		info.stmtLines = append(info.stmtLines, l)
	}
	sort.Ints(info.stmtLines)
	return info, nil
}

// funcName renders a declaration name, prefixing methods with their
// receiver type ("T.M" for both value and pointer receivers).
func funcName(fd *ast.FuncDecl) string {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return fd.Name.Name
	}
	if recv := recvTypeName(fd.Recv.List[0].Type); recv != "" {
		return recv + "." + fd.Name.Name
	}
	return fd.Name.Name
}

func recvTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return recvTypeName(t.X)
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr:
		return recvTypeName(t.X)
	case *ast.IndexListExpr:
		return recvTypeName(t.X)
	}
	return ""
}

// countableLines is the fallback for units that do not parse: every
// non-blank line that is not a pure line comment counts as one missed
// statement line.
func countableLines(src []byte) []int {
	var lines []int
	scanner := bufio.NewScanner(bytes.NewReader(src))
	n := 0
	for scanner.Scan() {
		n++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "//") {
			continue
		}
		lines = append(lines, n)
	}
	return lines
}
