// Package nolint finds //nolint directives and answers whether an issue at
// a given position is suppressed.
//
// A directive before the package clause covers the whole file. A trailing
// directive covers the statement it follows. A directive on its own line
// covers the statement or function declaration on the next line. Any other
// directive covers only its own line.
//
//	//nolint                          every rule
//	//nolint:constant-condition       only the named rules
package nolint

import (
	"errors"
	"go/ast"
	"go/token"
	"strings"
)

const directive = "//nolint"

var (
	errNotDirective = errors.New("not a nolint directive")
	errNoRules      = errors.New("nolint: no rules after colon")
)

// Manager holds the suppressed line spans of one file.
type Manager struct {
	filename string
	scopes   []scope
}

type scope struct {
	rules     map[string]struct{}
	startLine int
	endLine   int
}

func (s scope) covers(line int, rule string) bool {
	if line < s.startLine || line > s.endLine {
		return false
	}
	if len(s.rules) == 0 {
		return true
	}
	_, ok := s.rules[rule]
	return ok
}

// ParseComments collects the directives of f.
func ParseComments(f *ast.File, fset *token.FileSet) *Manager {
	m := &Manager{filename: fset.Position(f.Package).Filename}
	idx := newLineIndex(f, fset)

	for _, cg := range f.Comments {
		for _, c := range cg.List {
			rules, err := parseDirective(c.Text)
			if err != nil {
				continue
			}
			start, end := idx.span(c)
			m.scopes = append(m.scopes, scope{rules: rules, startLine: start, endLine: end})
		}
	}
	return m
}

// parseDirective returns the rule set of a directive; an empty set means all
// rules.
func parseDirective(text string) (map[string]struct{}, error) {
	rest, ok := strings.CutPrefix(text, directive)
	if !ok {
		return nil, errNotDirective
	}
	rules := make(map[string]struct{})
	if rest == "" || rest[0] == ' ' || rest[0] == '\t' {
		return rules, nil
	}
	if rest[0] != ':' {
		return nil, errNotDirective
	}

	list := strings.TrimSpace(rest[1:])
	// a trailing explanation ("//nolint:rule // reason") is not part of the list
	if i := strings.Index(list, "//"); i >= 0 {
		list = strings.TrimSpace(list[:i])
	}
	if i := strings.IndexAny(list, " \t"); i >= 0 {
		list = list[:i]
	}
	for _, r := range strings.Split(list, ",") {
		if r = strings.TrimSpace(r); r != "" {
			rules[r] = struct{}{}
		}
	}
	if len(rules) == 0 {
		return nil, errNoRules
	}
	return rules, nil
}

type lineIndex struct {
	fset        *token.FileSet
	f           *ast.File
	packageLine int
	// first statement starting on each line
	stmts map[int]ast.Stmt
}

func newLineIndex(f *ast.File, fset *token.FileSet) *lineIndex {
	idx := &lineIndex{
		fset:        fset,
		f:           f,
		packageLine: fset.Position(f.Package).Line,
		stmts:       make(map[int]ast.Stmt),
	}
	ast.Inspect(f, func(n ast.Node) bool {
		stmt, ok := n.(ast.Stmt)
		if !ok {
			return true
		}
		line := fset.Position(stmt.Pos()).Line
		if _, seen := idx.stmts[line]; !seen {
			idx.stmts[line] = stmt
		}
		return true
	})
	return idx
}

func (idx *lineIndex) line(p token.Pos) int {
	return idx.fset.Position(p).Line
}

func (idx *lineIndex) span(c *ast.Comment) (start, end int) {
	line := idx.line(c.Slash)

	if line < idx.packageLine {
		return idx.line(idx.f.Pos()), idx.line(idx.f.End())
	}

	if stmt, ok := idx.stmts[line]; ok && c.Slash > stmt.Pos() {
		return idx.line(stmt.Pos()), idx.line(stmt.End())
	}

	if stmt, ok := idx.stmts[line+1]; ok {
		return line, idx.line(stmt.End())
	}

	for _, decl := range idx.f.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if ok && idx.line(fd.Pos()) == line+1 {
			return line, idx.line(fd.End())
		}
	}

	return line, line
}

// IsNolint reports whether an issue of rule at pos is suppressed.
func (m *Manager) IsNolint(pos token.Position, rule string) bool {
	if pos.Filename != "" && m.filename != "" && pos.Filename != m.filename {
		return false
	}
	for _, s := range m.scopes {
		if s.covers(pos.Line, rule) {
			return true
		}
	}
	return false
}
