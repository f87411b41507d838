package analyzer_test

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"

	"golang.org/x/tools/go/analysis"

	"github.com/gnolang/rangelint/internal/extract"
	"github.com/gnolang/rangelint/internal/types"
)

// runAnalyzer parses code as filename and runs analyzer over it.
func runAnalyzer(filename, code string, analyzer *analysis.Analyzer) ([]types.Issue, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, code, parser.ParseComments)
	if err != nil {
		return nil, extract.ParseError(filename, err)
	}
	return runAnalyzerFile(fset, filename, file, analyzer)
}

// runAnalyzerFile runs analyzer over file, preceded by the analyzers it
// requires. Only the diagnostics of analyzer itself are returned.
func runAnalyzerFile(fset *token.FileSet, filename string, file *ast.File, analyzer *analysis.Analyzer) ([]types.Issue, error) {
	var issues []types.Issue
	results := make(map[*analysis.Analyzer]any)

	var run func(a *analysis.Analyzer) error
	run = func(a *analysis.Analyzer) error {
		if _, done := results[a]; done {
			return nil
		}
		for _, req := range a.Requires {
			if err := run(req); err != nil {
				return err
			}
		}

		pass := &analysis.Pass{
			Analyzer: a,
			Fset:     fset,
			Files:    []*ast.File{file},
			ResultOf: results,
			Report: func(d analysis.Diagnostic) {
				if a != analyzer {
					return
				}
				issues = append(issues, types.Issue{
					Rule:     analyzer.Name,
					Category: d.Category,
					Filename: filename,
					Message:  d.Message,
					Start:    fset.Position(d.Pos),
					End:      fset.Position(d.End),
					Severity: types.SeverityWarning,
				})
			},
		}

		res, err := a.Run(pass)
		if err != nil {
			return fmt.Errorf("%s: %w", a.Name, err)
		}
		results[a] = res
		return nil
	}

	if err := run(analyzer); err != nil {
		return nil, err
	}
	return issues, nil
}
