package lints

import (
	"go/ast"
	"go/parser"
	"go/token"

	"github.com/gnolang/rangelint/internal/extract"
)

// ParseFile parses a Go file. When content is nil the file is read from disk.
func ParseFile(filename string, content []byte) (*ast.File, *token.FileSet, error) {
	fset := token.NewFileSet()
	var src any
	if content != nil {
		src = content
	}
	node, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, nil, extract.ParseError(filename, err)
	}
	return node, fset, nil
}
