// Package analyzer provides the constant-condition check as an
// [analysis.Analyzer], for use with go vet style drivers and golangci-lint.
package analyzer

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"github.com/gnolang/rangelint/internal/extract"
	"github.com/gnolang/rangelint/internal/lints"
	"github.com/gnolang/rangelint/internal/rangecheck"
)

const (
	name = "constantcond"
	doc  = `constantcond reports if conditions that are always true or always false

Parameters of the unsigned type take every value of its domain, locals
initialized from an integer literal hold that single value, and locals
initialized from another name share its range. A comparison of two such
names whose ranges cannot overlap has an outcome known before the program
runs. Only the top-level statements of a function are inspected.`
)

// Option configures an analyzer created by [New].
type Option func(*rangecheck.Options)

// WithSymmetric sets whether a left operand that is always smaller than the
// right one produces a diagnostic.
func WithSymmetric(symmetric bool) Option {
	return func(o *rangecheck.Options) { o.Symmetric = symmetric }
}

// WithUnsignedType sets the type name whose parameters span the whole
// unsigned domain. An empty name keeps the default.
func WithUnsignedType(typeName string) Option {
	return func(o *rangecheck.Options) {
		if typeName != "" {
			o.UnsignedType = typeName
		}
	}
}

// New creates a constantcond analyzer. The options can also be changed
// through the analyzer flags until it runs.
func New(opts ...Option) *analysis.Analyzer {
	r := &runner{opts: rangecheck.DefaultOptions()}
	for _, opt := range opts {
		if opt != nil {
			opt(&r.opts)
		}
	}

	a := &analysis.Analyzer{
		Name:     name,
		Doc:      doc,
		Run:      r.run,
		Requires: []*analysis.Analyzer{inspect.Analyzer},
	}
	a.Flags.BoolVar(&r.opts.Symmetric, "symmetric", r.opts.Symmetric,
		"report comparisons whose left operand is always smaller")
	a.Flags.StringVar(&r.opts.UnsignedType, "unsigned-type", r.opts.UnsignedType,
		"type name of parameters spanning the unsigned domain")
	return a
}

// Analyzer is a constantcond analyzer with the default options.
var Analyzer = New()

type runner struct {
	opts rangecheck.Options
}

var (
	badNodes  = []ast.Node{(*ast.BadExpr)(nil), (*ast.BadStmt)(nil), (*ast.BadDecl)(nil)}
	funcNodes = []ast.Node{(*ast.FuncDecl)(nil)}
)

func (r *runner) run(pass *analysis.Pass) (any, error) {
	insp := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	var malformed error
	insp.Preorder(badNodes, func(n ast.Node) {
		if malformed == nil {
			malformed = &extract.MalformedError{Pos: pass.Fset.Position(n.Pos()), Msg: "unparsable syntax"}
		}
	})
	if malformed != nil {
		return nil, malformed
	}

	checker := rangecheck.NewChecker(r.opts, nil)
	insp.Preorder(funcNodes, func(n ast.Node) {
		for _, d := range checker.Check(extract.Func(n.(*ast.FuncDecl))) {
			pass.Report(analysis.Diagnostic{
				Pos:      d.Pos,
				End:      d.End,
				Category: lints.ConstantConditionRule,
				Message:  d.String(),
			})
		}
	})
	return nil, nil
}
