// Package extract converts Go syntax trees into the function model used by
// the range checker.
package extract

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"go/types"
	"strconv"

	"golang.org/x/tools/go/ast/astutil"

	"github.com/gnolang/rangelint/internal/rangecheck"
)

// ErrMalformed is wrapped by every error caused by source that does not parse.
var ErrMalformed = errors.New("malformed source")

// MalformedError reports the first position at which the source is broken.
type MalformedError struct {
	Pos token.Position
	Msg string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, ErrMalformed, e.Msg)
}

func (e *MalformedError) Unwrap() error { return ErrMalformed }

// ParseSource parses src and converts every top-level function in it.
func ParseSource(filename string, src []byte) (*token.FileSet, []rangecheck.Function, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filename, src, parser.ParseComments)
	if err != nil {
		return nil, nil, ParseError(filename, err)
	}
	fns, err := File(fset, file)
	if err != nil {
		return nil, nil, err
	}
	return fset, fns, nil
}

// ParseError converts an error returned by go/parser into a MalformedError.
func ParseError(filename string, err error) error {
	var list scanner.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		return &MalformedError{Pos: list[0].Pos, Msg: list[0].Msg}
	}
	return &MalformedError{Pos: token.Position{Filename: filename}, Msg: err.Error()}
}

// File converts every top-level function declaration of file, in source
// order. A file still holding parser recovery nodes is rejected.
func File(fset *token.FileSet, file *ast.File) ([]rangecheck.Function, error) {
	if err := checkWellFormed(fset, file); err != nil {
		return nil, err
	}

	var fns []rangecheck.Function
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		fns = append(fns, Func(fd))
	}
	return fns, nil
}

func checkWellFormed(fset *token.FileSet, file *ast.File) error {
	var bad ast.Node
	ast.Inspect(file, func(n ast.Node) bool {
		if bad != nil {
			return false
		}
		switch n.(type) {
		case *ast.BadExpr, *ast.BadStmt, *ast.BadDecl:
			bad = n
			return false
		}
		return true
	})
	if bad == nil {
		return nil
	}
	return &MalformedError{Pos: fset.Position(bad.Pos()), Msg: "unparsable syntax"}
}

// Func converts a single declaration. Methods are named Recv.Method.
func Func(fd *ast.FuncDecl) rangecheck.Function {
	fn := rangecheck.Function{
		Name:   FuncName(fd),
		Params: params(fd.Type.Params),
		Pos:    fd.Pos(),
	}
	if fd.Body != nil {
		for _, stmt := range fd.Body.List {
			fn.Body = append(fn.Body, convertStmt(stmt)...)
		}
	}
	return fn
}

// FuncName returns the name a declaration is reported under.
func FuncName(fd *ast.FuncDecl) string {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return fd.Name.Name
	}
	if recv := receiverName(fd.Recv.List[0].Type); recv != "" {
		return recv + "." + fd.Name.Name
	}
	return fd.Name.Name
}

func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.ParenExpr:
		return receiverName(t.X)
	case *ast.IndexExpr:
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	}
	return ""
}

func params(fields *ast.FieldList) []rangecheck.Param {
	if fields == nil {
		return nil
	}
	var out []rangecheck.Param
	for _, field := range fields.List {
		typeName := ""
		if ident, ok := field.Type.(*ast.Ident); ok {
			typeName = ident.Name
		}
		for _, name := range field.Names {
			out = append(out, rangecheck.Param{Name: name.Name, Type: typeName})
		}
	}
	return out
}

func convertStmt(stmt ast.Stmt) []rangecheck.Stmt {
	switch s := stmt.(type) {
	case *ast.AssignStmt:
		if s.Tok != token.DEFINE {
			return []rangecheck.Stmt{rangecheck.OtherStmt{}}
		}
		return defineStmts(s)
	case *ast.DeclStmt:
		return genDeclStmts(s)
	case *ast.IfStmt:
		return []rangecheck.Stmt{rangecheck.IfStmt{Cond: Expr(s.Cond), Pos: s.Cond.Pos(), End: s.Cond.End()}}
	default:
		return []rangecheck.Stmt{rangecheck.OtherStmt{}}
	}
}

func defineStmts(s *ast.AssignStmt) []rangecheck.Stmt {
	if len(s.Lhs) == 1 && len(s.Rhs) == 1 {
		ident, ok := s.Lhs[0].(*ast.Ident)
		if !ok {
			return []rangecheck.Stmt{rangecheck.OtherStmt{}}
		}
		return []rangecheck.Stmt{rangecheck.DeclStmt{Name: ident.Name, Init: Expr(s.Rhs[0]), Pos: s.Pos()}}
	}
	return destructured(s.Lhs, s.Pos())
}

func genDeclStmts(s *ast.DeclStmt) []rangecheck.Stmt {
	gen, ok := s.Decl.(*ast.GenDecl)
	if !ok || (gen.Tok != token.VAR && gen.Tok != token.CONST) {
		return []rangecheck.Stmt{rangecheck.OtherStmt{}}
	}

	var out []rangecheck.Stmt
	for _, spec := range gen.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}
		if len(vs.Names) != 1 {
			names := make([]ast.Expr, len(vs.Names))
			for i, n := range vs.Names {
				names[i] = n
			}
			out = append(out, destructured(names, vs.Pos())...)
			continue
		}
		decl := rangecheck.DeclStmt{Name: vs.Names[0].Name, Pos: vs.Pos()}
		if len(vs.Values) == 1 {
			decl.Init = Expr(vs.Values[0])
		}
		out = append(out, decl)
	}
	return out
}

func destructured(lhs []ast.Expr, pos token.Pos) []rangecheck.Stmt {
	var out []rangecheck.Stmt
	for _, e := range lhs {
		if ident, ok := e.(*ast.Ident); ok {
			out = append(out, rangecheck.DeclStmt{Name: ident.Name, Destructured: true, Pos: pos})
		}
	}
	if len(out) == 0 {
		return []rangecheck.Stmt{rangecheck.OtherStmt{}}
	}
	return out
}

// Expr converts an expression. Shapes the checker does not model become
// rangecheck.Unrecognized.
func Expr(expr ast.Expr) rangecheck.Expr {
	expr = astutil.Unparen(expr)
	switch e := expr.(type) {
	case *ast.Ident:
		return rangecheck.Ident{Name: e.Name}
	case *ast.BasicLit:
		if e.Kind != token.INT {
			break
		}
		v, err := strconv.ParseUint(e.Value, 0, 64)
		if err != nil {
			break
		}
		return rangecheck.IntLit{Value: v}
	case *ast.BinaryExpr:
		op, ok := binaryOp(e.Op)
		if !ok {
			break
		}
		return rangecheck.BinaryExpr{Op: op, X: Expr(e.X), Y: Expr(e.Y)}
	}
	return rangecheck.Unrecognized{Text: types.ExprString(expr)}
}

func binaryOp(tok token.Token) (rangecheck.Op, bool) {
	switch tok {
	case token.EQL:
		return rangecheck.OpEq, true
	case token.NEQ:
		return rangecheck.OpNeq, true
	case token.LSS:
		return rangecheck.OpLt, true
	case token.LEQ:
		return rangecheck.OpLte, true
	case token.GTR:
		return rangecheck.OpGt, true
	case token.GEQ:
		return rangecheck.OpGte, true
	case token.ADD:
		return rangecheck.OpAdd, true
	case token.SUB:
		return rangecheck.OpSub, true
	case token.MUL:
		return rangecheck.OpMul, true
	case token.QUO:
		return rangecheck.OpQuo, true
	case token.REM:
		return rangecheck.OpRem, true
	case token.AND:
		return rangecheck.OpAnd, true
	case token.OR:
		return rangecheck.OpOr, true
	case token.XOR:
		return rangecheck.OpXor, true
	case token.SHL:
		return rangecheck.OpShl, true
	case token.SHR:
		return rangecheck.OpShr, true
	case token.AND_NOT:
		return rangecheck.OpAndNot, true
	case token.LAND:
		return rangecheck.OpLAnd, true
	case token.LOR:
		return rangecheck.OpLOr, true
	default:
		return rangecheck.OpInvalid, false
	}
}
