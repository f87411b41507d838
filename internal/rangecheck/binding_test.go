package rangecheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildParams(t *testing.T) {
	t.Parallel()

	params := BuildParams([]Param{
		{Name: "a", Type: "uint"},
		{Name: "b", Type: "int"},
		{Name: "c", Type: ""},
		{Name: "_", Type: "uint"},
		{Name: "d", Type: "uint"},
	}, "")

	assert.Equal(t, Params{"a": FullDomain(), "d": FullDomain()}, params)
}

func TestBuildParamsCustomType(t *testing.T) {
	t.Parallel()

	params := BuildParams([]Param{
		{Name: "a", Type: "uint"},
		{Name: "n", Type: "uintptr"},
	}, "uintptr")

	assert.Equal(t, Params{"n": FullDomain()}, params)
}

func TestBuildLocals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body []Stmt
		want Locals
	}{
		{
			name: "literal and dependency",
			body: []Stmt{
				DeclStmt{Name: "a", Init: IntLit{Value: 5}},
				DeclStmt{Name: "b", Init: Ident{Name: "a"}},
			},
			want: Locals{"a": Literal(Point(5)), "b": DependsOn("a")},
		},
		{
			name: "unsupported initializer is opaque",
			body: []Stmt{
				DeclStmt{Name: "x", Init: Unrecognized{Text: "some_call()"}},
				DeclStmt{Name: "y", Init: BinaryExpr{Op: OpAdd, X: IntLit{Value: 1}, Y: IntLit{Value: 2}}},
				DeclStmt{Name: "z"},
			},
			want: Locals{"x": Opaque(), "y": Opaque(), "z": Opaque()},
		},
		{
			name: "redeclaration overwrites",
			body: []Stmt{
				DeclStmt{Name: "a", Init: IntLit{Value: 5}},
				DeclStmt{Name: "a", Init: IntLit{Value: 7}},
			},
			want: Locals{"a": Literal(Point(7))},
		},
		{
			name: "unsupported redeclaration hides earlier value",
			body: []Stmt{
				DeclStmt{Name: "a", Init: IntLit{Value: 5}},
				DeclStmt{Name: "a", Init: Unrecognized{}},
			},
			want: Locals{"a": Opaque()},
		},
		{
			name: "destructuring is opaque",
			body: []Stmt{
				DeclStmt{Name: "a", Init: IntLit{Value: 1}, Destructured: true},
				DeclStmt{Name: "b", Init: IntLit{Value: 2}, Destructured: true},
				DeclStmt{Name: "_", Init: IntLit{Value: 3}},
			},
			want: Locals{"a": Opaque(), "b": Opaque()},
		},
		{
			name: "other statements ignored",
			body: []Stmt{
				OtherStmt{},
				IfStmt{Cond: Ident{Name: "ok"}},
				DeclStmt{Name: "a", Init: IntLit{Value: 0}},
			},
			want: Locals{"a": Literal(Point(0))},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, BuildLocals(tt.body))
		})
	}
}

func TestBindingString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "[5]", Literal(Point(5)).String())
	assert.Equal(t, "-> a", DependsOn("a").String())
	assert.Equal(t, "unknown", Opaque().String())
}
