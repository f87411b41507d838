package rangecheck

import (
	"go/token"
	"strconv"
)

// Function is the parsed view of a single function the checker works on.
type Function struct {
	Name   string
	Params []Param
	Body   []Stmt
	Pos    token.Pos
}

// Param is a declared function parameter. Type holds the bare type name
// (e.g. "uint"); it is empty for types that are not a plain identifier.
type Param struct {
	Name string
	Type string
}

// Stmt represents a top-level statement of a function body.
type Stmt interface {
	isStmt()
}

// DeclStmt declares a local variable. Init is nil when the declaration has
// no initializer. Destructured is set for each name of a declaration that
// binds several names at once.
type DeclStmt struct {
	Name         string
	Init         Expr
	Destructured bool
	Pos          token.Pos
}

// IfStmt is a conditional statement. Its branches are not explored.
// Pos and End delimit the condition.
type IfStmt struct {
	Cond Expr
	Pos  token.Pos
	End  token.Pos
}

// OtherStmt is any statement the checker ignores.
type OtherStmt struct{}

func (DeclStmt) isStmt()  {}
func (IfStmt) isStmt()    {}
func (OtherStmt) isStmt() {}

// Expr represents an expression.
type Expr interface {
	isExpr()
	String() string
}

// IntLit is an unsigned integer literal.
type IntLit struct {
	Value uint64
}

// Ident is a plain reference to a variable by name.
type Ident struct {
	Name string
}

// BinaryExpr is a binary comparison, arithmetic, bitwise or logical
// expression.
type BinaryExpr struct {
	Op Op
	X  Expr
	Y  Expr
}

// Unrecognized stands for every expression shape the checker does not model
// (calls, selectors, unary expressions, ...). Text is kept for diagnostics.
type Unrecognized struct {
	Text string
}

func (IntLit) isExpr()       {}
func (Ident) isExpr()        {}
func (BinaryExpr) isExpr()   {}
func (Unrecognized) isExpr() {}

func (e IntLit) String() string { return strconv.FormatUint(e.Value, 10) }
func (e Ident) String() string  { return e.Name }

func (e BinaryExpr) String() string {
	return e.X.String() + " " + e.Op.String() + " " + e.Y.String()
}

func (e Unrecognized) String() string {
	if e.Text == "" {
		return "<expr>"
	}
	return e.Text
}

// Op represents a binary operator.
type Op int

const (
	OpInvalid Op = iota

	// comparisons
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte

	// arithmetic, bitwise and logical operators are kept only so that
	// conditions using them can be recognized and skipped.
	OpAdd
	OpSub
	OpMul
	OpQuo
	OpRem
	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpAndNot
	OpLAnd
	OpLOr
)

var opStrings = [...]string{
	OpInvalid: "?",
	OpEq:      "==",
	OpNeq:     "!=",
	OpLt:      "<",
	OpLte:     "<=",
	OpGt:      ">",
	OpGte:     ">=",
	OpAdd:     "+",
	OpSub:     "-",
	OpMul:     "*",
	OpQuo:     "/",
	OpRem:     "%",
	OpAnd:     "&",
	OpOr:      "|",
	OpXor:     "^",
	OpShl:     "<<",
	OpShr:     ">>",
	OpAndNot:  "&^",
	OpLAnd:    "&&",
	OpLOr:     "||",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opStrings) {
		return "?"
	}
	return opStrings[op]
}

// IsComparison reports whether op is one of ==, !=, <, <=, >, >=.
func (op Op) IsComparison() bool {
	return op >= OpEq && op <= OpGte
}
