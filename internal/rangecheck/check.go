package rangecheck

import (
	"fmt"
	"go/token"

	"go.uber.org/zap"
)

// Condition is a comparison of two variables found in an if statement.
type Condition struct {
	Left  string
	Op    Op
	Right string
	Pos   token.Pos
	End   token.Pos
}

func (c Condition) String() string {
	return c.Left + " " + c.Op.String() + " " + c.Right
}

// ExtractConditions returns the conditions of the top-level if statements
// of body whose operands are both plain names. Conditions of any other shape
// are dropped.
func ExtractConditions(body []Stmt) []Condition {
	var conds []Condition
	for _, stmt := range body {
		ifs, ok := stmt.(IfStmt)
		if !ok {
			continue
		}
		bin, ok := ifs.Cond.(BinaryExpr)
		if !ok {
			continue
		}
		left, ok := bin.X.(Ident)
		if !ok {
			continue
		}
		right, ok := bin.Y.(Ident)
		if !ok {
			continue
		}
		conds = append(conds, Condition{
			Left:  left.Name,
			Op:    bin.Op,
			Right: right.Name,
			Pos:   ifs.Pos,
			End:   ifs.End,
		})
	}
	return conds
}

// Verdict is the fixed outcome of a condition.
type Verdict int

const (
	Indeterminate Verdict = iota
	AlwaysTrue
	AlwaysFalse
)

func (v Verdict) String() string {
	switch v {
	case AlwaysTrue:
		return "true"
	case AlwaysFalse:
		return "false"
	default:
		return "indeterminate"
	}
}

// Decide maps a range comparison and an operator to a verdict.
//
// With symmetric unset, AlwaysSmaller never yields a verdict. With symmetric
// set it mirrors AlwaysLarger.
func Decide(cmp Comparison, op Op, symmetric bool) Verdict {
	switch cmp {
	case AlwaysLarger:
		switch op {
		case OpGte, OpGt, OpNeq:
			return AlwaysTrue
		case OpEq, OpLt, OpLte:
			return AlwaysFalse
		}
	case AlwaysEqual:
		switch op {
		case OpEq, OpGte, OpLte:
			return AlwaysTrue
		case OpGt, OpNeq, OpLt:
			return AlwaysFalse
		}
	case AlwaysSmaller:
		if !symmetric {
			return Indeterminate
		}
		switch op {
		case OpLte, OpLt, OpNeq:
			return AlwaysTrue
		case OpEq, OpGt, OpGte:
			return AlwaysFalse
		}
	}
	return Indeterminate
}

// Diagnostic reports a condition whose outcome never changes.
type Diagnostic struct {
	Function string
	Left     string
	Op       Op
	Right    string
	Verdict  Verdict
	Pos      token.Pos
	End      token.Pos

	LeftRange  Range
	RightRange Range
}

// Condition returns the condition text, e.g. "a < b".
func (d Diagnostic) Condition() string {
	return d.Left + " " + d.Op.String() + " " + d.Right
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("in fn %s: %s: is always %s", d.Function, d.Condition(), d.Verdict)
}

// Options configures a Checker.
type Options struct {
	// UnsignedType is the type name whose parameters span the whole domain.
	// Empty means DefaultUnsignedType.
	UnsignedType string
	// Symmetric enables verdicts for operands that are always smaller.
	Symmetric bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{UnsignedType: DefaultUnsignedType, Symmetric: true}
}

// Checker finds constant conditions in functions.
type Checker struct {
	opts   Options
	logger *zap.Logger
}

// NewChecker returns a checker. A nil logger discards debug output.
func NewChecker(opts Options, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.UnsignedType == "" {
		opts.UnsignedType = DefaultUnsignedType
	}
	return &Checker{opts: opts, logger: logger}
}

// Check analyzes fn and returns a diagnostic for each top-level condition
// with a fixed outcome, in source order. Conditions that cannot be resolved
// are skipped.
func (c *Checker) Check(fn Function) []Diagnostic {
	tables := Build(fn, c.opts.UnsignedType)

	var diags []Diagnostic
	for _, cond := range ExtractConditions(fn.Body) {
		if d, ok := c.checkCondition(fn.Name, tables, cond); ok {
			diags = append(diags, d)
		}
	}
	return diags
}

// CheckAll analyzes each function in order.
func (c *Checker) CheckAll(fns []Function) []Diagnostic {
	var diags []Diagnostic
	for _, fn := range fns {
		diags = append(diags, c.Check(fn)...)
	}
	return diags
}

func (c *Checker) checkCondition(fnName string, tables Tables, cond Condition) (Diagnostic, bool) {
	if !cond.Op.IsComparison() {
		c.logger.Debug("skip non-comparison condition",
			zap.String("func", fnName),
			zap.Stringer("cond", cond))
		return Diagnostic{}, false
	}

	left, err := tables.Resolve(cond.Left)
	if err != nil {
		c.logger.Debug("skip condition", zap.String("func", fnName), zap.Stringer("cond", cond), zap.Error(err))
		return Diagnostic{}, false
	}
	right, err := tables.Resolve(cond.Right)
	if err != nil {
		c.logger.Debug("skip condition", zap.String("func", fnName), zap.Stringer("cond", cond), zap.Error(err))
		return Diagnostic{}, false
	}

	cmp := left.Compare(right)
	verdict := Decide(cmp, cond.Op, c.opts.Symmetric)
	if verdict == Indeterminate {
		return Diagnostic{}, false
	}

	return Diagnostic{
		Function:   fnName,
		Left:       cond.Left,
		Op:         cond.Op,
		Right:      cond.Right,
		Verdict:    verdict,
		Pos:        cond.Pos,
		End:        cond.End,
		LeftRange:  left,
		RightRange: right,
	}, true
}
