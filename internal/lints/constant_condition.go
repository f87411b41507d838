package lints

import (
	"fmt"
	"go/ast"
	"go/token"

	"go.uber.org/zap"

	"github.com/gnolang/rangelint/internal/extract"
	"github.com/gnolang/rangelint/internal/rangecheck"
	tt "github.com/gnolang/rangelint/internal/types"
)

const ConstantConditionRule = "constant-condition"

// DetectConstantConditions reports top-level if conditions whose outcome is
// fixed by the value ranges of their operands.
func DetectConstantConditions(
	filename string,
	node *ast.File,
	fset *token.FileSet,
	severity tt.Severity,
	opts rangecheck.Options,
	logger *zap.Logger,
) ([]tt.Issue, error) {
	fns, err := extract.File(fset, node)
	if err != nil {
		return nil, err
	}

	checker := rangecheck.NewChecker(opts, logger)
	var issues []tt.Issue
	for _, d := range checker.CheckAll(fns) {
		issues = append(issues, tt.Issue{
			Rule:      ConstantConditionRule,
			Category:  "logic",
			Filename:  filename,
			Start:     fset.Position(d.Pos),
			End:       fset.Position(d.End),
			Message:   fmt.Sprintf("condition `%s` is always %s", d.Condition(), d.Verdict),
			Note:      fmt.Sprintf("%s is %s, %s is %s", d.Left, d.LeftRange, d.Right, d.RightRange),
			Severity:  severity,
			Function:  d.Function,
			Condition: d.Condition(),
			Verdict:   d.Verdict.String(),
		})
	}
	return issues, nil
}
