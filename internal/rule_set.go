package internal

import (
	"fmt"
	"go/ast"
	"go/token"

	"go.uber.org/zap"

	"github.com/gnolang/rangelint/internal/lints"
	"github.com/gnolang/rangelint/internal/rangecheck"
	tt "github.com/gnolang/rangelint/internal/types"
)

// LintRule defines the interface for all lint rules.
type LintRule interface {
	// Check runs the lint rule on the given file and returns a slice of Issues.
	Check(filename string, node *ast.File, fset *token.FileSet) ([]tt.Issue, error)

	// Name returns the name of the lint rule.
	Name() string

	Severity() tt.Severity
	SetSeverity(tt.Severity)

	// Configure applies the rule's data section from the config file.
	Configure(data tt.ConfigRule) error
}

type ConstantConditionRule struct {
	severity tt.Severity
	opts     rangecheck.Options
	logger   *zap.Logger
}

func NewConstantConditionRule(logger *zap.Logger) LintRule {
	return &ConstantConditionRule{
		severity: tt.SeverityWarning,
		opts:     rangecheck.DefaultOptions(),
		logger:   logger,
	}
}

func (r *ConstantConditionRule) Check(filename string, node *ast.File, fset *token.FileSet) ([]tt.Issue, error) {
	return lints.DetectConstantConditions(filename, node, fset, r.severity, r.opts, r.logger)
}

func (r *ConstantConditionRule) Name() string {
	return lints.ConstantConditionRule
}

func (r *ConstantConditionRule) Severity() tt.Severity {
	return r.severity
}

func (r *ConstantConditionRule) SetSeverity(severity tt.Severity) {
	r.severity = severity
}

func (r *ConstantConditionRule) Configure(cfg tt.ConfigRule) error {
	symmetric, err := cfg.Bool("symmetric", r.opts.Symmetric)
	if err != nil {
		return fmt.Errorf("%s: %w", r.Name(), err)
	}
	unsigned, err := cfg.String("unsigned-type", r.opts.UnsignedType)
	if err != nil {
		return fmt.Errorf("%s: %w", r.Name(), err)
	}
	if unsigned == "" {
		return fmt.Errorf("%s: option \"unsigned-type\" must not be empty", r.Name())
	}
	r.opts.Symmetric = symmetric
	r.opts.UnsignedType = unsigned
	return nil
}

// Options returns the checker options the rule runs with.
func (r *ConstantConditionRule) Options() rangecheck.Options {
	return r.opts
}
