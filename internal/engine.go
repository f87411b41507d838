package internal

import (
	"fmt"
	"go/ast"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnolang/rangelint/internal/lints"
	"github.com/gnolang/rangelint/internal/nolint"
	tt "github.com/gnolang/rangelint/internal/types"
)

// Engine manages the linting process.
type Engine struct {
	logger        *zap.Logger
	ignoredRules  map[string]bool
	disabledRules map[string]bool // turned off by the config, a subset of ignoredRules
	ignoredPaths  []string
	rules         map[string]LintRule
	cache         *Cache
}

// NewEngine creates a new lint engine. rules holds the per-rule
// configuration read from the config file; it may be nil.
func NewEngine(rules map[string]tt.ConfigRule, logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	engine := &Engine{
		logger:        logger,
		ignoredRules:  make(map[string]bool),
		disabledRules: make(map[string]bool),
	}
	if err := engine.applyRules(rules); err != nil {
		return nil, err
	}
	return engine, nil
}

type ruleConstructor func(*zap.Logger) LintRule

type ruleMap map[string]ruleConstructor

var allRuleConstructors = ruleMap{
	lints.ConstantConditionRule: NewConstantConditionRule,
}

// RuleNames returns the names of every known rule, sorted.
func RuleNames() []string {
	names := make([]string, 0, len(allRuleConstructors))
	for name := range allRuleConstructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (e *Engine) applyRules(rules map[string]tt.ConfigRule) error {
	e.rules = make(map[string]LintRule, len(allRuleConstructors))
	for key, newRule := range allRuleConstructors {
		e.rules[key] = newRule(e.logger.Named(key))
	}

	for key, cfg := range rules {
		r := e.findRule(key)
		if r == nil {
			e.logger.Warn("unknown rule in config", zap.String("rule", key))
			continue
		}
		if cfg.Severity == tt.SeverityOff {
			e.disabledRules[key] = true
			e.IgnoreRule(key)
		}
		r.SetSeverity(cfg.Severity)
		if err := r.Configure(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return nil
}

func (e *Engine) findRule(name string) LintRule {
	if rule, ok := e.rules[name]; ok {
		return rule
	}
	return nil
}

// Rule returns the named rule, or nil.
func (e *Engine) Rule(name string) LintRule {
	return e.findRule(name)
}

func (e *Engine) IgnoreRule(rule string) {
	e.ignoredRules[rule] = true
}

// IgnorePaths skips files matching any of the glob patterns. A pattern is
// matched against the whole path and against the base name; a pattern
// ending in "/" matches every file below that directory.
func (e *Engine) IgnorePaths(patterns ...string) {
	e.ignoredPaths = append(e.ignoredPaths, patterns...)
}

// SetCache enables the issue cache.
func (e *Engine) SetCache(c *Cache) {
	e.cache = c
}

// IsIgnoredPath reports whether filename matches an ignore pattern.
func (e *Engine) IsIgnoredPath(filename string) bool {
	clean := filepath.ToSlash(filepath.Clean(filename))
	for _, pattern := range e.ignoredPaths {
		if strings.HasSuffix(pattern, "/") {
			dir := strings.TrimPrefix(pattern, "./")
			if strings.HasPrefix(clean, dir) || strings.Contains(clean, "/"+dir) {
				return true
			}
			continue
		}
		if ok, _ := filepath.Match(pattern, clean); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, filepath.Base(clean)); ok {
			return true
		}
	}
	return false
}

// Run applies all lint rules to the given file and returns a slice of Issues.
func (e *Engine) Run(filename string) ([]tt.Issue, error) {
	if e.IsIgnoredPath(filename) {
		e.logger.Debug("skip ignored path", zap.String("file", filename))
		return nil, nil
	}
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return e.RunSource(filename, content)
}

// RunSource applies all lint rules to the given source and returns a slice
// of Issues sorted by position.
//
// With a cache, every configured rule runs and the cache holds the issues
// of all of them; rules ignored for this run are filtered out afterwards.
func (e *Engine) RunSource(filename string, source []byte) ([]tt.Issue, error) {
	if e.cache != nil {
		if issues, ok := e.cache.Get(filename, source); ok {
			e.logger.Debug("cache hit", zap.String("file", filename))
			return e.filterIgnoredRules(issues), nil
		}
	}

	node, fset, err := lints.ParseFile(filename, source)
	if err != nil {
		return nil, err
	}

	skip := e.ignoredRules
	if e.cache != nil {
		skip = e.disabledRules
	}
	issues, err := e.runRules(filename, node, fset, skip)
	if err != nil {
		return nil, err
	}

	if e.cache == nil {
		return issues, nil
	}
	e.cache.Set(filename, source, issues)
	return e.filterIgnoredRules(issues), nil
}

func (e *Engine) filterIgnoredRules(issues []tt.Issue) []tt.Issue {
	if len(e.ignoredRules) == 0 {
		return issues
	}
	filtered := make([]tt.Issue, 0, len(issues))
	for _, issue := range issues {
		if !e.ignoredRules[issue.Rule] {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

func (e *Engine) runRules(filename string, node *ast.File, fset *token.FileSet, skip map[string]bool) ([]tt.Issue, error) {
	nolintMgr := nolint.ParseComments(node, fset)

	var (
		g         errgroup.Group
		mu        sync.Mutex
		allIssues []tt.Issue
	)
	for _, rule := range e.rules {
		rule := rule
		if skip[rule.Name()] {
			continue
		}
		g.Go(func() error {
			issues, err := rule.Check(filename, node, fset)
			if err != nil {
				return fmt.Errorf("%s: %w", rule.Name(), err)
			}
			issues = filterNolintIssues(nolintMgr, issues)

			mu.Lock()
			allIssues = append(allIssues, issues...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortIssues(allIssues)
	return allIssues, nil
}

// filterNolintIssues filters issues based on nolint comments.
func filterNolintIssues(mgr *nolint.Manager, issues []tt.Issue) []tt.Issue {
	if mgr == nil {
		return issues
	}
	filtered := make([]tt.Issue, 0, len(issues))
	for _, issue := range issues {
		if !mgr.IsNolint(issue.Start, issue.Rule) {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

func sortIssues(issues []tt.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i].Start, issues[j].Start
		if a.Filename != b.Filename {
			return a.Filename < b.Filename
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return issues[i].Rule < issues[j].Rule
	})
}

// SourceCode stores the content of a source code file.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads the content of a file and returns it as a `SourceCode` struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return NewSourceCode(content), nil
}

// NewSourceCode splits content into lines.
func NewSourceCode(content []byte) *SourceCode {
	return &SourceCode{Lines: strings.Split(string(content), "\n")}
}
