// Package internal holds the lint engine of rangelint.
//
// Engine parses each file once and applies the enabled LintRule
// implementations to it. Rules are created from a registry keyed by rule
// name and configured from the YAML rule settings; the only rule today is
// constant-condition, which reports top-level if conditions whose outcome
// follows from the value ranges of their operands.
//
// Issues on lines covered by a //nolint directive are dropped, and the
// remaining issues are sorted by position. An optional Cache keeps the
// issues of unchanged files between runs, and Engine.Watch lints files
// again as they are written.
//
// Usage:
//
//	engine, err := internal.NewEngine(cfg.Rules, logger)
//	if err != nil {
//	    // handle error
//	}
//
//	issues, err := engine.Run("path/to/file.go")
//	if err != nil {
//	    // malformed source or unreadable file
//	}
package internal
