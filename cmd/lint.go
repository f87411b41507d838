package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/rangelint/formatter"
	"github.com/gnolang/rangelint/internal"
	"github.com/gnolang/rangelint/internal/lints"
	tt "github.com/gnolang/rangelint/internal/types"
	"github.com/gnolang/rangelint/lint"
)

type lintOptions struct {
	ignoreRules string
	ignorePaths string
	format      string
	outPath     string
	symmetric   bool
	cacheDir    string
	cacheMaxAge time.Duration
	clearCache  bool
}

func newLintCmd(g *globalOptions) *cobra.Command {
	o := &lintOptions{}
	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Report if conditions whose outcome is known before the program runs",
		Long: `Lints the given files and directories. An argument ending in "..." is a
package pattern, resolved by the go command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("please provide file or directory paths")
			}
			return runLint(cmd, g, o, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.ignoreRules, "ignore", "", "Comma-separated list of lint rules to ignore")
	flags.StringVar(&o.ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
	flags.StringVar(&o.format, "format", string(formatter.FormatText), "Output format (text, line, json)")
	flags.StringVarP(&o.outPath, "output", "o", "", "Write the report to this file instead of stdout")
	flags.BoolVar(&o.symmetric, "symmetric", true, "Report comparisons whose left operand is always smaller")
	flags.StringVar(&o.cacheDir, "cache-dir", "", "Reuse results of unchanged files stored in this directory")
	flags.DurationVar(&o.cacheMaxAge, "cache-max-age", 0, "Treat cached results older than this as stale (0 keeps them)")
	flags.BoolVar(&o.clearCache, "clear-cache", false, "Drop every cached result before linting")
	return cmd
}

func runLint(cmd *cobra.Command, g *globalOptions, o *lintOptions, paths []string) error {
	format, err := formatter.ParseFormat(o.format)
	if err != nil {
		return err
	}

	cfg, err := lint.LoadConfig(g.cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("symmetric") {
		cfg.SetRuleOption(lints.ConstantConditionRule, "symmetric", o.symmetric)
	}

	engine, err := lint.New(cfg, g.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize lint engine: %w", err)
	}
	for _, rule := range splitList(o.ignoreRules) {
		engine.IgnoreRule(rule)
	}
	engine.IgnorePaths(splitList(o.ignorePaths)...)

	var cache *internal.Cache
	if o.cacheDir != "" {
		cache, err = lint.NewCache(o.cacheDir, cfg)
		if err != nil {
			return err
		}
		cache.SetMaxAge(o.cacheMaxAge)
		if o.clearCache {
			cache.InvalidateAll()
		}
		engine.SetCache(cache)
	}

	ctx, cancel := context.WithTimeout(commandContext(cmd), g.timeout)
	defer cancel()

	paths, err = lint.ExpandPackagePatterns(ctx, "", paths)
	if err != nil {
		return err
	}

	issues, err := lint.ProcessFiles(ctx, g.logger, engine, paths, lint.ProcessFile)
	if err != nil {
		return err
	}

	if cache != nil {
		if err := cache.Save(); err != nil {
			g.logger.Warn("failed to save cache", zap.String("dir", o.cacheDir), zap.Error(err))
		}
	}

	if err := writeReport(cmd.OutOrStdout(), o.outPath, format, issues); err != nil {
		return err
	}
	if len(issues) > 0 {
		return errIssuesFound
	}
	return nil
}

func writeReport(stdout io.Writer, outPath string, format formatter.Format, issues []tt.Issue) error {
	if outPath == "" {
		return formatter.Write(stdout, format, issues, internal.ReadSourceCode)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	if err := formatter.Write(f, format, issues, internal.ReadSourceCode); err != nil {
		f.Close()
		return fmt.Errorf("error writing output file: %w", err)
	}
	return f.Close()
}

// splitList splits a comma-separated flag value, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
