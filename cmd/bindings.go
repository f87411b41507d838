package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gnolang/rangelint/internal"
	"github.com/gnolang/rangelint/internal/extract"
	"github.com/gnolang/rangelint/internal/lints"
	"github.com/gnolang/rangelint/internal/rangecheck"
	"github.com/gnolang/rangelint/lint"
	"github.com/gnolang/rangelint/scanner"
)

func newBindingsCmd(g *globalOptions) *cobra.Command {
	var funcName string

	cmd := &cobra.Command{
		Use:   "bindings [paths...]",
		Short: "Print the value ranges the linter derives for each function",
		Long: `Prints the parameter and local variable tables of a function, followed by
the resolved ranges and the verdict of each top-level if condition.
Example) rangelint bindings --func Transfer token.go`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return fmt.Errorf("please provide file or directory paths")
			}
			opts, err := checkerOptions(g)
			if err != nil {
				return err
			}
			return runBindings(cmd.OutOrStdout(), g.logger, args, funcName, opts)
		},
	}
	cmd.Flags().StringVar(&funcName, "func", "", "Only print this function (Name or Recv.Name)")
	return cmd
}

// checkerOptions returns the options the configured constant-condition
// rule runs with.
func checkerOptions(g *globalOptions) (rangecheck.Options, error) {
	cfg, err := lint.LoadConfig(g.cfgFile)
	if err != nil {
		return rangecheck.Options{}, err
	}
	rule := internal.NewConstantConditionRule(g.logger).(*internal.ConstantConditionRule)
	if rc, ok := cfg.Rules[lints.ConstantConditionRule]; ok {
		if err := rule.Configure(rc); err != nil {
			return rangecheck.Options{}, err
		}
	}
	return rule.Options(), nil
}

func runBindings(w io.Writer, logger *zap.Logger, paths []string, funcName string, opts rangecheck.Options) error {
	files, err := goFiles(paths)
	if err != nil {
		return err
	}

	found := false
	for _, file := range files {
		src, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("error reading %s: %w", file, err)
		}
		fset, fns, err := extract.ParseSource(file, src)
		if err != nil {
			return err
		}
		for _, fn := range fns {
			if funcName != "" && fn.Name != funcName {
				continue
			}
			found = true
			logger.Debug("printing bindings", zap.String("file", file), zap.String("func", fn.Name))
			printBindings(w, fset.Position(fn.Pos).String(), fn, opts)
		}
	}

	if funcName != "" && !found {
		return fmt.Errorf("function not found: %s", funcName)
	}
	return nil
}

func printBindings(w io.Writer, pos string, fn rangecheck.Function, opts rangecheck.Options) {
	tables := rangecheck.Build(fn, opts.UnsignedType)

	fmt.Fprintf(w, "func %s (%s)\n", fn.Name, pos)

	fmt.Fprintln(w, "  params:")
	for _, name := range sortedKeys(tables.Params) {
		fmt.Fprintf(w, "    %s: %s\n", name, tables.Params[name])
	}

	fmt.Fprintln(w, "  locals:")
	for _, name := range sortedKeys(tables.Locals) {
		fmt.Fprintf(w, "    %s: %s\n", name, tables.Locals[name])
	}

	fmt.Fprintln(w, "  conditions:")
	for _, cond := range rangecheck.ExtractConditions(fn.Body) {
		fmt.Fprintf(w, "    %s: %s\n", cond, describeCondition(tables, cond, opts.Symmetric))
	}
}

func describeCondition(tables rangecheck.Tables, cond rangecheck.Condition, symmetric bool) string {
	if !cond.Op.IsComparison() {
		return "not a comparison"
	}
	left, err := tables.Resolve(cond.Left)
	if err != nil {
		return err.Error()
	}
	right, err := tables.Resolve(cond.Right)
	if err != nil {
		return err.Error()
	}

	cmp := left.Compare(right)
	verdict := rangecheck.Decide(cmp, cond.Op, symmetric)
	if verdict == rangecheck.Indeterminate {
		return fmt.Sprintf("%s (%s, %s)", verdict, left, right)
	}
	return fmt.Sprintf("always %s (%s, %s)", verdict, left, right)
}

// goFiles expands directories in paths into the .go files below them.
func goFiles(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("error accessing %s: %w", p, err)
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		files, err := scanner.New(p, ".go").Scan()
		if err != nil {
			return nil, fmt.Errorf("error scanning %s: %w", p, err)
		}
		for _, f := range files {
			out = append(out, f.Path)
		}
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
