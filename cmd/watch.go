package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gnolang/rangelint/formatter"
	tt "github.com/gnolang/rangelint/internal/types"
	"github.com/gnolang/rangelint/lint"
)

func newWatchCmd(g *globalOptions) *cobra.Command {
	var ignorePaths string

	cmd := &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Lint files again whenever they change",
		Long: `Lints the given paths once, then keeps watching them and reports the
issues of every .go file that is written, until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("please provide file or directory paths")
			}

			cfg, err := lint.LoadConfig(g.cfgFile)
			if err != nil {
				return err
			}
			engine, err := lint.New(cfg, g.logger)
			if err != nil {
				return fmt.Errorf("failed to initialize lint engine: %w", err)
			}
			engine.IgnorePaths(splitList(ignorePaths)...)

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
			var mu sync.Mutex
			report := func(filename string, issues []tt.Issue, err error) {
				mu.Lock()
				defer mu.Unlock()
				if err != nil {
					fmt.Fprintf(errOut, "error: %v\n", err)
					return
				}
				if len(issues) == 0 {
					fmt.Fprintf(out, "%s: ok\n", filename)
					return
				}
				_ = formatter.Write(out, formatter.FormatLine, issues, nil)
			}

			issues, err := lint.ProcessFiles(ctx, g.logger, engine, args, lint.ProcessFile)
			if err != nil {
				report("", nil, err)
			} else {
				_ = formatter.Write(out, formatter.FormatLine, issues, nil)
			}

			return engine.Watch(ctx, args, report)
		},
	}
	cmd.Flags().StringVar(&ignorePaths, "ignore-paths", "", "Comma-separated list of paths to ignore")
	return cmd
}
