package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gnolang/rangelint/lint"
)

const defaultTimeout = 5 * time.Minute

// Exit statuses.
const (
	ExitOK     = 0
	ExitIssues = 1
	ExitError  = 2
)

// errIssuesFound makes a command exit with ExitIssues without printing
// anything more.
var errIssuesFound = errors.New("issues found")

// globalOptions are the flags shared by every subcommand.
type globalOptions struct {
	cfgFile  string
	timeout  time.Duration
	logLevel string

	logger *zap.Logger
}

// NewRootCmd builds the rangelint command tree. Every call returns fresh
// commands, so flag values never leak from one run into the next.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{logger: zap.NewNop()}
	lintCmd := newLintCmd(opts)

	rootCmd := &cobra.Command{
		Use:              "rangelint [paths...]",
		Short:            "rangelint - reports if conditions that always evaluate the same way",
		TraverseChildren: true, // Prioritize subcommands
		SilenceUsage:     true,
		SilenceErrors:    true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(opts.logLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			opts.logger = logger
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// display help when only 'rangelint' is entered
				return cmd.Help()
			}
			// Format: rangelint [path1 path2 ...] => behaves like the lint subcommand
			lintCmd.SetContext(commandContext(cmd))
			return lintCmd.RunE(lintCmd, args)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.cfgFile, "config", "c", lint.DefaultConfigPath, "Path to the configuration file")
	flags.DurationVar(&opts.timeout, "timeout", defaultTimeout, "Abort the run after this long")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(newInitCmd(opts))
	rootCmd.AddCommand(newBindingsCmd(opts))
	rootCmd.AddCommand(newWatchCmd(opts))
	return rootCmd
}

// Run executes the command line in os.Args and returns the exit status.
func Run() int {
	return RunArgs(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

// RunArgs executes rangelint with args and returns the exit status.
func RunArgs(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errIssuesFound):
		return ExitIssues
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitError
	}
}

func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

// commandContext returns the context of cmd, which is unset when a command
// is invoked through another one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
