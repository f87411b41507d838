package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnolang/rangelint/lint"
)

// newInitCmd: rangelint init
func newInitCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new linter configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfigurationFile(g.cfgFile); err != nil {
				return fmt.Errorf("error initializing config file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file created/updated: %s\n", g.cfgFile)
			return nil
		},
	}
}

func initConfigurationFile(configurationPath string) error {
	if configurationPath == "" {
		configurationPath = lint.DefaultConfigPath
	}

	d, err := lint.DefaultConfig().Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(configurationPath, d, 0o644)
}
