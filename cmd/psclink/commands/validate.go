package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/psclink/cmd/psclink/handlers"
)

// Validate returns the command that checks a configuration file offline.
func Validate() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a configuration file",
		Long: `Load the configuration, apply defaults and report every error and
warning. No credentials or engine are needed.

Example:
  psclink validate -c orders.yaml`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Validate(configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", configFlagUsage)

	return cmd
}
