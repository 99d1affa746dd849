package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/psclink/cmd/psclink/handlers"
)

// Doctor returns the command that checks the local setup.
func Doctor() *cobra.Command {
	var (
		configPath string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check tools, credentials, configuration and state backend",
		Long: `Check that the engine CLI is installed, credentials are available, the
configuration is valid and the state backend is reachable.

Exits non-zero when any check fails.

Examples:
  psclink doctor
  psclink doctor --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), configPath, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", configFlagUsage)
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}
