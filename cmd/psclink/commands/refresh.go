package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/psclink/cmd/psclink/handlers"
)

// Refresh returns the command that reconciles the stack state with the
// live resources.
func Refresh() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Update the stack state from the live resources",
		Long: `Read every resource of the stack from Google Cloud and record drift in
the stack state. Resources are not changed.

Example:
  psclink refresh -c orders.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Refresh(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", configFlagUsage)

	return cmd
}
