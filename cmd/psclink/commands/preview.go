package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/psclink/cmd/psclink/handlers"
)

// Preview returns the command that shows what apply would change.
func Preview() *cobra.Command {
	var (
		configPath string
		diff       bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the changes apply would make",
		Long: `Validate the configuration, ensure the state backend and compute the
changes an apply would make, without touching any resource.

Examples:
  psclink preview
  psclink preview -c orders.yaml --diff`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Preview(cmd.Context(), configPath, diff)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", configFlagUsage)
	cmd.Flags().BoolVar(&diff, "diff", false, "Print a detailed property diff")

	return cmd
}
