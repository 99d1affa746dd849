package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/psclink/cmd/psclink/handlers"
)

// Render returns the command that prints the planned resource graph.
func Render() *cobra.Command {
	var (
		configPath string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the planned resources without the engine",
		Long: `Run the topology program offline and print every resource it declares,
with its type, project side and the resources it references. Nothing is
read from or written to Google Cloud.

Examples:
  psclink render
  psclink render -o yaml`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return handlers.Render(configPath, format)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", configFlagUsage)
	cmd.Flags().StringVarP(&format, "output", "o", handlers.FormatTable, "Output format: table, json or yaml")

	return cmd
}
