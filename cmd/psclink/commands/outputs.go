package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/psclink/cmd/psclink/handlers"
)

// Outputs returns the command that prints the stack outputs.
func Outputs() *cobra.Command {
	var (
		configPath  string
		format      string
		showSecrets bool
	)

	cmd := &cobra.Command{
		Use:   "outputs",
		Short: "Print the stack outputs",
		Long: `Print the outputs of the last update: networks, service URI, load
balancer address, service attachment, endpoint address and the PSC
connection status.

Examples:
  psclink outputs
  psclink outputs -o json | jq -r .endpointIp`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Outputs(cmd.Context(), configPath, format, showSecrets)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", configFlagUsage)
	cmd.Flags().StringVarP(&format, "output", "o", handlers.FormatTable, "Output format: table, json or yaml")
	cmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "Print secret outputs in plain text")

	return cmd
}
