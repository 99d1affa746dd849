package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/psclink/cmd/psclink/handlers"
)

// Apply returns the command that creates or updates a topology.
//
// Optional flags:
//
//	--config, -c: Path to topology configuration YAML file (default: auto-detect psclink.yaml)
//	--yes, -y:    Apply without asking after the preview
//	--tui:        Show the interactive progress view
//
// Environment variables:
//
//	PULUMI_CONFIG_PASSPHRASE: passphrase for the default secrets provider
//	GOOGLE_APPLICATION_CREDENTIALS: service account key (optional, ADC otherwise)
func Apply() *cobra.Command {
	var (
		configPath string
		opts       handlers.ApplyOptions
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create or update the topology",
		Long: `Create or update the producer and consumer resources of a topology.

The configuration is validated, the state bucket is ensured when the backend
is an s3:// URL, and a preview is shown. After confirmation the stack is
updated and its outputs are printed.

If no config file is specified, it looks for psclink.yaml in the current
directory and its parents. Use 'psclink init' to create one.

Examples:
  # Preview, confirm and apply using psclink.yaml
  psclink apply

  # Apply without confirmation (CI)
  psclink apply -c orders.yaml --yes

  # Follow progress in the interactive view
  psclink apply --yes --tui`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Apply(cmd.Context(), configPath, opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", configFlagUsage)
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Apply without confirmation")
	cmd.Flags().BoolVar(&opts.TUI, "tui", false, "Show the interactive progress view when running in a terminal")

	return cmd
}
