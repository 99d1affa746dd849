// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/psclink/cmd/psclink/handlers"
)

// configFlagUsage describes the -c flag shared by every engine command.
const configFlagUsage = "Path to topology configuration file (default: psclink.yaml, searched upwards)"

// Root returns the root command for the psclink CLI.
//
// The root command binds the global flags and organizes the command hierarchy.
func Root() *cobra.Command {
	var globals handlers.GlobalOptions

	cmd := &cobra.Command{
		Use:           "psclink",
		Short:         "Provision Private Service Connect topologies on Google Cloud",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return handlers.SetGlobalOptions(globals)
		},
	}

	cmd.PersistentFlags().StringVar(&globals.LogFormat, "log-format", handlers.LogFormatText, "Log format: text or json")
	cmd.PersistentFlags().StringVar(&globals.MetricsFile, "metrics-file", "", "Write run metrics in Prometheus text format to this file")
	cmd.PersistentFlags().BoolVar(&globals.Debug, "debug", false, "Enable debug logging (json log format)")

	// Core commands
	cmd.AddCommand(Init())
	cmd.AddCommand(Validate())
	cmd.AddCommand(Preview())
	cmd.AddCommand(Apply())
	cmd.AddCommand(Refresh())
	cmd.AddCommand(Destroy())
	cmd.AddCommand(Outputs())

	// Utility commands
	cmd.AddCommand(Doctor())
	cmd.AddCommand(Render())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
