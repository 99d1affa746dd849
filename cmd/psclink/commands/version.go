package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/imamik/psclink/internal/engine"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersionInfo sets the version information from main.
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Version returns the version command.
func Version() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "psclink %s\n", version)
			fmt.Fprintf(out, "  commit:     %s\n", commit)
			fmt.Fprintf(out, "  built:      %s\n", date)
			fmt.Fprintf(out, "  gcp plugin: %s\n", engine.GCPPluginVersion)
			fmt.Fprintf(out, "  go:         %s\n", runtime.Version())
		},
	}
}
