package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/psclink/cmd/psclink/handlers"
)

// Destroy returns the destroy command.
//
// The destroy command removes every resource of the topology. The engine
// deletes them in reverse dependency order: DNS, endpoint, service
// attachment, load balancer, service, subnets and networks.
func Destroy() *cobra.Command {
	var (
		configPath string
		opts       handlers.DestroyOptions
	)

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Destroy the topology and all associated resources",
		Long: `Destroy removes every resource of the topology from both projects.

This command deletes:
  - The private DNS zone and record (if configured)
  - The consumer endpoint, its address and firewall rule
  - The service attachment and the internal load balancer
  - The Cloud Run service and its invoker bindings
  - Subnets and networks of both projects

With --remove-stack the stack and its history are removed from the backend
afterwards. With --purge-backend the s3:// state bucket is emptied and
deleted as well (implies --remove-stack).

Example:
  psclink destroy -c orders.yaml --yes

WARNING: This operation is irreversible.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Destroy(cmd.Context(), configPath, opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", configFlagUsage)
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Destroy without confirmation")
	cmd.Flags().BoolVar(&opts.TUI, "tui", false, "Show the interactive progress view when running in a terminal")
	cmd.Flags().BoolVar(&opts.RemoveStack, "remove-stack", false, "Remove the stack and its history after destroying resources")
	cmd.Flags().BoolVar(&opts.PurgeBackend, "purge-backend", false, "Empty and delete the s3:// state bucket")

	return cmd
}
