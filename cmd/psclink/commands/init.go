package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/psclink/cmd/psclink/handlers"
)

// Init returns the command that creates a configuration file.
func Init() *cobra.Command {
	var (
		outputPath string
		opts       handlers.InitOptions
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a topology configuration file",
		Long: `Create a psclink.yaml with the default subnet layout.

The interactive wizard asks for the topology name, region, both projects,
the container image and the address blocks. Use --advanced for the
connection, DNS and state backend questions.

With --non-interactive the answers come from flags; unset ones take the
wizard defaults.

Examples:
  psclink init
  psclink init --advanced -o orders.yaml
  psclink init --non-interactive --name orders \
    --producer-project orders-producer --consumer-project orders-consumer`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&outputPath, "output", "o", "psclink.yaml", "Output file path")
	f.BoolVar(&opts.NonInteractive, "non-interactive", false, "Take answers from flags instead of the wizard")
	f.BoolVar(&opts.Advanced, "advanced", false, "Ask the connection, DNS and backend questions")
	f.BoolVarP(&opts.Force, "force", "f", false, "Overwrite an existing file without asking")
	f.BoolVar(&opts.SkipAPIs, "skip-apis", false, "Do not enable project APIs (they are already enabled)")
	f.StringVar(&opts.Name, "name", "", "Topology name")
	f.StringVar(&opts.Region, "region", "", "Google Cloud region (default: europe-west1)")
	f.StringVar(&opts.ProducerProject, "producer-project", "", "Project publishing the service")
	f.StringVar(&opts.ConsumerProject, "consumer-project", "", "Project consuming the service")
	f.StringVar(&opts.Image, "image", "", "Container image of the service")
	f.StringVar(&opts.ProducerBlock, "producer-block", "", "Address block the producer subnets are carved from")
	f.StringVar(&opts.ConsumerBlock, "consumer-block", "", "Address block the consumer subnets are carved from")
	f.StringVar(&opts.BackendURL, "backend", "", "State backend URL (file://, gs:// or s3://)")

	return cmd
}
