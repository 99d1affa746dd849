package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/imamik/psclink/internal/config"
	"github.com/imamik/psclink/internal/config/wizard"
	"github.com/imamik/psclink/internal/util/ptr"
)

// InitOptions configures Init. The answer fields are used with
// NonInteractive; empty ones take the wizard defaults.
type InitOptions struct {
	NonInteractive bool
	Advanced       bool
	Force          bool
	SkipAPIs       bool

	Name            string
	Region          string
	ProducerProject string
	ConsumerProject string
	Image           string
	ProducerBlock   string
	ConsumerBlock   string
	BackendURL      string
}

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = wizard.FileExists

	// confirmOverwrite asks before replacing an existing file.
	confirmOverwrite = wizard.ConfirmOverwrite

	// runWizard runs the interactive wizard.
	runWizard = wizard.RunWizard

	// writeConfig writes the config to a file.
	writeConfig = wizard.WriteConfig
)

// Init creates a configuration file, either from the interactive wizard or
// from the given answers.
func Init(ctx context.Context, outputPath string, opts InitOptions) error {
	if outputPath == "" {
		outputPath = config.DefaultConfigFilename
	}

	if fileExists(outputPath) && !opts.Force {
		if opts.NonInteractive {
			return fmt.Errorf("%s already exists, use --force to overwrite it", outputPath)
		}
		ok, err := confirmOverwrite(outputPath)
		if err != nil {
			return fmt.Errorf("confirmation failed: %w", err)
		}
		if !ok {
			return errCanceled
		}
	}

	var result *wizard.WizardResult
	if opts.NonInteractive {
		if opts.Name == "" || opts.ProducerProject == "" || opts.ConsumerProject == "" {
			return errors.New("--name, --producer-project and --consumer-project are required with --non-interactive")
		}
		result = opts.answers()
	} else {
		printWelcome()
		var err error
		result, err = runWizard(ctx, opts.Advanced)
		if err != nil {
			return fmt.Errorf("wizard canceled: %w", err)
		}
	}

	cfg, err := wizard.BuildConfig(result)
	if err != nil {
		return fmt.Errorf("failed to build config: %w", err)
	}
	if opts.SkipAPIs {
		cfg.Producer.EnableAPIs = ptr.Bool(false)
		cfg.Consumer.EnableAPIs = ptr.Bool(false)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("generated config is invalid: %w", err)
	}

	if err := writeConfig(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, cfg)
	return nil
}

func (o InitOptions) answers() *wizard.WizardResult {
	return &wizard.WizardResult{
		Name:                 o.Name,
		Region:               orDefault(o.Region, wizard.DefaultRegion),
		ProducerProject:      o.ProducerProject,
		ConsumerProject:      o.ConsumerProject,
		Image:                orDefault(o.Image, wizard.DefaultImage),
		ProducerBlock:        orDefault(o.ProducerBlock, wizard.DefaultProducerBlock),
		ConsumerBlock:        orDefault(o.ConsumerBlock, wizard.DefaultConsumerBlock),
		ConnectionPreference: wizard.PreferenceManual,
		BackendURL:           o.BackendURL,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "psclink - Private Service Connect on Google Cloud")
	fmt.Fprintln(stdout, "=================================================")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "This wizard creates a producer/consumer topology with the default subnet layout.")
	fmt.Fprintln(stdout, "The generated YAML is fully expanded; edit it to fine-tune any resource.")
	fmt.Fprintln(stdout)
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, cfg *config.Config) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Configuration saved!")
	fmt.Fprintln(stdout)
	fmt.Fprintf(stdout, "  File: %s\n", outputPath)
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Topology Summary")
	fmt.Fprintln(stdout, "----------------")
	fmt.Fprintf(stdout, "  Name:     %s\n", cfg.Name)
	fmt.Fprintf(stdout, "  Region:   %s\n", cfg.Region)
	fmt.Fprintf(stdout, "  Producer: %s (%s)\n", cfg.Producer.Project, cfg.Producer.Service.Image)
	fmt.Fprintf(stdout, "  Consumer: %s\n", cfg.Consumer.Project)
	fmt.Fprintf(stdout, "  Stack:    %s\n", cfg.StackName())
	if cfg.Backend.URL != "" {
		fmt.Fprintf(stdout, "  Backend:  %s\n", cfg.Backend.URL)
	}
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Next steps:")
	fmt.Fprintf(stdout, "  1. Review the file:     psclink validate -c %s\n", outputPath)
	fmt.Fprintf(stdout, "  2. Inspect the graph:   psclink render -c %s\n", outputPath)
	fmt.Fprintf(stdout, "  3. Create the topology: psclink apply -c %s\n", outputPath)
	fmt.Fprintln(stdout)
}
