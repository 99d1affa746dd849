// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/imamik/psclink/internal/config"
	"github.com/imamik/psclink/internal/engine"
	s3state "github.com/imamik/psclink/internal/platform/s3"
	"github.com/imamik/psclink/internal/provisioning"
	"github.com/imamik/psclink/internal/topology"
	"github.com/imamik/psclink/internal/util/prerequisites"
)

// Log formats accepted by --log-format.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// GlobalOptions are the settings bound to the root command's persistent flags.
type GlobalOptions struct {
	LogFormat   string
	MetricsFile string
	Debug       bool
}

var globals = GlobalOptions{LogFormat: LogFormatText}

// SetGlobalOptions validates and stores the persistent flag values.
func SetGlobalOptions(opts GlobalOptions) error {
	switch opts.LogFormat {
	case "":
		opts.LogFormat = LogFormatText
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("unsupported log format %q (want %s or %s)", opts.LogFormat, LogFormatText, LogFormatJSON)
	}
	globals = opts
	return nil
}

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// findConfigFile locates psclink.yaml when -c is not given.
	findConfigFile = config.FindConfigFile

	// loadConfig loads and validates a configuration file.
	loadConfig = config.Load

	// loadConfigUnvalidated loads a configuration file with defaults applied
	// but without validation.
	loadConfigUnvalidated = config.LoadWithoutValidation

	// openStack opens the engine stack running the topology program.
	openStack = func(ctx context.Context, cfg *config.Config, opts engine.Options) (provisioning.Stack, error) {
		opts.Config = cfg
		opts.Program = topology.Define(cfg)
		s, err := engine.Open(ctx, opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	// newBucket creates the client for an S3-compatible state bucket.
	newBucket = func(ctx context.Context, cfg *config.Config) (provisioning.StateBucket, error) {
		c, err := s3state.NewClient(ctx, s3state.OptionsFromConfig(cfg))
		if err != nil {
			return nil, err
		}
		return c, nil
	}

	// checkDefaultPrereqs runs prerequisite checks.
	checkDefaultPrereqs = prerequisites.CheckDefault

	// newObserver creates the observer for the selected log format.
	newObserver = defaultObserver

	// isInteractiveTTY reports whether stdout is an interactive terminal.
	isInteractiveTTY = func() bool {
		fd := os.Stdout.Fd()
		return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	}

	// stdout receives command output.
	stdout io.Writer = os.Stdout
)

func defaultObserver() (provisioning.Observer, error) {
	if globals.LogFormat == LogFormatJSON {
		logger, err := provisioning.NewJSONLogger(globals.Debug)
		if err != nil {
			return nil, err
		}
		return provisioning.NewLogrObserver(logger), nil
	}
	return provisioning.NewConsoleObserver(), nil
}

// resolveConfig finds and loads the configuration file.
func resolveConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		found, err := findConfigFile()
		if err != nil {
			return nil, fmt.Errorf("no config given and %w", err)
		}
		configPath = found
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// session holds everything an engine-backed command needs.
type session struct {
	cfg      *config.Config
	stack    provisioning.Stack
	bucket   provisioning.StateBucket
	observer provisioning.Observer
}

// openSession loads the config, checks prerequisites and opens the stack.
func openSession(ctx context.Context, configPath string, opts engine.Options) (*session, error) {
	cfg, err := resolveConfig(configPath)
	if err != nil {
		return nil, err
	}

	if err := checkDefaultPrereqs().Error(); err != nil {
		return nil, err
	}

	observer, err := newObserver()
	if err != nil {
		return nil, err
	}

	var bucket provisioning.StateBucket
	if cfg.BackendScheme() == "s3" {
		bucket, err = newBucket(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create state bucket client: %w", err)
		}
	}

	if opts.Timeouts == nil {
		opts.Timeouts = config.LoadTimeouts()
	}
	if opts.Logger == nil {
		opts.Logger = observer
	}

	stack, err := openStack(ctx, cfg, opts)
	if err != nil {
		return nil, err
	}

	return &session{cfg: cfg, stack: stack, bucket: bucket, observer: observer}, nil
}

// provisioningContext builds a provisioning context reporting to observer.
func (s *session) provisioningContext(ctx context.Context, observer provisioning.Observer) *provisioning.Context {
	pctx := provisioning.NewContext(ctx, s.cfg, s.stack)
	pctx.Bucket = s.bucket
	pctx.Observer = observer
	pctx.Metrics = provisioning.NewMetrics(s.cfg.Name)
	return pctx
}

// writeMetrics writes the run metrics when --metrics-file is set.
func writeMetrics(pctx *provisioning.Context) error {
	if globals.MetricsFile == "" {
		return nil
	}
	return pctx.Metrics.WriteToTextfile(globals.MetricsFile)
}

// runPipeline runs phases and writes metrics whatever the outcome.
func runPipeline(pctx *provisioning.Context, phases []provisioning.Phase) error {
	err := provisioning.RunPhases(pctx, phases)
	if merr := writeMetrics(pctx); merr != nil && err == nil {
		err = merr
	}
	return err
}

// phaseNames lists the names of phases for the progress view.
func phaseNames(phases []provisioning.Phase) []string {
	names := make([]string, len(phases))
	for i, p := range phases {
		names[i] = p.Name()
	}
	return names
}
