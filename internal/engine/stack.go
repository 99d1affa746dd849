package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pulumi/pulumi/sdk/v3/go/auto"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/events"
	"github.com/pulumi/pulumi/sdk/v3/go/common/tokens"
	"github.com/pulumi/pulumi/sdk/v3/go/common/workspace"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/imamik/psclink/internal/config"
	s3state "github.com/imamik/psclink/internal/platform/s3"
	"github.com/imamik/psclink/internal/provisioning"
	"github.com/imamik/psclink/internal/util/retry"
)

const (
	// ProjectName is the Pulumi project every psclink stack belongs to.
	ProjectName = "psclink"

	// GCPPluginVersion is the resource plugin matching the pulumi-gcp SDK
	// the program is compiled against.
	GCPPluginVersion = "v8.10.0"
)

// Environment variables forwarded to the engine.
const (
	EnvPassphrase   = "PULUMI_CONFIG_PASSPHRASE"
	EnvS3AccessKey  = s3state.EnvAccessKey
	EnvS3SecretKey  = s3state.EnvSecretKey
	envAWSAccessKey = "AWS_ACCESS_KEY_ID"
	envAWSSecretKey = "AWS_SECRET_ACCESS_KEY"
)

// maskedSecret replaces secret output values unless secrets are requested.
const maskedSecret = "[secret]"

// Options configures Open.
type Options struct {
	// Config is the loaded topology configuration.
	Config *config.Config

	// Program is the Pulumi program to run, usually topology.Define(Config).
	Program pulumi.RunFunc

	// Timeouts supplies the retry settings for concurrent updates.
	Timeouts *config.Timeouts

	// Progress receives the engine's human-readable progress output.
	// Nil discards it.
	Progress io.Writer

	// Diff shows a detailed diff in preview progress output.
	Diff bool

	// Logger receives retry notices. Nil disables them.
	Logger provisioning.Logger
}

// Stack is an engine stack bound to the psclink program. It implements
// provisioning.Stack.
type Stack struct {
	runner       runner
	progress     io.Writer
	diff         bool
	logger       provisioning.Logger
	retryOpts    []retry.Option
	isConcurrent func(error) bool
}

var _ provisioning.Stack = (*Stack)(nil)

// Open creates or selects the stack named by the configuration in a local
// workspace backed by the configured state backend.
func Open(ctx context.Context, opts Options) (*Stack, error) {
	cfg := opts.Config

	project := workspace.Project{
		Name:    tokens.PackageName(ProjectName),
		Runtime: workspace.NewProjectRuntimeInfo("go", nil),
	}
	if cfg.Backend.URL != "" {
		project.Backend = &workspace.ProjectBackend{URL: cfg.Backend.URL}
	}

	wsOpts := []auto.LocalWorkspaceOption{
		auto.Project(project),
		auto.EnvVars(EnvVars(cfg)),
	}
	if cfg.Backend.SecretsProvider != "" {
		wsOpts = append(wsOpts, auto.SecretsProvider(cfg.Backend.SecretsProvider))
	}

	s, err := auto.UpsertStackInlineSource(ctx, cfg.StackName(), ProjectName, opts.Program, wsOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open stack %s: %w", cfg.StackName(), err)
	}

	if err := s.Workspace().InstallPlugin(ctx, "gcp", GCPPluginVersion); err != nil {
		return nil, fmt.Errorf("failed to install gcp plugin %s: %w", GCPPluginVersion, err)
	}

	if err := s.SetConfig(ctx, "gcp:region", auto.ConfigValue{Value: cfg.Region}); err != nil {
		return nil, fmt.Errorf("failed to set gcp:region: %w", err)
	}

	return newStack(&autoRunner{stack: s}, opts), nil
}

func newStack(r runner, opts Options) *Stack {
	progress := opts.Progress
	if progress == nil {
		progress = io.Discard
	}
	timeouts := opts.Timeouts
	if timeouts == nil {
		timeouts = config.LoadTimeouts()
	}

	s := &Stack{
		runner:       r,
		progress:     progress,
		diff:         opts.Diff,
		logger:       opts.Logger,
		isConcurrent: auto.IsConcurrentUpdateError,
	}
	s.retryOpts = []retry.Option{
		retry.WithMaxRetries(timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(timeouts.RetryInitialDelay),
		retry.WithMaxDelay(2 * time.Minute),
		retry.WithRetryIf(func(err error) bool { return s.isConcurrent(err) }),
		retry.WithOnRetry(func(attempt int, delay time.Duration, _ error) {
			if s.logger != nil {
				s.logger.Printf("[engine] stack %s is locked by another update, retrying in %v (attempt %d)", s.Name(), delay, attempt)
			}
		}),
	}
	return s
}

// EnvVars returns the environment passed to the engine. The passphrase is
// forwarded as is; psclink's S3 credentials are exposed under the names the
// engine's S3 backend reads.
func EnvVars(cfg *config.Config) map[string]string {
	env := map[string]string{}
	if v := os.Getenv(EnvPassphrase); v != "" {
		env[EnvPassphrase] = v
	}
	if cfg.BackendScheme() == "s3" {
		if v := os.Getenv(EnvS3AccessKey); v != "" {
			env[envAWSAccessKey] = v
		}
		if v := os.Getenv(EnvS3SecretKey); v != "" {
			env[envAWSSecretKey] = v
		}
	}
	return env
}

// Name implements provisioning.Stack.
func (s *Stack) Name() string {
	return s.runner.name()
}

// Preview implements provisioning.Stack.
func (s *Stack) Preview(ctx context.Context, sink provisioning.EventSink) (*provisioning.OperationResult, error) {
	var summary map[string]int
	err := s.run(ctx, sink, func(ch chan<- events.EngineEvent) error {
		changes, err := s.runner.preview(ctx, ch, s.progress, s.diff)
		if err != nil {
			return err
		}
		summary = make(map[string]int, len(changes))
		for op, n := range changes {
			summary[string(op)] = n
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("preview failed: %w", err)
	}
	return &provisioning.OperationResult{Operation: "preview", Changes: summary}, nil
}

// Up implements provisioning.Stack.
func (s *Stack) Up(ctx context.Context, sink provisioning.EventSink) (*provisioning.OperationResult, error) {
	var changes map[string]int
	var outputs auto.OutputMap
	err := s.run(ctx, sink, func(ch chan<- events.EngineEvent) error {
		var err error
		changes, outputs, err = s.runner.up(ctx, ch, s.progress)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("update failed: %w", err)
	}
	return &provisioning.OperationResult{
		Operation: "up",
		Changes:   changes,
		Outputs:   MaskOutputs(outputs, false),
	}, nil
}

// Destroy implements provisioning.Stack.
func (s *Stack) Destroy(ctx context.Context, sink provisioning.EventSink) (*provisioning.OperationResult, error) {
	var changes map[string]int
	err := s.run(ctx, sink, func(ch chan<- events.EngineEvent) error {
		var err error
		changes, err = s.runner.destroy(ctx, ch, s.progress)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("destroy failed: %w", err)
	}
	return &provisioning.OperationResult{Operation: "destroy", Changes: changes}, nil
}

// Refresh implements provisioning.Stack.
func (s *Stack) Refresh(ctx context.Context, sink provisioning.EventSink) (*provisioning.OperationResult, error) {
	var changes map[string]int
	err := s.run(ctx, sink, func(ch chan<- events.EngineEvent) error {
		var err error
		changes, err = s.runner.refresh(ctx, ch, s.progress)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("refresh failed: %w", err)
	}
	return &provisioning.OperationResult{Operation: "refresh", Changes: changes}, nil
}

// Outputs implements provisioning.Stack.
func (s *Stack) Outputs(ctx context.Context, showSecrets bool) (map[string]any, error) {
	out, err := s.runner.outputs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read outputs: %w", err)
	}
	return MaskOutputs(out, showSecrets), nil
}

// Cancel implements provisioning.Stack.
func (s *Stack) Cancel(ctx context.Context) error {
	if err := s.runner.cancel(ctx); err != nil {
		return fmt.Errorf("failed to cancel update: %w", err)
	}
	return nil
}

// Remove implements provisioning.Stack.
func (s *Stack) Remove(ctx context.Context) error {
	if err := s.runner.remove(ctx); err != nil {
		return fmt.Errorf("failed to remove stack: %w", err)
	}
	return nil
}

// run executes one engine operation with a fresh event channel per attempt,
// retrying while another update holds the stack lock.
func (s *Stack) run(ctx context.Context, sink provisioning.EventSink, op func(chan<- events.EngineEvent) error) error {
	return retry.WithExponentialBackoff(ctx, func() error {
		ch := make(chan events.EngineEvent)
		stop := make(chan struct{})
		done := make(chan struct{})
		go func() {
			defer close(done)
			consume(ctx, ch, stop, sink)
		}()

		err := op(ch)
		close(stop)
		<-done
		return err
	}, s.retryOpts...)
}

// consume forwards translated engine events to sink until the engine closes
// the channel or the operation returns. Once ctx is done, events are still
// received so the engine's sender is not blocked, but dropped.
func consume(ctx context.Context, ch <-chan events.EngineEvent, stop <-chan struct{}, sink provisioning.EventSink) {
	for {
		select {
		case <-stop:
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			if sink == nil || ctx.Err() != nil {
				continue
			}
			if ev, ok := Translate(e); ok {
				sink(ev)
			}
		}
	}
}

// MaskOutputs converts engine outputs to plain values, replacing secrets
// with a placeholder unless showSecrets is set.
func MaskOutputs(outputs auto.OutputMap, showSecrets bool) map[string]any {
	out := make(map[string]any, len(outputs))
	for k, v := range outputs {
		if v.Secret && !showSecrets {
			out[k] = maskedSecret
			continue
		}
		out[k] = v.Value
	}
	return out
}
