package provisioning

import "context"

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// Logger is the minimal printf-style logger phases write progress to.
type Logger interface {
	Printf(format string, v ...interface{})
}

// EventSink receives resource events while an engine operation runs.
type EventSink func(Event)

// OperationResult is the outcome of one engine operation.
type OperationResult struct {
	// Operation is "preview", "up", "destroy" or "refresh".
	Operation string

	// Changes counts resources by operation ("create", "update", "same", ...).
	Changes map[string]int

	// Outputs holds the stack outputs after the operation, secrets masked.
	Outputs map[string]any
}

// Stack defines the engine operations phases depend on.
// Implemented by internal/engine.Stack.
type Stack interface {
	// Name returns the fully qualified stack name.
	Name() string

	// Preview computes the changes an update would make.
	Preview(ctx context.Context, sink EventSink) (*OperationResult, error)

	// Up reconciles the live resources with the program.
	Up(ctx context.Context, sink EventSink) (*OperationResult, error)

	// Destroy deletes every resource of the stack.
	Destroy(ctx context.Context, sink EventSink) (*OperationResult, error)

	// Refresh updates the stack state from the live resources.
	Refresh(ctx context.Context, sink EventSink) (*OperationResult, error)

	// Outputs returns the current stack outputs. Secrets are masked unless
	// showSecrets is set.
	Outputs(ctx context.Context, showSecrets bool) (map[string]any, error)

	// Cancel stops an in-flight update holding the stack lock.
	Cancel(ctx context.Context) error

	// Remove deletes the stack and its history from the backend.
	Remove(ctx context.Context) error
}

// StateBucket defines the operations on the bucket holding engine state.
// Implemented by internal/platform/s3.Client.
type StateBucket interface {
	// EnsureBucket creates the bucket if it does not exist and reports
	// whether it was created.
	EnsureBucket(ctx context.Context, bucket string) (bool, error)

	// DeleteBucket empties and removes the bucket.
	DeleteBucket(ctx context.Context, bucket string) error
}
