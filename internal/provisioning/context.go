package provisioning

import (
	"context"

	"github.com/imamik/psclink/internal/config"
)

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Stack    Stack
	Bucket   StateBucket // nil unless the backend is an S3-compatible bucket
	Observer Observer
	Timeouts *config.Timeouts
	Metrics  *Metrics
}

// NewContext creates a new provisioning context with a console observer.
func NewContext(ctx context.Context, cfg *config.Config, stack Stack) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(),
		Stack:    stack,
		Observer: NewConsoleObserver(),
		Timeouts: config.LoadTimeouts(),
	}
}

// Sink returns an EventSink that tags engine events with the phase and
// forwards them to the observer and metrics.
func (c *Context) Sink(phase string) EventSink {
	return func(e Event) {
		e.Phase = phase
		c.Observer.Event(e)
		c.Metrics.RecordResourceEvent(e)
	}
}
