package provisioning

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// cancelTimeout bounds the cancel request sent after an operation times out.
const cancelTimeout = 30 * time.Second

// Operation is one engine call: preview, up, refresh or destroy.
type Operation func(context.Context, EventSink) (*OperationResult, error)

// RunOperation executes an engine operation under a deadline and records it.
// An operation that times out is followed by Stack.Cancel so the stack lock
// is not left held.
func RunOperation(ctx *Context, phase string, timeout time.Duration, op Operation) (*OperationResult, error) {
	opCtx := context.Context(ctx)
	if timeout > 0 {
		var cancel context.CancelFunc
		opCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res, err := op(opCtx, ctx.Sink(phase))
	ctx.Metrics.RecordOperation(phase, err)
	if err != nil {
		if errors.Is(opCtx.Err(), context.DeadlineExceeded) {
			cancelStuck(ctx, phase, timeout)
			return nil, fmt.Errorf("%s timed out after %v: %w", phase, timeout, err)
		}
		return nil, err
	}
	if res == nil {
		res = &OperationResult{Operation: phase}
	}
	ctx.Metrics.RecordChanges(res)
	return res, nil
}

func cancelStuck(ctx *Context, phase string, timeout time.Duration) {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cancelTimeout)
	defer cancel()
	if err := ctx.Stack.Cancel(cctx); err != nil {
		ctx.Observer.Printf("[%s] Failed to cancel operation after %v: %v", phase, timeout, err)
	}
}
