package engine

import (
	"context"
	"io"

	"github.com/pulumi/pulumi/sdk/v3/go/auto"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/events"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/optdestroy"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/optpreview"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/optrefresh"
	"github.com/pulumi/pulumi/sdk/v3/go/auto/optup"
	"github.com/pulumi/pulumi/sdk/v3/go/common/apitype"
)

// runner is the subset of an Automation API stack the engine uses. It keeps
// the option plumbing in one place and lets tests substitute a fake.
type runner interface {
	name() string
	preview(ctx context.Context, ch chan<- events.EngineEvent, progress io.Writer, diff bool) (map[apitype.OpType]int, error)
	up(ctx context.Context, ch chan<- events.EngineEvent, progress io.Writer) (map[string]int, auto.OutputMap, error)
	destroy(ctx context.Context, ch chan<- events.EngineEvent, progress io.Writer) (map[string]int, error)
	refresh(ctx context.Context, ch chan<- events.EngineEvent, progress io.Writer) (map[string]int, error)
	outputs(ctx context.Context) (auto.OutputMap, error)
	cancel(ctx context.Context) error
	remove(ctx context.Context) error
}

// autoRunner runs operations on a real Automation API stack.
type autoRunner struct {
	stack auto.Stack
}

func (r *autoRunner) name() string {
	return r.stack.Name()
}

func (r *autoRunner) preview(ctx context.Context, ch chan<- events.EngineEvent, progress io.Writer, diff bool) (map[apitype.OpType]int, error) {
	opts := []optpreview.Option{optpreview.EventStreams(ch), optpreview.ProgressStreams(progress)}
	if diff {
		opts = append(opts, optpreview.Diff())
	}
	res, err := r.stack.Preview(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return res.ChangeSummary, nil
}

func (r *autoRunner) up(ctx context.Context, ch chan<- events.EngineEvent, progress io.Writer) (map[string]int, auto.OutputMap, error) {
	res, err := r.stack.Up(ctx, optup.EventStreams(ch), optup.ProgressStreams(progress))
	if err != nil {
		return nil, nil, err
	}
	return derefChanges(res.Summary.ResourceChanges), res.Outputs, nil
}

func (r *autoRunner) destroy(ctx context.Context, ch chan<- events.EngineEvent, progress io.Writer) (map[string]int, error) {
	res, err := r.stack.Destroy(ctx, optdestroy.EventStreams(ch), optdestroy.ProgressStreams(progress))
	if err != nil {
		return nil, err
	}
	return derefChanges(res.Summary.ResourceChanges), nil
}

func (r *autoRunner) refresh(ctx context.Context, ch chan<- events.EngineEvent, progress io.Writer) (map[string]int, error) {
	res, err := r.stack.Refresh(ctx, optrefresh.EventStreams(ch), optrefresh.ProgressStreams(progress))
	if err != nil {
		return nil, err
	}
	return derefChanges(res.Summary.ResourceChanges), nil
}

func (r *autoRunner) outputs(ctx context.Context) (auto.OutputMap, error) {
	return r.stack.Outputs(ctx)
}

func (r *autoRunner) cancel(ctx context.Context) error {
	return r.stack.Cancel(ctx)
}

func (r *autoRunner) remove(ctx context.Context) error {
	return r.stack.Workspace().RemoveStack(ctx, r.stack.Name())
}

func derefChanges(changes *map[string]int) map[string]int {
	if changes == nil {
		return map[string]int{}
	}
	return *changes
}
