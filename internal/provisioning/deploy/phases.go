package deploy

import (
	"github.com/imamik/psclink/internal/provisioning"
)

// PreviewPhase computes the changes an update would make.
type PreviewPhase struct{}

// NewPreviewPhase creates a new preview phase.
func NewPreviewPhase() *PreviewPhase {
	return &PreviewPhase{}
}

// Name implements the Phase interface.
func (p *PreviewPhase) Name() string {
	return "preview"
}

// Provision implements the Phase interface.
func (p *PreviewPhase) Provision(ctx *provisioning.Context) error {
	res, err := provisioning.RunOperation(ctx, p.Name(), ctx.Timeouts.Preview, ctx.Stack.Preview)
	if err != nil {
		return err
	}
	ctx.State.Preview = res

	ctx.Observer.Printf("[Preview] %s", Summary(res.Changes))
	return nil
}

// UpPhase reconciles the live resources with the program. When a preview
// ran earlier in the pipeline and found nothing to change, it only reads
// the current outputs.
type UpPhase struct{}

// NewUpPhase creates a new update phase.
func NewUpPhase() *UpPhase {
	return &UpPhase{}
}

// Name implements the Phase interface.
func (p *UpPhase) Name() string {
	return "up"
}

// Provision implements the Phase interface.
func (p *UpPhase) Provision(ctx *provisioning.Context) error {
	if !ctx.State.HasChanges() {
		ctx.Observer.Printf("[Up] No changes to apply")
		outputs, err := ctx.Stack.Outputs(ctx, false)
		if err != nil {
			return err
		}
		ctx.State.Outputs = outputs
		return nil
	}

	res, err := provisioning.RunOperation(ctx, p.Name(), ctx.Timeouts.Up, ctx.Stack.Up)
	if err != nil {
		return err
	}
	ctx.State.Up = res
	ctx.State.Outputs = res.Outputs

	ctx.Observer.Printf("[Up] %s", Summary(res.Changes))
	return nil
}

// RefreshPhase updates the stack state from the live resources.
type RefreshPhase struct{}

// NewRefreshPhase creates a new refresh phase.
func NewRefreshPhase() *RefreshPhase {
	return &RefreshPhase{}
}

// Name implements the Phase interface.
func (p *RefreshPhase) Name() string {
	return "refresh"
}

// Provision implements the Phase interface.
func (p *RefreshPhase) Provision(ctx *provisioning.Context) error {
	res, err := provisioning.RunOperation(ctx, p.Name(), ctx.Timeouts.Refresh, ctx.Stack.Refresh)
	if err != nil {
		return err
	}
	ctx.State.Refresh = res

	ctx.Observer.Printf("[Refresh] %s", Summary(res.Changes))
	return nil
}
