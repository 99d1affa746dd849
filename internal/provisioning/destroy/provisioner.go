package destroy

import (
	"fmt"

	"github.com/imamik/psclink/internal/provisioning"
)

// Options selects what is removed besides the resources.
type Options struct {
	// RemoveStack deletes the stack and its history from the backend.
	RemoveStack bool

	// PurgeBackend empties and deletes the S3 state bucket.
	PurgeBackend bool
}

// Provisioner handles topology destruction.
type Provisioner struct {
	opts Options
}

// NewProvisioner creates a new destroy provisioner.
func NewProvisioner(opts Options) *Provisioner {
	return &Provisioner{opts: opts}
}

// Name implements the Phase interface.
func (p *Provisioner) Name() string {
	return "destroy"
}

// Provision destroys the topology and, if requested, its state.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config
	bucket := cfg.StateBucket()

	if p.opts.PurgeBackend {
		if cfg.BackendScheme() != "s3" {
			return fmt.Errorf("purging the backend requires an s3:// backend, got %q", cfg.Backend.URL)
		}
		if ctx.Bucket == nil {
			return fmt.Errorf("no bucket client configured for s3 backend %s", bucket)
		}
	}

	ctx.Observer.Printf("[Destroy] Starting destruction of topology: %s", cfg.Name)

	res, err := provisioning.RunOperation(ctx, p.Name(), ctx.Timeouts.Destroy, ctx.Stack.Destroy)
	if err != nil {
		return fmt.Errorf("failed to destroy topology resources: %w", err)
	}
	ctx.Observer.Printf("[Destroy] Deleted %d resources", res.Changes["delete"])

	if p.opts.RemoveStack || p.opts.PurgeBackend {
		if err := ctx.Stack.Remove(ctx); err != nil {
			return err
		}
		ctx.Observer.Printf("[Destroy] Removed stack %s", ctx.Stack.Name())
	}

	if p.opts.PurgeBackend {
		if err := ctx.Bucket.DeleteBucket(ctx, bucket); err != nil {
			return fmt.Errorf("failed to purge state bucket: %w", err)
		}
		ctx.Observer.Printf("[Destroy] Purged state bucket %s", bucket)
	}

	ctx.Observer.Printf("[Destroy] Topology %s destroyed successfully", cfg.Name)
	return nil
}
