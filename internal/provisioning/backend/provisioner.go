package backend

import (
	"fmt"

	"github.com/imamik/psclink/internal/provisioning"
)

// Provisioner ensures the state bucket exists.
type Provisioner struct{}

// NewProvisioner creates a new backend provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the Phase interface.
func (p *Provisioner) Name() string {
	return "backend"
}

// Provision implements the Phase interface.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config
	scheme := cfg.BackendScheme()

	if scheme != "s3" {
		ctx.Observer.Printf("[Backend] Using %s state backend", describe(scheme))
		return nil
	}

	bucket := cfg.StateBucket()
	if cfg.Backend.S3 == nil || !cfg.Backend.S3.CreateBucket {
		ctx.Observer.Printf("[Backend] Using existing bucket %s", bucket)
		return nil
	}
	if ctx.Bucket == nil {
		return fmt.Errorf("no bucket client configured for s3 backend %s", bucket)
	}

	created, err := ctx.Bucket.EnsureBucket(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to ensure state bucket: %w", err)
	}
	ctx.State.BucketCreated = created

	if created {
		ctx.Observer.Printf("[Backend] Created state bucket %s", bucket)
	} else {
		ctx.Observer.Printf("[Backend] State bucket %s already exists", bucket)
	}
	return nil
}

func describe(scheme string) string {
	if scheme == "" {
		return "default"
	}
	return scheme
}
