package testing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/imamik/psclink/internal/config"
	"github.com/imamik/psclink/internal/provisioning"
)

// TestContext returns a context with a reasonable timeout for tests.
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// ProvisioningContext returns a provisioning context wired to the given
// stack, a recording observer, fresh metrics and short timeouts.
func ProvisioningContext(t *testing.T, cfg *config.Config, stack provisioning.Stack) (*provisioning.Context, *RecordingObserver) {
	t.Helper()
	obs := NewRecordingObserver()
	pCtx := provisioning.NewContext(TestContext(t), cfg, stack)
	pCtx.Observer = obs
	pCtx.Metrics = provisioning.NewMetrics(cfg.Name)
	pCtx.Timeouts = &config.Timeouts{
		Preview:           time.Minute,
		Up:                time.Minute,
		Destroy:           time.Minute,
		Refresh:           time.Minute,
		RetryMaxAttempts:  0,
		RetryInitialDelay: time.Millisecond,
	}
	return pCtx, obs
}

func sprintf(format string, v ...interface{}) string {
	if len(v) == 0 {
		return format
	}
	return fmt.Sprintf(format, v...)
}
