package destroy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/imamik/psclink/internal/config"
	psctest "github.com/imamik/psclink/internal/testing"
)

func TestProvisionerName(t *testing.T) {
	assert.Equal(t, "destroy", NewProvisioner(Options{}).Name())
}

func TestProvision(t *testing.T) {
	s3Config := psctest.NewConfigBuilder().WithS3Backend("orders-state", false).Build()

	tests := []struct {
		name         string
		cfg          *config.Config
		opts         Options
		setupStack   func(*psctest.MockStack)
		setupBucket  func(*psctest.MockBucket)
		wantRemove   bool
		wantErr      string
		wantNoEngine bool
	}{
		{
			name: "destroy only",
			cfg:  psctest.MinimalConfig(),
		},
		{
			name:       "destroy and remove stack",
			cfg:        psctest.MinimalConfig(),
			opts:       Options{RemoveStack: true},
			wantRemove: true,
		},
		{
			name: "purge backend",
			cfg:  s3Config,
			opts: Options{PurgeBackend: true},
			setupBucket: func(m *psctest.MockBucket) {
				m.On("DeleteBucket", mock.Anything, "orders-state").Return(nil)
			},
			wantRemove: true,
		},
		{
			name: "purge fails",
			cfg:  s3Config,
			opts: Options{PurgeBackend: true},
			setupBucket: func(m *psctest.MockBucket) {
				m.On("DeleteBucket", mock.Anything, "orders-state").Return(assert.AnError)
			},
			wantRemove: true,
			wantErr:    "failed to purge state bucket",
		},
		{
			name:         "purge requires s3",
			cfg:          psctest.NewConfigBuilder().WithFileBackend("/tmp/state").Build(),
			opts:         Options{PurgeBackend: true},
			wantErr:      "requires an s3:// backend",
			wantNoEngine: true,
		},
		{
			name:         "purge requires bucket client",
			cfg:          s3Config,
			opts:         Options{PurgeBackend: true},
			wantErr:      "no bucket client configured",
			wantNoEngine: true,
		},
		{
			name: "engine destroy fails",
			cfg:  psctest.MinimalConfig(),
			opts: Options{RemoveStack: true},
			setupStack: func(m *psctest.MockStack) {
				m.On("Destroy", mock.Anything).Return(nil, assert.AnError)
			},
			wantErr: "failed to destroy topology resources",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := psctest.NewStackFixture()
			if tt.setupStack != nil {
				tt.setupStack(f.Mock())
			}
			stack := f.SuccessfulDestroy()

			pCtx, _ := psctest.ProvisioningContext(t, tt.cfg, stack)
			var bucket *psctest.MockBucket
			if tt.setupBucket != nil {
				bucket = &psctest.MockBucket{}
				tt.setupBucket(bucket)
				pCtx.Bucket = bucket
			}

			err := NewProvisioner(tt.opts).Provision(pCtx)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			} else {
				require.NoError(t, err)
			}

			if tt.wantNoEngine {
				stack.AssertNotCalled(t, "Destroy", mock.Anything)
			}
			if tt.wantRemove {
				stack.AssertCalled(t, "Remove", mock.Anything)
			} else {
				stack.AssertNotCalled(t, "Remove", mock.Anything)
			}
			if bucket != nil {
				bucket.AssertExpectations(t)
			}
		})
	}
}

func TestProvision_TimeoutCancels(t *testing.T) {
	stack := psctest.NewStackFixture().Mock()
	stack.On("Destroy", mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.DeadlineExceeded)
	stack.On("Cancel", mock.Anything).Return(nil)

	pCtx, _ := psctest.ProvisioningContext(t, psctest.MinimalConfig(), stack)
	pCtx.Timeouts.Destroy = 20 * time.Millisecond

	err := NewProvisioner(Options{RemoveStack: true}).Provision(pCtx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "destroy timed out after 20ms")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	stack.AssertCalled(t, "Cancel", mock.Anything)
	stack.AssertNotCalled(t, "Remove", mock.Anything)
}
