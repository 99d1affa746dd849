package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/imamik/psclink/internal/config"
	ptesting "github.com/imamik/psclink/internal/testing"
	"github.com/imamik/psclink/internal/topology"
)

func TestOutputs_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{FormatTable, []string{"endpointIp", "10.20.0.2", "serviceAttachment"}},
		{FormatYAML, []string{"endpointIp: 10.20.0.2\n", "pscConnectionStatus: ACCEPTED\n"}},
		{FormatJSON, []string{`"endpointIp": "10.20.0.2"`}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			stack := ptesting.NewStackFixture().NoChanges()
			setup := useSession(t, ptesting.MinimalConfig(), stack, nil)

			require.NoError(t, Outputs(context.Background(), "", tt.format, false))
			for _, w := range tt.want {
				assert.Contains(t, setup.out.String(), w)
			}
		})
	}
}

func TestOutputs_JSONRoundTrip(t *testing.T) {
	stack := ptesting.NewStackFixture().NoChanges()
	setup := useSession(t, ptesting.MinimalConfig(), stack, nil)

	require.NoError(t, Outputs(context.Background(), "", FormatJSON, false))

	var got map[string]any
	require.NoError(t, json.Unmarshal(setup.out.Bytes(), &got))
	assert.Equal(t, ptesting.StandardOutputs(), got)
}

func TestOutputs_ShowSecrets(t *testing.T) {
	stack := ptesting.NewStackFixture().Mock()
	stack.On("Outputs", mock.Anything, true).Return(map[string]any{"token": "s3cr3t"}, nil)
	setup := useSession(t, ptesting.MinimalConfig(), stack, nil)

	require.NoError(t, Outputs(context.Background(), "", FormatTable, true))
	assert.Contains(t, setup.out.String(), "s3cr3t")
	stack.AssertExpectations(t)
}

func TestOutputs_Errors(t *testing.T) {
	stack := ptesting.NewStackFixture().Mock()
	stack.On("Outputs", mock.Anything, false).Return(nil, errors.New("stack not found"))
	useSession(t, ptesting.MinimalConfig(), stack, nil)

	err := Outputs(context.Background(), "", FormatTable, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read outputs of stack orders")

	err = Outputs(context.Background(), "", "xml", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestRender(t *testing.T) {
	setup := useSession(t, ptesting.MinimalConfig(), nil, nil)

	require.NoError(t, Render("", FormatTable))

	out := setup.out.String()
	assert.Contains(t, out, "orders (dev): planned resources")
	assert.Contains(t, out, "orders-psc-endpoint")
	assert.Contains(t, out, "consumer")
	assert.Contains(t, out, "compute/ServiceAttachment")
}

func TestRender_JSON(t *testing.T) {
	setup := useSession(t, ptesting.MinimalConfig(), nil, nil)

	require.NoError(t, Render("", FormatJSON))

	var planned []topology.PlannedResource
	require.NoError(t, json.Unmarshal(setup.out.Bytes(), &planned))
	require.NotEmpty(t, planned)

	names := map[string]bool{}
	for _, p := range planned {
		names[p.Name] = true
	}
	assert.True(t, names["orders-psc"])
	assert.True(t, names["orders-consumer-vpc"])
}

func TestRender_Error(t *testing.T) {
	useSession(t, ptesting.MinimalConfig(), nil, nil)
	renderTopology = func(*config.Config) ([]topology.PlannedResource, error) {
		return nil, errors.New("failed to render topology: unknown subnet")
	}

	err := Render("", FormatTable)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown subnet")
}

func TestSideOf(t *testing.T) {
	assert.Equal(t, "producer", sideOf("orders", "orders-producer-gcp"))
	assert.Equal(t, "consumer", sideOf("orders", "orders-consumer-gcp"))
	assert.Equal(t, "", sideOf("orders", ""))
	assert.Equal(t, "custom", sideOf("orders", "orders-custom"))
}

func TestValidate(t *testing.T) {
	setup := useSession(t, ptesting.MinimalConfig(), nil, nil)

	require.NoError(t, Validate("psclink.yaml"))
	assert.Contains(t, setup.out.String(), "psclink.yaml is valid")
	assert.Contains(t, setup.out.String(), "stack dev in europe-west1")
}

func TestValidate_Errors(t *testing.T) {
	cfg := ptesting.MinimalConfig()
	cfg.Region = ""
	cfg.Producer.Service.Image = ""
	setup := useSession(t, cfg, nil, nil)

	err := Validate("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "psclink.yaml has")
	assert.Contains(t, setup.out.String(), "[error]")
}

func TestValidate_LoadError(t *testing.T) {
	useSession(t, ptesting.MinimalConfig(), nil, nil)
	loadConfigUnvalidated = func(string) (*config.Config, error) {
		return nil, errors.New("failed to parse YAML")
	}

	err := Validate("psclink.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}
