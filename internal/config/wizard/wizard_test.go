package wizard

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/psclink/internal/config"
)

func baseResult() *WizardResult {
	return &WizardResult{
		Name:                 "orders",
		Region:               "europe-west1",
		ProducerProject:      "acme-orders",
		ConsumerProject:      "acme-shop",
		Image:                DefaultImage,
		ProducerBlock:        DefaultProducerBlock,
		ConsumerBlock:        DefaultConsumerBlock,
		ConnectionPreference: PreferenceManual,
	}
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()
	result := baseResult()
	result.Invokers = []string{"allUsers"}

	cfg, err := BuildConfig(result)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "orders", cfg.Name)
	assert.Equal(t, "acme-orders", cfg.Producer.Project)
	assert.Equal(t, []string{"allUsers"}, cfg.Producer.Service.Invokers)
	assert.Equal(t, []string{"acme-shop"}, cfg.Producer.Attachment.AcceptProjects)
	assert.Nil(t, cfg.Consumer.DNS)
	assert.Empty(t, cfg.Backend.URL)
	assert.Len(t, cfg.Producer.Network.Subnets, 3)
}

func TestBuildConfig_Advanced(t *testing.T) {
	t.Parallel()
	result := baseResult()
	result.ConnectionPreference = PreferenceAutomatic
	result.DNSDomain = "orders.internal."
	result.DNSRecord = "api"
	result.BackendURL = "file:///tmp/psclink-state"

	cfg, err := BuildConfig(result)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, PreferenceAutomatic, cfg.Producer.Attachment.ConnectionPreference)
	assert.Empty(t, cfg.Producer.Attachment.AcceptProjects)
	require.NotNil(t, cfg.Consumer.DNS)
	assert.Equal(t, "api.orders.internal.", cfg.FullyQualifiedDNSName())
	assert.Equal(t, config.DefaultDNSTTL, cfg.Consumer.DNS.TTL)
	assert.Equal(t, "file:///tmp/psclink-state", cfg.Backend.URL)
}

func TestBuildConfig_InvalidBlock(t *testing.T) {
	t.Parallel()
	result := baseResult()
	result.ConsumerBlock = "not-a-cidr"

	_, err := BuildConfig(result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "consumer block")
}

func TestValidators(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		fn      func(string) error
		input   string
		wantErr error
	}{
		{"name ok", validateName, "orders-2", nil},
		{"name empty", validateName, "", errNameRequired},
		{"name uppercase", validateName, "Orders", errNameInvalid},
		{"name double hyphen", validateName, "or--ders", errNameInvalid},
		{"project ok", validateProject, "acme-orders", nil},
		{"project short", validateProject, "acme", errProjectInvalid},
		{"project empty", validateProject, "", errProjectRequired},
		{"image empty", validateImage, "  ", errImageRequired},
		{"block ok", validateBlock, "10.10.0.0/16", nil},
		{"block too small", validateBlock, "10.10.0.0/24", errCIDRInvalid},
		{"block host bits", validateBlock, "10.10.0.1/16", errCIDRInvalid},
		{"block ipv6", validateBlock, "fd00::/16", errCIDRInvalid},
		{"block empty", validateBlock, "", errCIDRRequired},
		{"domain empty", validateDomain, "", nil},
		{"domain ok", validateDomain, "orders.internal.", nil},
		{"domain no dot", validateDomain, "orders.internal", errDomainInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantErr, tt.fn(tt.input))
		})
	}
}

func TestParseList(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"a", "b"}, parseList(" a, ,b ,"))
	assert.Empty(t, parseList(""))
}

func TestRegionsToOptions(t *testing.T) {
	t.Parallel()
	opts := RegionsToOptions()
	require.Len(t, opts, len(Regions))
	assert.Equal(t, "europe-west1", opts[0].Value)
}

func TestWriteConfig(t *testing.T) {
	t.Parallel()
	cfg, err := BuildConfig(baseResult())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), config.DefaultConfigFilename)
	require.NoError(t, WriteConfig(cfg, path))
	assert.True(t, FileExists(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "# psclink topology configuration"))

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfirmOverwrite_UsesInjectedPrompt(t *testing.T) {
	orig := confirmOverwrite
	t.Cleanup(func() { confirmOverwrite = orig })

	var asked string
	confirmOverwrite = func(path string) (bool, error) {
		asked = path
		return true, nil
	}

	ok, err := ConfirmOverwrite("psclink.yaml")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "psclink.yaml", asked)
}
