package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
name: orders
region: europe-west1
labels:
  team: payments
producer:
  project: producer-proj
  network:
    subnets:
      - name: frontend
        cidr: 10.10.0.0/24
      - name: proxy-only
        cidr: 10.10.1.0/24
        purpose: REGIONAL_MANAGED_PROXY
        role: ACTIVE
      - name: psc-nat
        cidr: 10.10.2.0/24
        purpose: PRIVATE_SERVICE_CONNECT
  service:
    image: us-docker.pkg.dev/cloudrun/container/hello
    env:
      GREETING: hi
  load_balancer:
    subnet: frontend
    proxy_subnet: proxy-only
  attachment:
    nat_subnets: [psc-nat]
consumer:
  project: consumer-proj
  network:
    subnets:
      - name: endpoints
        cidr: 10.20.0.0/24
  endpoint:
    subnet: endpoints
    address: 10.20.0.10
  dns:
    domain: orders.internal.
    record: api
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFilename)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	t.Parallel()
	cfg, err := Load(writeConfig(t, validYAML))
	require.NoError(t, err)

	assert.Equal(t, "orders", cfg.Name)
	assert.Equal(t, "europe-west1", cfg.Region)
	assert.Equal(t, "producer-proj", cfg.Producer.Project)
	require.Len(t, cfg.Producer.Network.Subnets, 3)
	assert.Equal(t, "REGIONAL_MANAGED_PROXY", cfg.Producer.Network.Subnets[1].Purpose)
	assert.Equal(t, "hi", cfg.Producer.Service.Env["GREETING"])
	assert.Equal(t, "10.20.0.10", cfg.Consumer.Endpoint.Address)

	// defaults
	assert.Equal(t, DefaultServiceName, cfg.Producer.Service.Name)
	assert.Equal(t, DefaultServicePort, cfg.Producer.Service.Port)
	assert.Equal(t, DefaultLBScheme, cfg.Producer.LoadBalancer.Scheme)
	assert.Equal(t, []string{"consumer-proj"}, cfg.Producer.Attachment.AcceptProjects)
	assert.Equal(t, DefaultDNSTTL, cfg.Consumer.DNS.TTL)
	assert.Equal(t, DefaultStack, cfg.StackName())
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoad_UnknownFieldRejected(t *testing.T) {
	t.Parallel()
	_, err := LoadWithoutValidation(writeConfig(t, "name: orders\nregoin: europe-west1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoad_InvalidConfig(t *testing.T) {
	t.Parallel()
	_, err := Load(writeConfig(t, "name: Orders\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

func TestLoadFromBytes_Empty(t *testing.T) {
	t.Parallel()
	_, err := LoadFromBytes(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name is required")
}

func TestSaveAndReload(t *testing.T) {
	t.Parallel()
	cfg, err := LoadFromBytes([]byte(validYAML))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, Save(cfg, path))

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, reloaded)
}

func TestFindConfigFile_WalksUp(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, DefaultConfigFilename), []byte(validYAML), 0600))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0750))

	t.Chdir(nested)

	path, err := FindConfigFile()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfigFilename, filepath.Base(path))
	assert.Equal(t, filepath.Base(root), filepath.Base(filepath.Dir(path)))
}
