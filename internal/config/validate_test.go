package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := LoadFromBytes([]byte(validYAML))
	require.NoError(t, err)
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validConfig(t).Validate())
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "name uppercase",
			mutate:  func(c *Config) { c.Name = "Orders" },
			wantErr: "name must be DNS-safe",
		},
		{
			name:    "name too long",
			mutate:  func(c *Config) { c.Name = "a123456789012345678901234567890123456789x" },
			wantErr: "name must be DNS-safe",
		},
		{
			name:    "missing region",
			mutate:  func(c *Config) { c.Region = "" },
			wantErr: "region is required",
		},
		{
			name:    "missing consumer project",
			mutate:  func(c *Config) { c.Consumer.Project = "" },
			wantErr: "consumer.project is required",
		},
		{
			name:    "no consumer subnets",
			mutate:  func(c *Config) { c.Consumer.Network.Subnets = nil },
			wantErr: "consumer.network.subnets must contain at least one subnet",
		},
		{
			name: "duplicate subnet",
			mutate: func(c *Config) {
				c.Producer.Network.Subnets = append(c.Producer.Network.Subnets, SubnetConfig{Name: "frontend", CIDR: "10.10.9.0/24"})
			},
			wantErr: "is used more than once",
		},
		{
			name:    "bad cidr",
			mutate:  func(c *Config) { c.Producer.Network.Subnets[0].CIDR = "10.10.0.0/33" },
			wantErr: "producer.network.subnets[0].cidr",
		},
		{
			name:    "missing image",
			mutate:  func(c *Config) { c.Producer.Service.Image = "" },
			wantErr: "producer.service.image is required",
		},
		{
			name: "derived service name too long",
			mutate: func(c *Config) {
				c.Name = "orders-platform-payments-europe-primary1"
				c.Producer.Service.Name = "checkout-api-internal-gateway"
			},
			wantErr: "longer than 49 characters",
		},
		{
			name: "min above max",
			mutate: func(c *Config) {
				c.Producer.Service.MinInstances = 5
				c.Producer.Service.MaxInstances = 2
			},
			wantErr: "exceeds max_instances",
		},
		{
			name:    "unknown lb subnet",
			mutate:  func(c *Config) { c.Producer.LoadBalancer.Subnet = "nope" },
			wantErr: `refers to unknown producer subnet "nope"`,
		},
		{
			name:    "unknown proxy subnet",
			mutate:  func(c *Config) { c.Producer.LoadBalancer.ProxySubnet = "nope" },
			wantErr: "producer.load_balancer.proxy_subnet",
		},
		{
			name:    "lb address outside subnet",
			mutate:  func(c *Config) { c.Producer.LoadBalancer.Address = "10.99.0.1" },
			wantErr: "is outside subnet frontend",
		},
		{
			name:    "no nat subnets",
			mutate:  func(c *Config) { c.Producer.Attachment.NatSubnets = nil },
			wantErr: "nat_subnets must name at least one subnet",
		},
		{
			name:    "endpoint subnet on wrong side",
			mutate:  func(c *Config) { c.Consumer.Endpoint.Subnet = "frontend" },
			wantErr: `unknown consumer subnet "frontend"`,
		},
		{
			name:    "endpoint address outside subnet",
			mutate:  func(c *Config) { c.Consumer.Endpoint.Address = "10.21.0.10" },
			wantErr: "consumer.endpoint.address 10.21.0.10 is outside subnet endpoints",
		},
		{
			name:    "firewall bad range",
			mutate:  func(c *Config) { c.Consumer.Firewall = &FirewallConfig{SourceRanges: []string{"everywhere"}} },
			wantErr: "consumer.firewall.source_ranges[0]",
		},
		{
			name:    "dns without trailing dot",
			mutate:  func(c *Config) { c.Consumer.DNS.Domain = "orders.internal" },
			wantErr: "must end with a dot",
		},
		{
			name:    "s3 options with file backend",
			mutate:  func(c *Config) { c.Backend.URL = "file:///tmp/state"; c.Backend.S3 = &S3BackendConfig{} },
			wantErr: "backend.s3 is only valid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	t.Parallel()
	cfg := validConfig(t)
	cfg.Region = ""
	cfg.Producer.Service.Image = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "region is required")
	assert.Contains(t, err.Error(), "producer.service.image is required")
}

func TestValidate_PurposesAreOpaque(t *testing.T) {
	t.Parallel()
	cfg := validConfig(t)
	cfg.Producer.Network.Subnets[1].Purpose = "SOMETHING_NEW"
	cfg.Producer.LoadBalancer.Scheme = "INTERNAL_SELF_MANAGED"
	cfg.Producer.Attachment.ConnectionPreference = "ANYTHING"

	assert.NoError(t, cfg.Validate())
}

func TestIsValidDNSName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		valid bool
	}{
		{"orders", true},
		{"orders-2", true},
		{"2orders", false},
		{"orders-", false},
		{"or--ders", false},
		{"", false},
		{"Orders", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, isValidDNSName(tt.name), tt.name)
	}
}
