package config

import (
	"fmt"

	"dario.cat/mergo"
)

// Default values filled in by ApplyDefaults. They mirror what the provider
// would need for a Cloud Run service behind an internal application load
// balancer published over Private Service Connect.
const (
	DefaultConfigFilename       = "psclink.yaml"
	DefaultStack                = "dev"
	DefaultSecretsProvider      = "passphrase"
	DefaultRoutingMode          = "REGIONAL"
	DefaultServiceName          = "api"
	DefaultServicePort          = 8080
	DefaultServiceIngress       = "INGRESS_TRAFFIC_INTERNAL_LOAD_BALANCER"
	DefaultMaxInstances         = 3
	DefaultLBProtocol           = "HTTP"
	DefaultLBScheme             = "INTERNAL_MANAGED"
	DefaultLBPort               = "80"
	DefaultConnectionPreference = "ACCEPT_MANUAL"
	DefaultConnectionLimit      = 10
	DefaultFirewallProtocol     = "tcp"
	DefaultDNSTTL               = 300
)

// Subnet purposes and roles used by the default layout. They are only ever
// written into generated configs, never interpreted.
const (
	PurposeRegionalManagedProxy  = "REGIONAL_MANAGED_PROXY"
	PurposePrivateServiceConnect = "PRIVATE_SERVICE_CONNECT"
	RoleActive                   = "ACTIVE"
)

// defaults leaves pointer fields unset: mergo dereferences non-nil pointers
// and would overwrite an explicit false.
func defaults() *Config {
	return &Config{
		Producer: ProducerConfig{
			Network: NetworkConfig{RoutingMode: DefaultRoutingMode},
			Service: ServiceConfig{
				Name:         DefaultServiceName,
				Port:         DefaultServicePort,
				Ingress:      DefaultServiceIngress,
				MaxInstances: DefaultMaxInstances,
			},
			LoadBalancer: LoadBalancerConfig{
				Protocol: DefaultLBProtocol,
				Scheme:   DefaultLBScheme,
				Port:     DefaultLBPort,
			},
			Attachment: AttachmentConfig{
				ConnectionPreference: DefaultConnectionPreference,
				ConnectionLimit:      DefaultConnectionLimit,
			},
		},
		Consumer: ConsumerConfig{
			Network: NetworkConfig{RoutingMode: DefaultRoutingMode},
		},
		Backend: BackendConfig{
			Stack:           DefaultStack,
			SecretsProvider: DefaultSecretsProvider,
		},
	}
}

// ApplyDefaults fills every unset field with its default. Fields already set
// are left untouched.
func ApplyDefaults(cfg *Config) error {
	if err := mergo.Merge(cfg, defaults()); err != nil {
		return fmt.Errorf("failed to apply defaults: %w", err)
	}

	// Defaults that depend on other fields or live behind optional sections.
	att := &cfg.Producer.Attachment
	if len(att.AcceptProjects) == 0 && att.ConnectionPreference == DefaultConnectionPreference && cfg.Consumer.Project != "" {
		att.AcceptProjects = []string{cfg.Consumer.Project}
	}
	if fw := cfg.Consumer.Firewall; fw != nil {
		if fw.Protocol == "" {
			fw.Protocol = DefaultFirewallProtocol
		}
		if len(fw.Ports) == 0 {
			fw.Ports = []string{cfg.Producer.LoadBalancer.Port}
		}
	}
	if dns := cfg.Consumer.DNS; dns != nil && dns.TTL == 0 {
		dns.TTL = DefaultDNSTTL
	}
	return nil
}

// DefaultConfig returns a complete configuration using the standard subnet
// layout: a frontend, proxy-only and PSC NAT subnet carved out of
// producerBlock, and a single endpoint subnet carved out of consumerBlock.
func DefaultConfig(name, region, producerProject, consumerProject, image, producerBlock, consumerBlock string) (*Config, error) {
	frontend, err := CIDRSubnet(producerBlock, 8, 0)
	if err != nil {
		return nil, fmt.Errorf("producer block: %w", err)
	}
	proxyOnly, err := CIDRSubnet(producerBlock, 8, 1)
	if err != nil {
		return nil, fmt.Errorf("producer block: %w", err)
	}
	pscNAT, err := CIDRSubnet(producerBlock, 8, 2)
	if err != nil {
		return nil, fmt.Errorf("producer block: %w", err)
	}
	endpoints, err := CIDRSubnet(consumerBlock, 8, 0)
	if err != nil {
		return nil, fmt.Errorf("consumer block: %w", err)
	}

	cfg := &Config{
		Name:   name,
		Region: region,
		Producer: ProducerConfig{
			Project: producerProject,
			Network: NetworkConfig{
				Subnets: []SubnetConfig{
					{Name: "frontend", CIDR: frontend},
					{Name: "proxy-only", CIDR: proxyOnly, Purpose: PurposeRegionalManagedProxy, Role: RoleActive},
					{Name: "psc-nat", CIDR: pscNAT, Purpose: PurposePrivateServiceConnect},
				},
			},
			Service: ServiceConfig{Image: image},
			LoadBalancer: LoadBalancerConfig{
				Subnet:      "frontend",
				ProxySubnet: "proxy-only",
			},
			Attachment: AttachmentConfig{NatSubnets: []string{"psc-nat"}},
		},
		Consumer: ConsumerConfig{
			Project: consumerProject,
			Network: NetworkConfig{
				Subnets: []SubnetConfig{{Name: "endpoints", CIDR: endpoints}},
			},
			Endpoint: EndpointConfig{Subnet: "endpoints"},
			Firewall: &FirewallConfig{SourceRanges: []string{consumerBlock}},
		},
	}
	if err := ApplyDefaults(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
