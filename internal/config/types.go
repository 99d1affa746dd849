package config

import (
	"net/url"
	"strings"

	"github.com/imamik/psclink/internal/util/naming"
)

// Config is the desired topology for one producer/consumer pair.
type Config struct {
	// Name prefixes every resource name. Must be DNS-safe.
	Name string `yaml:"name"`

	// Region is the Google Cloud region shared by both projects.
	Region string `yaml:"region"`

	// Labels are merged into every label-capable resource.
	Labels map[string]string `yaml:"labels,omitempty"`

	Producer ProducerConfig `yaml:"producer"`
	Consumer ConsumerConfig `yaml:"consumer"`
	Backend  BackendConfig  `yaml:"backend"`
}

// NetworkConfig describes one VPC and its subnets.
type NetworkConfig struct {
	// RoutingMode is passed through to the network (REGIONAL or GLOBAL).
	RoutingMode string `yaml:"routing_mode,omitempty"`

	// MTU is optional; zero leaves the provider default.
	MTU int `yaml:"mtu,omitempty"`

	Subnets []SubnetConfig `yaml:"subnets"`
}

// SubnetConfig describes one subnetwork. Purpose and Role are opaque.
type SubnetConfig struct {
	Name                string `yaml:"name"`
	CIDR                string `yaml:"cidr"`
	Purpose             string `yaml:"purpose,omitempty"`
	Role                string `yaml:"role,omitempty"`
	PrivateGoogleAccess *bool  `yaml:"private_google_access,omitempty"`
}

// ProducerConfig is the project that publishes the service.
type ProducerConfig struct {
	Project      string             `yaml:"project"`
	EnableAPIs   *bool              `yaml:"enable_apis,omitempty"`
	Network      NetworkConfig      `yaml:"network"`
	Service      ServiceConfig      `yaml:"service"`
	LoadBalancer LoadBalancerConfig `yaml:"load_balancer"`
	Attachment   AttachmentConfig   `yaml:"attachment"`
}

// ServiceConfig describes the managed compute (Cloud Run) service.
type ServiceConfig struct {
	Name               string            `yaml:"name"`
	Image              string            `yaml:"image"`
	Port               int               `yaml:"port,omitempty"`
	Ingress            string            `yaml:"ingress,omitempty"`
	MinInstances       int               `yaml:"min_instances,omitempty"`
	MaxInstances       int               `yaml:"max_instances,omitempty"`
	Env                map[string]string `yaml:"env,omitempty"`
	Invokers           []string          `yaml:"invokers,omitempty"`
	DeletionProtection bool              `yaml:"deletion_protection,omitempty"`
}

// LoadBalancerConfig describes the internal load balancer in front of the
// service. Subnet names refer to entries in the producer network.
type LoadBalancerConfig struct {
	Subnet       string `yaml:"subnet"`
	ProxySubnet  string `yaml:"proxy_subnet,omitempty"`
	Protocol     string `yaml:"protocol,omitempty"`
	Scheme       string `yaml:"scheme,omitempty"`
	Port         string `yaml:"port,omitempty"`
	Address      string `yaml:"address,omitempty"`
	GlobalAccess bool   `yaml:"global_access,omitempty"`
}

// AttachmentConfig describes the service attachment publishing the load
// balancer to consumers.
type AttachmentConfig struct {
	NatSubnets           []string `yaml:"nat_subnets"`
	ConnectionPreference string   `yaml:"connection_preference,omitempty"`
	ProxyProtocol        bool     `yaml:"proxy_protocol,omitempty"`
	ConnectionLimit      int      `yaml:"connection_limit,omitempty"`
	AcceptProjects       []string `yaml:"accept_projects,omitempty"`
	RejectProjects       []string `yaml:"reject_projects,omitempty"`
}

// ConsumerConfig is the project that reaches the service through PSC.
type ConsumerConfig struct {
	Project    string          `yaml:"project"`
	EnableAPIs *bool           `yaml:"enable_apis,omitempty"`
	Network    NetworkConfig   `yaml:"network"`
	Endpoint   EndpointConfig  `yaml:"endpoint"`
	Firewall   *FirewallConfig `yaml:"firewall,omitempty"`
	DNS        *DNSConfig      `yaml:"dns,omitempty"`
}

// EndpointConfig describes the consumer PSC endpoint.
type EndpointConfig struct {
	Subnet       string `yaml:"subnet"`
	Address      string `yaml:"address,omitempty"`
	GlobalAccess bool   `yaml:"global_access,omitempty"`
}

// FirewallConfig opens the consumer VPC towards the endpoint.
type FirewallConfig struct {
	SourceRanges []string `yaml:"source_ranges"`
	Protocol     string   `yaml:"protocol,omitempty"`
	Ports        []string `yaml:"ports,omitempty"`
}

// DNSConfig publishes the endpoint under a private zone in the consumer VPC.
type DNSConfig struct {
	// Domain is the zone's DNS name and must end with a dot.
	Domain string `yaml:"domain"`
	Record string `yaml:"record"`
	TTL    int    `yaml:"ttl,omitempty"`
}

// BackendConfig selects where the engine keeps its state.
type BackendConfig struct {
	// URL is a Pulumi backend URL (file://, gs://, s3://). Empty uses the
	// engine's default login.
	URL             string           `yaml:"url,omitempty"`
	Stack           string           `yaml:"stack,omitempty"`
	SecretsProvider string           `yaml:"secrets_provider,omitempty"`
	S3              *S3BackendConfig `yaml:"s3,omitempty"`
}

// S3BackendConfig configures an S3-compatible state bucket.
type S3BackendConfig struct {
	Endpoint     string `yaml:"endpoint,omitempty"`
	Region       string `yaml:"region,omitempty"`
	CreateBucket bool   `yaml:"create_bucket,omitempty"`
}

// Subnet looks up a subnet by name on the given side.
func (c *Config) Subnet(side, name string) (*SubnetConfig, bool) {
	network := c.Network(side)
	if network == nil {
		return nil, false
	}
	for i := range network.Subnets {
		if network.Subnets[i].Name == name {
			return &network.Subnets[i], true
		}
	}
	return nil, false
}

// Network returns the network of the given side, or nil for an unknown side.
func (c *Config) Network(side string) *NetworkConfig {
	switch side {
	case naming.SideProducer:
		return &c.Producer.Network
	case naming.SideConsumer:
		return &c.Consumer.Network
	default:
		return nil
	}
}

// Project returns the project of the given side.
func (c *Config) Project(side string) string {
	switch side {
	case naming.SideProducer:
		return c.Producer.Project
	case naming.SideConsumer:
		return c.Consumer.Project
	default:
		return ""
	}
}

// EnableAPIs reports whether API enablement resources are declared for a side.
func (c *Config) EnableAPIs(side string) bool {
	var flag *bool
	switch side {
	case naming.SideProducer:
		flag = c.Producer.EnableAPIs
	case naming.SideConsumer:
		flag = c.Consumer.EnableAPIs
	}
	return flag == nil || *flag
}

// StackName returns the engine stack name.
func (c *Config) StackName() string {
	if c.Backend.Stack != "" {
		return c.Backend.Stack
	}
	return DefaultStack
}

// FullyQualifiedDNSName returns the endpoint's record name, or "" when DNS is
// not configured.
func (c *Config) FullyQualifiedDNSName() string {
	if c.Consumer.DNS == nil {
		return ""
	}
	domain := c.Consumer.DNS.Domain
	if c.Consumer.DNS.Record == "" || c.Consumer.DNS.Record == "@" {
		return domain
	}
	return c.Consumer.DNS.Record + "." + domain
}

// BackendScheme returns the scheme of the backend URL ("" for the default).
func (c *Config) BackendScheme() string {
	if c.Backend.URL == "" {
		return ""
	}
	u, err := url.Parse(c.Backend.URL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Scheme)
}

// StateBucket returns the bucket named by an s3:// or gs:// backend URL.
func (c *Config) StateBucket() string {
	switch c.BackendScheme() {
	case "s3", "gs":
	default:
		return ""
	}
	u, err := url.Parse(c.Backend.URL)
	if err != nil {
		return ""
	}
	return u.Host
}
