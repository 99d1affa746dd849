package testing

import (
	"maps"

	"github.com/imamik/psclink/internal/config"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a new ConfigBuilder from the default layout.
func NewConfigBuilder() *ConfigBuilder {
	cfg, err := config.DefaultConfig("orders", "europe-west1", "orders-producer", "orders-consumer",
		"us-docker.pkg.dev/cloudrun/container/hello", "10.10.0.0/16", "10.20.0.0/16")
	if err != nil {
		panic(err)
	}
	return &ConfigBuilder{cfg: *cfg}
}

// WithName sets the topology name.
func (b *ConfigBuilder) WithName(name string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Name = name
	return newBuilder
}

// WithProjects sets the producer and consumer projects.
func (b *ConfigBuilder) WithProjects(producer, consumer string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Producer.Project = producer
	newBuilder.cfg.Consumer.Project = consumer
	return newBuilder
}

// WithLabels merges labels into the config.
func (b *ConfigBuilder) WithLabels(labels map[string]string) *ConfigBuilder {
	newBuilder := b.clone()
	if newBuilder.cfg.Labels == nil {
		newBuilder.cfg.Labels = map[string]string{}
	}
	maps.Copy(newBuilder.cfg.Labels, labels)
	return newBuilder
}

// WithDNS publishes the endpoint under record.domain.
func (b *ConfigBuilder) WithDNS(domain, record string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Consumer.DNS = &config.DNSConfig{Domain: domain, Record: record}
	return newBuilder
}

// WithFileBackend stores state under a local directory.
func (b *ConfigBuilder) WithFileBackend(dir string) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Backend = config.BackendConfig{URL: "file://" + dir}
	return newBuilder
}

// WithS3Backend stores state in an S3-compatible bucket.
func (b *ConfigBuilder) WithS3Backend(bucket string, create bool) *ConfigBuilder {
	newBuilder := b.clone()
	newBuilder.cfg.Backend = config.BackendConfig{
		URL: "s3://" + bucket + "?endpoint=storage.googleapis.com",
		S3:  &config.S3BackendConfig{CreateBucket: create},
	}
	return newBuilder
}

// Build returns the constructed config.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.clone().cfg
	return &cfg
}

// clone deep-copies the parts of the config the builder mutates.
func (b *ConfigBuilder) clone() *ConfigBuilder {
	cfg := b.cfg
	cfg.Labels = maps.Clone(b.cfg.Labels)
	cfg.Producer.Network.Subnets = append([]config.SubnetConfig(nil), b.cfg.Producer.Network.Subnets...)
	cfg.Consumer.Network.Subnets = append([]config.SubnetConfig(nil), b.cfg.Consumer.Network.Subnets...)
	cfg.Producer.Service.Env = maps.Clone(b.cfg.Producer.Service.Env)
	cfg.Producer.Attachment.NatSubnets = append([]string(nil), b.cfg.Producer.Attachment.NatSubnets...)
	cfg.Producer.Attachment.AcceptProjects = append([]string(nil), b.cfg.Producer.Attachment.AcceptProjects...)
	if b.cfg.Consumer.DNS != nil {
		dns := *b.cfg.Consumer.DNS
		cfg.Consumer.DNS = &dns
	}
	if b.cfg.Backend.S3 != nil {
		s3 := *b.cfg.Backend.S3
		cfg.Backend.S3 = &s3
	}
	return &ConfigBuilder{cfg: cfg}
}

// MinimalConfig returns the default layout.
func MinimalConfig() *config.Config {
	return NewConfigBuilder().Build()
}

// FullConfig returns a config exercising every optional component.
func FullConfig() *config.Config {
	return NewConfigBuilder().
		WithLabels(map[string]string{"team": "payments"}).
		WithDNS("orders.internal.", "api").
		WithS3Backend("orders-state", true).
		Build()
}
