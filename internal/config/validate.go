package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/imamik/psclink/internal/util/naming"
)

// MaxNameLength bounds the topology name so that every derived resource name
// stays within the Compute Engine limit.
const MaxNameLength = 40

// Validate checks the configuration and returns every problem found, joined
// into a single error.
func (c *Config) Validate() error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, errors.New("name is required"))
	} else if !isValidDNSName(c.Name) || len(c.Name) > MaxNameLength {
		errs = append(errs, fmt.Errorf("name must be DNS-safe (lowercase alphanumeric and hyphens, must start with letter, at most %d characters)", MaxNameLength))
	}

	if c.Region == "" {
		errs = append(errs, errors.New("region is required"))
	}

	if c.Producer.Project == "" {
		errs = append(errs, errors.New("producer.project is required"))
	}
	if c.Consumer.Project == "" {
		errs = append(errs, errors.New("consumer.project is required"))
	}

	errs = append(errs, c.validateNetwork(naming.SideProducer)...)
	errs = append(errs, c.validateNetwork(naming.SideConsumer)...)
	errs = append(errs, c.validateService()...)
	errs = append(errs, c.validateLoadBalancer()...)
	errs = append(errs, c.validateAttachment()...)
	errs = append(errs, c.validateEndpoint()...)
	errs = append(errs, c.validateFirewall()...)
	errs = append(errs, c.validateDNS()...)
	errs = append(errs, c.validateBackend()...)

	return errors.Join(errs...)
}

func (c *Config) validateNetwork(side string) []error {
	var errs []error
	network := c.Network(side)

	if len(network.Subnets) == 0 {
		return []error{fmt.Errorf("%s.network.subnets must contain at least one subnet", side)}
	}

	seen := make(map[string]bool, len(network.Subnets))
	for i, s := range network.Subnets {
		field := fmt.Sprintf("%s.network.subnets[%d]", side, i)
		switch {
		case s.Name == "":
			errs = append(errs, fmt.Errorf("%s.name is required", field))
		case !isValidDNSName(s.Name):
			errs = append(errs, fmt.Errorf("%s.name %q must be DNS-safe", field, s.Name))
		case seen[s.Name]:
			errs = append(errs, fmt.Errorf("%s.name %q is used more than once", field, s.Name))
		case len(naming.Subnet(c.Name, side, s.Name)) > naming.MaxLength:
			errs = append(errs, fmt.Errorf("%s.name %q makes the resource name longer than %d characters", field, s.Name, naming.MaxLength))
		}
		seen[s.Name] = true

		if s.CIDR == "" {
			errs = append(errs, fmt.Errorf("%s.cidr is required", field))
		} else if _, err := parseIPv4Prefix(s.CIDR); err != nil {
			errs = append(errs, fmt.Errorf("%s.cidr: %w", field, err))
		}
	}
	return errs
}

func (c *Config) validateService() []error {
	var errs []error
	svc := c.Producer.Service

	if svc.Image == "" {
		errs = append(errs, errors.New("producer.service.image is required"))
	}
	if !isValidDNSName(svc.Name) {
		errs = append(errs, fmt.Errorf("producer.service.name %q must be DNS-safe", svc.Name))
	} else if name := naming.Service(c.Name, svc.Name); len(name) > naming.MaxServiceLength {
		errs = append(errs, fmt.Errorf("producer.service.name %q makes the Cloud Run service name %q longer than %d characters", svc.Name, name, naming.MaxServiceLength))
	}
	if svc.Port < 1 || svc.Port > 65535 {
		errs = append(errs, fmt.Errorf("producer.service.port %d must be between 1 and 65535", svc.Port))
	}
	if svc.MinInstances < 0 {
		errs = append(errs, errors.New("producer.service.min_instances must not be negative"))
	}
	if svc.MaxInstances < 1 {
		errs = append(errs, errors.New("producer.service.max_instances must be at least 1"))
	} else if svc.MinInstances > svc.MaxInstances {
		errs = append(errs, fmt.Errorf("producer.service.min_instances (%d) exceeds max_instances (%d)", svc.MinInstances, svc.MaxInstances))
	}
	for i, member := range svc.Invokers {
		if strings.TrimSpace(member) == "" {
			errs = append(errs, fmt.Errorf("producer.service.invokers[%d] is empty", i))
		}
	}
	return errs
}

func (c *Config) validateLoadBalancer() []error {
	var errs []error
	lb := c.Producer.LoadBalancer

	subnet, err := c.requireSubnet(naming.SideProducer, "producer.load_balancer.subnet", lb.Subnet)
	if err != nil {
		errs = append(errs, err)
	}
	if lb.ProxySubnet != "" {
		if _, err := c.requireSubnet(naming.SideProducer, "producer.load_balancer.proxy_subnet", lb.ProxySubnet); err != nil {
			errs = append(errs, err)
		}
	}
	if lb.Port == "" {
		errs = append(errs, errors.New("producer.load_balancer.port is required"))
	}
	if lb.Address != "" && subnet != nil {
		if err := addressInSubnet("producer.load_balancer.address", lb.Address, subnet); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (c *Config) validateAttachment() []error {
	var errs []error
	att := c.Producer.Attachment

	if len(att.NatSubnets) == 0 {
		errs = append(errs, errors.New("producer.attachment.nat_subnets must name at least one subnet"))
	}
	for i, name := range att.NatSubnets {
		if _, err := c.requireSubnet(naming.SideProducer, fmt.Sprintf("producer.attachment.nat_subnets[%d]", i), name); err != nil {
			errs = append(errs, err)
		}
	}
	if att.ConnectionLimit < 0 {
		errs = append(errs, errors.New("producer.attachment.connection_limit must not be negative"))
	}
	return errs
}

func (c *Config) validateEndpoint() []error {
	var errs []error
	ep := c.Consumer.Endpoint

	subnet, err := c.requireSubnet(naming.SideConsumer, "consumer.endpoint.subnet", ep.Subnet)
	if err != nil {
		errs = append(errs, err)
	}
	if ep.Address != "" && subnet != nil {
		if err := addressInSubnet("consumer.endpoint.address", ep.Address, subnet); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (c *Config) validateFirewall() []error {
	fw := c.Consumer.Firewall
	if fw == nil {
		return nil
	}

	var errs []error
	if len(fw.SourceRanges) == 0 {
		errs = append(errs, errors.New("consumer.firewall.source_ranges must not be empty"))
	}
	for i, r := range fw.SourceRanges {
		if _, err := parseIPv4Prefix(r); err != nil {
			errs = append(errs, fmt.Errorf("consumer.firewall.source_ranges[%d]: %w", i, err))
		}
	}
	return errs
}

func (c *Config) validateDNS() []error {
	dns := c.Consumer.DNS
	if dns == nil {
		return nil
	}

	var errs []error
	if dns.Domain == "" {
		errs = append(errs, errors.New("consumer.dns.domain is required"))
	} else if !strings.HasSuffix(dns.Domain, ".") {
		errs = append(errs, fmt.Errorf("consumer.dns.domain %q must end with a dot", dns.Domain))
	}
	if dns.Record != "" && dns.Record != "@" && !isValidDNSLabel(dns.Record) {
		errs = append(errs, fmt.Errorf("consumer.dns.record %q is not a valid DNS label", dns.Record))
	}
	if dns.TTL < 0 {
		errs = append(errs, errors.New("consumer.dns.ttl must not be negative"))
	}
	return errs
}

func (c *Config) validateBackend() []error {
	var errs []error
	if c.Backend.S3 != nil && c.BackendScheme() != "s3" {
		errs = append(errs, errors.New("backend.s3 is only valid with an s3:// backend url"))
	}
	if c.Backend.Stack != "" && strings.ContainsAny(c.Backend.Stack, " \t") {
		errs = append(errs, fmt.Errorf("backend.stack %q must not contain whitespace", c.Backend.Stack))
	}
	return errs
}

// requireSubnet resolves a subnet reference, returning an error naming the
// offending field when it is empty or unknown.
func (c *Config) requireSubnet(side, field, name string) (*SubnetConfig, error) {
	if name == "" {
		return nil, fmt.Errorf("%s is required", field)
	}
	subnet, ok := c.Subnet(side, name)
	if !ok {
		return nil, fmt.Errorf("%s refers to unknown %s subnet %q", field, side, name)
	}
	return subnet, nil
}

func addressInSubnet(field, address string, subnet *SubnetConfig) error {
	ok, err := CIDRContains(subnet.CIDR, address)
	if err != nil {
		// an invalid subnet CIDR is reported by network validation
		if _, perr := parseIPv4Prefix(subnet.CIDR); perr != nil {
			return nil
		}
		return fmt.Errorf("%s: %w", field, err)
	}
	if !ok {
		return fmt.Errorf("%s %s is outside subnet %s (%s)", field, address, subnet.Name, subnet.CIDR)
	}
	return nil
}

// isValidDNSName checks if a string is a valid resource name.
// Must be lowercase, alphanumeric with hyphens, start with a letter, max 63 chars.
func isValidDNSName(name string) bool {
	if len(name) == 0 || len(name) > naming.MaxLength {
		return false
	}
	if name[0] < 'a' || name[0] > 'z' {
		return false
	}
	last := name[len(name)-1]
	if (last < 'a' || last > 'z') && (last < '0' || last > '9') {
		return false
	}
	for _, c := range name {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return false
		}
	}
	return !strings.Contains(name, "--")
}

// isValidDNSLabel accepts a single DNS label (letters, digits, hyphens).
func isValidDNSLabel(label string) bool {
	if len(label) == 0 || len(label) > 63 {
		return false
	}
	if label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for _, c := range strings.ToLower(label) {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return false
		}
	}
	return true
}
