package topology

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/compute"
	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/dns"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/imamik/psclink/internal/config"
	"github.com/imamik/psclink/internal/util/labels"
	"github.com/imamik/psclink/internal/util/naming"
)

const (
	addressTypeInternal = "INTERNAL"
	directionIngress    = "INGRESS"
	zoneVisibility      = "private"
	recordTypeA         = "A"
)

// provisionEndpoint reserves the endpoint address in the consumer network and
// declares the PSC endpoint targeting the producer's attachment. This is the
// only reference crossing from one project to the other.
func provisionEndpoint(ctx *pulumi.Context, cfg *config.Config, c *Consumer, attachment *compute.ServiceAttachment) error {
	ep := cfg.Consumer.Endpoint

	subnet, err := c.subnet(ep.Subnet)
	if err != nil {
		return err
	}

	addrArgs := &compute.AddressArgs{
		Name:        pulumi.String(naming.EndpointAddress(cfg.Name)),
		Project:     pulumi.String(c.Project),
		Region:      pulumi.String(cfg.Region),
		AddressType: pulumi.String(addressTypeInternal),
		Subnetwork:  subnet.ID(),
		Labels:      labelsFor(cfg, naming.SideConsumer, labels.ComponentEndpoint),
	}
	if ep.Address != "" {
		addrArgs.Address = pulumi.String(ep.Address)
	}

	address, err := compute.NewAddress(ctx, naming.EndpointAddress(cfg.Name), addrArgs, c.opts()...)
	if err != nil {
		return fmt.Errorf("endpoint address: %w", err)
	}
	c.Address = address

	endpoint, err := compute.NewForwardingRule(ctx, naming.Endpoint(cfg.Name), &compute.ForwardingRuleArgs{
		Name:                 pulumi.String(naming.Endpoint(cfg.Name)),
		Project:              pulumi.String(c.Project),
		Region:               pulumi.String(cfg.Region),
		LoadBalancingScheme:  pulumi.String(""),
		Target:               attachment.SelfLink,
		Network:              c.Network.ID(),
		IpAddress:            address.ID(),
		AllowPscGlobalAccess: pulumi.Bool(ep.GlobalAccess),
		Labels:               labelsFor(cfg, naming.SideConsumer, labels.ComponentEndpoint),
	}, c.opts()...)
	if err != nil {
		return fmt.Errorf("psc endpoint: %w", err)
	}
	c.Endpoint = endpoint

	return nil
}

// provisionFirewall opens the consumer network towards the endpoint.
func provisionFirewall(ctx *pulumi.Context, cfg *config.Config, c *Consumer) error {
	fw := cfg.Consumer.Firewall
	if fw == nil {
		return nil
	}

	firewall, err := compute.NewFirewall(ctx, naming.Firewall(cfg.Name), &compute.FirewallArgs{
		Name:         pulumi.String(naming.Firewall(cfg.Name)),
		Project:      pulumi.String(c.Project),
		Network:      c.Network.Name,
		Direction:    pulumi.String(directionIngress),
		SourceRanges: pulumi.ToStringArray(fw.SourceRanges),
		Allows: compute.FirewallAllowArray{
			&compute.FirewallAllowArgs{
				Protocol: pulumi.String(fw.Protocol),
				Ports:    pulumi.ToStringArray(fw.Ports),
			},
		},
	}, c.opts()...)
	if err != nil {
		return fmt.Errorf("firewall: %w", err)
	}
	c.Firewall = firewall

	return nil
}

// provisionDNS publishes the endpoint address in a private zone attached to
// the consumer network.
func provisionDNS(ctx *pulumi.Context, cfg *config.Config, c *Consumer) error {
	d := cfg.Consumer.DNS
	if d == nil {
		return nil
	}

	zone, err := dns.NewManagedZone(ctx, naming.DNSZone(cfg.Name), &dns.ManagedZoneArgs{
		Name:        pulumi.String(naming.DNSZone(cfg.Name)),
		Project:     pulumi.String(c.Project),
		DnsName:     pulumi.String(d.Domain),
		Description: pulumi.Sprintf("Private Service Connect endpoint of %s", cfg.Name),
		Visibility:  pulumi.String(zoneVisibility),
		PrivateVisibilityConfig: &dns.ManagedZonePrivateVisibilityConfigArgs{
			Networks: dns.ManagedZonePrivateVisibilityConfigNetworkArray{
				&dns.ManagedZonePrivateVisibilityConfigNetworkArgs{
					NetworkUrl: c.Network.ID(),
				},
			},
		},
		Labels: labelsFor(cfg, naming.SideConsumer, labels.ComponentEndpoint),
	}, c.opts()...)
	if err != nil {
		return fmt.Errorf("dns zone: %w", err)
	}
	c.Zone = zone

	record, err := dns.NewRecordSet(ctx, naming.DNSRecord(cfg.Name), &dns.RecordSetArgs{
		Name:        pulumi.String(cfg.FullyQualifiedDNSName()),
		Project:     pulumi.String(c.Project),
		ManagedZone: zone.Name,
		Type:        pulumi.String(recordTypeA),
		Ttl:         pulumi.Int(d.TTL),
		Rrdatas:     pulumi.StringArray{c.Address.Address},
	}, c.opts()...)
	if err != nil {
		return fmt.Errorf("dns record: %w", err)
	}
	c.Record = record

	return nil
}
