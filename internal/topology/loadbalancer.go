package topology

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/compute"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/imamik/psclink/internal/config"
	"github.com/imamik/psclink/internal/util/labels"
	"github.com/imamik/psclink/internal/util/naming"
)

const (
	negTypeServerless = "SERVERLESS"
	ipProtocolTCP     = "TCP"
	networkTier       = "PREMIUM"
)

// provisionLoadBalancer declares the serverless NEG and the internal load
// balancer chain in front of the Cloud Run service.
func provisionLoadBalancer(ctx *pulumi.Context, cfg *config.Config, p *Producer) error {
	lb := cfg.Producer.LoadBalancer
	region := pulumi.String(cfg.Region)
	project := pulumi.String(p.Project)

	neg, err := compute.NewRegionNetworkEndpointGroup(ctx, naming.EndpointGroup(cfg.Name), &compute.RegionNetworkEndpointGroupArgs{
		Name:                pulumi.String(naming.EndpointGroup(cfg.Name)),
		Project:             project,
		Region:              region,
		NetworkEndpointType: pulumi.String(negTypeServerless),
		CloudRun: &compute.RegionNetworkEndpointGroupCloudRunArgs{
			Service: p.Service.Name,
		},
	}, p.opts()...)
	if err != nil {
		return fmt.Errorf("endpoint group: %w", err)
	}
	p.EndpointGroup = neg

	backend, err := compute.NewRegionBackendService(ctx, naming.BackendService(cfg.Name), &compute.RegionBackendServiceArgs{
		Name:                pulumi.String(naming.BackendService(cfg.Name)),
		Project:             project,
		Region:              region,
		Protocol:            pulumi.String(lb.Protocol),
		LoadBalancingScheme: pulumi.String(lb.Scheme),
		Backends: compute.RegionBackendServiceBackendArray{
			&compute.RegionBackendServiceBackendArgs{
				Group:          neg.ID(),
				BalancingMode:  pulumi.String("UTILIZATION"),
				CapacityScaler: pulumi.Float64(1),
			},
		},
	}, p.opts()...)
	if err != nil {
		return fmt.Errorf("backend service: %w", err)
	}
	p.BackendService = backend

	urlMap, err := compute.NewRegionUrlMap(ctx, naming.URLMap(cfg.Name), &compute.RegionUrlMapArgs{
		Name:           pulumi.String(naming.URLMap(cfg.Name)),
		Project:        project,
		Region:         region,
		DefaultService: backend.ID(),
	}, p.opts()...)
	if err != nil {
		return fmt.Errorf("url map: %w", err)
	}
	p.URLMap = urlMap

	proxy, err := compute.NewRegionTargetHttpProxy(ctx, naming.TargetProxy(cfg.Name), &compute.RegionTargetHttpProxyArgs{
		Name:    pulumi.String(naming.TargetProxy(cfg.Name)),
		Project: project,
		Region:  region,
		UrlMap:  urlMap.ID(),
	}, p.opts()...)
	if err != nil {
		return fmt.Errorf("target proxy: %w", err)
	}
	p.TargetProxy = proxy

	frontend, err := p.subnet(lb.Subnet)
	if err != nil {
		return err
	}

	// The proxy-only subnet is not referenced by any property but must exist
	// before a managed forwarding rule can be created in the region.
	var extra []pulumi.ResourceOption
	if lb.ProxySubnet != "" {
		proxySubnet, err := p.subnet(lb.ProxySubnet)
		if err != nil {
			return err
		}
		extra = append(extra, pulumi.DependsOn([]pulumi.Resource{proxySubnet}))
	}

	ruleArgs := &compute.ForwardingRuleArgs{
		Name:                pulumi.String(naming.LoadBalancerRule(cfg.Name)),
		Project:             project,
		Region:              region,
		LoadBalancingScheme: pulumi.String(lb.Scheme),
		IpProtocol:          pulumi.String(ipProtocolTCP),
		PortRange:           pulumi.String(lb.Port),
		Target:              proxy.ID(),
		Network:             p.Network.ID(),
		Subnetwork:          frontend.ID(),
		NetworkTier:         pulumi.String(networkTier),
		AllowGlobalAccess:   pulumi.Bool(lb.GlobalAccess),
		Labels:              labelsFor(cfg, naming.SideProducer, labels.ComponentLoadBalancer),
	}
	if lb.Address != "" {
		ruleArgs.IpAddress = pulumi.String(lb.Address)
	}

	rule, err := compute.NewForwardingRule(ctx, naming.LoadBalancerRule(cfg.Name), ruleArgs, p.opts(extra...)...)
	if err != nil {
		return fmt.Errorf("forwarding rule: %w", err)
	}
	p.LoadBalancer = rule

	return nil
}
