package topology

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/compute"
	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/projects"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/imamik/psclink/internal/config"
	"github.com/imamik/psclink/internal/util/labels"
	"github.com/imamik/psclink/internal/util/naming"
)

// api is a Google API enabled in a project before anything else is declared.
type api struct {
	short   string
	service string
}

var (
	apiCompute = api{short: "compute", service: "compute.googleapis.com"}
	apiRun     = api{short: "run", service: "run.googleapis.com"}
	apiDNS     = api{short: "dns", service: "dns.googleapis.com"}
)

// requiredAPIs lists the APIs each side needs for the resources it declares.
func requiredAPIs(cfg *config.Config, side string) []api {
	switch side {
	case naming.SideProducer:
		return []api{apiCompute, apiRun}
	case naming.SideConsumer:
		if cfg.Consumer.DNS != nil {
			return []api{apiCompute, apiDNS}
		}
		return []api{apiCompute}
	default:
		return nil
	}
}

// provisionSide declares the provider, API enablement, VPC and subnets of one
// project.
func provisionSide(ctx *pulumi.Context, cfg *config.Config, side string) (*Side, error) {
	project := cfg.Project(side)
	s := &Side{
		Name:    side,
		Project: project,
		Subnets: make(map[string]*compute.Subnetwork),
	}

	provider, err := gcp.NewProvider(ctx, naming.Provider(cfg.Name, side), &gcp.ProviderArgs{
		Project: pulumi.String(project),
		Region:  pulumi.String(cfg.Region),
	})
	if err != nil {
		return nil, fmt.Errorf("%s provider: %w", side, err)
	}
	s.Provider = provider

	if cfg.EnableAPIs(side) {
		for _, a := range requiredAPIs(cfg, side) {
			svc, err := projects.NewService(ctx, naming.ProjectService(cfg.Name, side, a.short), &projects.ServiceArgs{
				Project:          pulumi.String(project),
				Service:          pulumi.String(a.service),
				DisableOnDestroy: pulumi.Bool(false),
			}, pulumi.Provider(provider))
			if err != nil {
				return nil, fmt.Errorf("%s api %s: %w", side, a.service, err)
			}
			s.APIs = append(s.APIs, svc)
		}
	}

	netCfg := cfg.Network(side)
	networkArgs := &compute.NetworkArgs{
		Name:                  pulumi.String(naming.Network(cfg.Name, side)),
		Project:               pulumi.String(project),
		AutoCreateSubnetworks: pulumi.Bool(false),
		RoutingMode:           pulumi.String(netCfg.RoutingMode),
		Description:           pulumi.Sprintf("%s network of %s", side, cfg.Name),
	}
	if netCfg.MTU > 0 {
		networkArgs.Mtu = pulumi.Int(netCfg.MTU)
	}
	network, err := compute.NewNetwork(ctx, naming.Network(cfg.Name, side), networkArgs, s.opts()...)
	if err != nil {
		return nil, fmt.Errorf("%s network: %w", side, err)
	}
	s.Network = network

	for _, sc := range netCfg.Subnets {
		args := &compute.SubnetworkArgs{
			Name:        pulumi.String(naming.Subnet(cfg.Name, side, sc.Name)),
			Project:     pulumi.String(project),
			Region:      pulumi.String(cfg.Region),
			Network:     network.ID(),
			IpCidrRange: pulumi.String(sc.CIDR),
		}
		if sc.Purpose != "" {
			args.Purpose = pulumi.String(sc.Purpose)
		}
		if sc.Role != "" {
			args.Role = pulumi.String(sc.Role)
		}
		if sc.PrivateGoogleAccess != nil {
			args.PrivateIpGoogleAccess = pulumi.Bool(*sc.PrivateGoogleAccess)
		}

		subnet, err := compute.NewSubnetwork(ctx, naming.Subnet(cfg.Name, side, sc.Name), args, s.opts()...)
		if err != nil {
			return nil, fmt.Errorf("%s subnet %s: %w", side, sc.Name, err)
		}
		s.Subnets[sc.Name] = subnet
	}

	return s, nil
}

// opts returns the resource options every resource of this side carries:
// the side's provider and a dependency on its enabled APIs.
func (s *Side) opts(extra ...pulumi.ResourceOption) []pulumi.ResourceOption {
	opts := []pulumi.ResourceOption{pulumi.Provider(s.Provider)}
	if len(s.APIs) > 0 {
		opts = append(opts, pulumi.DependsOn(s.APIs))
	}
	return append(opts, extra...)
}

// subnet resolves a configured subnet name. Validation guarantees the name
// exists; the error covers programs built from unvalidated configs.
func (s *Side) subnet(name string) (*compute.Subnetwork, error) {
	subnet, ok := s.Subnets[name]
	if !ok {
		return nil, fmt.Errorf("unknown %s subnet %q", s.Name, name)
	}
	return subnet, nil
}

// labelsFor builds the labels of one component.
func labelsFor(cfg *config.Config, side, component string) pulumi.StringMap {
	return labels.NewLabelBuilder(cfg.Name).
		WithSide(side).
		WithComponent(component).
		Merge(cfg.Labels).
		StringMap()
}
