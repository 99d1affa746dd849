package topology

import (
	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp"
	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/cloudrunv2"
	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/compute"
	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/dns"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/imamik/psclink/internal/config"
	"github.com/imamik/psclink/internal/util/naming"
)

// Stack output names.
const (
	OutputProducerNetwork     = "producerNetwork"
	OutputConsumerNetwork     = "consumerNetwork"
	OutputServiceURI          = "serviceUri"
	OutputLoadBalancerIP      = "loadBalancerIp"
	OutputServiceAttachment   = "serviceAttachment"
	OutputEndpointIP          = "endpointIp"
	OutputPSCConnectionID     = "pscConnectionId"
	OutputPSCConnectionStatus = "pscConnectionStatus"
	OutputDNSName             = "dnsName"
	OutputSubnets             = "subnets"
)

// Side holds the resources shared by both halves of the topology.
type Side struct {
	Name     string
	Project  string
	Provider *gcp.Provider
	APIs     []pulumi.Resource
	Network  *compute.Network
	Subnets  map[string]*compute.Subnetwork
}

// Producer holds the resources declared in the producer project.
type Producer struct {
	*Side
	Service        *cloudrunv2.Service
	Invokers       []*cloudrunv2.ServiceIamMember
	EndpointGroup  *compute.RegionNetworkEndpointGroup
	BackendService *compute.RegionBackendService
	URLMap         *compute.RegionUrlMap
	TargetProxy    *compute.RegionTargetHttpProxy
	LoadBalancer   *compute.ForwardingRule
	Attachment     *compute.ServiceAttachment
}

// Consumer holds the resources declared in the consumer project.
type Consumer struct {
	*Side
	Address  *compute.Address
	Endpoint *compute.ForwardingRule
	Firewall *compute.Firewall
	Zone     *dns.ManagedZone
	Record   *dns.RecordSet
}

// Topology is the declared resource graph.
type Topology struct {
	Producer *Producer
	Consumer *Consumer
}

// Define returns the Pulumi program declaring the topology for cfg and
// exporting its outputs.
func Define(cfg *config.Config) pulumi.RunFunc {
	return func(ctx *pulumi.Context) error {
		t, err := Build(ctx, cfg)
		if err != nil {
			return err
		}
		t.export(ctx, cfg)
		return nil
	}
}

// Build declares every resource of the topology in ctx.
func Build(ctx *pulumi.Context, cfg *config.Config) (*Topology, error) {
	producerSide, err := provisionSide(ctx, cfg, naming.SideProducer)
	if err != nil {
		return nil, err
	}
	producer := &Producer{Side: producerSide}

	if err := provisionService(ctx, cfg, producer); err != nil {
		return nil, err
	}
	if err := provisionLoadBalancer(ctx, cfg, producer); err != nil {
		return nil, err
	}
	if err := provisionAttachment(ctx, cfg, producer); err != nil {
		return nil, err
	}

	consumerSide, err := provisionSide(ctx, cfg, naming.SideConsumer)
	if err != nil {
		return nil, err
	}
	consumer := &Consumer{Side: consumerSide}

	if err := provisionEndpoint(ctx, cfg, consumer, producer.Attachment); err != nil {
		return nil, err
	}
	if err := provisionFirewall(ctx, cfg, consumer); err != nil {
		return nil, err
	}
	if err := provisionDNS(ctx, cfg, consumer); err != nil {
		return nil, err
	}

	return &Topology{Producer: producer, Consumer: consumer}, nil
}

func (t *Topology) export(ctx *pulumi.Context, cfg *config.Config) {
	ctx.Export(OutputProducerNetwork, t.Producer.Network.SelfLink)
	ctx.Export(OutputConsumerNetwork, t.Consumer.Network.SelfLink)
	ctx.Export(OutputServiceURI, t.Producer.Service.Uri)
	ctx.Export(OutputLoadBalancerIP, t.Producer.LoadBalancer.IpAddress)
	ctx.Export(OutputServiceAttachment, t.Producer.Attachment.SelfLink)
	ctx.Export(OutputEndpointIP, t.Consumer.Address.Address)
	ctx.Export(OutputPSCConnectionID, t.Consumer.Endpoint.PscConnectionId)
	ctx.Export(OutputPSCConnectionStatus, t.Consumer.Endpoint.PscConnectionStatus)
	if name := cfg.FullyQualifiedDNSName(); name != "" {
		ctx.Export(OutputDNSName, pulumi.String(name))
	}

	subnets := pulumi.StringMap{}
	for _, side := range []*Side{t.Producer.Side, t.Consumer.Side} {
		for name, subnet := range side.Subnets {
			subnets[side.Name+"/"+name] = subnet.SelfLink
		}
	}
	ctx.Export(OutputSubnets, subnets)
}
