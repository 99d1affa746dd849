package topology

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/compute"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/imamik/psclink/internal/config"
	"github.com/imamik/psclink/internal/util/naming"
)

// provisionAttachment publishes the internal forwarding rule as a service
// attachment.
func provisionAttachment(ctx *pulumi.Context, cfg *config.Config, p *Producer) error {
	att := cfg.Producer.Attachment

	natSubnets := make(pulumi.StringArray, 0, len(att.NatSubnets))
	for _, name := range att.NatSubnets {
		subnet, err := p.subnet(name)
		if err != nil {
			return err
		}
		natSubnets = append(natSubnets, subnet.ID())
	}

	var acceptLists compute.ServiceAttachmentConsumerAcceptListArray
	for _, project := range att.AcceptProjects {
		acceptLists = append(acceptLists, &compute.ServiceAttachmentConsumerAcceptListArgs{
			ProjectIdOrNum:  pulumi.String(project),
			ConnectionLimit: pulumi.Int(att.ConnectionLimit),
		})
	}

	args := &compute.ServiceAttachmentArgs{
		Name:                 pulumi.String(naming.ServiceAttachment(cfg.Name)),
		Project:              pulumi.String(p.Project),
		Region:               pulumi.String(cfg.Region),
		Description:          pulumi.Sprintf("Private Service Connect for %s", cfg.Name),
		TargetService:        p.LoadBalancer.ID(),
		NatSubnets:           natSubnets,
		ConnectionPreference: pulumi.String(att.ConnectionPreference),
		EnableProxyProtocol:  pulumi.Bool(att.ProxyProtocol),
	}
	if len(acceptLists) > 0 {
		args.ConsumerAcceptLists = acceptLists
	}
	if len(att.RejectProjects) > 0 {
		args.ConsumerRejectLists = pulumi.ToStringArray(att.RejectProjects)
	}

	attachment, err := compute.NewServiceAttachment(ctx, naming.ServiceAttachment(cfg.Name), args, p.opts()...)
	if err != nil {
		return fmt.Errorf("service attachment: %w", err)
	}
	p.Attachment = attachment

	return nil
}
