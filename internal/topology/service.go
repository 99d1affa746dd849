package topology

import (
	"fmt"
	"sort"

	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/cloudrunv2"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"

	"github.com/imamik/psclink/internal/config"
	"github.com/imamik/psclink/internal/util/labels"
	"github.com/imamik/psclink/internal/util/naming"
)

// invokerRole is granted to every configured invoker.
const invokerRole = "roles/run.invoker"

// provisionService declares the Cloud Run service and its invoker bindings.
func provisionService(ctx *pulumi.Context, cfg *config.Config, p *Producer) error {
	svcCfg := cfg.Producer.Service
	name := naming.Service(cfg.Name, svcCfg.Name)

	container := &cloudrunv2.ServiceTemplateContainerArgs{
		Image: pulumi.String(svcCfg.Image),
		Ports: &cloudrunv2.ServiceTemplateContainerPortsArgs{
			ContainerPort: pulumi.Int(svcCfg.Port),
		},
		Envs: serviceEnv(svcCfg.Env),
	}

	svc, err := cloudrunv2.NewService(ctx, name, &cloudrunv2.ServiceArgs{
		Name:               pulumi.String(name),
		Project:            pulumi.String(p.Project),
		Location:           pulumi.String(cfg.Region),
		Ingress:            pulumi.String(svcCfg.Ingress),
		DeletionProtection: pulumi.Bool(svcCfg.DeletionProtection),
		Labels:             labelsFor(cfg, naming.SideProducer, labels.ComponentService),
		Template: &cloudrunv2.ServiceTemplateArgs{
			Scaling: &cloudrunv2.ServiceTemplateScalingArgs{
				MinInstanceCount: pulumi.Int(svcCfg.MinInstances),
				MaxInstanceCount: pulumi.Int(svcCfg.MaxInstances),
			},
			Containers: cloudrunv2.ServiceTemplateContainerArray{container},
		},
	}, p.opts()...)
	if err != nil {
		return fmt.Errorf("cloud run service: %w", err)
	}
	p.Service = svc

	for i, member := range svcCfg.Invokers {
		binding, err := cloudrunv2.NewServiceIamMember(ctx, naming.ServiceInvoker(cfg.Name, svcCfg.Name, i), &cloudrunv2.ServiceIamMemberArgs{
			Name:     svc.Name,
			Project:  pulumi.String(p.Project),
			Location: pulumi.String(cfg.Region),
			Role:     pulumi.String(invokerRole),
			Member:   pulumi.String(member),
		}, p.opts()...)
		if err != nil {
			return fmt.Errorf("invoker %s: %w", member, err)
		}
		p.Invokers = append(p.Invokers, binding)
	}

	return nil
}

// serviceEnv converts env vars to container args in a stable order so the
// engine sees no spurious diff between runs.
func serviceEnv(env map[string]string) cloudrunv2.ServiceTemplateContainerEnvArray {
	if len(env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	envs := make(cloudrunv2.ServiceTemplateContainerEnvArray, 0, len(keys))
	for _, k := range keys {
		envs = append(envs, &cloudrunv2.ServiceTemplateContainerEnvArgs{
			Name:  pulumi.String(k),
			Value: pulumi.String(env[k]),
		})
	}
	return envs
}
