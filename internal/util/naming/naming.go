package naming

import "fmt"

// MaxLength is the longest name Compute Engine accepts for a resource.
const MaxLength = 63

// MaxServiceLength is the longest name Cloud Run accepts for a service.
const MaxServiceLength = 49

// Side values.
const (
	SideProducer = "producer"
	SideConsumer = "consumer"
)

func Network(topology, side string) string {
	return fmt.Sprintf("%s-%s-vpc", topology, side)
}

func Subnet(topology, side, name string) string {
	return fmt.Sprintf("%s-%s-%s", topology, side, name)
}

func Provider(topology, side string) string {
	return fmt.Sprintf("%s-%s-gcp", topology, side)
}

// ProjectService names the API enablement resource for one project.
func ProjectService(topology, side, api string) string {
	return fmt.Sprintf("%s-%s-%s", topology, side, api)
}

func Service(topology, service string) string {
	return fmt.Sprintf("%s-%s", topology, service)
}

func ServiceInvoker(topology, service string, index int) string {
	return fmt.Sprintf("%s-%s-invoker-%d", topology, service, index)
}

func EndpointGroup(topology string) string {
	return fmt.Sprintf("%s-neg", topology)
}

func BackendService(topology string) string {
	return fmt.Sprintf("%s-backend", topology)
}

func URLMap(topology string) string {
	return fmt.Sprintf("%s-urlmap", topology)
}

func TargetProxy(topology string) string {
	return fmt.Sprintf("%s-proxy", topology)
}

func LoadBalancerRule(topology string) string {
	return fmt.Sprintf("%s-ilb", topology)
}

func ServiceAttachment(topology string) string {
	return fmt.Sprintf("%s-psc", topology)
}

func EndpointAddress(topology string) string {
	return fmt.Sprintf("%s-psc-endpoint-ip", topology)
}

func Endpoint(topology string) string {
	return fmt.Sprintf("%s-psc-endpoint", topology)
}

func Firewall(topology string) string {
	return fmt.Sprintf("%s-allow-endpoint", topology)
}

func DNSZone(topology string) string {
	return fmt.Sprintf("%s-zone", topology)
}

func DNSRecord(topology string) string {
	return fmt.Sprintf("%s-record", topology)
}

// StateBucket is the default bucket name for a self-managed state backend.
func StateBucket(topology string) string {
	return fmt.Sprintf("%s-pulumi-state", topology)
}
