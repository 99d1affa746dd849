package naming

import "testing"

func TestNamingFunctions(t *testing.T) {
	topology := "orders"

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{name: "Network producer", got: Network(topology, SideProducer), expected: "orders-producer-vpc"},
		{name: "Network consumer", got: Network(topology, SideConsumer), expected: "orders-consumer-vpc"},
		{name: "Subnet", got: Subnet(topology, SideProducer, "psc-nat"), expected: "orders-producer-psc-nat"},
		{name: "Provider", got: Provider(topology, SideConsumer), expected: "orders-consumer-gcp"},
		{name: "ProjectService", got: ProjectService(topology, SideProducer, "run"), expected: "orders-producer-run"},
		{name: "Service", got: Service(topology, "api"), expected: "orders-api"},
		{name: "ServiceInvoker", got: ServiceInvoker(topology, "api", 1), expected: "orders-api-invoker-1"},
		{name: "EndpointGroup", got: EndpointGroup(topology), expected: "orders-neg"},
		{name: "BackendService", got: BackendService(topology), expected: "orders-backend"},
		{name: "URLMap", got: URLMap(topology), expected: "orders-urlmap"},
		{name: "TargetProxy", got: TargetProxy(topology), expected: "orders-proxy"},
		{name: "LoadBalancerRule", got: LoadBalancerRule(topology), expected: "orders-ilb"},
		{name: "ServiceAttachment", got: ServiceAttachment(topology), expected: "orders-psc"},
		{name: "EndpointAddress", got: EndpointAddress(topology), expected: "orders-psc-endpoint-ip"},
		{name: "Endpoint", got: Endpoint(topology), expected: "orders-psc-endpoint"},
		{name: "Firewall", got: Firewall(topology), expected: "orders-allow-endpoint"},
		{name: "DNSZone", got: DNSZone(topology), expected: "orders-zone"},
		{name: "DNSRecord", got: DNSRecord(topology), expected: "orders-record"},
		{name: "StateBucket", got: StateBucket(topology), expected: "orders-pulumi-state"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s() = %q, want %q", tt.name, tt.got, tt.expected)
			}
		})
	}
}
