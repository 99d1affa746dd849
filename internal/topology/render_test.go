package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	t.Parallel()
	planned, err := Render(testConfig(t))
	require.NoError(t, err)
	require.NotEmpty(t, planned)

	byName := map[string]PlannedResource{}
	for _, p := range planned {
		byName[p.Type+"/"+p.Name] = p
	}

	endpoint, ok := byName[typeRule+"/orders-psc-endpoint"]
	require.True(t, ok)
	assert.Equal(t, "orders-consumer-gcp", endpoint.Provider)
	assert.Equal(t, "ref:orders-psc", endpoint.Properties["target"])
	assert.Contains(t, endpoint.References, "orders-psc")
	assert.Contains(t, endpoint.References, "orders-psc-endpoint-ip")
	assert.Contains(t, endpoint.References, "orders-consumer-vpc")

	subnet, ok := byName[typeSubnetwork+"/orders-producer-proxy-only"]
	require.True(t, ok)
	assert.Equal(t, "REGIONAL_MANAGED_PROXY", subnet.Properties["purpose"])
	assert.Equal(t, []string{"orders-producer-vpc"}, subnet.References)
}

func TestRender_NameReferences(t *testing.T) {
	t.Parallel()
	planned, err := Render(testConfig(t))
	require.NoError(t, err)

	byName := map[string]PlannedResource{}
	for _, p := range planned {
		byName[p.Type+"/"+p.Name] = p
	}

	tests := []struct {
		resource string
		ref      string
	}{
		{typeNEG + "/orders-neg", "orders-api"},
		{typeRunInvoker + "/orders-api-invoker-0", "orders-api"},
		{typeFirewall + "/orders-allow-endpoint", "orders-consumer-vpc"},
		{typeRecordSet + "/orders-record", "orders-zone"},
	}
	for _, tt := range tests {
		t.Run(tt.resource, func(t *testing.T) {
			res, ok := byName[tt.resource]
			require.True(t, ok)
			assert.Contains(t, res.References, tt.ref)
		})
	}

	service := byName[typeRunService+"/orders-api"]
	assert.Equal(t, "orders-api", service.Properties["name"])
	assert.NotContains(t, service.References, "orders-api")
}

func TestProviderName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		ref  string
		want string
	}{
		{"", ""},
		{"urn:pulumi:test::psclink::pulumi:providers:gcp::orders-producer-gcp::orders-producer-gcp_id", "orders-producer-gcp"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, providerName(tt.ref), tt.ref)
	}
}
