package testing

import (
	"github.com/stretchr/testify/mock"

	"github.com/imamik/psclink/internal/provisioning"
)

// StackFixture provides pre-configured mock stacks for common scenarios.
type StackFixture struct {
	mock *MockStack
}

// NewStackFixture creates a new stack fixture.
func NewStackFixture() *StackFixture {
	m := &MockStack{}
	m.On("Name").Return("orders").Maybe()
	return &StackFixture{mock: m}
}

// Mock returns the underlying MockStack for custom configuration.
func (f *StackFixture) Mock() *MockStack {
	return f.mock
}

// SuccessfulApply configures a preview that plans a full create and an
// update that creates everything and returns the standard outputs.
func (f *StackFixture) SuccessfulApply() *MockStack {
	f.mock.Events = []provisioning.Event{
		{Type: provisioning.EventResourceCreated, Resource: "orders-producer-vpc"},
		{Type: provisioning.EventResourceCreated, Resource: "orders-psc"},
	}
	f.mock.On("Preview", mock.Anything).Return(&provisioning.OperationResult{
		Operation: "preview",
		Changes:   map[string]int{"create": 26},
	}, nil).Maybe()
	f.mock.On("Up", mock.Anything).Return(&provisioning.OperationResult{
		Operation: "up",
		Changes:   map[string]int{"create": 26},
		Outputs:   StandardOutputs(),
	}, nil).Maybe()
	return f.mock
}

// NoChanges configures a preview and refresh that find nothing to do.
func (f *StackFixture) NoChanges() *MockStack {
	f.mock.On("Preview", mock.Anything).Return(&provisioning.OperationResult{
		Operation: "preview",
		Changes:   map[string]int{"same": 26},
	}, nil).Maybe()
	f.mock.On("Refresh", mock.Anything).Return(&provisioning.OperationResult{
		Operation: "refresh",
		Changes:   map[string]int{"same": 26},
	}, nil).Maybe()
	f.mock.On("Outputs", mock.Anything, mock.Anything).Return(StandardOutputs(), nil).Maybe()
	return f.mock
}

// SuccessfulDestroy configures a destroy that deletes everything.
func (f *StackFixture) SuccessfulDestroy() *MockStack {
	f.mock.On("Destroy", mock.Anything).Return(&provisioning.OperationResult{
		Operation: "destroy",
		Changes:   map[string]int{"delete": 26},
	}, nil).Maybe()
	f.mock.On("Remove", mock.Anything).Return(nil).Maybe()
	return f.mock
}

// StandardOutputs returns stack outputs shaped like a deployed topology.
func StandardOutputs() map[string]any {
	return map[string]any{
		"producerNetwork":     "orders-producer-vpc",
		"consumerNetwork":     "orders-consumer-vpc",
		"serviceUri":          "https://orders-api-abc123-ew.a.run.app",
		"loadBalancerIp":      "10.10.0.2",
		"serviceAttachment":   "projects/orders-producer/regions/europe-west1/serviceAttachments/orders-psc",
		"endpointIp":          "10.20.0.2",
		"pscConnectionId":     "1234567890",
		"pscConnectionStatus": "ACCEPTED",
	}
}
