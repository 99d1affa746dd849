// Package testing provides test utilities, builders, and fakes shared by
// the provisioning phases and the CLI handlers.
//
//   - ConfigBuilder: fluent builder for topology configurations
//   - MockStack and MockBucket: testify mocks for the engine stack and the
//     state bucket
//   - RecordingObserver: an Observer that keeps every event and message
//
// Usage:
//
//	cfg := testing.NewConfigBuilder().
//	    WithName("orders").
//	    WithS3Backend("state", true).
//	    Build()
//
//	stack := testing.NewStackFixture().SuccessfulApply()
package testing
