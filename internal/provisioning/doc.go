// Package provisioning provides shared types, interfaces, and orchestration for
// driving a topology through the engine.
//
// # Subpackages
//
//   - backend/ — state bucket preparation
//   - deploy/ — preview, update and refresh phases
//   - destroy/ — teardown, stack removal and backend purge
//
// # Core Types
//
// Context carries configuration, state, the engine stack, the state bucket,
// the observer and run metrics. Phase defines a step with Name() and
// Provision() methods. State accumulates the change summaries and stack
// outputs produced by each phase.
package provisioning
