// Package deploy runs the engine operations that reconcile a topology:
// preview, update and refresh.
//
// Each phase bounds its operation with the matching timeout, forwards
// resource events to the observer, and stores the change summary and
// outputs in the provisioning state for later phases and the CLI.
package deploy
