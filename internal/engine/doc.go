// Package engine drives the psclink program through the Pulumi Automation
// API.
//
// Open upserts an inline-source stack in a local workspace configured from
// the backend section of the configuration, installs the gcp plugin and sets
// the stack's region. The returned Stack implements provisioning.Stack:
// preview, up, destroy and refresh stream engine events to an EventSink as
// provisioning.Events, and return change summaries and masked outputs.
//
// Locking, ordering and diffing are left to the engine. The only failure
// handled here is a concurrent update holding the stack lock, which is
// retried with exponential backoff.
package engine
