// Package config defines the topology configuration consumed by every
// provisioning phase.
//
// The [Config] struct is the canonical description of one Private Service
// Connect topology: a producer project hosting a managed compute service
// behind an internal load balancer and a service attachment, and a consumer
// project reaching it through a PSC endpoint. It is loaded from psclink.yaml,
// completed with defaults by [ApplyDefaults] and checked by [Config.Validate].
//
// Subnet purposes, roles, load-balancing schemes and connection preferences
// are carried as opaque strings and handed to the provider unchanged.
package config
