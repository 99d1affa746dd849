// Package naming provides consistent naming functions for Google Cloud resources.
//
// Resource names follow the pattern {topology}-{side}-{type} for networks and
// subnets and {topology}-{type} for the load balancing and Private Service
// Connect chain. Every name is also used as the Pulumi logical name, so two
// topologies deployed to one stack never collide.
package naming
