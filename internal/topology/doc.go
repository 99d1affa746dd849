// Package topology declares the psclink resource graph as a Pulumi program.
//
// Define returns the program for one configuration. It declares two explicit
// Google Cloud providers, one per project, and on top of them:
//
//   - producer: VPC, subnets, Cloud Run service, serverless NEG, regional
//     backend service, URL map, target proxy, internal forwarding rule and
//     service attachment
//   - consumer: VPC, subnets, endpoint address, PSC endpoint and the
//     optional firewall rule and private DNS zone
//
// Every property taken from the configuration (subnet purposes and roles,
// load balancing scheme, connection preference) is passed to the provider
// unchanged. Ordering, diffing and retries belong to the engine.
//
// Render runs the same program against an in-memory monitor and returns the
// declared resources without contacting the engine or the cloud.
package topology
