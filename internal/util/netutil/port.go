// Package netutil provides TCP reachability checks for remote endpoints.
package netutil

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"
)

// DialTimeout bounds a single connection attempt.
const DialTimeout = 2 * time.Second

// Probe makes one TCP connection attempt to address.
func Probe(ctx context.Context, address string) error {
	d := net.Dialer{Timeout: DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", address)
	if err != nil {
		return err
	}
	return conn.Close()
}

// EndpointAddress returns the host:port to dial for an endpoint URL. A bare
// host is treated as https. The port defaults from the scheme.
func EndpointAddress(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		u, err = url.Parse("https://" + endpoint)
		if err != nil {
			return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
		}
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("invalid endpoint %q: missing host", endpoint)
	}

	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "http":
			port = "80"
		default:
			port = "443"
		}
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}
