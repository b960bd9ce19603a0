package utils

import (
	"fmt"
	"net"
	"net/url"
	"time"
)

// PingService reports whether anything accepts TCP connections at the
// service URL within the timeout. The Authorizer exposes no cheap
// unauthenticated HTTP endpoint, so a dial stands in for liveness.
func PingService(serviceURL string, timeout time.Duration) error {
	parsed, err := url.Parse(serviceURL)
	if err != nil {
		return fmt.Errorf("invalid service URL %q: %w", serviceURL, err)
	}

	port := parsed.Port()
	if port == "" {
		if parsed.Scheme == "https" {
			port = "443"
		} else {
			port = "80"
		}
	}

	addr := net.JoinHostPort(parsed.Hostname(), port)
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	return conn.Close()
}

// PingAuthorizer checks that the session Authorizer is reachable.
func PingAuthorizer(authzURL string) error {
	return PingService(authzURL, 1500*time.Millisecond)
}
