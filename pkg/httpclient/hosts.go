package httpclient

import (
	"fmt"
	"net"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// HostDeniedError reports an outbound request refused by the host guard
// before any connection was attempted.
type HostDeniedError struct {
	// Host is the hostname the request targeted.
	Host string

	// Blocked is true when the host matched the block list; false when it
	// simply failed to match any allowed pattern.
	Blocked bool
}

// Error implements the error interface.
func (e *HostDeniedError) Error() string {
	if e.Blocked {
		return fmt.Sprintf("host %s is blocked", e.Host)
	}
	return fmt.Sprintf("host %s is not in the allowed list", e.Host)
}

// hostGuard evaluates outbound hosts against allow and block patterns.
// The block list is checked first and always wins; an empty allow list
// permits everything not blocked.
type hostGuard struct {
	allowed []string
	blocked []string
}

func newHostGuard(allowed, blocked []string) *hostGuard {
	return &hostGuard{allowed: allowed, blocked: blocked}
}

func (g *hostGuard) check(hostname string) error {
	for _, pattern := range g.blocked {
		if matchesHostPattern(hostname, pattern) {
			return &HostDeniedError{Host: hostname, Blocked: true}
		}
	}

	if len(g.allowed) == 0 {
		return nil
	}

	for _, pattern := range g.allowed {
		if matchesHostPattern(hostname, pattern) {
			return nil
		}
	}

	return &HostDeniedError{Host: hostname}
}

// matchesHostPattern checks if a hostname matches a pattern.
// Supports:
// - Exact match: "api.example.com"
// - Wildcard: "*.example.com"
// - CIDR notation: "192.168.1.0/24"
// - IP address: "192.168.1.1"
func matchesHostPattern(hostname, pattern string) bool {
	if strings.Contains(pattern, "/") {
		return matchesCIDR(hostname, pattern)
	}

	if strings.Contains(pattern, "*") {
		// *.example.com -> **.example.com for doublestar
		globPattern := strings.ReplaceAll(pattern, "*", "**")
		matched, err := doublestar.Match(globPattern, hostname)
		return err == nil && matched
	}

	return strings.EqualFold(hostname, pattern)
}

// matchesCIDR checks if a hostname (when it is an IP literal) falls
// within a CIDR range. Non-IP hostnames never match.
func matchesCIDR(hostname, pattern string) bool {
	ip := net.ParseIP(hostname)
	if ip == nil {
		return false
	}

	_, network, err := net.ParseCIDR(pattern)
	if err != nil {
		return false
	}

	return network.Contains(ip)
}
