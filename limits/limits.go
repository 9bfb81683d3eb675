// Package limits provides centralized input limits for socket endpoints.
// This ensures consistent validation across the Go and C entry points.
package limits

import (
	"errors"
	"fmt"
	"strings"

	"github.com/opd-ai/easysock/errs"
)

const (
	// MaxPort is the largest TCP/UDP port number
	MaxPort = 65535

	// MaxHostnameLength is the longest presentation-format DNS name without
	// the trailing dot (RFC 1035 limits the wire form to 255 octets)
	MaxHostnameLength = 253

	// MaxLabelLength is the longest single DNS label
	MaxLabelLength = 63
)

var (
	// ErrHostnameEmpty indicates an empty hostname was provided
	ErrHostnameEmpty = errors.New("empty hostname")

	// ErrHostnameTooLong indicates a hostname or one of its labels exceeds the DNS limit
	ErrHostnameTooLong = errors.New("hostname too long")
)

// ValidatePort checks that port fits in [0, MaxPort] and returns it as the
// unsigned 16-bit value the endpoint package stores.
func ValidatePort(port int) (uint16, error) {
	if port < 0 || port > MaxPort {
		return 0, errs.InvalidPort("port", port)
	}
	return uint16(port), nil
}

// ValidateHostname checks a name against the DNS length limits. A single
// trailing dot is allowed. Character set is left to the resolver.
func ValidateHostname(host string) error {
	name := strings.TrimSuffix(host, ".")
	if name == "" {
		return ErrHostnameEmpty
	}
	if len(name) > MaxHostnameLength {
		return fmt.Errorf("%w: length %d exceeds limit %d", ErrHostnameTooLong, len(name), MaxHostnameLength)
	}
	for _, label := range strings.Split(name, ".") {
		if len(label) > MaxLabelLength {
			return fmt.Errorf("%w: label length %d exceeds limit %d", ErrHostnameTooLong, len(label), MaxLabelLength)
		}
	}
	return nil
}
