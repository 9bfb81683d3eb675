package endpoint

import (
	"syscall"

	"github.com/opd-ai/easysock/errs"
)

// Transport is the socket type requested by the caller.
type Transport uint8

const (
	// TransportUnspecified is the zero value. It never reaches a provider.
	TransportUnspecified Transport = iota
	// TransportStream selects SOCK_STREAM (TCP).
	TransportStream
	// TransportDatagram selects SOCK_DGRAM (UDP).
	TransportDatagram
)

// ParseTransport maps the legacy transport token ('T' or 'U').
func ParseTransport(token byte) (Transport, error) {
	switch token {
	case 'T':
		return TransportStream, nil
	case 'U':
		return TransportDatagram, nil
	default:
		return TransportUnspecified, errs.InvalidTransport("transport", string(token))
	}
}

// Valid reports whether t is stream or datagram.
func (t Transport) Valid() bool {
	return t == TransportStream || t == TransportDatagram
}

// Legacy returns 'T' or 'U', or 0 for an invalid transport.
func (t Transport) Legacy() byte {
	switch t {
	case TransportStream:
		return 'T'
	case TransportDatagram:
		return 'U'
	default:
		return 0
	}
}

// SockType returns the platform socket type constant.
func (t Transport) SockType() (int, error) {
	switch t {
	case TransportStream:
		return syscall.SOCK_STREAM, nil
	case TransportDatagram:
		return syscall.SOCK_DGRAM, nil
	default:
		return 0, errs.InvalidTransport("transport", t.String())
	}
}

// Network returns the Go network name ("tcp4", "udp6", ...) for t over f.
// An invalid family yields the family-agnostic name.
func (t Transport) Network(f Family) string {
	var base string
	switch t {
	case TransportStream:
		base = "tcp"
	case TransportDatagram:
		base = "udp"
	default:
		return ""
	}
	switch f {
	case FamilyIPv4:
		return base + "4"
	case FamilyIPv6:
		return base + "6"
	default:
		return base
	}
}

func (t Transport) String() string {
	switch t {
	case TransportStream:
		return "stream"
	case TransportDatagram:
		return "datagram"
	default:
		return "unspecified"
	}
}
