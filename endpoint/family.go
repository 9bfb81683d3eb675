package endpoint

import (
	"syscall"

	"github.com/opd-ai/easysock/errs"
)

// Family is the IP address family of a socket.
type Family uint8

const (
	// FamilyUnspecified is the zero value. It never reaches a provider.
	FamilyUnspecified Family = iota
	// FamilyIPv4 selects AF_INET.
	FamilyIPv4
	// FamilyIPv6 selects AF_INET6.
	FamilyIPv6
)

// Address structure sizes handed to bind/connect. They must always agree
// with the family of the endpoint being bound or connected.
const (
	SockaddrInet4Len = 16 // sizeof(struct sockaddr_in)
	SockaddrInet6Len = 28 // sizeof(struct sockaddr_in6)
)

// ParseFamily maps the legacy numeric family (4 or 6) to a Family.
func ParseFamily(network int) (Family, error) {
	switch network {
	case 4:
		return FamilyIPv4, nil
	case 6:
		return FamilyIPv6, nil
	default:
		return FamilyUnspecified, errs.InvalidFamily("family", network)
	}
}

// FamilyFromAF maps a platform address family constant to a Family.
func FamilyFromAF(af int) (Family, error) {
	switch af {
	case syscall.AF_INET:
		return FamilyIPv4, nil
	case syscall.AF_INET6:
		return FamilyIPv6, nil
	default:
		return FamilyUnspecified, errs.UnknownFamily("family", af)
	}
}

// Valid reports whether f is IPv4 or IPv6.
func (f Family) Valid() bool {
	return f == FamilyIPv4 || f == FamilyIPv6
}

// Legacy returns 4 or 6, or 0 for an invalid family.
func (f Family) Legacy() int {
	switch f {
	case FamilyIPv4:
		return 4
	case FamilyIPv6:
		return 6
	default:
		return 0
	}
}

// AF returns the platform address family constant.
func (f Family) AF() (int, error) {
	switch f {
	case FamilyIPv4:
		return syscall.AF_INET, nil
	case FamilyIPv6:
		return syscall.AF_INET6, nil
	default:
		return 0, errs.InvalidFamily("family", int(f))
	}
}

// SockaddrLen returns the address structure length matching f, or 0 for
// an invalid family.
func (f Family) SockaddrLen() int {
	switch f {
	case FamilyIPv4:
		return SockaddrInet4Len
	case FamilyIPv6:
		return SockaddrInet6Len
	default:
		return 0
	}
}

// AddrLen returns the raw address width in bytes.
func (f Family) AddrLen() int {
	switch f {
	case FamilyIPv4:
		return 4
	case FamilyIPv6:
		return 16
	default:
		return 0
	}
}

func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "ipv4"
	case FamilyIPv6:
		return "ipv6"
	default:
		return "unspecified"
	}
}
