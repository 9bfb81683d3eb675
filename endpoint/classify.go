package endpoint

import "net/netip"

// Classification is the outcome of Classify.
type Classification uint8

const (
	// NotLiteral means the address must be resolved as a hostname.
	NotLiteral Classification = iota
	// LiteralIPv4 is a dotted-quad IPv4 address.
	LiteralIPv4
	// LiteralIPv6 is a textual IPv6 address without a zone.
	LiteralIPv6
)

// Classify reports whether address is an IPv4 literal, an IPv6 literal or
// neither. It never fails.
//
// Parsing is as strict as inet_pton: IPv4 octets with leading zeros and
// IPv6 addresses carrying a zone are not literals.
func Classify(address string) Classification {
	addr, err := netip.ParseAddr(address)
	if err != nil {
		return NotLiteral
	}
	if addr.Is4() {
		return LiteralIPv4
	}
	if addr.Zone() != "" {
		return NotLiteral
	}
	return LiteralIPv6
}

// Family returns the family of a literal classification.
func (c Classification) Family() (Family, bool) {
	switch c {
	case LiteralIPv4:
		return FamilyIPv4, true
	case LiteralIPv6:
		return FamilyIPv6, true
	default:
		return FamilyUnspecified, false
	}
}

// Legacy returns 4, 6 or -1 like check_ip_ver.
func (c Classification) Legacy() int {
	switch c {
	case LiteralIPv4:
		return 4
	case LiteralIPv6:
		return 6
	default:
		return -1
	}
}

func (c Classification) String() string {
	switch c {
	case LiteralIPv4:
		return "ipv4"
	case LiteralIPv6:
		return "ipv6"
	default:
		return "hostname"
	}
}
