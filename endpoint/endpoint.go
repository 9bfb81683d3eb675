package endpoint

import (
	"net/netip"

	"github.com/opd-ai/easysock/errs"
)

// Endpoint is an immutable family + address + port triple. The family is
// derived from the address width, so an Endpoint can never pair an IPv4
// family with a 16-byte address or the reverse.
type Endpoint struct {
	addr netip.Addr
	port uint16
}

// Build parses literal for family and pairs it with port. The literal must
// already be of the requested family: an IPv4 literal is not mapped into
// IPv6 and vice versa.
func Build(family Family, literal string, port uint16) (Endpoint, error) {
	if !family.Valid() {
		return Endpoint{}, errs.InvalidFamily("build", int(family))
	}

	class := Classify(literal)
	got, ok := class.Family()
	if !ok || got != family {
		return Endpoint{}, errs.InvalidAddress("build", literal, family.String())
	}

	addr, err := netip.ParseAddr(literal)
	if err != nil {
		return Endpoint{}, errs.InvalidAddress("build", literal, family.String())
	}
	return Endpoint{addr: addr, port: port}, nil
}

// FromAddr wraps an already parsed address. IPv4-mapped IPv6 addresses are
// kept as IPv6; callers that want IPv4 must Unmap first.
func FromAddr(addr netip.Addr, port uint16) (Endpoint, error) {
	if !addr.IsValid() {
		return Endpoint{}, errs.InvalidAddress("build", "", "any family")
	}
	return Endpoint{addr: addr.WithZone(""), port: port}, nil
}

// FromBytes rebuilds an endpoint from the raw 4 or 16 byte representation.
func FromBytes(family Family, raw []byte, port uint16) (Endpoint, error) {
	if !family.Valid() {
		return Endpoint{}, errs.InvalidFamily("build", int(family))
	}
	if len(raw) != family.AddrLen() {
		return Endpoint{}, errs.InvalidAddress("build", "", family.String())
	}
	var addr netip.Addr
	if family == FamilyIPv4 {
		addr = netip.AddrFrom4([4]byte(raw))
	} else {
		addr = netip.AddrFrom16([16]byte(raw))
	}
	return Endpoint{addr: addr, port: port}, nil
}

// Family returns FamilyIPv4 for 4-byte addresses and FamilyIPv6 for 16-byte ones.
func (e Endpoint) Family() Family {
	switch {
	case e.addr.Is4():
		return FamilyIPv4
	case e.addr.Is6():
		return FamilyIPv6
	default:
		return FamilyUnspecified
	}
}

// IsValid reports whether e was produced by one of the constructors.
func (e Endpoint) IsValid() bool {
	return e.addr.IsValid()
}

// Addr returns the IP address.
func (e Endpoint) Addr() netip.Addr {
	return e.addr
}

// Port returns the port in host order. Byte order on the wire is the
// provider's concern.
func (e Endpoint) Port() uint16 {
	return e.port
}

// Bytes returns a copy of the raw address: 4 bytes for IPv4, 16 for IPv6.
func (e Endpoint) Bytes() []byte {
	return e.addr.AsSlice()
}

// AddrPort returns e as a netip.AddrPort.
func (e Endpoint) AddrPort() netip.AddrPort {
	return netip.AddrPortFrom(e.addr, e.port)
}

// SockaddrLen returns the address structure length for e's family.
func (e Endpoint) SockaddrLen() int {
	return e.Family().SockaddrLen()
}

func (e Endpoint) String() string {
	if !e.addr.IsValid() {
		return "<invalid>"
	}
	return e.AddrPort().String()
}

// ResolutionRequest is the input of one hostname lookup.
type ResolutionRequest struct {
	Host      string
	Transport Transport
	Port      uint16
}
