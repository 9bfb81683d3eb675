package interfaces

import (
	"context"
	"errors"

	"github.com/opd-ai/easysock/endpoint"
)

// SocketProvider is the raw socket capability easysock builds on. Errors
// returned by a provider should carry the platform errno (syscall.Errno) so
// callers can classify them.
type SocketProvider interface {
	// CreateSocket allocates an unbound socket for family and transport.
	CreateSocket(family endpoint.Family, transport endpoint.Transport) (int, error)

	// Bind assigns ep to the socket. The address structure length is
	// ep.SockaddrLen().
	Bind(fd int, ep endpoint.Endpoint) error

	// Connect connects the socket to ep using ep.SockaddrLen().
	Connect(fd int, ep endpoint.Endpoint) error

	// Close releases the socket.
	Close(fd int) error

	// IsSimulation returns true if this is a simulation implementation
	IsSimulation() bool
}

// NameResolver resolves hostnames to candidate endpoints.
type NameResolver interface {
	// Resolve returns every candidate for req in the resolver's preferred
	// order. A failure should be an *errs.Error of KindResolution.
	Resolve(ctx context.Context, req endpoint.ResolutionRequest) ([]endpoint.Endpoint, error)
}

// SelectionPolicy decides which resolved candidate a remote endpoint uses.
type SelectionPolicy string

const (
	// PolicyFirst takes the first candidate in resolver order.
	PolicyFirst SelectionPolicy = "first"
	// PolicyPreferRequested takes the first candidate of the caller's
	// family, falling back to the first candidate.
	PolicyPreferRequested SelectionPolicy = "prefer-requested"
)

// Configuration validation errors.
var (
	ErrInvalidTimeout = errors.New("resolve timeout must be positive")
	ErrInvalidPolicy  = errors.New("unknown selection policy")
)

// ProviderConfig holds configuration for provider and resolver implementations
type ProviderConfig struct {
	// UseSimulation determines whether to use the in-memory provider or real sockets
	UseSimulation bool `yaml:"use_simulation"`

	// ResolveTimeout bounds one hostname lookup, in milliseconds
	ResolveTimeout int `yaml:"resolve_timeout"`

	// DNSServers, when set, makes resolution query these upstreams directly
	// instead of going through the system resolver
	DNSServers []string `yaml:"dns_servers"`

	// Policy selects among resolved candidates
	Policy SelectionPolicy `yaml:"policy"`
}

// Validate checks the configuration bounds.
func (c *ProviderConfig) Validate() error {
	if c.ResolveTimeout <= 0 {
		return ErrInvalidTimeout
	}
	switch c.Policy {
	case PolicyFirst, PolicyPreferRequested:
	default:
		return ErrInvalidPolicy
	}
	return nil
}
