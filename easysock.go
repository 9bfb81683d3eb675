package easysock

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/opd-ai/easysock/endpoint"
	"github.com/opd-ai/easysock/errs"
	"github.com/opd-ai/easysock/interfaces"
	"github.com/opd-ai/easysock/limits"
	"github.com/sirupsen/logrus"
)

// Handle is a socket descriptor owned by the caller. A Handle is only ever
// returned once its socket is fully bound or connected.
type Handle int

// ErrNoResolver is wrapped into the resolution error returned when a
// hostname reaches a Builder that was created without a resolver.
var ErrNoResolver = errors.New("no name resolver configured")

// Option configures a Builder.
type Option func(*Builder)

// WithPolicy sets how a Builder picks among resolved candidates. Unknown
// policies fall back to interfaces.PolicyFirst.
func WithPolicy(policy interfaces.SelectionPolicy) Option {
	return func(b *Builder) {
		switch policy {
		case interfaces.PolicyFirst, interfaces.PolicyPreferRequested:
			b.policy = policy
		default:
			logrus.WithFields(logrus.Fields{
				"function": "WithPolicy",
				"policy":   string(policy),
			}).Warn("Unknown selection policy, using first candidate")
			b.policy = interfaces.PolicyFirst
		}
	}
}

// WithResolveTimeout bounds each hostname lookup. Zero means the caller's
// context is used unchanged.
func WithResolveTimeout(timeout time.Duration) Option {
	return func(b *Builder) {
		if timeout > 0 {
			b.resolveTimeout = timeout
		}
	}
}

// Builder creates bound and connected sockets on top of a SocketProvider.
// Its fields never change after NewBuilder returns, so one Builder may be
// shared by any number of goroutines.
type Builder struct {
	provider       interfaces.SocketProvider
	resolver       interfaces.NameResolver
	policy         interfaces.SelectionPolicy
	resolveTimeout time.Duration
}

// NewBuilder creates a Builder. provider must not be nil; resolver may be
// nil when only literal addresses are used.
func NewBuilder(provider interfaces.SocketProvider, resolver interfaces.NameResolver, opts ...Option) *Builder {
	b := &Builder{
		provider: provider,
		resolver: resolver,
		policy:   interfaces.PolicyFirst,
	}
	for _, opt := range opts {
		opt(b)
	}

	logrus.WithFields(logrus.Fields{
		"function":        "NewBuilder",
		"simulation":      provider.IsSimulation(),
		"has_resolver":    resolver != nil,
		"policy":          string(b.policy),
		"resolve_timeout": b.resolveTimeout,
	}).Debug("Created endpoint builder")

	return b
}

// Policy returns the candidate selection policy in effect.
func (b *Builder) Policy() interfaces.SelectionPolicy {
	return b.policy
}

// CreateSocket creates an unbound socket.
func (b *Builder) CreateSocket(family endpoint.Family, transport endpoint.Transport) (Handle, error) {
	fd, err := b.createSocket(family, transport)
	if err != nil {
		return -1, err
	}
	return Handle(fd), nil
}

// CreateLocal creates a socket bound to the literal address and port. The
// address is never resolved. Port 0 asks the provider for an ephemeral port.
func (b *Builder) CreateLocal(family endpoint.Family, transport endpoint.Transport, address string, port uint16) (Handle, error) {
	fd, err := b.createSocket(family, transport)
	if err != nil {
		return -1, err
	}

	ep, err := endpoint.Build(family, address, port)
	if err != nil {
		b.release(fd, "CreateLocal")
		return -1, err
	}

	if err := b.provider.Bind(fd, ep); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "CreateLocal",
			"endpoint": ep.String(),
			"error":    err.Error(),
		}).Debug("Bind failed")
		b.release(fd, "CreateLocal")
		return -1, errs.OS("bind", ep.String(), err)
	}

	logrus.WithFields(logrus.Fields{
		"function":  "CreateLocal",
		"fd":        fd,
		"transport": transport.Network(family),
		"endpoint":  ep.String(),
	}).Info("Created bound socket")

	return Handle(fd), nil
}

// CreateRemote is CreateRemoteContext with a background context.
func (b *Builder) CreateRemote(family endpoint.Family, transport endpoint.Transport, address string, port uint16) (Handle, error) {
	return b.CreateRemoteContext(context.Background(), family, transport, address, port)
}

// CreateRemoteContext creates a socket connected to address and port. A
// literal address must match family. Any other address is resolved and
// the family of the selected candidate replaces family. ctx bounds the
// lookup only.
func (b *Builder) CreateRemoteContext(ctx context.Context, family endpoint.Family, transport endpoint.Transport, address string, port uint16) (Handle, error) {
	if err := validate(family, transport); err != nil {
		return -1, err
	}

	var ep endpoint.Endpoint
	if endpoint.Classify(address) == endpoint.NotLiteral {
		resolved, err := b.resolve(ctx, family, endpoint.ResolutionRequest{
			Host:      address,
			Transport: transport,
			Port:      port,
		})
		if err != nil {
			return -1, err
		}
		ep = resolved
	} else {
		built, err := endpoint.Build(family, address, port)
		if err != nil {
			return -1, err
		}
		ep = built
	}

	fd, err := b.createSocket(ep.Family(), transport)
	if err != nil {
		return -1, err
	}

	if err := b.provider.Connect(fd, ep); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "CreateRemoteContext",
			"endpoint": ep.String(),
			"error":    err.Error(),
		}).Debug("Connect failed")
		b.release(fd, "CreateRemoteContext")
		return -1, errs.OS("connect", ep.String(), err)
	}

	logrus.WithFields(logrus.Fields{
		"function":  "CreateRemoteContext",
		"fd":        fd,
		"transport": transport.Network(ep.Family()),
		"address":   address,
		"endpoint":  ep.String(),
	}).Info("Created connected socket")

	return Handle(fd), nil
}

// Close releases a handle returned by this Builder.
func (b *Builder) Close(h Handle) error {
	if err := b.provider.Close(int(h)); err != nil {
		return errs.OS("close", "", err)
	}
	return nil
}

func validate(family endpoint.Family, transport endpoint.Transport) error {
	if !family.Valid() {
		return errs.InvalidFamily("socket", int(family))
	}
	if !transport.Valid() {
		return errs.InvalidTransport("socket", strconv.Itoa(int(transport)))
	}
	return nil
}

// createSocket validates family then transport before the provider sees
// either of them.
func (b *Builder) createSocket(family endpoint.Family, transport endpoint.Transport) (int, error) {
	if err := validate(family, transport); err != nil {
		logrus.WithFields(logrus.Fields{
			"function":  "createSocket",
			"family":    family.String(),
			"transport": transport.String(),
			"error":     err.Error(),
		}).Debug("Rejected socket arguments")
		return -1, err
	}

	fd, err := b.provider.CreateSocket(family, transport)
	if err != nil {
		return -1, errs.OS("socket", "", err)
	}
	return fd, nil
}

// resolve looks up req and applies the selection policy. The returned
// endpoint always carries req.Port.
func (b *Builder) resolve(ctx context.Context, requested endpoint.Family, req endpoint.ResolutionRequest) (endpoint.Endpoint, error) {
	if err := limits.ValidateHostname(req.Host); err != nil {
		return endpoint.Endpoint{}, errs.Resolution(req.Host, errs.CodeNoName, err)
	}
	if b.resolver == nil {
		return endpoint.Endpoint{}, errs.Resolution(req.Host, errs.CodeSystem, ErrNoResolver)
	}
	if b.resolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.resolveTimeout)
		defer cancel()
	}

	candidates, err := b.resolver.Resolve(ctx, req)
	if err != nil {
		if errs.KindOf(err) != errs.KindResolution {
			err = errs.Resolution(req.Host, errs.CodeFail, err)
		}
		logrus.WithFields(logrus.Fields{
			"function": "resolve",
			"host":     req.Host,
			"error":    err.Error(),
		}).Debug("Resolution failed")
		return endpoint.Endpoint{}, err
	}

	ep, ok := selectCandidate(b.policy, requested, candidates)
	if !ok {
		return endpoint.Endpoint{}, errs.Resolution(req.Host, errs.CodeNoName, nil)
	}

	logrus.WithFields(logrus.Fields{
		"function":   "resolve",
		"host":       req.Host,
		"candidates": len(candidates),
		"policy":     string(b.policy),
		"selected":   ep.String(),
	}).Debug("Selected resolved endpoint")

	return endpoint.FromAddr(ep.Addr(), req.Port)
}

// selectCandidate applies policy to candidates. Invalid entries are skipped.
func selectCandidate(policy interfaces.SelectionPolicy, requested endpoint.Family, candidates []endpoint.Endpoint) (endpoint.Endpoint, bool) {
	var first endpoint.Endpoint
	for _, c := range candidates {
		if !c.IsValid() {
			continue
		}
		if !first.IsValid() {
			first = c
			if policy != interfaces.PolicyPreferRequested {
				break
			}
		}
		if c.Family() == requested {
			return c, true
		}
	}
	return first, first.IsValid()
}

// release closes fd on a failure path. The original error is what the
// caller sees, so a close failure is only logged.
func (b *Builder) release(fd int, caller string) {
	if err := b.provider.Close(fd); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": caller,
			"fd":       fd,
			"error":    err.Error(),
		}).Warn("Failed to close socket after setup failure")
	}
}
