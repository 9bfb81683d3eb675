package real

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/opd-ai/easysock/endpoint"
	"github.com/opd-ai/easysock/errs"
	"github.com/sirupsen/logrus"
)

// SystemResolver implements interfaces.NameResolver with the platform
// resolver. Candidates come back in the resolver's RFC 6724 order, the same
// order getaddrinfo uses.
type SystemResolver struct {
	resolver *net.Resolver
	timeout  time.Duration
}

// NewSystemResolver wraps r, or net.DefaultResolver when r is nil. A
// positive timeout bounds each lookup.
func NewSystemResolver(r *net.Resolver, timeout time.Duration) *SystemResolver {
	if r == nil {
		r = net.DefaultResolver
	}
	return &SystemResolver{resolver: r, timeout: timeout}
}

// Resolve looks up req.Host and pairs every address with req.Port.
func (s *SystemResolver) Resolve(ctx context.Context, req endpoint.ResolutionRequest) ([]endpoint.Endpoint, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	logrus.WithFields(logrus.Fields{
		"function":  "SystemResolver.Resolve",
		"host":      req.Host,
		"transport": req.Transport.String(),
		"port":      req.Port,
	}).Debug("Resolving host")

	addrs, err := s.resolver.LookupNetIP(ctx, "ip", req.Host)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "SystemResolver.Resolve",
			"host":     req.Host,
			"error":    err.Error(),
		}).Debug("Host lookup failed")
		return nil, errs.Resolution(req.Host, resolutionCode(err), err)
	}

	candidates := make([]endpoint.Endpoint, 0, len(addrs))
	for _, addr := range addrs {
		if addr.Is4In6() {
			addr = addr.Unmap()
		}
		ep, err := endpoint.FromAddr(addr, req.Port)
		if err != nil {
			continue
		}
		candidates = append(candidates, ep)
	}
	if len(candidates) == 0 {
		return nil, errs.Resolution(req.Host, errs.CodeNoName, nil)
	}
	return candidates, nil
}

// resolutionCode maps a lookup failure onto the EAI_* magnitudes.
func resolutionCode(err error) int {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return errs.CodeAgain
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		switch {
		case dnsErr.IsNotFound:
			return errs.CodeNoName
		case dnsErr.IsTimeout, dnsErr.IsTemporary:
			return errs.CodeAgain
		}
	}
	return errs.CodeFail
}
