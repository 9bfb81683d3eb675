package testing

import (
	"context"
	"fmt"
	"net/netip"
	"strings"
	"sync"

	"github.com/opd-ai/easysock/endpoint"
	"github.com/opd-ai/easysock/errs"
	"github.com/sirupsen/logrus"
)

// SimulatedResolver implements interfaces.NameResolver from a static host table.
type SimulatedResolver struct {
	mu       sync.RWMutex
	hosts    map[string][]netip.Addr
	failures map[string]int
	requests []endpoint.ResolutionRequest
}

// NewSimulatedResolver creates a resolver with an empty host table
func NewSimulatedResolver() *SimulatedResolver {
	logrus.Warn("SIMULATION FUNCTION - NOT A REAL OPERATION")
	logrus.WithField("function", "NewSimulatedResolver").Info("Creating simulated name resolver for testing")

	return &SimulatedResolver{
		hosts:    make(map[string][]netip.Addr),
		failures: make(map[string]int),
	}
}

func canonicalHost(host string) string {
	return strings.TrimSuffix(strings.ToLower(host), ".")
}

// AddHost registers addresses for host, in the order candidates are returned.
func (r *SimulatedResolver) AddHost(host string, addrs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := canonicalHost(host)
	for _, a := range addrs {
		r.hosts[key] = append(r.hosts[key], netip.MustParseAddr(a))
	}
}

// FailHost makes lookups of host fail with the given resolver code.
func (r *SimulatedResolver) FailHost(host string, code int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[canonicalHost(host)] = code
}

// Resolve implements NameResolver.Resolve with simulation
func (r *SimulatedResolver) Resolve(ctx context.Context, req endpoint.ResolutionRequest) ([]endpoint.Endpoint, error) {
	r.mu.Lock()
	r.requests = append(r.requests, req)
	key := canonicalHost(req.Host)
	code, failing := r.failures[key]
	addrs := append([]netip.Addr(nil), r.hosts[key]...)
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, errs.Resolution(req.Host, errs.CodeAgain, err)
	}
	if failing {
		return nil, errs.Resolution(req.Host, code, fmt.Errorf("simulated resolver failure %d", code))
	}
	if len(addrs) == 0 {
		return nil, errs.Resolution(req.Host, errs.CodeNoName, fmt.Errorf("%s: no such host", req.Host))
	}

	candidates := make([]endpoint.Endpoint, 0, len(addrs))
	for _, addr := range addrs {
		ep, err := endpoint.FromAddr(addr, req.Port)
		if err != nil {
			continue
		}
		candidates = append(candidates, ep)
	}

	logrus.WithFields(logrus.Fields{
		"function":   "SimulatedResolver.Resolve",
		"host":       req.Host,
		"transport":  req.Transport.String(),
		"candidates": len(candidates),
	}).Debug("Simulated resolution")

	return candidates, nil
}

// Requests returns every request seen so far.
func (r *SimulatedResolver) Requests() []endpoint.ResolutionRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]endpoint.ResolutionRequest(nil), r.requests...)
}
