package dns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"runtime"
	"strings"
	"time"

	"github.com/miekg/dns"
	"github.com/opd-ai/easysock/endpoint"
	"github.com/opd-ai/easysock/errs"
	"github.com/sirupsen/logrus"
)

// ErrNoServers is returned when no upstream could be configured.
var ErrNoServers = errors.New("no DNS upstream servers configured")

// queryOrder lists the record types queried, in candidate order.
var queryOrder = []uint16{dns.TypeAAAA, dns.TypeA}

// Resolver implements interfaces.NameResolver by querying DNS upstreams
// directly, bypassing the platform resolver.
type Resolver struct {
	servers []string
	clients []*dns.Client
}

// NewResolver creates a resolver for the given upstreams ("host" or
// "host:port"). With no upstreams it reads /etc/resolv.conf.
func NewResolver(servers []string, timeout time.Duration) (*Resolver, error) {
	var addrs []string
	if len(servers) == 0 {
		cc, err := systemClientConfig()
		if err != nil {
			return nil, err
		}
		for _, srv := range cc.Servers {
			addrs = append(addrs, net.JoinHostPort(srv, cc.Port))
		}
	} else {
		for _, srv := range servers {
			addrs = append(addrs, withDefaultPort(srv))
		}
	}
	if len(addrs) == 0 {
		return nil, ErrNoServers
	}

	logrus.WithFields(logrus.Fields{
		"function": "NewResolver",
		"servers":  addrs,
		"timeout":  timeout,
	}).Info("Created DNS resolver")

	return &Resolver{
		servers: addrs,
		clients: []*dns.Client{
			{Net: "udp", Timeout: timeout},
			{Net: "tcp", Timeout: timeout},
		},
	}, nil
}

func systemClientConfig() (*dns.ClientConfig, error) {
	if runtime.GOOS == "windows" {
		return nil, fmt.Errorf("%w: no /etc/resolv.conf on windows", ErrNoServers)
	}
	cc, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil {
		return nil, fmt.Errorf("read resolv.conf: %w", err)
	}
	return cc, nil
}

func withDefaultPort(server string) string {
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	return net.JoinHostPort(strings.Trim(server, "[]"), "53")
}

// Servers returns the upstream addresses in query order.
func (r *Resolver) Servers() []string {
	return append([]string(nil), r.servers...)
}

// Resolve queries AAAA then A records for req.Host. IPv6 candidates come
// first, IPv4 second, each in answer order.
func (r *Resolver) Resolve(ctx context.Context, req endpoint.ResolutionRequest) ([]endpoint.Endpoint, error) {
	name := dns.Fqdn(req.Host)

	var candidates []endpoint.Endpoint
	code := errs.CodeNoName
	var lastErr error
	for _, qtype := range queryOrder {
		addrs, qcode, err := r.query(ctx, name, qtype)
		if err != nil {
			code, lastErr = qcode, err
			continue
		}
		for _, addr := range addrs {
			ep, err := endpoint.FromAddr(addr, req.Port)
			if err != nil {
				continue
			}
			candidates = append(candidates, ep)
		}
	}

	logrus.WithFields(logrus.Fields{
		"function":   "Resolver.Resolve",
		"host":       req.Host,
		"transport":  req.Transport.String(),
		"candidates": len(candidates),
	}).Debug("DNS resolution finished")

	if len(candidates) == 0 {
		if lastErr == nil {
			lastErr = fmt.Errorf("%s: no address records", req.Host)
		}
		return nil, errs.Resolution(req.Host, code, lastErr)
	}
	return candidates, nil
}

// query asks each upstream in turn until one answers. UDP replies that come
// back truncated are repeated over TCP.
func (r *Resolver) query(ctx context.Context, name string, qtype uint16) ([]netip.Addr, int, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(name, qtype)
	msg.RecursionDesired = true

	var lastErr error
	for _, server := range r.servers {
		var reply *dns.Msg
		for _, client := range r.clients {
			if err := ctx.Err(); err != nil {
				return nil, errs.CodeAgain, err
			}
			resp, _, err := client.ExchangeContext(ctx, msg, server)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"function": "Resolver.query",
					"server":   server,
					"net":      client.Net,
					"error":    err.Error(),
				}).Debug("DNS exchange failed")
				lastErr = err
				break
			}
			reply = resp
			if !resp.Truncated {
				break
			}
		}
		if reply == nil {
			continue
		}

		switch reply.Rcode {
		case dns.RcodeSuccess:
			return answerAddrs(reply, qtype), 0, nil
		case dns.RcodeNameError:
			return nil, errs.CodeNoName, fmt.Errorf("%s: no such host", strings.TrimSuffix(name, "."))
		case dns.RcodeServerFailure:
			lastErr = fmt.Errorf("%s: server failure from %s", name, server)
			continue
		default:
			return nil, errs.CodeFail, fmt.Errorf("%s: %s from %s", name, dns.RcodeToString[reply.Rcode], server)
		}
	}
	if lastErr == nil {
		lastErr = ErrNoServers
	}
	return nil, errs.CodeAgain, lastErr
}

func answerAddrs(reply *dns.Msg, qtype uint16) []netip.Addr {
	var addrs []netip.Addr
	for _, rr := range reply.Answer {
		var ip net.IP
		switch v := rr.(type) {
		case *dns.A:
			if qtype == dns.TypeA {
				ip = v.A
			}
		case *dns.AAAA:
			if qtype == dns.TypeAAAA {
				ip = v.AAAA
			}
		}
		if ip == nil {
			continue
		}
		addr, ok := netip.AddrFromSlice(ip)
		if !ok {
			continue
		}
		if qtype == dns.TypeA {
			addr = addr.Unmap()
		}
		addrs = append(addrs, addr)
	}
	return addrs
}
