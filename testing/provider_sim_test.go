package testing

import (
	"context"
	"net/netip"
	"sync"
	"syscall"
	"testing"

	"github.com/opd-ai/easysock/endpoint"
	"github.com/opd-ai/easysock/errs"
)

func mustEndpoint(t *testing.T, family endpoint.Family, literal string, port uint16) endpoint.Endpoint {
	t.Helper()
	ep, err := endpoint.Build(family, literal, port)
	if err != nil {
		t.Fatalf("Build(%v, %q, %d) error = %v", family, literal, port, err)
	}
	return ep
}

func TestSimulatedProviderCreateSocket(t *testing.T) {
	p := NewSimulatedProvider()

	if !p.IsSimulation() {
		t.Error("IsSimulation() = false, want true")
	}

	fd, err := p.CreateSocket(endpoint.FamilyIPv4, endpoint.TransportStream)
	if err != nil {
		t.Fatalf("CreateSocket() error = %v", err)
	}
	if fd < 3 {
		t.Errorf("fd = %d, want >= 3", fd)
	}

	fd2, err := p.CreateSocket(endpoint.FamilyIPv6, endpoint.TransportDatagram)
	if err != nil {
		t.Fatalf("CreateSocket() error = %v", err)
	}
	if fd2 == fd {
		t.Error("descriptors must be unique")
	}

	info, ok := p.Socket(fd2)
	if !ok {
		t.Fatal("Socket() did not find fd2")
	}
	if info.Family != endpoint.FamilyIPv6 || info.Transport != endpoint.TransportDatagram || info.State != StateUnbound {
		t.Errorf("unexpected socket info %+v", info)
	}
}

func TestSimulatedProviderRejectsInvalidArguments(t *testing.T) {
	p := NewSimulatedProvider()

	if _, err := p.CreateSocket(endpoint.FamilyUnspecified, endpoint.TransportStream); err != syscall.EAFNOSUPPORT {
		t.Errorf("invalid family error = %v, want EAFNOSUPPORT", err)
	}
	if _, err := p.CreateSocket(endpoint.FamilyIPv4, endpoint.TransportUnspecified); err != syscall.EPROTONOSUPPORT {
		t.Errorf("invalid transport error = %v, want EPROTONOSUPPORT", err)
	}
	if p.OpenSockets() != 0 {
		t.Errorf("OpenSockets() = %d, want 0", p.OpenSockets())
	}
}

func TestSimulatedProviderBindConflicts(t *testing.T) {
	tests := []struct {
		name      string
		first     string
		second    string
		family    endpoint.Family
		transport endpoint.Transport
		wantErr   error
	}{
		{"same address", "127.0.0.1", "127.0.0.1", endpoint.FamilyIPv4, endpoint.TransportStream, syscall.EADDRINUSE},
		{"wildcard then specific", "0.0.0.0", "127.0.0.1", endpoint.FamilyIPv4, endpoint.TransportStream, syscall.EADDRINUSE},
		{"specific then wildcard", "::1", "::", endpoint.FamilyIPv6, endpoint.TransportDatagram, syscall.EADDRINUSE},
		{"different addresses", "127.0.0.1", "127.0.0.2", endpoint.FamilyIPv4, endpoint.TransportStream, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewSimulatedProvider()

			fd1, _ := p.CreateSocket(tt.family, tt.transport)
			if err := p.Bind(fd1, mustEndpoint(t, tt.family, tt.first, 8080)); err != nil {
				t.Fatalf("first Bind() error = %v", err)
			}

			fd2, _ := p.CreateSocket(tt.family, tt.transport)
			err := p.Bind(fd2, mustEndpoint(t, tt.family, tt.second, 8080))
			if err != tt.wantErr {
				t.Errorf("second Bind() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSimulatedProviderBindDifferentTransportsShareAPort(t *testing.T) {
	p := NewSimulatedProvider()
	ep := mustEndpoint(t, endpoint.FamilyIPv4, "127.0.0.1", 53)

	tcp, _ := p.CreateSocket(endpoint.FamilyIPv4, endpoint.TransportStream)
	udp, _ := p.CreateSocket(endpoint.FamilyIPv4, endpoint.TransportDatagram)

	if err := p.Bind(tcp, ep); err != nil {
		t.Fatalf("tcp Bind() error = %v", err)
	}
	if err := p.Bind(udp, ep); err != nil {
		t.Fatalf("udp Bind() error = %v", err)
	}
}

func TestSimulatedProviderEphemeralPort(t *testing.T) {
	p := NewSimulatedProvider()
	fd, _ := p.CreateSocket(endpoint.FamilyIPv4, endpoint.TransportStream)

	if err := p.Bind(fd, mustEndpoint(t, endpoint.FamilyIPv4, "127.0.0.1", 0)); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	info, _ := p.Socket(fd)
	if info.Local.Port() < firstEphemeralPort {
		t.Errorf("ephemeral port = %d, want >= %d", info.Local.Port(), firstEphemeralPort)
	}
	if info.State != StateBound {
		t.Errorf("State = %v, want bound", info.State)
	}
}

func TestSimulatedProviderRejectsFamilyMismatch(t *testing.T) {
	p := NewSimulatedProvider()
	fd, _ := p.CreateSocket(endpoint.FamilyIPv4, endpoint.TransportStream)

	if err := p.Bind(fd, mustEndpoint(t, endpoint.FamilyIPv6, "::1", 80)); err != syscall.EAFNOSUPPORT {
		t.Errorf("Bind() error = %v, want EAFNOSUPPORT", err)
	}
	if err := p.Connect(fd, mustEndpoint(t, endpoint.FamilyIPv6, "::1", 80)); err != syscall.EAFNOSUPPORT {
		t.Errorf("Connect() error = %v, want EAFNOSUPPORT", err)
	}
}

func TestSimulatedProviderConnect(t *testing.T) {
	p := NewSimulatedProvider()
	target := mustEndpoint(t, endpoint.FamilyIPv4, "127.0.0.1", 9000)

	t.Run("stream refused without listener", func(t *testing.T) {
		fd, _ := p.CreateSocket(endpoint.FamilyIPv4, endpoint.TransportStream)
		if err := p.Connect(fd, target); err != syscall.ECONNREFUSED {
			t.Errorf("Connect() error = %v, want ECONNREFUSED", err)
		}
	})

	t.Run("stream succeeds with listener", func(t *testing.T) {
		listener, _ := p.CreateSocket(endpoint.FamilyIPv4, endpoint.TransportStream)
		if err := p.Bind(listener, mustEndpoint(t, endpoint.FamilyIPv4, "0.0.0.0", 9000)); err != nil {
			t.Fatalf("Bind() error = %v", err)
		}
		fd, _ := p.CreateSocket(endpoint.FamilyIPv4, endpoint.TransportStream)
		if err := p.Connect(fd, target); err != nil {
			t.Fatalf("Connect() error = %v", err)
		}
		info, _ := p.Socket(fd)
		if info.State != StateConnected || info.Remote != target {
			t.Errorf("unexpected socket info %+v", info)
		}
	})

	t.Run("datagram always connects", func(t *testing.T) {
		fd, _ := p.CreateSocket(endpoint.FamilyIPv4, endpoint.TransportDatagram)
		if err := p.Connect(fd, mustEndpoint(t, endpoint.FamilyIPv4, "192.0.2.1", 53)); err != nil {
			t.Errorf("Connect() error = %v", err)
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		p.SetUnreachable(netip.MustParseAddr("198.51.100.1"))
		fd, _ := p.CreateSocket(endpoint.FamilyIPv4, endpoint.TransportDatagram)
		if err := p.Connect(fd, mustEndpoint(t, endpoint.FamilyIPv4, "198.51.100.1", 53)); err != syscall.ENETUNREACH {
			t.Errorf("Connect() error = %v, want ENETUNREACH", err)
		}
	})

	t.Run("reachable without listener", func(t *testing.T) {
		remote := mustEndpoint(t, endpoint.FamilyIPv6, "2001:db8::1", 443)
		p.AddReachable(remote)
		fd, _ := p.CreateSocket(endpoint.FamilyIPv6, endpoint.TransportStream)
		if err := p.Connect(fd, remote); err != nil {
			t.Errorf("Connect() error = %v", err)
		}
	})

	t.Run("bad descriptor", func(t *testing.T) {
		if err := p.Connect(999, target); err != syscall.EBADF {
			t.Errorf("Connect() error = %v, want EBADF", err)
		}
	})
}

func TestSimulatedProviderCloseReleasesPort(t *testing.T) {
	p := NewSimulatedProvider()
	ep := mustEndpoint(t, endpoint.FamilyIPv4, "127.0.0.1", 7000)

	fd, _ := p.CreateSocket(endpoint.FamilyIPv4, endpoint.TransportStream)
	if err := p.Bind(fd, ep); err != nil {
		t.Fatalf("Bind() error = %v", err)
	}
	if err := p.Close(fd); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := p.Close(fd); err != syscall.EBADF {
		t.Errorf("second Close() error = %v, want EBADF", err)
	}

	fd2, _ := p.CreateSocket(endpoint.FamilyIPv4, endpoint.TransportStream)
	if err := p.Bind(fd2, ep); err != nil {
		t.Errorf("rebind after close error = %v", err)
	}

	stats := p.GetStats()
	if stats["closed_sockets"] != 1 {
		t.Errorf("closed_sockets = %v, want 1", stats["closed_sockets"])
	}
}

func TestSimulatedProviderInjectedFailures(t *testing.T) {
	p := NewSimulatedProvider()

	p.FailNext("socket", syscall.EACCES)
	if _, err := p.CreateSocket(endpoint.FamilyIPv4, endpoint.TransportStream); err != syscall.EACCES {
		t.Errorf("CreateSocket() error = %v, want EACCES", err)
	}
	if _, err := p.CreateSocket(endpoint.FamilyIPv4, endpoint.TransportStream); err != nil {
		t.Errorf("failure should only apply once, got %v", err)
	}

	p.SetSocketLimit(1)
	if _, err := p.CreateSocket(endpoint.FamilyIPv4, endpoint.TransportStream); err != syscall.EMFILE {
		t.Errorf("CreateSocket() over limit error = %v, want EMFILE", err)
	}
}

func TestSimulatedProviderCallLog(t *testing.T) {
	p := NewSimulatedProvider()
	ep := mustEndpoint(t, endpoint.FamilyIPv6, "::1", 80)

	fd, _ := p.CreateSocket(endpoint.FamilyIPv6, endpoint.TransportStream)
	_ = p.Bind(fd, ep)
	_ = p.Close(fd)

	log := p.GetCallLog()
	if len(log) != 3 {
		t.Fatalf("call log length = %d, want 3", len(log))
	}
	if log[1].Op != "bind" || log[1].SockaddrLen != endpoint.SockaddrInet6Len || log[1].Family != endpoint.FamilyIPv6 {
		t.Errorf("unexpected bind record %+v", log[1])
	}

	p.ClearCallLog()
	if len(p.GetCallLog()) != 0 {
		t.Error("ClearCallLog() did not clear")
	}
}

func TestSimulatedProviderConcurrentBinds(t *testing.T) {
	p := NewSimulatedProvider()
	ep := mustEndpoint(t, endpoint.FamilyIPv4, "127.0.0.1", 8080)

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fd, err := p.CreateSocket(endpoint.FamilyIPv4, endpoint.TransportStream)
			if err != nil {
				results <- err
				return
			}
			results <- p.Bind(fd, ep)
		}()
	}
	wg.Wait()
	close(results)

	ok, inUse := 0, 0
	for err := range results {
		switch err {
		case nil:
			ok++
		case syscall.EADDRINUSE:
			inUse++
		default:
			t.Errorf("unexpected error %v", err)
		}
	}
	if ok != 1 || inUse != workers-1 {
		t.Errorf("ok = %d, inUse = %d; want 1 and %d", ok, inUse, workers-1)
	}
}

func TestSimulatedResolver(t *testing.T) {
	r := NewSimulatedResolver()
	r.AddHost("Dual.Example.", "2001:db8::10", "192.0.2.10")
	r.FailHost("broken.example", errs.CodeFail)

	req := endpoint.ResolutionRequest{Host: "dual.example", Transport: endpoint.TransportStream, Port: 443}
	got, err := r.Resolve(context.Background(), req)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}
	if got[0].Family() != endpoint.FamilyIPv6 || got[1].Family() != endpoint.FamilyIPv4 {
		t.Errorf("candidate order not preserved: %v", got)
	}
	if got[0].Port() != 443 {
		t.Errorf("port = %d, want 443", got[0].Port())
	}

	_, err = r.Resolve(context.Background(), endpoint.ResolutionRequest{Host: "missing.example"})
	if errs.KindOf(err) != errs.KindResolution {
		t.Errorf("missing host error = %v, want resolution failure", err)
	}

	_, err = r.Resolve(context.Background(), endpoint.ResolutionRequest{Host: "broken.example"})
	if errs.Legacy(err) != -(errs.LegacyResolutionBase + errs.CodeFail) {
		t.Errorf("broken host legacy code = %d", errs.Legacy(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = r.Resolve(ctx, req)
	if errs.KindOf(err) != errs.KindResolution {
		t.Errorf("canceled lookup error = %v, want resolution failure", err)
	}

	if len(r.Requests()) != 4 {
		t.Errorf("Requests() length = %d, want 4", len(r.Requests()))
	}
}
