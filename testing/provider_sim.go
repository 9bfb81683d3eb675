package testing

import (
	"net/netip"
	"sync"
	"syscall"

	"github.com/opd-ai/easysock/endpoint"
	"github.com/sirupsen/logrus"
)

// SocketState is the lifecycle state of a simulated socket.
type SocketState int

const (
	// StateUnbound is a freshly created socket.
	StateUnbound SocketState = iota
	// StateBound is a socket with a local address.
	StateBound
	// StateConnected is a socket with a remote address.
	StateConnected
)

func (s SocketState) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateBound:
		return "bound"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// firstEphemeralPort is where port-0 binds start allocating.
const firstEphemeralPort = 49152

// CallRecord represents one provider call for test verification
type CallRecord struct {
	Op          string // socket, bind, connect, close
	FD          int
	Family      endpoint.Family
	Transport   endpoint.Transport
	Endpoint    endpoint.Endpoint
	SockaddrLen int
	Err         error
}

// SocketInfo is a snapshot of a simulated socket.
type SocketInfo struct {
	FD        int
	Family    endpoint.Family
	Transport endpoint.Transport
	State     SocketState
	Local     endpoint.Endpoint
	Remote    endpoint.Endpoint
}

type bindKey struct {
	transport endpoint.Transport
	addr      netip.AddrPort
}

// SimulatedProvider implements interfaces.SocketProvider entirely in memory.
// Binds conflict like a real stack without SO_REUSEADDR, stream connects
// only succeed towards a bound or explicitly reachable endpoint, and
// datagram connects always succeed.
type SimulatedProvider struct {
	mu            sync.RWMutex
	nextFD        int
	nextPort      uint16
	socketLimit   int
	sockets       map[int]*SocketInfo
	bound         map[bindKey]int
	reachable     map[netip.AddrPort]bool
	unreachable   map[netip.Addr]bool
	failures      map[string]syscall.Errno
	callLog       []CallRecord
	closedSockets int
}

// NewSimulatedProvider creates a new in-memory socket provider for testing
func NewSimulatedProvider() *SimulatedProvider {
	logrus.Warn("SIMULATION FUNCTION - NOT A REAL OPERATION")
	logrus.WithField("function", "NewSimulatedProvider").Info("Creating simulated socket provider for testing")

	return &SimulatedProvider{
		nextFD:      3,
		nextPort:    firstEphemeralPort,
		sockets:     make(map[int]*SocketInfo),
		bound:       make(map[bindKey]int),
		reachable:   make(map[netip.AddrPort]bool),
		unreachable: make(map[netip.Addr]bool),
		failures:    make(map[string]syscall.Errno),
		callLog:     make([]CallRecord, 0),
	}
}

// CreateSocket implements SocketProvider.CreateSocket with simulation
func (s *SimulatedProvider) CreateSocket(family endpoint.Family, transport endpoint.Transport) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := CallRecord{Op: "socket", FD: -1, Family: family, Transport: transport}

	var err error
	switch {
	case !family.Valid():
		err = syscall.EAFNOSUPPORT
	case !transport.Valid():
		err = syscall.EPROTONOSUPPORT
	case s.socketLimit > 0 && len(s.sockets) >= s.socketLimit:
		err = syscall.EMFILE
	default:
		err = s.takeFailure("socket")
	}
	if err != nil {
		record.Err = err
		s.callLog = append(s.callLog, record)
		logrus.WithFields(logrus.Fields{
			"function":  "SimulatedProvider.CreateSocket",
			"family":    family.String(),
			"transport": transport.String(),
			"error":     err.Error(),
		}).Debug("Simulated socket creation failed")
		return -1, err
	}

	fd := s.nextFD
	s.nextFD++
	s.sockets[fd] = &SocketInfo{FD: fd, Family: family, Transport: transport, State: StateUnbound}

	record.FD = fd
	s.callLog = append(s.callLog, record)

	logrus.WithFields(logrus.Fields{
		"function":  "SimulatedProvider.CreateSocket",
		"fd":        fd,
		"family":    family.String(),
		"transport": transport.String(),
	}).Debug("Simulated socket created")

	return fd, nil
}

// Bind implements SocketProvider.Bind with simulation
func (s *SimulatedProvider) Bind(fd int, ep endpoint.Endpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := CallRecord{Op: "bind", FD: fd, Endpoint: ep, SockaddrLen: ep.SockaddrLen()}
	err := s.bindLocked(fd, ep)
	if sock, ok := s.sockets[fd]; ok {
		record.Family = sock.Family
		record.Transport = sock.Transport
	}
	record.Err = err
	s.callLog = append(s.callLog, record)

	logrus.WithFields(logrus.Fields{
		"function": "SimulatedProvider.Bind",
		"fd":       fd,
		"endpoint": ep.String(),
		"success":  err == nil,
	}).Debug("Simulated bind")

	return err
}

func (s *SimulatedProvider) bindLocked(fd int, ep endpoint.Endpoint) error {
	sock, ok := s.sockets[fd]
	if !ok {
		return syscall.EBADF
	}
	if sock.State != StateUnbound {
		return syscall.EINVAL
	}
	if ep.Family() != sock.Family || ep.SockaddrLen() != sock.Family.SockaddrLen() {
		return syscall.EAFNOSUPPORT
	}
	if err := s.takeFailure("bind"); err != nil {
		return err
	}

	port := ep.Port()
	if port == 0 {
		port = s.allocPortLocked(sock.Transport, ep.Addr())
	} else if s.portTakenLocked(sock.Transport, ep.Addr(), port) {
		return syscall.EADDRINUSE
	}

	local, err := endpoint.FromAddr(ep.Addr(), port)
	if err != nil {
		return syscall.EINVAL
	}
	sock.Local = local
	sock.State = StateBound
	s.bound[bindKey{transport: sock.Transport, addr: local.AddrPort()}] = fd
	return nil
}

// portTakenLocked reports a conflict on the same transport and port when the
// addresses are equal or either side is the family wildcard.
func (s *SimulatedProvider) portTakenLocked(transport endpoint.Transport, addr netip.Addr, port uint16) bool {
	for key := range s.bound {
		if key.transport != transport || key.addr.Port() != port {
			continue
		}
		other := key.addr.Addr()
		if other.Is4() != addr.Is4() {
			continue
		}
		if other == addr || other.IsUnspecified() || addr.IsUnspecified() {
			return true
		}
	}
	return false
}

func (s *SimulatedProvider) allocPortLocked(transport endpoint.Transport, addr netip.Addr) uint16 {
	for s.portTakenLocked(transport, addr, s.nextPort) {
		s.nextPort++
		if s.nextPort == 0 {
			s.nextPort = firstEphemeralPort
		}
	}
	port := s.nextPort
	s.nextPort++
	if s.nextPort == 0 {
		s.nextPort = firstEphemeralPort
	}
	return port
}

// Connect implements SocketProvider.Connect with simulation
func (s *SimulatedProvider) Connect(fd int, ep endpoint.Endpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := CallRecord{Op: "connect", FD: fd, Endpoint: ep, SockaddrLen: ep.SockaddrLen()}
	err := s.connectLocked(fd, ep)
	if sock, ok := s.sockets[fd]; ok {
		record.Family = sock.Family
		record.Transport = sock.Transport
	}
	record.Err = err
	s.callLog = append(s.callLog, record)

	logrus.WithFields(logrus.Fields{
		"function": "SimulatedProvider.Connect",
		"fd":       fd,
		"endpoint": ep.String(),
		"success":  err == nil,
	}).Debug("Simulated connect")

	return err
}

func (s *SimulatedProvider) connectLocked(fd int, ep endpoint.Endpoint) error {
	sock, ok := s.sockets[fd]
	if !ok {
		return syscall.EBADF
	}
	if sock.State == StateConnected && sock.Transport == endpoint.TransportStream {
		return syscall.EISCONN
	}
	if ep.Family() != sock.Family || ep.SockaddrLen() != sock.Family.SockaddrLen() {
		return syscall.EAFNOSUPPORT
	}
	if err := s.takeFailure("connect"); err != nil {
		return err
	}
	if s.unreachable[ep.Addr()] {
		return syscall.ENETUNREACH
	}
	if sock.Transport == endpoint.TransportStream && !s.acceptsLocked(ep) {
		return syscall.ECONNREFUSED
	}

	sock.Remote = ep
	sock.State = StateConnected
	return nil
}

// acceptsLocked reports whether a stream connect to ep would be answered.
func (s *SimulatedProvider) acceptsLocked(ep endpoint.Endpoint) bool {
	if s.reachable[ep.AddrPort()] {
		return true
	}
	for key := range s.bound {
		if key.transport != endpoint.TransportStream || key.addr.Port() != ep.Port() {
			continue
		}
		addr := key.addr.Addr()
		if addr == ep.Addr() || (addr.IsUnspecified() && addr.Is4() == ep.Addr().Is4()) {
			return true
		}
	}
	return false
}

// Close implements SocketProvider.Close with simulation
func (s *SimulatedProvider) Close(fd int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := CallRecord{Op: "close", FD: fd}
	sock, ok := s.sockets[fd]
	if !ok {
		record.Err = syscall.EBADF
		s.callLog = append(s.callLog, record)
		return syscall.EBADF
	}

	record.Family = sock.Family
	record.Transport = sock.Transport
	if sock.Local.IsValid() {
		delete(s.bound, bindKey{transport: sock.Transport, addr: sock.Local.AddrPort()})
	}
	delete(s.sockets, fd)
	s.closedSockets++
	s.callLog = append(s.callLog, record)

	logrus.WithFields(logrus.Fields{
		"function": "SimulatedProvider.Close",
		"fd":       fd,
		"open":     len(s.sockets),
	}).Debug("Simulated socket closed")

	return nil
}

// IsSimulation implements SocketProvider.IsSimulation
func (s *SimulatedProvider) IsSimulation() bool {
	return true
}

// AddReachable makes stream connects to ep succeed without a local listener.
func (s *SimulatedProvider) AddReachable(ep endpoint.Endpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reachable[ep.AddrPort()] = true
}

// SetUnreachable makes every connect to addr fail with ENETUNREACH.
func (s *SimulatedProvider) SetUnreachable(addr netip.Addr) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unreachable[addr] = true
}

// SetSocketLimit caps the number of open sockets; further creates fail
// with EMFILE. Zero removes the cap.
func (s *SimulatedProvider) SetSocketLimit(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.socketLimit = n
}

// FailNext makes the next call to op ("socket", "bind" or "connect") fail
// with errno.
func (s *SimulatedProvider) FailNext(op string, errno syscall.Errno) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = errno
}

func (s *SimulatedProvider) takeFailure(op string) error {
	errno, ok := s.failures[op]
	if !ok {
		return nil
	}
	delete(s.failures, op)
	return errno
}

// Socket returns a snapshot of the socket behind fd.
func (s *SimulatedProvider) Socket(fd int) (SocketInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sock, ok := s.sockets[fd]
	if !ok {
		return SocketInfo{}, false
	}
	return *sock, true
}

// OpenSockets returns the number of sockets not yet closed.
func (s *SimulatedProvider) OpenSockets() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sockets)
}

// GetCallLog returns the complete call log for test verification
func (s *SimulatedProvider) GetCallLog() []CallRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	log := make([]CallRecord, len(s.callLog))
	copy(log, s.callLog)
	return log
}

// ClearCallLog clears the call log for test cleanup
func (s *SimulatedProvider) ClearCallLog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callLog = make([]CallRecord, 0)
}

// GetStats returns statistics about the simulation
func (s *SimulatedProvider) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	failed := 0
	for _, record := range s.callLog {
		if record.Err != nil {
			failed++
		}
	}

	return map[string]interface{}{
		"open_sockets":   len(s.sockets),
		"closed_sockets": s.closedSockets,
		"bound_ports":    len(s.bound),
		"total_calls":    len(s.callLog),
		"failed_calls":   failed,
		"is_simulation":  true,
	}
}
