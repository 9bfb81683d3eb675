//go:build unix

package real

import (
	"syscall"

	"github.com/opd-ai/easysock/endpoint"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Provider implements interfaces.SocketProvider with raw syscalls.
type Provider struct{}

// NewProvider creates a new syscall-backed socket provider
func NewProvider() *Provider {
	logrus.WithField("function", "NewProvider").Debug("Creating real socket provider")
	return &Provider{}
}

// CreateSocket allocates a blocking, close-on-exec socket.
func (p *Provider) CreateSocket(family endpoint.Family, transport endpoint.Transport) (int, error) {
	af, err := family.AF()
	if err != nil {
		return -1, err
	}
	sotype, err := transport.SockType()
	if err != nil {
		return -1, err
	}

	fd, err := unix.Socket(af, sotype, 0)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":  "Provider.CreateSocket",
			"family":    family.String(),
			"transport": transport.String(),
			"error":     err.Error(),
		}).Debug("socket(2) failed")
		return -1, err
	}
	unix.CloseOnExec(fd)

	return fd, nil
}

// Bind assigns ep to fd.
func (p *Provider) Bind(fd int, ep endpoint.Endpoint) error {
	sa, err := toSockaddr(ep)
	if err != nil {
		return err
	}
	return unix.Bind(fd, sa)
}

// Connect connects fd to ep. A connect interrupted by a signal keeps
// completing in the kernel, so the result is collected instead of issuing
// a second connect.
func (p *Provider) Connect(fd int, ep endpoint.Endpoint) error {
	sa, err := toSockaddr(ep)
	if err != nil {
		return err
	}

	err = unix.Connect(fd, sa)
	if err != syscall.EINTR {
		return err
	}
	return waitConnect(fd)
}

// Close releases fd.
func (p *Provider) Close(fd int) error {
	return unix.Close(fd)
}

// IsSimulation implements SocketProvider.IsSimulation
func (p *Provider) IsSimulation() bool {
	return false
}

// toSockaddr converts ep into the sockaddr type matching its family. The
// kernel length comes from the concrete type, so sockaddr_in is always
// paired with AF_INET and sockaddr_in6 with AF_INET6.
func toSockaddr(ep endpoint.Endpoint) (unix.Sockaddr, error) {
	switch ep.Family() {
	case endpoint.FamilyIPv4:
		return &unix.SockaddrInet4{Port: int(ep.Port()), Addr: ep.Addr().As4()}, nil
	case endpoint.FamilyIPv6:
		return &unix.SockaddrInet6{Port: int(ep.Port()), Addr: ep.Addr().As16()}, nil
	default:
		return nil, syscall.EAFNOSUPPORT
	}
}

func waitConnect(fd int) error {
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLOUT}}
	for {
		_, err := unix.Poll(fds, -1)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return err
		}
		break
	}

	soerr, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
	if err != nil {
		return err
	}
	if soerr != 0 {
		return syscall.Errno(soerr)
	}
	return nil
}
