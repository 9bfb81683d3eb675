//go:build unix

package net

import (
	"fmt"
	"net"
	"os"

	"github.com/opd-ai/easysock"
	"github.com/opd-ai/easysock/errs"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// DefaultBacklog is the listen(2) backlog used when Listen gets zero.
const DefaultBacklog = unix.SOMAXCONN

// FileConn wraps a connected handle in a net.Conn. The handle is consumed:
// on return it has been closed whether or not the conversion succeeded,
// and the returned Conn owns a duplicate of the descriptor.
func FileConn(h easysock.Handle) (net.Conn, error) {
	f := handleFile(h)
	defer f.Close()

	conn, err := net.FileConn(f)
	if err != nil {
		return nil, errs.OS("fileconn", "", err)
	}
	logrus.WithFields(logrus.Fields{
		"function": "FileConn",
		"fd":       int(h),
		"local":    conn.LocalAddr().String(),
		"remote":   addrString(conn.RemoteAddr()),
	}).Debug("Wrapped handle in net.Conn")
	return conn, nil
}

// FilePacketConn wraps a datagram handle, bound or connected, in a
// net.PacketConn. The handle is consumed as with FileConn.
func FilePacketConn(h easysock.Handle) (net.PacketConn, error) {
	f := handleFile(h)
	defer f.Close()

	conn, err := net.FilePacketConn(f)
	if err != nil {
		return nil, errs.OS("filepacketconn", "", err)
	}
	return conn, nil
}

// Listen puts a bound stream handle into the listening state and wraps it
// in a net.Listener. The handle is consumed only when Listen succeeds; on
// failure the caller still owns it.
func Listen(h easysock.Handle, backlog int) (net.Listener, error) {
	sotype, err := unix.GetsockoptInt(int(h), unix.SOL_SOCKET, unix.SO_TYPE)
	if err != nil {
		return nil, errs.OS("listen", "", err)
	}
	if sotype != unix.SOCK_STREAM {
		return nil, fmt.Errorf("listen on fd %d: %w", int(h), ErrNotStream)
	}
	if backlog <= 0 {
		backlog = DefaultBacklog
	}
	if err := unix.Listen(int(h), backlog); err != nil {
		return nil, errs.OS("listen", "", err)
	}

	f := handleFile(h)
	defer f.Close()

	l, err := net.FileListener(f)
	if err != nil {
		return nil, errs.OS("filelistener", "", err)
	}
	logrus.WithFields(logrus.Fields{
		"function": "Listen",
		"fd":       int(h),
		"addr":     l.Addr().String(),
		"backlog":  backlog,
	}).Info("Listening on handle")
	return l, nil
}

func handleFile(h easysock.Handle) *os.File {
	return os.NewFile(uintptr(h), fmt.Sprintf("easysock-%d", int(h)))
}

func addrString(a net.Addr) string {
	if a == nil {
		return ""
	}
	return a.String()
}
