//go:build !unix

package net

import (
	"errors"
	"net"

	"github.com/opd-ai/easysock"
)

// DefaultBacklog is the listen(2) backlog used when Listen gets zero.
const DefaultBacklog = 128

// FileConn is not supported without unix descriptors.
func FileConn(easysock.Handle) (net.Conn, error) {
	return nil, errors.ErrUnsupported
}

// FilePacketConn is not supported without unix descriptors.
func FilePacketConn(easysock.Handle) (net.PacketConn, error) {
	return nil, errors.ErrUnsupported
}

// Listen is not supported without unix descriptors.
func Listen(easysock.Handle, int) (net.Listener, error) {
	return nil, errors.ErrUnsupported
}
