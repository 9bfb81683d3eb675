// Package net converts easysock handles into Go standard library networking
// types so sockets created by a Builder can be used with existing Go code.
//
// The package provides:
//   - FileConn: a connected handle as a net.Conn
//   - FilePacketConn: a datagram handle as a net.PacketConn
//   - Listen: listen(2) on a bound stream handle, returned as a net.Listener
//
// Only handles from the real provider can be converted; simulated
// descriptors are not backed by the kernel.
//
// Example usage:
//
//	b, _ := easysock.Default()
//	h, err := b.CreateLocal(endpoint.FamilyIPv4, endpoint.TransportStream, "127.0.0.1", 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	listener, err := esnet.Listen(h, 0)
//	if err != nil {
//	    b.Close(h)
//	    log.Fatal(err)
//	}
//	defer listener.Close()
//
// Conversion consumes the handle: the returned value owns a duplicate of
// the descriptor and the original is closed.
package net
