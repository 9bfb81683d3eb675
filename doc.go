// Package easysock creates bound and connected IPv4/IPv6 sockets from a
// family, a transport, an address and a port.
//
// Callers name what they want and receive a socket descriptor that is
// either bound to a local literal address (CreateLocal) or connected to a
// remote literal or hostname (CreateRemote). Raw socket syscalls and name
// resolution are delegated to an interfaces.SocketProvider and an
// interfaces.NameResolver, so the same code runs against real sockets or
// the in-memory simulation in the testing package.
//
// # Getting Started
//
//	b, err := easysock.Default()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	listener, err := b.CreateLocal(endpoint.FamilyIPv4, endpoint.TransportStream, "0.0.0.0", 8080)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close(listener)
//
//	conn, err := b.CreateRemoteContext(ctx, endpoint.FamilyIPv6, endpoint.TransportStream, "example.org", 443)
//	if err != nil {
//	    var e *errs.Error
//	    if errors.As(err, &e) {
//	        log.Printf("connect failed (%s, legacy code %d)", e.Kind, e.LegacyCode())
//	    }
//	}
//
// # Core Types
//
//   - [Builder]: creates sockets on top of a provider and resolver
//   - [Handle]: a socket descriptor owned by the caller
//   - [Option]: configures a Builder ([WithPolicy], [WithResolveTimeout])
//
// # Address Handling
//
// CreateLocal only accepts a literal of the requested family. An IPv4
// literal is never mapped into an IPv6 socket, and hostnames are never
// resolved on the bind path.
//
// CreateRemote classifies the address first. Literals must match the
// requested family. Anything else is treated as a hostname and resolved;
// the family of the selected candidate then replaces the requested one, so
// a host with only AAAA records yields an IPv6 socket even when IPv4 was
// asked for.
//
// # Candidate Selection
//
// A resolver returns every candidate. The Builder picks one with its
// selection policy:
//
//   - interfaces.PolicyFirst (default): the resolver's first candidate
//   - interfaces.PolicyPreferRequested: the first candidate of the requested
//     family, else the first candidate
//
// # Error Handling
//
// Every failure is an *errs.Error carrying a Kind. Family and transport are
// validated before the provider is called, so an InvalidFamily or
// InvalidTransport error guarantees no socket was created. When a bind or
// connect fails the socket is closed before the error is returned; a
// Handle is only ever returned for a fully set up socket. Nothing is
// retried.
//
// # Configuration
//
// Default builds its Builder from a factory.ProviderFactory, which reads
// EASYSOCK_USE_SIMULATION, EASYSOCK_RESOLVE_TIMEOUT, EASYSOCK_DNS_SERVERS,
// EASYSOCK_RESOLVE_POLICY and the YAML file named by EASYSOCK_CONFIG.
//
// # Thread Safety
//
// A Builder holds only immutable configuration and is safe for concurrent
// use. Each call creates its own socket and address values.
//
// # Logging
//
// The package logs through logrus with structured fields. Successful socket
// creation is logged at Info, failures at Debug.
//
// # C Bindings
//
// The capi directory builds a C shared library exposing the original
// create_local, create_remote and helper functions with their negative
// integer return codes.
package easysock
