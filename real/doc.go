// Package real provides the production socket provider and system resolver
// for easysock.
//
// Provider issues socket(2), bind(2), connect(2) and close(2) through
// golang.org/x/sys/unix. Endpoints are converted to unix.SockaddrInet4 or
// unix.SockaddrInet6 according to their own family, so the address
// structure length handed to the kernel always matches the socket family.
// Sockets are blocking and close-on-exec. On platforms without BSD sockets
// every Provider method returns errors.ErrUnsupported.
//
// SystemResolver resolves hostnames through a *net.Resolver (the platform
// resolver by default) and returns all candidates in the resolver's order:
//
//	r := real.NewSystemResolver(nil, 5*time.Second)
//	candidates, err := r.Resolve(ctx, endpoint.ResolutionRequest{
//	    Host:      "example.com",
//	    Transport: endpoint.TransportStream,
//	    Port:      443,
//	})
//
// Lookup failures are reported as errs.KindResolution with an EAI-style
// code (errs.CodeNoName, errs.CodeAgain, errs.CodeFail).
package real
