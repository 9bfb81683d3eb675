// Package errs provides the structured error type shared by every easysock
// package.
//
// Failures are categorized by Kind:
//
//   - KindInvalidFamily: family is neither IPv4 nor IPv6
//   - KindInvalidTransport: transport is neither stream nor datagram
//   - KindOS: the socket provider failed; Code holds the errno verbatim
//   - KindResolution: hostname resolution failed; Code holds the resolver code
//
// All errors support errors.Is against the package sentinels and against
// the wrapped errno:
//
//	h, err := easysock.CreateLocal(endpoint.FamilyIPv4, endpoint.TransportStream, "127.0.0.1", 8080)
//	if errs.IsAddressInUse(err) {
//	    // port taken
//	}
//
// LegacyCode maps an *Error back to the negative integer contract of the
// C API (-202 invalid family, -207 unknown platform family, -250 invalid
// transport, -errno for OS failures).
package errs
