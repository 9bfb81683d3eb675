// Package main provides C API bindings for easysock, enabling C programs
// written against the original easysock header to link against the Go
// implementation.
//
// # Build Instructions
//
// To build as a C shared library:
//
//	go build -buildmode=c-shared -o libeasysock.so ./capi/
//
// This generates libeasysock.so and the libeasysock.h header.
//
// # C API Usage
//
//	#include "libeasysock.h"
//
//	int fd = create_local(4, 'T', "127.0.0.1", 8080);
//	if (fd < 0) {
//	    fprintf(stderr, "create_local failed: %d\n", fd);
//	    return 1;
//	}
//
//	int peer = create_remote(6, 'T', "example.org", 443);
//
// # Return Codes
//
// Every function returns a non-negative value on success and a negative
// code on failure:
//   - -202: family is neither 4 nor 6
//   - -207: platform address family is neither AF_INET nor AF_INET6
//   - -250: transport is neither 'T' nor 'U'
//   - -errno: the socket, bind or connect call failed (EINVAL for a bad
//     literal address or out of range port)
//   - -(300+n): hostname resolution failed with resolver code n
//
// Unlike the original header, create_local and create_remote do not take a
// sockaddr output parameter. A socket that fails to bind or connect is
// closed before the error is returned.
//
// The functions use the process-wide builder from easysock.Default, so the
// EASYSOCK_* environment variables apply.
package main
