// Package endpoint holds the address values easysock passes to socket
// providers: the Family and Transport enums, the immutable Endpoint and the
// literal classifier.
//
// An Endpoint is built either from a literal:
//
//	ep, err := endpoint.Build(endpoint.FamilyIPv6, "::1", 8080)
//
// or from a resolver answer with FromAddr. Its family always matches the
// width of its address, and SockaddrLen reports the sockaddr_in or
// sockaddr_in6 size accordingly.
//
// The legacy encodings of the C API (4/6 for families, 'T'/'U' for
// transports, 4/6/-1 for classification) are available through ParseFamily,
// ParseTransport and the Legacy methods.
package endpoint
