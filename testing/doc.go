// Package testing provides simulation-based socket and resolver
// implementations for deterministic testing of easysock.
//
// # Overview
//
// SimulatedProvider mirrors the real socket provider but keeps every socket
// in an in-memory table. It hands out descriptors starting at 3, enforces
// bind conflicts (EADDRINUSE), refuses stream connects to endpoints nobody
// listens on (ECONNREFUSED) and rejects a bind or connect whose address
// family does not match the socket (EAFNOSUPPORT). SimulatedResolver answers
// hostname lookups from a static table.
//
// Both conform to the interfaces package, so the factory can swap them in
// for the real implementations.
//
// # Usage
//
//	provider := testing.NewSimulatedProvider()
//	resolver := testing.NewSimulatedResolver()
//	resolver.AddHost("db.internal", "2001:db8::5")
//
//	b := easysock.NewBuilder(provider, resolver)
//	h, err := b.CreateRemote(endpoint.FamilyIPv4, endpoint.TransportDatagram, "db.internal", 5432)
//
//	info, _ := provider.Socket(int(h))
//	// info.Family == endpoint.FamilyIPv6, info.State == testing.StateConnected
//
// # Call Logs
//
// Every provider call is appended to a log of CallRecord values holding the
// operation, descriptor, family, endpoint and the sockaddr length that a real
// provider would pass to the kernel. Use GetCallLog to inspect it and
// ClearCallLog to reset between cases. FailNext injects a single errno into
// the next socket, bind or connect call.
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// Internal synchronization uses sync.RWMutex.
package testing
