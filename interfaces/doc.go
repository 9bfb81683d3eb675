// Package interfaces defines the collaborator abstractions easysock calls
// into: the raw socket provider and the hostname resolver.
//
// This package provides the foundational interfaces that enable switching
// between simulation and real socket implementations, supporting both
// production use and deterministic testing.
//
// # Core Interfaces
//
// [SocketProvider] creates, binds, connects and closes sockets. The real
// implementation lives in the real package and issues syscalls; the
// simulated one lives in the testing package and keeps an in-memory table:
//
//	provider := real.NewProvider()
//	fd, err := provider.CreateSocket(endpoint.FamilyIPv4, endpoint.TransportStream)
//	if err != nil {
//	    return err
//	}
//	ep, _ := endpoint.Build(endpoint.FamilyIPv4, "127.0.0.1", 8080)
//	if err := provider.Bind(fd, ep); err != nil {
//	    provider.Close(fd)
//	    return err
//	}
//
// [NameResolver] turns a hostname into candidate endpoints. Implementations
// return every candidate; the caller applies a [SelectionPolicy].
//
// # Configuration
//
// [ProviderConfig] holds settings shared by the factory:
//
//	config := &interfaces.ProviderConfig{
//	    UseSimulation:  false,
//	    ResolveTimeout: 5000, // milliseconds
//	    Policy:         interfaces.PolicyFirst,
//	}
//	if err := config.Validate(); err != nil {
//	    log.Fatalf("invalid config: %v", err)
//	}
//
// # Thread Safety
//
// All implementations of these interfaces must be safe for concurrent use.
package interfaces
