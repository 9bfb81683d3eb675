// Package factory creates the socket provider and name resolver used by
// easysock.
//
// The factory decouples callers from the concrete implementations so the
// same code can run against real sockets or the in-memory simulation.
//
// # Configuration
//
// Configuration is assembled in three layers. Defaults come first, then the
// YAML file named by EASYSOCK_CONFIG, then individual variables:
//   - EASYSOCK_USE_SIMULATION: "true" or "false" to enable simulation mode
//   - EASYSOCK_RESOLVE_TIMEOUT: integer milliseconds bounding one lookup
//   - EASYSOCK_DNS_SERVERS: comma separated upstreams, bypassing the system resolver
//   - EASYSOCK_RESOLVE_POLICY: "first" or "prefer-requested"
//
// Invalid values are logged and ignored. A configuration file looks like:
//
//	use_simulation: false
//	resolve_timeout: 2000
//	dns_servers: ["192.0.2.53", "[2001:db8::53]:5353"]
//	policy: prefer-requested
//
// # Usage
//
//	f := factory.NewProviderFactory()
//	provider, err := f.CreateProvider()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	resolver, err := f.CreateResolver()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Mode Switching
//
// SwitchToSimulation and SwitchToReal flip the mode of providers created
// afterwards. Providers that already exist are unaffected.
package factory
