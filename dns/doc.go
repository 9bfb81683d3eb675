/*
Package dns resolves host names by querying DNS upstreams directly with
github.com/miekg/dns instead of going through the platform resolver.

It is selected by the factory when explicit upstreams are configured
(EASYSOCK_DNS_SERVERS or the dns_servers key of the YAML config). AAAA
records are queried before A records, so IPv6 candidates lead the list
handed to the endpoint builder.

	r, err := dns.NewResolver([]string{"192.0.2.53"}, 2*time.Second)
	if err != nil {
		return err
	}
	candidates, err := r.Resolve(ctx, endpoint.ResolutionRequest{
		Host:      "example.org",
		Transport: endpoint.TransportStream,
		Port:      443,
	})
*/
package dns
