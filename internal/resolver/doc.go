// Package resolver turns SOCKS5 domain destinations into IP addresses.
//
// Resolver is a thin adapter over a Lookuper: IP literals are returned
// without a lookup, otherwise a single lookup is issued and the first address
// returned wins. There are no retries, no CNAME chasing and no RFC 6724
// sorting.
//
// DNSClient is the default Lookuper. It sends one A query to a configured
// server with github.com/miekg/dns. System uses the operating system
// resolver instead.
package resolver
