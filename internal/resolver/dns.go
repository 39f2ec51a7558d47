package resolver

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/miekg/dns"
)

// DefaultDNSServer is the server queried when none is configured.
const DefaultDNSServer = "8.8.8.8:53"

// DNSClient sends a single A query per lookup to one DNS server.
type DNSClient struct {
	server string
	client *dns.Client
}

// NewDNSClient returns a DNSClient for server (host:port) using UDP. A zero
// timeout leaves the exchange bounded only by the caller's context.
func NewDNSClient(server string, timeout time.Duration) *DNSClient {
	if server == "" {
		server = DefaultDNSServer
	}
	return &DNSClient{
		server: server,
		client: &dns.Client{Net: "udp", Timeout: timeout},
	}
}

// LookupNetIP returns the A and AAAA records of the answer section in the
// order received. A non-success RCODE is an error; an answer without
// address records is not.
func (c *DNSClient) LookupNetIP(ctx context.Context, name string) ([]netip.Addr, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), dns.TypeA)
	m.RecursionDesired = true

	resp, _, err := c.client.ExchangeContext(ctx, m, c.server)
	if err != nil {
		return nil, fmt.Errorf("dns exchange with %s: %w", c.server, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("dns response from %s: %s", c.server, dns.RcodeToString[resp.Rcode])
	}

	var addrs []netip.Addr
	for _, rr := range resp.Answer {
		switch rr := rr.(type) {
		case *dns.A:
			if ip, ok := netip.AddrFromSlice(rr.A.To4()); ok {
				addrs = append(addrs, ip)
			}
		case *dns.AAAA:
			if ip, ok := netip.AddrFromSlice(rr.AAAA.To16()); ok {
				addrs = append(addrs, ip)
			}
		}
	}
	return addrs, nil
}
