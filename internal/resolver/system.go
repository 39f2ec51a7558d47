package resolver

import (
	"context"
	"net"
	"net/netip"
)

// System looks names up with the operating system resolver.
type System struct {
	Resolver *net.Resolver
}

func (s System) LookupNetIP(ctx context.Context, name string) ([]netip.Addr, error) {
	r := s.Resolver
	if r == nil {
		r = net.DefaultResolver
	}
	return r.LookupNetIP(ctx, "ip", name)
}
