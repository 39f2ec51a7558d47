package resolver

import (
	"context"
	"net/netip"
)

// Lookuper returns the addresses for a host name in the order the source
// provided them.
type Lookuper interface {
	LookupNetIP(ctx context.Context, name string) ([]netip.Addr, error)
}

// Resolver resolves names with a single lookup, taking the first answer.
type Resolver struct {
	lookup Lookuper
}

func New(l Lookuper) *Resolver {
	return &Resolver{lookup: l}
}

// Resolve returns name itself when it is an IPv4 or IPv6 literal. Otherwise
// it issues one lookup and returns its first address.
func (r *Resolver) Resolve(ctx context.Context, name string) (netip.Addr, error) {
	if ip, err := netip.ParseAddr(name); err == nil {
		return ip.Unmap(), nil
	}
	if name == "" {
		return netip.Addr{}, &ResolutionError{Name: name, Kind: ErrLookupFailed, Err: errEmptyName}
	}

	addrs, err := r.lookup.LookupNetIP(ctx, name)
	if err != nil {
		return netip.Addr{}, &ResolutionError{Name: name, Kind: ErrLookupFailed, Err: err}
	}
	for _, a := range addrs {
		if a.IsValid() {
			return a.Unmap(), nil
		}
	}
	return netip.Addr{}, &ResolutionError{Name: name, Kind: ErrNoAddressReturned}
}
