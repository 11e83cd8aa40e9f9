// Package registry maps an IP address to the organization that holds it:
// an ASN lookup gives the AS description and the owning RIR, and an RDAP
// query against that RIR gives the registrant.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"strings"

	"github.com/August26/vpncheck-go/internal/model"
)

type Resolver struct {
	sources []ASNSource
	rdap    *RDAP
	log     *slog.Logger
}

// NewResolver tries sources in order; the first one that answers wins.
func NewResolver(log *slog.Logger, rdap *RDAP, sources ...ASNSource) *Resolver {
	return &Resolver{
		sources: sources,
		rdap:    rdap,
		log:     log,
	}
}

// Resolve returns the registry profile of ip. Every failure is a *ResolutionError.
func (r *Resolver) Resolve(ctx context.Context, ip string) (model.OrgProfile, error) {
	ip = strings.TrimSpace(ip)
	fail := func(err error) (model.OrgProfile, error) {
		return model.OrgProfile{}, &ResolutionError{IP: ip, Err: err}
	}

	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return fail(fmt.Errorf("%w: %q", ErrInvalidIP, ip))
	}
	addr = addr.Unmap()
	if isReserved(addr) {
		return fail(ErrReservedIP)
	}

	info, err := r.lookupASN(ctx, addr)
	if err != nil {
		return fail(err)
	}
	r.log.Debug("asn resolved", "ip", ip, "asn", info.ASN, "registry", info.Registry, "prefix", info.Prefix)

	nw, err := r.rdap.Lookup(ctx, info.Registry, addr.String())
	if err != nil {
		return fail(err)
	}

	orgName, ok := registrantName(nw.Entities)
	if !ok || orgName == "" {
		r.log.Debug("no registrant name in rdap response", "ip", ip, "handle", nw.Handle, "registrant", ok)
		orgName = model.NotAvailable
	}
	desc := info.Description
	if desc == "" {
		desc = model.NotAvailable
	}

	return model.OrgProfile{
		IP:             ip,
		ASNDescription: desc,
		OrgName:        orgName,
	}, nil
}

func (r *Resolver) lookupASN(ctx context.Context, addr netip.Addr) (ASNInfo, error) {
	var errs []error
	for _, src := range r.sources {
		info, err := src.LookupASN(ctx, addr)
		if err == nil {
			return info, nil
		}
		r.log.Debug("asn source failed", "source", src.Name(), "ip", addr.String(), "err", err)
		errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
	}
	if len(errs) == 0 {
		return ASNInfo{}, ErrNoASN
	}
	return ASNInfo{}, fmt.Errorf("%w: %w", ErrNoASN, errors.Join(errs...))
}

var reservedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("100.64.0.0/10"),
	netip.MustParsePrefix("192.0.0.0/24"),
	netip.MustParsePrefix("192.0.2.0/24"),
	netip.MustParsePrefix("198.18.0.0/15"),
	netip.MustParsePrefix("198.51.100.0/24"),
	netip.MustParsePrefix("203.0.113.0/24"),
	netip.MustParsePrefix("240.0.0.0/4"),
	netip.MustParsePrefix("2001:db8::/32"),
}

func isReserved(addr netip.Addr) bool {
	if addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified() ||
		addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast() ||
		addr.IsInterfaceLocalMulticast() || addr.IsMulticast() {
		return true
	}
	for _, p := range reservedPrefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
