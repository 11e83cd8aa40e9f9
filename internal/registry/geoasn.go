package registry

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strconv"

	"github.com/oschwald/geoip2-golang"
)

// GeoLite looks ASNs up in a local GeoLite2-ASN database. It does not
// know the owning RIR, so RDAP goes through ARIN's redirector.
type GeoLite struct {
	db *geoip2.Reader
}

func OpenGeoLite(path string) (*GeoLite, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open geolite asn db: %w", err)
	}
	return &GeoLite{db: db}, nil
}

func (g *GeoLite) Name() string { return "geolite2-asn" }

func (g *GeoLite) LookupASN(_ context.Context, addr netip.Addr) (ASNInfo, error) {
	rec, err := g.db.ASN(net.IP(addr.AsSlice()))
	if err != nil {
		return ASNInfo{}, fmt.Errorf("geolite asn lookup: %w", err)
	}
	if rec.AutonomousSystemNumber == 0 {
		return ASNInfo{}, ErrNoASN
	}
	return ASNInfo{
		ASN:         strconv.FormatUint(uint64(rec.AutonomousSystemNumber), 10),
		Description: rec.AutonomousSystemOrganization,
	}, nil
}

func (g *GeoLite) Close() error {
	return g.db.Close()
}
