package registry

import (
	"context"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/miekg/dns"
)

// ASNInfo is what an ASNSource knows about the network covering an IP.
type ASNInfo struct {
	ASN         string
	Prefix      string
	CountryCode string
	Registry    string
	Description string
}

// ASNSource maps an address to its autonomous system.
type ASNSource interface {
	Name() string
	LookupASN(ctx context.Context, addr netip.Addr) (ASNInfo, error)
}

// Cymru queries the Team Cymru IP-to-ASN DNS service.
type Cymru struct {
	client *dns.Client
	server string
}

// NewCymru returns a Cymru source sending queries to server (host:port).
// A zero timeout keeps the miekg/dns defaults.
func NewCymru(server string, timeout time.Duration) *Cymru {
	c := &dns.Client{Net: "udp"}
	if timeout > 0 {
		c.Timeout = timeout
	}
	return &Cymru{client: c, server: server}
}

func (c *Cymru) Name() string { return "cymru" }

// LookupASN resolves the origin record and then, best effort, the
// AS description record.
func (c *Cymru) LookupASN(ctx context.Context, addr netip.Addr) (ASNInfo, error) {
	query, ok := cymruQuery(addr)
	if !ok {
		return ASNInfo{}, ErrInvalidIP
	}
	txts, err := c.queryTXT(ctx, query)
	if err != nil {
		return ASNInfo{}, err
	}
	info, ok := parseOriginTXT(txts)
	if !ok {
		return ASNInfo{}, fmt.Errorf("%s: %w", query, ErrNoASN)
	}

	// A missing description is not fatal; RDAP still runs.
	if desc, err := c.queryTXT(ctx, "AS"+info.ASN+".asn.cymru.com"); err == nil {
		info.Description = parseDescriptionTXT(desc)
	}
	return info, nil
}

func (c *Cymru) queryTXT(ctx context.Context, name string) ([]string, error) {
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(name), dns.TypeTXT)
	m.RecursionDesired = true

	resp, _, err := c.client.ExchangeContext(ctx, m, c.server)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", name, err)
	}
	if resp.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("query %s: %s", name, dns.RcodeToString[resp.Rcode])
	}

	var out []string
	for _, rr := range resp.Answer {
		if txt, ok := rr.(*dns.TXT); ok {
			out = append(out, strings.Join(txt.Txt, ""))
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("query %s: %w", name, ErrNoASN)
	}
	return out, nil
}

func cymruQuery(addr netip.Addr) (string, bool) {
	if !addr.IsValid() {
		return "", false
	}
	if addr.Is4() {
		ip := addr.As4()
		return fmt.Sprintf("%d.%d.%d.%d.origin.asn.cymru.com", ip[3], ip[2], ip[1], ip[0]), true
	}
	return reverseIPv6(addr) + ".origin6.asn.cymru.com", true
}

func reverseIPv6(addr netip.Addr) string {
	ip := addr.As16()
	var b strings.Builder
	b.Grow(len(ip) * 4)
	for i := len(ip) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "%x.%x.", ip[i]&0x0f, ip[i]>>4)
	}
	return strings.TrimSuffix(b.String(), ".")
}

// parseOriginTXT reads "ASN | CIDR | CC | registry | date".
// Multi-origin prefixes list several ASNs in the first field; the first one wins.
func parseOriginTXT(txts []string) (ASNInfo, bool) {
	for _, txt := range txts {
		parts := strings.Split(txt, "|")
		if len(parts) < 4 {
			continue
		}
		asns := strings.Fields(parts[0])
		if len(asns) == 0 || asns[0] == "NA" {
			continue
		}
		return ASNInfo{
			ASN:         asns[0],
			Prefix:      strings.TrimSpace(parts[1]),
			CountryCode: strings.ToUpper(strings.TrimSpace(parts[2])),
			Registry:    strings.ToLower(strings.TrimSpace(parts[3])),
		}, true
	}
	return ASNInfo{}, false
}

// parseDescriptionTXT reads "ASN | CC | registry | date | description".
func parseDescriptionTXT(txts []string) string {
	for _, txt := range txts {
		parts := strings.SplitN(txt, "|", 5)
		if len(parts) < 5 {
			continue
		}
		if d := strings.TrimSpace(parts[4]); d != "" {
			return d
		}
	}
	return ""
}
