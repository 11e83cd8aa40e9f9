package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// rirBases maps the registry names reported by Cymru to RDAP endpoints.
var rirBases = map[string]string{
	"arin":    "https://rdap.arin.net/registry/ip/",
	"ripencc": "https://rdap.db.ripe.net/ip/",
	"apnic":   "https://rdap.apnic.net/ip/",
	"lacnic":  "https://rdap.lacnic.net/rdap/ip/",
	"afrinic": "https://rdap.afrinic.net/rdap/ip/",
}

const maxRDAPBody = 4 << 20

// RDAP fetches IP network objects.
type RDAP struct {
	client  *http.Client
	baseURL string
}

// NewRDAP returns an RDAP client. When baseURL is set every lookup goes to
// {baseURL}/ip/{ip} instead of the per-registry endpoint.
func NewRDAP(client *http.Client, baseURL string) *RDAP {
	return &RDAP{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type rdapNetwork struct {
	Handle   string       `json:"handle"`
	Name     string       `json:"name"`
	Entities []rdapEntity `json:"entities"`
}

type rdapEntity struct {
	Handle     string            `json:"handle"`
	Roles      []string          `json:"roles"`
	VCardArray []json.RawMessage `json:"vcardArray"`
	Entities   []rdapEntity      `json:"entities"`
}

func (r *RDAP) endpoint(registry, ip string) string {
	if r.baseURL != "" {
		return r.baseURL + "/ip/" + ip
	}
	base, ok := rirBases[registry]
	if !ok {
		base = rirBases["arin"]
	}
	return base + ip
}

// Lookup returns the RDAP network object covering ip.
func (r *RDAP) Lookup(ctx context.Context, registry, ip string) (*rdapNetwork, error) {
	u := r.endpoint(registry, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build rdap request: %w", err)
	}
	req.Header.Set("Accept", "application/rdap+json, application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rdap request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("rdap %s: status %d: %s", u, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var nw rdapNetwork
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxRDAPBody)).Decode(&nw); err != nil {
		return nil, fmt.Errorf("decode rdap response: %w", err)
	}
	return &nw, nil
}

// registrantName walks the entity tree depth-first and returns the vCard
// full name of the first entity holding the registrant role. ok is true once
// a registrant is found, even if it carries no name.
func registrantName(entities []rdapEntity) (name string, ok bool) {
	for _, e := range entities {
		if hasRole(e.Roles, "registrant") {
			return vcardFN(e.VCardArray), true
		}
		if name, ok := registrantName(e.Entities); ok {
			return name, true
		}
	}
	return "", false
}

func hasRole(roles []string, want string) bool {
	for _, r := range roles {
		if strings.EqualFold(r, want) {
			return true
		}
	}
	return false
}

// vcardFN extracts "fn" from a jCard: ["vcard", [[name, params, type, value], ...]].
func vcardFN(card []json.RawMessage) string {
	if len(card) < 2 {
		return ""
	}
	var props [][]json.RawMessage
	if err := json.Unmarshal(card[1], &props); err != nil {
		return ""
	}
	for _, p := range props {
		if len(p) < 4 {
			continue
		}
		var name string
		if err := json.Unmarshal(p[0], &name); err != nil || name != "fn" {
			continue
		}
		var value string
		if err := json.Unmarshal(p[3], &value); err != nil {
			continue
		}
		return strings.TrimSpace(value)
	}
	return ""
}
