// Package search gathers free-text web evidence about an organization.
package search

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

const (
	DefaultBaseURL    = "https://html.duckduckgo.com"
	DefaultMaxResults = 5
	DefaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// NoResults is returned verbatim when the page holds no result snippets.
	NoResults = "No good DuckDuckGo Search Result was found"

	maxPageBytes = 1 << 20
)

// Options configures a DuckDuckGo gatherer. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	MaxResults int
	UserAgent  string
}

// DuckDuckGo queries the DuckDuckGo HTML endpoint.
type DuckDuckGo struct {
	client     *http.Client
	baseURL    string
	maxResults int
	userAgent  string
	log        *slog.Logger
}

func NewDuckDuckGo(client *http.Client, log *slog.Logger, opts Options) *DuckDuckGo {
	d := &DuckDuckGo{
		client:     client,
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		maxResults: opts.MaxResults,
		userAgent:  opts.UserAgent,
		log:        log,
	}
	if d.baseURL == "" {
		d.baseURL = DefaultBaseURL
	}
	if d.maxResults <= 0 {
		d.maxResults = DefaultMaxResults
	}
	if d.userAgent == "" {
		d.userAgent = DefaultUserAgent
	}
	return d
}

// Query returns the search phrase used for orgName.
func Query(orgName string) string {
	return orgName + " VPN service"
}

// Gather searches for "<orgName> VPN service" and returns the snippets of
// the top results joined by a single space.
func (d *DuckDuckGo) Gather(ctx context.Context, orgName string) (string, error) {
	query := Query(orgName)
	fail := func(err error) (string, error) {
		return "", &SearchError{Query: query, Err: err}
	}

	searchURL := d.baseURL + "/html/?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return fail(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := d.client.Do(req)
	if err != nil {
		return fail(fmt.Errorf("request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fail(fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return fail(fmt.Errorf("read response: %w", err))
	}

	snippets, err := parseSnippets(string(body), d.maxResults)
	if err != nil {
		return fail(err)
	}
	d.log.Debug("search done", "query", query, "results", len(snippets))

	if len(snippets) == 0 {
		return NoResults, nil
	}
	return strings.Join(snippets, " "), nil
}

// parseSnippets extracts up to limit result snippets in page order.
func parseSnippets(page string, limit int) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if len(out) >= limit {
			return
		}
		if n.Type == html.ElementNode && n.Data == "div" {
			class := attr(n, "class")
			if strings.Contains(class, "result") && strings.Contains(class, "results_links") {
				if s := findSnippet(n); s != "" {
					out = append(out, s)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out, nil
}

func findSnippet(n *html.Node) string {
	if n.Type == html.ElementNode && strings.Contains(attr(n, "class"), "result__snippet") {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if s := findSnippet(c); s != "" {
			return s
		}
	}
	return ""
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(parts, " ")
}
