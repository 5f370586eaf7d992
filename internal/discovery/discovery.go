package discovery

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/a11yscan/a11yscan/internal/fetcher"
)

// commonPaths are well-known paths probed when the sitemap and homepage
// yield too few pages. Ordered roughly by how often real sites have them.
var commonPaths = []string{
	"/about",
	"/about-us",
	"/contact",
	"/contact-us",
	"/services",
	"/products",
	"/pricing",
	"/blog",
	"/news",
	"/support",
	"/help",
	"/privacy",
	"/terms",
	"/careers",
	"/team",
	"/company",
}

// assetExtensions are URL suffixes that point at non-HTML resources.
// Auditing them would waste the page budget on content the rule engine
// cannot evaluate.
var assetExtensions = []string{".pdf", ".jpg", ".jpeg", ".png", ".gif", ".css", ".js"}

// Discoverer finds pages to audit on a single website.
type Discoverer struct {
	// fetcher retrieves documents and probes path existence.
	fetcher *fetcher.Fetcher

	// logger records which strategy produced each batch of pages.
	logger *slog.Logger
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithLogger sets the logger used for discovery progress.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Discoverer) {
		d.logger = logger
	}
}

// New creates a Discoverer backed by the given fetcher.
func New(f *fetcher.Fetcher, opts ...Option) *Discoverer {
	d := &Discoverer{
		fetcher: f,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Discover returns up to maxPages unique page URLs for the target site,
// homepage first. Strategies are tried in order of result quality: the
// sitemap reflects the site's own page inventory, homepage links reflect
// what users can reach, and common-path guesses are a last resort.
//
// Discovery failures are not fatal. A site with no sitemap and an
// unreachable homepage still yields at least the homepage URL itself;
// whether that page is fetchable is decided during the audit.
func (d *Discoverer) Discover(ctx context.Context, target string, maxPages int) ([]string, error) {
	base, err := normalizeTarget(target)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	pages := make([]string, 0, maxPages)

	add := func(pageURL string) bool {
		if len(pages) >= maxPages {
			return false
		}
		normalized := normalizeURL(pageURL)
		if seen[normalized] {
			return true
		}
		seen[normalized] = true
		pages = append(pages, normalized)
		return len(pages) < maxPages
	}

	// The homepage is always audited first.
	add(base.String())

	if len(pages) < maxPages {
		found := d.fromSitemap(ctx, base)
		d.logger.Debug("sitemap discovery", "url", base.String(), "found", len(found))
		for _, p := range found {
			if !add(p) {
				break
			}
		}
	}

	if len(pages) < maxPages {
		found := d.fromHomepage(ctx, base)
		d.logger.Debug("homepage link discovery", "url", base.String(), "found", len(found))
		for _, p := range found {
			if !add(p) {
				break
			}
		}
	}

	if len(pages) < maxPages {
		found := d.fromCommonPaths(ctx, base, maxPages-len(pages))
		d.logger.Debug("common path discovery", "url", base.String(), "found", len(found))
		for _, p := range found {
			if !add(p) {
				break
			}
		}
	}

	return pages, nil
}

// fromSitemap reads /sitemap.xml and returns its same-host page URLs.
func (d *Discoverer) fromSitemap(ctx context.Context, base *url.URL) []string {
	sitemapURL := base.Scheme + "://" + base.Host + "/sitemap.xml"

	doc, err := d.fetcher.Fetch(ctx, sitemapURL)
	if err != nil {
		return nil
	}

	locs := parseSitemap(bytes.NewReader(doc.Body))

	pages := make([]string, 0, len(locs))
	for _, loc := range locs {
		if sameHost(base, loc) && !isAsset(loc) {
			pages = append(pages, loc)
		}
	}
	return pages
}

// fromHomepage parses the homepage and returns its same-host anchor targets.
func (d *Discoverer) fromHomepage(ctx context.Context, base *url.URL) []string {
	doc, err := d.fetcher.Fetch(ctx, base.String())
	if err != nil || !doc.IsHTML() {
		return nil
	}

	links := extractLinks(bytes.NewReader(doc.Body), base)

	pages := make([]string, 0, len(links))
	for _, link := range links {
		if sameHost(base, link) && !isAsset(link) {
			pages = append(pages, link)
		}
	}
	return pages
}

// fromCommonPaths probes well-known paths and returns the ones that exist.
// Probing stops once budget paths have been confirmed.
func (d *Discoverer) fromCommonPaths(ctx context.Context, base *url.URL, budget int) []string {
	pages := make([]string, 0, budget)
	for _, path := range commonPaths {
		if len(pages) >= budget {
			break
		}
		if ctx.Err() != nil {
			break
		}
		candidate := base.Scheme + "://" + base.Host + path
		if d.fetcher.Exists(ctx, candidate) {
			pages = append(pages, candidate)
		}
	}
	return pages
}

// extractLinks walks an HTML document and returns resolved anchor targets.
// Fragment-only links and non-navigational schemes are skipped.
func extractLinks(r *bytes.Reader, base *url.URL) []string {
	doc, err := html.Parse(r)
	if err != nil {
		return nil
	}

	links := make([]string, 0)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key != "href" {
					continue
				}
				if resolved := resolveLink(base, attr.Val); resolved != "" {
					links = append(links, resolved)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links
}

// resolveLink resolves href against the base URL, dropping links that do
// not lead to pages.
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(u)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

// normalizeTarget parses a user-supplied target, defaulting to https when
// no scheme is given so bare hostnames work as targets.
func normalizeTarget(target string) (*url.URL, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, fmt.Errorf("empty target URL")
	}
	if !strings.Contains(target, "://") {
		target = "https://" + target
	}

	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid target URL %q: %w", target, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("target URL %q has no host", target)
	}

	u.Fragment = ""
	if u.Path == "" {
		u.Path = "/"
	}
	return u, nil
}

// normalizeURL normalizes a URL for deduplication.
//
// Design decision: We normalize URLs because:
//  1. Same page can have different URL representations
//  2. Fragment (#anchor) doesn't change content
//  3. Empty path and "/" are the same page
func normalizeURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return pageURL
	}

	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}

// sameHost reports whether the URL belongs to the same host as the base.
func sameHost(base *url.URL, pageURL string) bool {
	u, err := url.Parse(pageURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, base.Host)
}

// isAsset reports whether the URL points at a non-HTML asset.
func isAsset(pageURL string) bool {
	u, err := url.Parse(pageURL)
	if err != nil {
		return true
	}
	path := strings.ToLower(u.Path)
	for _, ext := range assetExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}
