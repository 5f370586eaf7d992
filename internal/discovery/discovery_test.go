package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/a11yscan/a11yscan/internal/fetcher"
)

// TestDiscover tests the full discovery strategy chain against test servers.
func TestDiscover(t *testing.T) {
	t.Parallel()

	t.Run("homepage is always first", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		d := New(fetcher.New(server.Client()))
		pages, err := d.Discover(context.Background(), server.URL, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(pages) == 0 {
			t.Fatal("expected at least the homepage")
		}
		if pages[0] != server.URL+"/" {
			t.Errorf("expected homepage first, got %q", pages[0])
		}
	})

	t.Run("uses sitemap entries when available", func(t *testing.T) {
		t.Parallel()

		var server *httptest.Server
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/sitemap.xml":
				w.Header().Set("Content-Type", "application/xml")
				_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>` + server.URL + `/features</loc></url>
  <url><loc>` + server.URL + `/docs</loc></url>
  <url><loc>https://other-host.example.com/page</loc></url>
</urlset>`))
			default:
				w.WriteHeader(http.StatusOK)
			}
		}))
		defer server.Close()

		d := New(fetcher.New(server.Client()))
		pages, err := d.Discover(context.Background(), server.URL, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{server.URL + "/", server.URL + "/features", server.URL + "/docs"}
		if len(pages) != len(want) {
			t.Fatalf("expected %d pages, got %d: %v", len(want), len(pages), pages)
		}
		for i, p := range want {
			if pages[i] != p {
				t.Errorf("page %d: expected %q, got %q", i, p, pages[i])
			}
		}
	})

	t.Run("missing sitemap falls through to homepage links", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/sitemap.xml":
				w.WriteHeader(http.StatusNotFound)
			case "/":
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte(`<html><body>
<a href="/features">Features</a>
<a href="/docs">Docs</a>
<a href="https://external.example.com/page">External</a>
<a href="/style.css">Stylesheet</a>
<a href="#section">Anchor</a>
</body></html>`))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		d := New(fetcher.New(server.Client()))
		pages, err := d.Discover(context.Background(), server.URL, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		joined := strings.Join(pages, " ")
		if !strings.Contains(joined, "/features") || !strings.Contains(joined, "/docs") {
			t.Errorf("expected homepage links in results: %v", pages)
		}
		if strings.Contains(joined, "external.example.com") {
			t.Errorf("expected external links excluded: %v", pages)
		}
		if strings.Contains(joined, "style.css") {
			t.Errorf("expected asset links excluded: %v", pages)
		}
	})

	t.Run("falls back to common path probing", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/", "/about", "/contact":
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte("<html><body>no links here</body></html>"))
			default:
				w.WriteHeader(http.StatusNotFound)
			}
		}))
		defer server.Close()

		d := New(fetcher.New(server.Client()))
		pages, err := d.Discover(context.Background(), server.URL, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		joined := strings.Join(pages, " ")
		if !strings.Contains(joined, "/about") {
			t.Errorf("expected /about from common path probing: %v", pages)
		}
		if !strings.Contains(joined, "/contact") {
			t.Errorf("expected /contact from common path probing: %v", pages)
		}
	})

	t.Run("respects the page limit", func(t *testing.T) {
		t.Parallel()

		var server *httptest.Server
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/sitemap.xml" {
				var sb strings.Builder
				sb.WriteString(`<urlset>`)
				for i := 0; i < 100; i++ {
					sb.WriteString(`<url><loc>` + server.URL + `/page-` + string(rune('a'+i%26)) + `</loc></url>`)
				}
				sb.WriteString(`</urlset>`)
				_, _ = w.Write([]byte(sb.String()))
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		d := New(fetcher.New(server.Client()))
		pages, err := d.Discover(context.Background(), server.URL, 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(pages) > 5 {
			t.Errorf("expected at most 5 pages, got %d", len(pages))
		}
	})

	t.Run("deduplicates URL variants", func(t *testing.T) {
		t.Parallel()

		var server *httptest.Server
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/sitemap.xml" {
				_, _ = w.Write([]byte(`<urlset>
<url><loc>` + server.URL + `/docs</loc></url>
<url><loc>` + server.URL + `/docs#install</loc></url>
<url><loc>` + server.URL + `</loc></url>
</urlset>`))
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		d := New(fetcher.New(server.Client()))
		pages, err := d.Discover(context.Background(), server.URL, 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		seen := make(map[string]int)
		for _, p := range pages {
			seen[p]++
		}
		for p, n := range seen {
			if n > 1 {
				t.Errorf("page %q appears %d times", p, n)
			}
		}
	})

	t.Run("invalid target returns error", func(t *testing.T) {
		t.Parallel()

		d := New(fetcher.New(http.DefaultClient))
		if _, err := d.Discover(context.Background(), "", 10); err == nil {
			t.Error("expected error for empty target")
		}
	})

	t.Run("bare hostname defaults to https", func(t *testing.T) {
		t.Parallel()

		base, err := normalizeTarget("example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if base.Scheme != "https" {
			t.Errorf("expected https scheme, got %q", base.Scheme)
		}
		if base.Host != "example.com" {
			t.Errorf("expected host example.com, got %q", base.Host)
		}
	})
}

// TestParseSitemap tests sitemap XML parsing.
func TestParseSitemap(t *testing.T) {
	t.Parallel()

	t.Run("extracts loc entries", func(t *testing.T) {
		t.Parallel()

		xmlDoc := `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/</loc><lastmod>2026-01-01</lastmod></url>
  <url><loc> https://example.com/about </loc></url>
</urlset>`

		locs := parseSitemap(strings.NewReader(xmlDoc))
		if len(locs) != 2 {
			t.Fatalf("expected 2 locs, got %d: %v", len(locs), locs)
		}
		if locs[1] != "https://example.com/about" {
			t.Errorf("expected trimmed loc, got %q", locs[1])
		}
	})

	t.Run("handles sitemap index", func(t *testing.T) {
		t.Parallel()

		xmlDoc := `<sitemapindex>
  <sitemap><loc>https://example.com/sitemap-pages.xml</loc></sitemap>
</sitemapindex>`

		locs := parseSitemap(strings.NewReader(xmlDoc))
		if len(locs) != 1 {
			t.Fatalf("expected 1 loc, got %d", len(locs))
		}
	})

	t.Run("keeps entries before malformed tail", func(t *testing.T) {
		t.Parallel()

		xmlDoc := `<urlset><url><loc>https://example.com/ok</loc></url><url><loc`

		locs := parseSitemap(strings.NewReader(xmlDoc))
		if len(locs) != 1 || locs[0] != "https://example.com/ok" {
			t.Errorf("expected single entry before malformed tail, got %v", locs)
		}
	})

	t.Run("empty document yields no entries", func(t *testing.T) {
		t.Parallel()

		if locs := parseSitemap(strings.NewReader("")); len(locs) != 0 {
			t.Errorf("expected no entries, got %v", locs)
		}
	})
}

// TestNormalizeURL tests URL normalization for deduplication.
func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "strips fragment", in: "https://example.com/docs#install", want: "https://example.com/docs"},
		{name: "adds root path", in: "https://example.com", want: "https://example.com/"},
		{name: "lowercases host", in: "https://EXAMPLE.com/Page", want: "https://example.com/Page"},
		{name: "keeps query", in: "https://example.com/search?q=a", want: "https://example.com/search?q=a"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := normalizeURL(tt.in); got != tt.want {
				t.Errorf("normalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestIsAsset tests asset URL filtering.
func TestIsAsset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want bool
	}{
		{url: "https://example.com/doc.pdf", want: true},
		{url: "https://example.com/logo.PNG", want: true},
		{url: "https://example.com/app.js", want: true},
		{url: "https://example.com/style.css", want: true},
		{url: "https://example.com/about", want: false},
		{url: "https://example.com/", want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			if got := isAsset(tt.url); got != tt.want {
				t.Errorf("isAsset(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

// TestSameHost tests host comparison.
func TestSameHost(t *testing.T) {
	t.Parallel()

	base, err := url.Parse("https://example.com/")
	if err != nil {
		t.Fatal(err)
	}

	if !sameHost(base, "https://EXAMPLE.com/about") {
		t.Error("expected case-insensitive host match")
	}
	if sameHost(base, "https://sub.example.com/about") {
		t.Error("expected subdomain to be a different host")
	}
}
