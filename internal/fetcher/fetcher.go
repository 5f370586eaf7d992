package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/a11yscan/a11yscan/internal/config"
)

// ErrFetchFailed is returned when a page cannot be retrieved.
// It wraps transport errors and non-success status codes so callers can
// treat every fetch failure uniformly with errors.Is.
var ErrFetchFailed = errors.New("fetch failed")

// Document is a fetched web page.
type Document struct {
	// URL is the final URL of the document after redirects.
	URL string

	// StatusCode is the HTTP status code of the response.
	StatusCode int

	// ContentType is the Content-Type response header.
	ContentType string

	// Body is the response body, capped at the configured maximum size.
	Body []byte
}

// IsHTML reports whether the document is an HTML page worth auditing.
func (d *Document) IsHTML() bool {
	return strings.Contains(d.ContentType, "text/html") ||
		strings.Contains(d.ContentType, "application/xhtml")
}

// Fetcher retrieves documents over HTTP with browser-like request headers.
//
// Design decision: We require an external client because:
//  1. Timeout and transport configuration is handled by the caller
//  2. Allows for different configurations in tests
type Fetcher struct {
	// client is the HTTP client used for all requests.
	client *http.Client

	// userAgent is the User-Agent header to use.
	userAgent string

	// maxBodySize limits the size of response bodies to read.
	maxBodySize int64

	// cookie is an optional Cookie header sent with every request.
	cookie string

	// headers are extra headers sent with every request, on top of the
	// standard browser set. They override the standard set on key collision.
	headers map[string]string

	// limiter spaces requests to the same host.
	limiter *hostLimiter
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = size
	}
}

// WithCookie sets a Cookie header sent with every request.
// Format: "name=value" or "name1=value1; name2=value2".
func WithCookie(cookie string) Option {
	return func(f *Fetcher) {
		f.cookie = cookie
	}
}

// WithHeaders sets extra headers sent with every request.
func WithHeaders(headers map[string]string) Option {
	return func(f *Fetcher) {
		f.headers = headers
	}
}

// WithDelay sets the politeness delay between requests to the same host.
func WithDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.limiter = newHostLimiter(d)
	}
}

// New creates a Fetcher with the given HTTP client.
func New(client *http.Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      client,
		userAgent:   config.DefaultUserAgent,
		maxBodySize: config.DefaultMaxBodySize,
		limiter:     newHostLimiter(0),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch retrieves a single document.
// Non-2xx responses and transport errors both return ErrFetchFailed;
// the document is only returned on success.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*Document, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid URL %q: %v", ErrFetchFailed, pageURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrFetchFailed, u.Scheme)
	}

	if err := f.limiter.wait(ctx, u.Host); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Best-effort close on read path

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrFetchFailed, pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrFetchFailed, err)
	}

	finalURL := pageURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Document{
		URL:         finalURL,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// Exists probes a URL with a HEAD request and reports whether it resolves
// to a success status. Used by path-guessing discovery where downloading
// the body would be wasteful for paths that mostly do not exist.
// Servers that reject HEAD (405, 501) get a GET retry so they are not
// misreported as missing.
func (f *Fetcher) Exists(ctx context.Context, pageURL string) bool {
	u, err := url.Parse(pageURL)
	if err != nil {
		return false
	}

	if err := f.limiter.wait(ctx, u.Host); err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, pageURL, nil)
	if err != nil {
		return false
	}
	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close() //nolint:errcheck // Best-effort close on probe path

	if resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented {
		doc, err := f.Fetch(ctx, pageURL)
		return err == nil && doc.StatusCode < 300
	}

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// setHeaders applies the standard browser header set plus any per-site extras.
func (f *Fetcher) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	if f.cookie != "" {
		req.Header.Set("Cookie", f.cookie)
	}
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}
}
