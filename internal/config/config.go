package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These mirror the behavior of mainstream accessibility SaaS scanners:
// generous request timeouts, a hard page ceiling to bound cost, and a
// politeness delay between requests to the same host.
const (
	// DefaultTimeout is the per-request HTTP timeout. 30 seconds is generous
	// enough for slow shared-hosting sites while keeping a full 50-page scan
	// bounded.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxPages is the default and also the hard ceiling for pages
	// scanned per site. Scanning is the dominant cost driver, so callers may
	// request fewer pages but never more.
	DefaultMaxPages = 50

	// DefaultConcurrency is the number of pages fetched in parallel.
	// Per-host politeness delays still apply under concurrency, so this
	// mostly helps multi-host page sets (CDN subdomains, sitemap entries).
	DefaultConcurrency = 5

	// DefaultCrawlDelay is the politeness delay between requests to the
	// same host. 1 second keeps the scanner well under typical rate limits.
	DefaultCrawlDelay = 1 * time.Second

	// DefaultBatchSize is the number of websites scanned concurrently when
	// multiple targets are given.
	DefaultBatchSize = 3

	// DefaultProbeDelay is the shorter delay used for HEAD existence probes
	// during common-path discovery. Probes are cheap for the target, so a
	// tighter spacing is acceptable.
	DefaultProbeDelay = 500 * time.Millisecond

	// DefaultUserAgent is a realistic desktop-browser User-Agent.
	// Many sites serve degraded or blocked responses to obvious bots, which
	// would skew the audit; identifying as a mainstream browser keeps the
	// scanned markup representative of what users actually receive.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// DefaultMaxBodySize limits the response body size to read.
	// 5MB is ample for HTML while preventing memory exhaustion from
	// unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024

	// AppName is the application name used for XDG directory paths.
	AppName = "a11yscan"
)

// Config holds all configuration options for a scan run.
// It is populated from CLI flags, the optional .a11yscan file, and
// environment overrides, then passed through the application by dependency
// injection rather than global state.
type Config struct {
	// Timeout is the HTTP timeout for each individual request.
	Timeout time.Duration

	// MaxPages is the maximum number of pages to scan per site.
	// Values above DefaultMaxPages are clamped down; zero or negative
	// values fall back to the default.
	MaxPages int

	// Concurrency is the number of pages fetched in parallel during a scan.
	Concurrency int

	// BatchSize is the number of websites scanned concurrently when
	// multiple targets are given.
	BatchSize int

	// CrawlDelay is the politeness delay between requests to the same host.
	CrawlDelay time.Duration

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// Verbose enables debug-level logging.
	Verbose bool

	// ConfigFilePath is an explicit path to the .a11yscan file.
	// Empty means search the working directory and then the home directory.
	ConfigFilePath string

	// File holds the loaded .a11yscan contents: per-site overrides and
	// risk-model tuning. Never nil after loading.
	File *File

	// JSONReport selects JSON report output instead of the human-readable
	// format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown report output.
	MarkdownReport bool

	// ReportFile redirects report output to a file instead of stdout.
	ReportFile string

	// Targets is the list of site URLs to scan.
	Targets []string

	// DBDir is the directory holding the SQLite scan-history database.
	// Empty disables persistence.
	DBDir string

	// SaveToDB indicates whether completed scans are written to the
	// history database.
	SaveToDB bool
}

// NewConfig creates a Config with default values.
//
// Design decision: We use a constructor function instead of relying on
// zero values because most defaults are non-zero (timeouts, page limits).
// This also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Timeout:     DefaultTimeout,
		MaxPages:    DefaultMaxPages,
		Concurrency: DefaultConcurrency,
		BatchSize:   DefaultBatchSize,
		CrawlDelay:  DefaultCrawlDelay,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		File:        NewFile(),
	}
}

// XDGDataDir returns the XDG data directory for a11yscan.
// On Linux: ~/.local/share/a11yscan.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for a11yscan.
// On Linux: ~/.config/a11yscan.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
// It is called once after flag parsing, before any scanning begins, so
// misconfiguration fails fast with a clear message.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.CrawlDelay < 0 {
		return ErrInvalidCrawlDelay
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

// ClampMaxPages bounds a requested page count to [1, DefaultMaxPages].
// Zero and negative requests fall back to the default ceiling.
func ClampMaxPages(requested int) int {
	if requested <= 0 {
		return DefaultMaxPages
	}
	if requested > DefaultMaxPages {
		return DefaultMaxPages
	}
	return requested
}
