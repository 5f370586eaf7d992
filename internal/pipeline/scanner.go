package pipeline

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/a11yscan/a11yscan/internal/config"
	"github.com/a11yscan/a11yscan/internal/discovery"
	"github.com/a11yscan/a11yscan/internal/fetcher"
	"github.com/a11yscan/a11yscan/internal/model"
	"github.com/a11yscan/a11yscan/internal/risk"
	"github.com/a11yscan/a11yscan/internal/rules"
)

// Scanner is the high-level entry point for accessibility scans.
// It wires configuration, HTTP fetching, page discovery, the rule engine,
// and the risk engine into a pipeline per target.
type Scanner struct {
	// cfg holds scan configuration including per-site overrides.
	cfg *config.Config

	// client is the shared HTTP client for all targets.
	client *http.Client

	// rules is the shared accessibility rule engine.
	rules *rules.Engine

	// risk is the shared risk assessment engine.
	risk *risk.Engine

	// logger for structured logging.
	logger *slog.Logger
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithScannerLogger sets the logger used by the scanner and its steps.
func WithScannerLogger(logger *slog.Logger) ScannerOption {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// WithHTTPClient replaces the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) ScannerOption {
	return func(s *Scanner) {
		s.client = client
	}
}

// NewScanner creates a Scanner from the given configuration.
func NewScanner(cfg *config.Config, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		rules:  rules.NewEngine(),
		risk:   risk.NewEngine(cfg.File.Risk),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ScanWebsite scans a single website and returns the aggregated result.
//
// maxPages is clamped to the hard page ceiling; zero falls back to the
// default. Per-site configuration can lower the budget further but never
// raise it past the ceiling.
//
// A cancellation mid-scan returns the partial result (marked Partial)
// rather than an error; a site where nothing could be fetched returns
// ErrScanUnavailable.
func (s *Scanner) ScanWebsite(ctx context.Context, target string, maxPages int) (*model.ScanResult, error) {
	maxPages = config.ClampMaxPages(maxPages)

	site := s.cfg.File.GetSiteConfig(hostOf(target))
	if site.MaxPages > 0 {
		maxPages = config.ClampMaxPages(site.MaxPages)
	}

	f := fetcher.New(s.client,
		fetcher.WithUserAgent(s.cfg.UserAgent),
		fetcher.WithMaxBodySize(s.cfg.MaxBodySize),
		fetcher.WithDelay(s.cfg.CrawlDelay),
		fetcher.WithCookie(site.Cookie),
		fetcher.WithHeaders(site.Headers),
	)

	p := New(WithLogger(s.logger))
	p.AddSteps(
		NewDiscoverStep(discovery.New(f, discovery.WithLogger(s.logger)), s.logger),
		NewAuditStep(f, s.rules, s.cfg.Concurrency, s.logger),
		NewRiskStep(s.risk),
	)

	scan := NewScan(target, maxPages)
	if err := p.Execute(ctx, scan); err != nil {
		if scan.Result != nil {
			// Interrupted after auditing produced data: the partial
			// result is still useful.
			return scan.Result, nil
		}
		return nil, err
	}

	return scan.Result, nil
}

// AssessRisk computes the risk assessment for a scan result.
// Deterministic: the same result always yields the same assessment.
func (s *Scanner) AssessRisk(result *model.ScanResult) *model.RiskAssessment {
	return s.risk.Assess(result)
}

// hostOf extracts the hostname from a target URL for site-config lookup.
func hostOf(target string) string {
	target = strings.TrimSpace(target)
	if !strings.Contains(target, "://") {
		target = "https://" + target
	}
	u, err := url.Parse(target)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
