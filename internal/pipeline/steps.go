package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/a11yscan/a11yscan/internal/discovery"
	"github.com/a11yscan/a11yscan/internal/fetcher"
	"github.com/a11yscan/a11yscan/internal/model"
	"github.com/a11yscan/a11yscan/internal/risk"
	"github.com/a11yscan/a11yscan/internal/rules"
)

// DiscoverStep finds the pages to audit for the scan target.
type DiscoverStep struct {
	// discoverer performs the actual page discovery.
	discoverer *discovery.Discoverer

	// logger for structured logging.
	logger *slog.Logger
}

// NewDiscoverStep creates a new page discovery step.
func NewDiscoverStep(d *discovery.Discoverer, logger *slog.Logger) *DiscoverStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &DiscoverStep{discoverer: d, logger: logger}
}

// Name returns the step name.
func (s *DiscoverStep) Name() string {
	return "discover"
}

// Do discovers pages for the target, up to the scan's page budget.
func (s *DiscoverStep) Do(ctx context.Context, scan *Scan) error {
	pages, err := s.discoverer.Discover(ctx, scan.Target, scan.MaxPages)
	if err != nil {
		return fmt.Errorf("%w: discovery for %s: %v", ErrScanUnavailable, scan.Target, err)
	}
	if len(pages) == 0 {
		return fmt.Errorf("%w: no pages discovered for %s", ErrScanUnavailable, scan.Target)
	}

	scan.Pages = pages
	s.logger.Info("pages discovered", "target", scan.Target, "pages", len(pages))
	return nil
}

// AuditStep fetches every discovered page concurrently and evaluates the
// accessibility rules against it, then aggregates the scan result.
type AuditStep struct {
	// fetcher retrieves page documents.
	fetcher *fetcher.Fetcher

	// engine evaluates accessibility rules per page.
	engine *rules.Engine

	// concurrency is the number of pages audited in parallel.
	concurrency int

	// logger for structured logging.
	logger *slog.Logger
}

// NewAuditStep creates a new page audit step.
func NewAuditStep(f *fetcher.Fetcher, engine *rules.Engine, concurrency int, logger *slog.Logger) *AuditStep {
	if concurrency <= 0 {
		concurrency = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditStep{
		fetcher:     f,
		engine:      engine,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Name returns the step name.
func (s *AuditStep) Name() string {
	return "audit"
}

// Do audits all discovered pages and builds the aggregated result.
//
// Design decision: We use errgroup.SetLimit rather than a worker pool
// because it's simpler and errgroup handles the concurrency correctly.
// Each page writes to its own slice index, so page order in the result
// always matches discovery order regardless of completion order.
//
// Individual page failures are not errors; sites have broken pages and
// the audit should cover what it can reach. Only a scan where nothing
// could be fetched at all fails, with ErrScanUnavailable.
func (s *AuditStep) Do(ctx context.Context, scan *Scan) error {
	violationsByPage := make([][]model.Violation, len(scan.Pages))

	var mu sync.Mutex
	attempted := 0
	fetched := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, pageURL := range scan.Pages {
		i, pageURL := i, pageURL
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			mu.Lock()
			attempted++
			mu.Unlock()

			doc, err := s.fetcher.Fetch(gctx, pageURL)
			if err != nil {
				s.logger.Debug("page fetch failed", "url", pageURL, "error", err)
				return nil
			}

			mu.Lock()
			fetched++
			mu.Unlock()

			if !doc.IsHTML() {
				s.logger.Debug("skipping non-HTML page", "url", pageURL, "content_type", doc.ContentType)
				return nil
			}

			page := rules.ParsePage(pageURL, bytes.NewReader(doc.Body))
			violations := s.engine.Evaluate(gctx, page)
			if len(violations) > 0 {
				violationsByPage[i] = violations
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		// Cancellation mid-audit: keep what completed and mark the scan
		// partial instead of discarding it.
		scan.Partial = true
		s.logger.Warn("audit interrupted", "target", scan.Target, "error", err)
	}

	scan.PageViolations = violationsByPage
	scan.FetchedPages = fetched

	if fetched == 0 {
		return fmt.Errorf("%w: no pages could be fetched for %s", ErrScanUnavailable, scan.Target)
	}

	// Pages a cancelled goroutine never tried do not count as scanned.
	result := model.NewScanResult(scan.Target, attempted, violationsByPage)
	result.Partial = scan.Partial
	scan.Result = result

	s.logger.Info("audit complete",
		"target", scan.Target,
		"pages", len(scan.Pages),
		"attempted", attempted,
		"fetched", fetched,
		"violations", result.TotalViolations,
		"score", result.ComplianceScore,
	)

	return nil
}

// RiskStep derives the risk assessment from the aggregated scan result.
type RiskStep struct {
	// engine computes the assessment.
	engine *risk.Engine
}

// NewRiskStep creates a new risk assessment step.
func NewRiskStep(engine *risk.Engine) *RiskStep {
	return &RiskStep{engine: engine}
}

// Name returns the step name.
func (s *RiskStep) Name() string {
	return "risk"
}

// Do computes the assessment. The risk engine handles a nil result with a
// conservative fallback, so this step never fails.
func (s *RiskStep) Do(_ context.Context, scan *Scan) error {
	scan.Assessment = s.engine.Assess(scan.Result)
	return nil
}
