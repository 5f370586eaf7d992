package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/a11yscan/a11yscan/internal/model"
)

// TargetResult is the outcome of scanning one target in a batch.
// Exactly one of Result or Err is set; the assessment accompanies any
// successful result.
type TargetResult struct {
	// Target is the site URL that was scanned.
	Target string

	// Result is the scan result, nil when the scan failed.
	Result *model.ScanResult

	// Assessment is the risk assessment for Result.
	Assessment *model.RiskAssessment

	// Err records why the scan failed.
	Err error
}

// BatchProcessor handles concurrent scanning of multiple websites.
// It uses errgroup to manage goroutines and respect concurrency limits.
//
// Design decision: We use a separate BatchProcessor rather than adding
// batch functionality to Scanner because:
// 1. It keeps the Scanner focused on single-site scans
// 2. It allows different batch strategies (e.g., rate limiting, retries)
// 3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// scanner performs the individual scans.
	scanner *Scanner

	// concurrency is the maximum number of concurrent site scans.
	// Pages within one scan have their own concurrency limit.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores completed outcomes, index-aligned with the targets.
	// Access is synchronized via mutex.
	results []*TargetResult
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithBatchConcurrency sets the maximum number of concurrent site scans.
// Default is 3 if not specified.
func WithBatchConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor around a Scanner.
func NewBatchProcessor(scanner *Scanner, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		scanner:     scanner,
		concurrency: 3,
	}

	for _, opt := range opts {
		opt(bp)
	}

	if bp.logger == nil {
		bp.logger = slog.Default()
	}

	return bp
}

// ProcessBatch scans multiple websites concurrently.
// It respects the configured concurrency limit and context cancellation.
//
// Returns one TargetResult per target in input order, even for targets
// that failed. The error return indicates the batch itself was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, targets []string, maxPages int) ([]*TargetResult, error) {
	bp.logger.Info("starting batch processing",
		"total_targets", len(targets),
		"concurrency", bp.concurrency,
	)

	startTime := time.Now()

	bp.results = make([]*TargetResult, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			bp.logger.Info("scanning target",
				"target", target,
				"index", i+1,
				"total", len(targets),
			)

			outcome := &TargetResult{Target: target}
			result, err := bp.scanner.ScanWebsite(gctx, target, maxPages)
			if err != nil {
				// Record the failure and keep going; one unreachable
				// site must not abort the rest of the batch.
				outcome.Err = err
				bp.logger.Warn("scan failed", "target", target, "error", err)
			} else {
				outcome.Result = result
				outcome.Assessment = bp.scanner.AssessRisk(result)
				bp.logger.Info("scan completed",
					"target", target,
					"violations", result.TotalViolations,
					"score", result.ComplianceScore,
				)
			}

			bp.mu.Lock()
			bp.results[i] = outcome
			bp.mu.Unlock()

			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"total_targets", len(targets),
		"elapsed", time.Since(startTime),
	)

	return bp.results, err
}

// ProcessBatchWithCallback scans multiple targets and calls a callback for
// each completed scan. This is useful for streaming results as they finish.
//
// The callback is called from the goroutine that completed the scan, so it
// must be safe for concurrent use if it touches shared state.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	targets []string,
	maxPages int,
	callback func(outcome *TargetResult, index int),
) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			outcome := &TargetResult{Target: target}
			result, err := bp.scanner.ScanWebsite(gctx, target, maxPages)
			if err != nil {
				outcome.Err = err
			} else {
				outcome.Result = result
				outcome.Assessment = bp.scanner.AssessRisk(result)
			}

			callback(outcome, i)
			return nil
		})
	}

	return g.Wait()
}
