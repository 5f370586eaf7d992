package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/a11yscan/a11yscan/internal/model"
)

// ErrScanUnavailable is returned when a scan could not evaluate a single
// page: the site was unreachable, every page failed to fetch, or discovery
// produced nothing usable. It deliberately does not distinguish the causes;
// callers react the same way to all of them.
var ErrScanUnavailable = errors.New("scan unavailable")

// Scan is the mutable working state shared by pipeline steps.
// Steps fill it in order: discovery sets Pages, auditing sets the per-page
// violations and the final Result, risk assessment sets Assessment.
type Scan struct {
	// Target is the site URL being scanned.
	Target string

	// MaxPages is the page budget for this scan, already clamped.
	MaxPages int

	// Pages holds the discovered page URLs, homepage first.
	Pages []string

	// PageViolations holds each page's violations, index-aligned with
	// Pages. Pages that failed to fetch have a nil entry.
	PageViolations [][]model.Violation

	// FetchedPages counts pages that were successfully retrieved.
	FetchedPages int

	// Partial is true when the scan was interrupted before all pages
	// were processed.
	Partial bool

	// Result is the aggregated scan result, set by the audit step.
	Result *model.ScanResult

	// Assessment is the risk assessment, set by the risk step.
	Assessment *model.RiskAssessment
}

// NewScan creates the working state for one target.
func NewScan(target string, maxPages int) *Scan {
	return &Scan{
		Target:   target,
		MaxPages: maxPages,
	}
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the accumulated
// scan state from previous steps.
//
// Design decision: We use an interface rather than function types because:
// 1. It allows steps to carry configuration state
// 2. It provides a Name() method for logging and debugging
// 3. It's more extensible for future features (e.g., priority, dependencies)
type Step interface {
	// Do executes the pipeline step.
	// It receives the context for cancellation, and the scan to modify.
	// Returns an error if the step fails critically; non-critical problems
	// should be recorded in the scan and return nil.
	Do(ctx context.Context, scan *Scan) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
// This follows the functional options pattern for clean API design.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, the default logger is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// It respects context cancellation and logs each step's execution.
//
// Design decision: We check context.Done() before each step rather than
// during, because steps handle their own cancellation internally. A scan
// cut short between steps keeps whatever state earlier steps produced,
// marked Partial so callers can tell.
func (p *Pipeline) Execute(ctx context.Context, scan *Scan) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"target", scan.Target,
				"reason", ctx.Err(),
			)
			scan.Partial = true
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"target", scan.Target,
		)

		if err := step.Do(ctx, scan); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"target", scan.Target,
				"error", err,
			)
			return err
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"target", scan.Target,
		)
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
