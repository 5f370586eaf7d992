package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/a11yscan/a11yscan/internal/config"
	"github.com/a11yscan/a11yscan/internal/database"
	a11ylog "github.com/a11yscan/a11yscan/internal/log"
	"github.com/a11yscan/a11yscan/internal/model"
	"github.com/a11yscan/a11yscan/internal/pipeline"
	"github.com/a11yscan/a11yscan/internal/report"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [url]",
		Short: "Scan a website for accessibility violations",
		Long: `Scan crawls a website and audits each page for WCAG accessibility
violations.

Pages are discovered from the sitemap, homepage links, and common paths,
then each page is checked for issues such as:
- Images without alt text
- Missing or duplicated page headings
- Links without accessible names or with non-descriptive text
- Form inputs without labels
- Low-contrast styling and removed keyboard focus

After the scan, a legal risk assessment estimates the financial exposure
the violations represent.

Examples:
  # Scan a single website
  a11yscan scan https://example.com

  # Scan multiple websites
  a11yscan scan https://a.example https://b.example

  # Limit the scan to 10 pages
  a11yscan scan --max-pages 10 https://example.com

  # Output JSON report to a file
  a11yscan scan --json -o report.json https://example.com

  # Use a custom configuration file
  a11yscan scan -c myconfig.yaml https://example.com

Configuration file (.a11yscan) example:
  sites:
    example.com:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"
      maxPages: 20
  risk:
    settlementCap: 100000`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Scan behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		fmt.Sprintf("Maximum number of pages to scan per site (ceiling: %d)", config.DefaultMaxPages))
	cmd.Flags().Duration("delay", config.DefaultCrawlDelay,
		"Politeness delay between requests to the same host")
	cmd.Flags().Int("concurrency", config.DefaultConcurrency,
		"Number of pages audited in parallel")

	// Batch scanning flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent website scans")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .a11yscan in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Persistence flags
	cmd.Flags().Bool("no-save", false,
		"Do not record the scan in the local history database")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging. The secure handler masks cookies and
	// auth headers that site configs may carry.
	logger := a11ylog.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from environment variables and cobra flags.
// Precedence: defaults < .env / environment < flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	// Load a .env file if present, then apply A11YSCAN_* overrides.
	// A missing .env is not an error.
	_ = godotenv.Load() //nolint:errcheck // optional file
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	var err error

	if cmd.Flags().Changed("timeout") {
		cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("max-pages") {
		cfg.MaxPages, err = cmd.Flags().GetInt("max-pages")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("delay") {
		cfg.CrawlDelay, err = cmd.Flags().GetDuration("delay")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("batch") {
		cfg.BatchSize, err = cmd.Flags().GetInt("batch")
		if err != nil {
			return nil, err
		}
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site-specific configuration from the .a11yscan file.
	// If the user explicitly specified a path, error if not found.
	// If no path specified, silently use defaults when no file exists.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.File, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Positional arguments are the site URLs
	cfg.Targets = args

	return cfg, nil
}

// applyEnvOverrides applies A11YSCAN_* environment variables to the config.
func applyEnvOverrides(cfg *config.Config) error {
	if ua := os.Getenv("A11YSCAN_USER_AGENT"); ua != "" {
		cfg.UserAgent = ua
	}

	if v := os.Getenv("A11YSCAN_MAX_PAGES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid A11YSCAN_MAX_PAGES %q: %w", v, err)
		}
		cfg.MaxPages = n
	}

	if v := os.Getenv("A11YSCAN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid A11YSCAN_TIMEOUT %q: %w", v, err)
		}
		cfg.Timeout = d
	}

	if v := os.Getenv("A11YSCAN_CRAWL_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid A11YSCAN_CRAWL_DELAY %q: %w", v, err)
		}
		cfg.CrawlDelay = d
	}

	if dir := os.Getenv("A11YSCAN_DB_DIR"); dir != "" {
		cfg.DBDir = dir
	}

	return nil
}

// runScan executes the scan.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if len(cfg.Targets) == 0 {
		return errors.New("no targets provided (specify one or more site URLs as arguments)")
	}

	logger.Info("starting scan",
		"targets", cfg.Targets,
		"maxPages", cfg.MaxPages,
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.ScanDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	scanner := pipeline.NewScanner(cfg, pipeline.WithScannerLogger(logger))

	// Use batch processor for parallel scanning if multiple targets
	if len(cfg.Targets) > 1 && cfg.BatchSize > 1 {
		return runBatchScan(ctx, cfg, scanner, db, logger)
	}

	return runSequentialScan(ctx, cfg, scanner, db, logger)
}

// runSequentialScan scans targets one at a time.
func runSequentialScan(ctx context.Context, cfg *config.Config, scanner *pipeline.Scanner, db *database.ScanDB, logger *slog.Logger) error {
	for _, target := range cfg.Targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		noteRecentScan(ctx, db, target, logger)

		fmt.Printf("Scanning %s...\n", target)
		startTime := time.Now()

		result, err := scanner.ScanWebsite(ctx, target, cfg.MaxPages)
		if err != nil {
			logger.Error("scan failed", "target", target, "error", err)
			fmt.Fprintf(os.Stderr, "Scan error for %s: %v\n", target, err)
			continue
		}

		elapsed := time.Since(startTime)
		fmt.Printf("Scan completed in %s\n\n", elapsed.Round(time.Millisecond))

		assessment := scanner.AssessRisk(result)

		if err := outputReport(cfg, result, assessment); err != nil {
			logger.Error("report failed", "target", target, "error", err)
		}

		if err := saveScan(ctx, db, result, assessment, logger); err != nil {
			logger.Error("failed to save scan", "target", target, "error", err)
		}
	}

	return nil
}

// runBatchScan scans multiple targets concurrently using BatchProcessor.
func runBatchScan(ctx context.Context, cfg *config.Config, scanner *pipeline.Scanner, db *database.ScanDB, logger *slog.Logger) error {
	fmt.Printf("Starting batch scan of %d targets (concurrency: %d)...\n\n",
		len(cfg.Targets), cfg.BatchSize)

	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(scanner,
		pipeline.WithBatchConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, cfg.Targets, cfg.MaxPages, func(outcome *pipeline.TargetResult, index int) {
		mu.Lock()
		defer mu.Unlock()

		if outcome.Err != nil {
			fmt.Fprintf(os.Stderr, "[%d/%d] Scan error for %s: %v\n", index+1, len(cfg.Targets), outcome.Target, outcome.Err)
			return
		}

		fmt.Printf("[%d/%d] Scan completed: %s\n", index+1, len(cfg.Targets), outcome.Target)

		if err := outputReport(cfg, outcome.Result, outcome.Assessment); err != nil {
			logger.Error("report failed", "target", outcome.Target, "error", err)
		}

		if err := saveScan(ctx, db, outcome.Result, outcome.Assessment, logger); err != nil {
			logger.Error("failed to save scan", "target", outcome.Target, "error", err)
		}
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch scan completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// noteRecentScan informs the user when the target already has a scan from
// the last 24 hours. The new scan still proceeds; the note helps spot
// accidental rescans.
func noteRecentScan(ctx context.Context, db *database.ScanDB, target string, logger *slog.Logger) {
	if db == nil {
		return
	}

	recent, err := db.HasRecentScan(ctx, target, 24*time.Hour)
	if err != nil {
		logger.Debug("recent-scan check failed", "target", target, "error", err)
		return
	}
	if recent {
		fmt.Printf("Note: %s was already scanned within the last 24 hours (see 'a11yscan history').\n", target)
	}
}

// outputReport outputs the scan report in the requested format.
func outputReport(cfg *config.Config, result *model.ScanResult, assessment *model.RiskAssessment) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports may embed authenticated page content, so keep them
		// owner-readable only.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := writer.Write(result, assessment)
	return err
}

// saveScan records the scan in the history database if enabled.
// If db is nil, this function is a no-op.
func saveScan(ctx context.Context, db *database.ScanDB, result *model.ScanResult, assessment *model.RiskAssessment, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	id, err := db.SaveScan(ctx, result, assessment)
	if err != nil {
		return fmt.Errorf("failed to save scan: %w", err)
	}

	logger.Info("scan saved to database", "target", result.Target, "id", id)
	return nil
}
