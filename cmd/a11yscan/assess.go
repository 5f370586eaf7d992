package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/a11yscan/a11yscan/internal/config"
	"github.com/a11yscan/a11yscan/internal/database"
	"github.com/a11yscan/a11yscan/internal/model"
	"github.com/a11yscan/a11yscan/internal/report"
	"github.com/a11yscan/a11yscan/internal/risk"
)

// NewAssessCmd creates the assess command.
// This command derives a risk assessment from an existing scan result
// without rescanning the site.
func NewAssessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "assess [report.json]",
		Short: "Compute the legal risk assessment for an existing scan result",
		Long: `Assess derives the legal and financial risk assessment from a saved
scan result, without contacting the website again.

The input is either a JSON report produced by 'a11yscan scan --json', or
the most recent scan stored in the local history database (--latest).
Assessment is deterministic: the same scan result always yields the same
assessment, so reports can be regenerated at any time. Risk-model tuning
from the configuration file is applied, which makes this command useful
for re-costing old scans under updated assumptions.

Examples:
  # Assess a saved JSON report
  a11yscan assess report.json

  # Read the report from stdin
  a11yscan scan --json https://example.com | a11yscan assess -

  # Assess the most recent stored scan of a site
  a11yscan assess --latest https://example.com

  # Output the assessment as Markdown
  a11yscan assess --markdown report.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAssessCmd,
	}

	cmd.Flags().StringP("latest", "l", "",
		"Assess the most recent stored scan for the given website")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .a11yscan in current or home directory)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runAssessCmd executes the assess command.
func runAssessCmd(cmd *cobra.Command, args []string) error {
	latest, err := cmd.Flags().GetString("latest")
	if err != nil {
		return err
	}

	if latest == "" && len(args) == 0 {
		return errors.New("no input: provide a report file, '-' for stdin, or --latest <url>")
	}
	if latest != "" && len(args) > 0 {
		return errors.New("--latest and a report file are mutually exclusive")
	}

	result, err := loadScanResult(cmd, latest, args)
	if err != nil {
		return err
	}

	tuning, err := loadRiskTuning(cmd)
	if err != nil {
		return err
	}

	assessment := risk.NewEngine(tuning).Assess(result)

	cfg := config.NewConfig()
	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if cfg.JSONReport && cfg.MarkdownReport {
		return config.ErrConflictingReportFormats
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	return outputReport(cfg, result, assessment)
}

// loadScanResult reads the scan result from the database, stdin, or a file.
func loadScanResult(cmd *cobra.Command, latest string, args []string) (*model.ScanResult, error) {
	if latest != "" {
		db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		result, _, err := db.GetLatestScan(cmd.Context(), latest)
		if err != nil {
			return nil, err
		}
		if result == nil {
			return nil, fmt.Errorf("no stored scan for %s (run 'a11yscan scan' first)", latest)
		}
		return result, nil
	}

	if args[0] == "-" {
		result, _, err := report.ReadJSONReport(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read report from stdin: %w", err)
		}
		return result, nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to open report file: %w", err)
	}
	defer f.Close()

	result, _, err := report.ReadJSONReport(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read report %s: %w", args[0], err)
	}
	return result, nil
}

// loadRiskTuning loads risk-model tuning from the configuration file,
// falling back to stock values when no file exists.
func loadRiskTuning(cmd *cobra.Command) (config.RiskTuning, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return config.RiskTuning{}, err
	}

	explicit := configPath != ""
	found := config.FindConfigFile(configPath)
	if found == "" {
		if explicit {
			return config.RiskTuning{}, fmt.Errorf("configuration file not found: %s", configPath)
		}
		return config.DefaultRiskTuning(), nil
	}

	cf, err := config.LoadConfigFile(found)
	if err != nil {
		return config.RiskTuning{}, fmt.Errorf("failed to load config file %s: %w", found, err)
	}
	return cf.Risk, nil
}
