package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/a11yscan/a11yscan/internal/config"
	"github.com/a11yscan/a11yscan/internal/database"
)

// NewHistoryCmd creates the history command.
// This command lists scans stored in the local history database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [url]",
		Short: "Show stored scan history for a website",
		Long: `History lists previous scans of a website stored in the local database.

Each entry shows the scan date, pages scanned, violation counts, and the
compliance score, so accessibility progress can be tracked over time.

Examples:
  # Show scan history for a site
  a11yscan history https://example.com

  # List all websites with stored scans
  a11yscan history --list-sites

  # Print a stored scan in full
  a11yscan history --show 4c2f... --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list-sites", "L", false,
		"List all websites in the database")
	cmd.Flags().StringP("show", "s", "",
		"Print the full stored scan with the given record ID")
	cmd.Flags().BoolP("json", "j", false,
		"Output format for --show (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output format for --show (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write --show output to specified file path")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listSites, err := cmd.Flags().GetBool("list-sites")
	if err != nil {
		return err
	}

	showID, err := cmd.Flags().GetString("show")
	if err != nil {
		return err
	}

	if !listSites && showID == "" && len(args) == 0 {
		return errors.New("website URL is required (use --list-sites to see stored websites)")
	}

	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	switch {
	case listSites:
		return printSiteList(cmd, db)
	case showID != "":
		return printStoredScan(cmd, db, showID)
	default:
		return printHistory(cmd, db, args[0])
	}
}

// printSiteList lists every website with stored scans.
func printSiteList(cmd *cobra.Command, db *database.ScanDB) error {
	websites, err := db.ListScannedWebsites(cmd.Context())
	if err != nil {
		return err
	}

	if len(websites) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No scans stored yet. Run 'a11yscan scan <url>' first.")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Stored websites (%d):\n", len(websites))
	for _, site := range websites {
		fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", site)
	}
	return nil
}

// printStoredScan renders one stored scan in the requested format.
func printStoredScan(cmd *cobra.Command, db *database.ScanDB, id string) error {
	result, assessment, err := db.GetScanByID(cmd.Context(), id)
	if err != nil {
		return err
	}
	if result == nil {
		return fmt.Errorf("no stored scan with ID %s (use 'a11yscan history <url>' to list IDs)", id)
	}

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

// printHistory renders the scan history table for a website.
func printHistory(cmd *cobra.Command, db *database.ScanDB, website string) error {
	records, err := db.GetScanHistory(cmd.Context(), website)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No stored scans for %s. Run 'a11yscan scan %s' first.\n", website, website)
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Scan history for %s (%d scans, newest first):\n\n", website, len(records))
	fmt.Fprintf(out, "%-36s  %-19s  %5s  %10s  %5s\n", "ID", "DATE", "PAGES", "VIOLATIONS", "SCORE")
	fmt.Fprintln(out, strings.Repeat("-", 84))

	for _, rec := range records {
		date := rec.Timestamp.Format("2006-01-02 15:04:05")
		score := fmt.Sprintf("%d", rec.ComplianceScore)
		if rec.Partial {
			score += "*"
		}
		fmt.Fprintf(out, "%-36s  %-19s  %5d  %10d  %5s\n",
			rec.ID, date, rec.PagesScanned, rec.TotalViolations, score)
	}

	for _, rec := range records {
		if rec.Partial {
			fmt.Fprintln(out, "\n* partial scan (interrupted before completion)")
			break
		}
	}

	return nil
}
