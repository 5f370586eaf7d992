package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/a11yscan/a11yscan/internal/model"
)

// ScanDB provides SQLite-based storage for scan results and assessments.
// It manages connection pooling and provides methods for CRUD operations.
//
// Design decision: We use a single database file for all websites rather
// than separate files per site. This simplifies history queries across
// sites and backup/restore operations.
type ScanDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ScanDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ScanDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ScanDB, error) {
	dbPath := filepath.Join(dbDir, "a11yscan.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating new
	// files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer; multiple readers don't buy much
	// for our access pattern.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &ScanDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := sdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return sdb, nil
}

// Close closes the database connection.
func (sdb *ScanDB) Close() error {
	return sdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (sdb *ScanDB) createTables() error {
	schema := `
	-- Scans store complete scan results and assessments as JSON, plus
	-- denormalized headline columns for cheap history listings.
	CREATE TABLE IF NOT EXISTS scans (
		id TEXT PRIMARY KEY,
		website TEXT NOT NULL,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		pages_scanned INTEGER NOT NULL,
		total_violations INTEGER NOT NULL,
		compliance_score INTEGER NOT NULL,
		partial INTEGER NOT NULL DEFAULT 0,
		result_json TEXT NOT NULL,
		assessment_json TEXT,
		severity_summary TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_scans_website ON scans(website);
	CREATE INDEX IF NOT EXISTS idx_scans_timestamp ON scans(timestamp);
	`

	_, err := sdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveScan stores a scan result with its assessment and returns the
// generated record ID. The assessment may be nil.
func (sdb *ScanDB) SaveScan(ctx context.Context, result *model.ScanResult, assessment *model.RiskAssessment) (string, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("failed to serialize result: %w", err)
	}

	var assessmentJSON []byte
	if assessment != nil {
		assessmentJSON, err = json.Marshal(assessment)
		if err != nil {
			return "", fmt.Errorf("failed to serialize assessment: %w", err)
		}
	}

	summaryJSON, _ := json.Marshal(result.ViolationsBySeverity) //nolint:errcheck,errchkjson // simple map; Marshal won't fail

	partial := 0
	if result.Partial {
		partial = 1
	}

	id := uuid.NewString()
	query := `
	INSERT INTO scans (id, website, pages_scanned, total_violations, compliance_score, partial, result_json, assessment_json, severity_summary)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = sdb.db.ExecContext(ctx, query,
		id,
		result.Target,
		result.PagesScanned,
		result.TotalViolations,
		result.ComplianceScore,
		partial,
		string(resultJSON),
		nullableString(assessmentJSON),
		string(summaryJSON),
	)
	if err != nil {
		return "", fmt.Errorf("failed to save scan: %w", err)
	}

	return id, nil
}

// GetLatestScan retrieves the most recent scan for a website.
// Returns nil results without error when the site has never been scanned.
func (sdb *ScanDB) GetLatestScan(ctx context.Context, website string) (*model.ScanResult, *model.RiskAssessment, error) {
	query := `
	SELECT result_json, assessment_json FROM scans
	WHERE website = ?
	ORDER BY timestamp DESC
	LIMIT 1
	`

	return sdb.scanRow(sdb.db.QueryRowContext(ctx, query, website))
}

// GetScanByID retrieves a scan by its record ID.
func (sdb *ScanDB) GetScanByID(ctx context.Context, id string) (*model.ScanResult, *model.RiskAssessment, error) {
	query := `
	SELECT result_json, assessment_json FROM scans
	WHERE id = ?
	`

	return sdb.scanRow(sdb.db.QueryRowContext(ctx, query, id))
}

// scanRow decodes one result/assessment pair from a history row.
func (sdb *ScanDB) scanRow(row *sql.Row) (*model.ScanResult, *model.RiskAssessment, error) {
	var resultJSON string
	var assessmentJSON sql.NullString

	err := row.Scan(&resultJSON, &assessmentJSON)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get scan: %w", err)
	}

	var result model.ScanResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, nil, fmt.Errorf("failed to parse result: %w", err)
	}

	var assessment *model.RiskAssessment
	if assessmentJSON.Valid && assessmentJSON.String != "" {
		assessment = &model.RiskAssessment{}
		if err := json.Unmarshal([]byte(assessmentJSON.String), assessment); err != nil {
			return nil, nil, fmt.Errorf("failed to parse assessment: %w", err)
		}
	}

	return &result, assessment, nil
}

// HasRecentScan checks if a website was scanned within the specified duration.
func (sdb *ScanDB) HasRecentScan(ctx context.Context, website string, duration time.Duration) (bool, error) {
	query := `
	SELECT COUNT(*) FROM scans
	WHERE website = ? AND timestamp > datetime('now', ?)
	`

	// SQLite datetime modifier format
	modifier := fmt.Sprintf("-%d seconds", int(duration.Seconds()))

	var count int
	err := sdb.db.QueryRowContext(ctx, query, website, modifier).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check recent scan: %w", err)
	}

	return count > 0, nil
}

// ListScannedWebsites returns every website with at least one stored scan.
func (sdb *ScanDB) ListScannedWebsites(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT website FROM scans
	ORDER BY website
	`

	rows, err := sdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list websites: %w", err)
	}
	defer rows.Close()

	var websites []string
	for rows.Next() {
		var website string
		if err := rows.Scan(&website); err != nil {
			return nil, fmt.Errorf("failed to scan website: %w", err)
		}
		websites = append(websites, website)
	}

	return websites, rows.Err()
}

// ScanRecord contains summary information about a stored scan.
// This is used for displaying scan history without loading full results.
type ScanRecord struct {
	// ID is the unique identifier of the scan in the database.
	ID string

	// Website is the scanned target.
	Website string

	// Timestamp is when the scan was performed.
	Timestamp time.Time

	// PagesScanned is the number of pages the scan attempted.
	PagesScanned int

	// TotalViolations is the violation count across all pages.
	TotalViolations int

	// ComplianceScore is the 0-100 headline score.
	ComplianceScore int

	// Partial reports whether the scan was cut short.
	Partial bool

	// SeveritySummary contains violation counts by severity tier.
	SeveritySummary map[string]int
}

// GetScanHistory retrieves scan summaries for a website, newest first.
// This is more efficient than loading full results when only the history
// listing is needed.
func (sdb *ScanDB) GetScanHistory(ctx context.Context, website string) ([]ScanRecord, error) {
	query := `
	SELECT id, website, timestamp, pages_scanned, total_violations, compliance_score, partial, severity_summary
	FROM scans
	WHERE website = ?
	ORDER BY timestamp DESC
	`

	rows, err := sdb.db.QueryContext(ctx, query, website)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan history: %w", err)
	}
	defer rows.Close()

	var results []ScanRecord
	for rows.Next() {
		var rec ScanRecord
		var timestamp string
		var partial int
		var summaryJSON sql.NullString

		if err := rows.Scan(&rec.ID, &rec.Website, &timestamp, &rec.PagesScanned,
			&rec.TotalViolations, &rec.ComplianceScore, &partial, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		rec.Timestamp = parseTimestamp(timestamp)
		rec.Partial = partial != 0

		if summaryJSON.Valid && summaryJSON.String != "" {
			if err := json.Unmarshal([]byte(summaryJSON.String), &rec.SeveritySummary); err != nil {
				rec.SeveritySummary = make(map[string]int)
			}
		} else {
			rec.SeveritySummary = make(map[string]int)
		}

		results = append(results, rec)
	}

	return results, rows.Err()
}

// nullableString converts an optional JSON payload to a sql value.
func nullableString(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on
// configuration. If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
