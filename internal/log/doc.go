// Package log provides credential-masking logging built on the standard
// slog package.
//
// Scans may carry per-site cookies and authentication headers from the
// .a11yscan configuration file, and those values flow near request
// logging. This package extends slog to keep them out of log output:
//   - Cookie attributes keep their cookie names with masked values
//   - Authorization-style headers and token attributes are fully masked
//   - Site header maps are masked entry-wise, keeping benign headers
//
// Even in verbose mode, credentials are masked so debug logs can be
// shared or stored safely.
//
// # Usage
//
//	// Create a masking logger
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Info("request sent",
//	    "cookie", "session=abc123",  // logged as "session=***"
//	    "url", "https://example.com",
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
