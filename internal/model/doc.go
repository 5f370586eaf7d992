// Package model defines the core data types shared across the scanner:
// accessibility violations, severity levels, aggregated scan results, and
// the lawsuit-risk assessment derived from them.
//
// Types in this package are plain data. They carry no I/O and no hidden
// state, so every layer (rules, pipeline, risk, report, database) can pass
// them around freely.
package model
