// Package report renders scan results and risk assessments in multiple
// output formats: human-readable text for terminals, JSON for tool
// integration, and Markdown for documentation and sharing.
//
// All writers implement the Writer interface, and MultiWriter fans a
// single report out to several destinations (e.g. terminal plus file).
package report
