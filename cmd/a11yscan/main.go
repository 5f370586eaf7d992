// Package main provides the entry point for the a11yscan CLI.
//
// a11yscan is a website accessibility scanner. It crawls a site, audits
// each page against WCAG-derived rules, and estimates the legal and
// financial risk of the violations it finds.
//
// Usage:
//
//	a11yscan scan <url>
//	a11yscan assess <report.json>
//	a11yscan history <url>
//
// See --help for all available options.
package main

// main is the entry point for a11yscan.
func main() {
	Execute()
}
