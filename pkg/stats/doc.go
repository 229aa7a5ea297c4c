// Package stats computes and formats end-of-run dispatch statistics.
//
// Summarize is pure: it takes the run boundaries and counters and returns a
// Report. Printer renders a Report for operators in their language
// (Brazilian Portuguese by default) using golang.org/x/text.
package stats
