// Package report renders an end-of-run summary of a sync run in Markdown.
//
// The report is built from the journal's aggregated run summary: artifact
// counts by status, downloaded bytes by node kind, and the error chain of
// every failed artifact. It is written only when a report path is
// configured; a run without one leaves no report behind.
package report
