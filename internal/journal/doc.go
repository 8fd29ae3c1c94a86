// Package journal persists sync-run history in a local SQLite database.
//
// Each run gets one row; every artifact the run touches (downloaded file,
// saved post, skipped download, failure) gets one row keyed by the run. The
// journal feeds the end-of-run report and keeps a durable record of what a
// mirror contains without re-walking the tree.
//
// The journal is strictly best-effort: the mirror itself is the source of
// truth, and callers log and continue when journal writes fail.
package journal
