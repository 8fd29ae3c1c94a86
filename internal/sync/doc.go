// Package sync contains the per-kind content handlers that drive the mirror.
//
// # Architecture
//
// The Syncer is the runner behind the schedule.Pool: every crawl task lands
// in Process, which dispatches on the node kind. Container kinds (course,
// folder, plugin dispatch, forum) fetch a listing and submit one child task
// per entry; terminal kinds (file, video, thread posts) stream bytes into
// the destination tree. Wiki, exercise and generic nodes are logged and
// dropped.
//
// # Paths
//
// Every task's destination is derived from its parent's path plus the
// node's sanitized name, so concurrent writers never collide. The one
// deliberate exception is forum thread pagination: the continuation task
// for the next page reuses the same thread directory, and post file names
// stay unique through their stable anchor ids.
//
// # Fragile extractors
//
// The video handler scrapes the player bootstrap script with a regex and
// truncates its argument at the first comma-newline boundary to isolate the
// leading JSON object. This matches the upstream page format exactly and
// nothing more; when the player markup changes, extractPlayerSource is the
// place that breaks.
package sync
