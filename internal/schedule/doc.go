// Package schedule bounds the crawl's recursive fan-out.
//
// # Architecture
//
// The Pool accepts crawl tasks from the top-level driver and from running
// handlers alike. Every submission starts a lightweight goroutine that first
// acquires one of a fixed number of worker slots, so the number of tasks
// actually executing never exceeds the configured job limit while the number
// of submitted tasks is unbounded. Submitting from inside a running task can
// therefore never deadlock: the parent keeps its slot, the child waits for
// its own.
//
// # Completion and failure
//
// A WaitGroup tracks outstanding work; Wait returns exactly when every
// submitted task, including tasks submitted recursively, has finished. The
// queued and running gauges are released on every exit path, including
// panics, so the completion wait cannot leak.
//
// Handler failures are caught at the dispatch boundary, logged with the
// destination path and the full error chain, and never propagate: a failing
// subtree leaves siblings and ancestors untouched.
package schedule
