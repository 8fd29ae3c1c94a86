// Package log provides structured logging helpers for iliasdl.
//
// The tool handles account credentials and a long-lived session cookie, both
// of which must never end up in log output. SecureHandler wraps any slog
// handler and masks attribute values that look like credentials before they
// reach the backend.
package log
