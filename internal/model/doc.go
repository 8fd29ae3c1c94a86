// Package model defines the core data structures shared across iliasdl.
//
// This package contains the following main types:
//   - Node: a classified unit of the remote content tree (course, folder, ...)
//   - Kind: the closed set of node variants
//   - Reference: addressing information parsed from a hyperlink's query string
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (classify, sync, journal, report) need these
// types, so centralizing them prevents import cycles.
package model
