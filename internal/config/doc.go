// Package config holds the run configuration of iliasdl.
//
// Configuration comes from three layers, strongest first: command-line
// flags, an optional YAML config file (.iliasdl.yaml in the working or home
// directory), and built-in defaults. The resulting Config snapshot is
// read-only input to the crawl; it is passed through the application via
// dependency injection rather than global state.
package config
