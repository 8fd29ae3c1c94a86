// Package main provides the entry point for the iliasdl CLI.
//
// iliasdl mirrors an ILIAS e-learning instance to a local directory tree:
// courses, folders, files, forum threads, and lecture videos.
//
// Usage:
//
//	iliasdl sync -o <dir> -U <account>
//	iliasdl init
//
// See --help for all available options.
package main

// main is the entry point for iliasdl.
func main() {
	Execute()
}
