// Package classify turns raw hyperlinks into typed content nodes.
//
// The classifier is a pure function over the link element and its enclosing
// list item: identical input always yields an identical node. It performs no
// I/O and holds no state.
//
// The grammar it implements is the URL dialect of the remote platform, which
// mixes two addressing styles: command links that name a GUI class and
// command, and router links whose opaque "target" token encodes the object
// type in a namespace prefix. The decision order matters and is fixed:
//
//  1. a thread primary key always wins
//  2. router links dispatch on the target prefix
//  3. cmd=showThreads marks a forum
//  4. everything else dispatches on the lower-cased base class
package classify
