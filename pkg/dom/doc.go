// Package dom models the live page the client-side behaviors operate on: a
// mutable node tree parsed from server-rendered HTML, DOM-style events, a
// single-threaded loop with microtasks and virtual-time timers, and batched
// child-list mutation observation.
//
// Nothing in this package is safe for concurrent use. All work happens on
// the Loop, mirroring the one UI thread of a browser page.
package dom
