// Package editor keeps a live source editor, a rendered diagram and the page
// URL fragment in step with each other.
//
// # Overview
//
// A [Controller] sits between three parties:
//
//   - an [Editor] holding the diagram source the user types
//   - a [Page] with a diagram panel, a URL fragment and a class list
//   - an [Engine] that renders source text and encodes it as a fragment token
//
// On every change event the controller hands the current text to the
// [Pipeline]. A successful render replaces the diagram panel, rewrites the
// fragment and clears every inline error. A failed render leaves the last
// good diagram in place, marks the page "incomplete" and shows one inline
// error under the offending line through the [DiagnosticRenderer].
//
// # Hosts
//
// The controller never touches a DOM, a socket or a terminal directly. Hosts
// implement [Page] and [Editor] for their environment: the browser build
// wraps CodeMirror through syscall/js, the HTTP server forwards commands over
// a websocket, and the terminal editor uses the in-memory implementation in
// package headless, which the tests use as well.
//
// # Ordering
//
// Change events are processed one at a time, each to completion. Every event
// is stamped when it arrives; an event that reaches the controller after a
// newer one has already been applied is dropped, so a slow goroutine can never
// overwrite a newer diagram with an older one.
//
// # Usage
//
//	c := editor.New(eng, page, editor.WithLogger(logger))
//	if err := c.Initialize(ctx); err != nil {
//	    logger.Warn("shared diagram not loaded", "err", err)
//	}
//	// From here on the editor's change listener drives the controller.
package editor
