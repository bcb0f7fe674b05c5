// Package pkg holds the libraries behind seqdia, a live editor for text
// sequence diagrams.
//
// # Overview
//
// A diagram goes through the same stages wherever it is edited, whether in
// the browser, the terminal editor, the HTTP server, or a batch render:
//
//	source text
//	     ↓
//	[diagram] (parse into a Document, or a ParseError with line/column)
//	     ↓
//	[diagram/layout] (place actors, signals and notes)
//	     ↓
//	[render/sketch] or [render/nodelink] (SVG, DOT, PNG)
//
// [engine] ties those stages together behind a cache and adds the URL
// fragment codec from [codec]. [editor] is the synchronization controller
// that keeps an editor surface, its diagnostics, the rendered output and the
// location fragment in step; it runs against a browser page or the
// in-memory page in [editor/headless].
//
// # Supporting packages
//
//   - [cache]: artifact cache with null, memory, file, Redis and MongoDB backends
//   - [errors]: error codes with user-facing messages
//   - [observability]: hooks for render, cache and session events
//   - [fonts]: font stacks for the SVG renderers
//   - [buildinfo]: version stamped at link time
//
// [diagram]: https://pkg.go.dev/github.com/matzehuels/seqdia/pkg/diagram
// [diagram/layout]: https://pkg.go.dev/github.com/matzehuels/seqdia/pkg/diagram/layout
// [render/sketch]: https://pkg.go.dev/github.com/matzehuels/seqdia/pkg/render/sketch
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/seqdia/pkg/render/nodelink
// [engine]: https://pkg.go.dev/github.com/matzehuels/seqdia/pkg/engine
// [codec]: https://pkg.go.dev/github.com/matzehuels/seqdia/pkg/codec
// [editor]: https://pkg.go.dev/github.com/matzehuels/seqdia/pkg/editor
// [editor/headless]: https://pkg.go.dev/github.com/matzehuels/seqdia/pkg/editor/headless
// [cache]: https://pkg.go.dev/github.com/matzehuels/seqdia/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/seqdia/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/seqdia/pkg/observability
// [fonts]: https://pkg.go.dev/github.com/matzehuels/seqdia/pkg/fonts
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/seqdia/pkg/buildinfo
package pkg
