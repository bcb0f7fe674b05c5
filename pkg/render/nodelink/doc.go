// Package nodelink renders the participants of a sequence diagram as a
// node-link graph.
//
// Where the sketch view shows messages in time order, this view answers
// "who talks to whom": every actor becomes a box and every signal an edge
// labelled with its position in the conversation. Graphviz computes the
// layout.
//
// # Usage
//
//	dot := nodelink.ToDOT(doc, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// The DOT string can also be written out and processed with external
// Graphviz tools.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process through WebAssembly, so no system installation is needed.
package nodelink
