// Package render groups the diagram renderers.
//
// Two views are provided:
//
//   - [sketch]: the sequence diagram itself, drawn as SVG with a hand-drawn
//     wobble. This is the view the editor shows.
//   - [nodelink]: the actors as a directed graph, one edge per signal,
//     rendered through Graphviz to DOT, SVG or PNG.
//
//	l := layout.Compute(doc)
//	svg := sketch.Render(l, sketch.WithRoughness(0))
//
//	dot := nodelink.ToDOT(doc, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [sketch]: https://pkg.go.dev/github.com/matzehuels/seqdia/pkg/render/sketch
// [nodelink]: https://pkg.go.dev/github.com/matzehuels/seqdia/pkg/render/nodelink
package render
