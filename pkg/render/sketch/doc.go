// Package sketch draws a laid-out sequence diagram as a hand-drawn SVG.
//
// Every straight edge of the drawing, box outlines included, is replaced by a
// cubic Bézier curve whose control points are nudged off the line. The
// nudges come from an FNV-1a hash that is fed the geometry of each segment
// in drawing order, so the wobble looks random but the same layout always
// yields byte-identical output. That property lets callers cache and
// compare SVG by content.
//
// # Usage
//
//	doc, err := diagram.Parse(src)
//	if err != nil {
//	    return err
//	}
//	svg := sketch.Render(layout.Compute(doc))
//
// Options adjust the paper:
//
//	svg := sketch.Render(l, sketch.WithBackground("#fffef8"), sketch.WithRoughness(0))
//
// A roughness of zero draws straight lines.
package sketch
