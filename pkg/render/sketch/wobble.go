package sketch

import (
	"encoding/binary"
	"hash"
	"hash/fnv"
	"math"
)

// wobbler produces hand-drawn curve segments. Its hash state carries over
// from one segment to the next, so a drawing depends on the order in which
// segments are emitted as well as on their coordinates.
type wobbler struct {
	h         hash.Hash64
	roughness float64
	buf       [8]byte
}

func newWobbler(roughness float64) *wobbler {
	return &wobbler{h: fnv.New64a(), roughness: roughness}
}

func (w *wobbler) feed(f float64) uint64 {
	binary.LittleEndian.PutUint64(w.buf[:], math.Float64bits(f))
	w.h.Write(w.buf[:])
	return w.h.Sum64()
}

// segment returns the path command that continues from (x1, y1) to (x2, y2).
func (w *wobbler) segment(x1, y1, x2, y2 float64) string {
	if w.roughness == 0 {
		return "L" + num(x2) + "," + num(y2)
	}

	factor := math.Hypot(x2-x1, y2-y1) / 25 * w.roughness
	r1 := float64(w.feed(factor)%60)/100 + 0.2
	r2 := float64(w.feed(r1)%60)/100 + 0.2

	xf := factor
	if w.feed(r2)%2 != 0 {
		xf = -factor
	}
	yf := factor
	if w.feed(xf)%2 != 0 {
		yf = -factor
	}
	w.feed(yf)

	p1x := (x2-x1)*r1 + x1 + xf
	p1y := (y2-y1)*r1 + y1 + yf
	p2x := (x2-x1)*r2 + x1 - xf
	p2y := (y2-y1)*r2 + y1 - yf

	return "C" + num(p1x) + "," + num(p1y) + " " + num(p2x) + "," + num(p2y) + " " + num(x2) + "," + num(y2)
}

// line returns a full path from (x1, y1) to (x2, y2).
func (w *wobbler) line(x1, y1, x2, y2 float64) string {
	return "M" + num(x1) + "," + num(y1) + w.segment(x1, y1, x2, y2)
}

// polyline returns a path through the given points, given as x,y pairs.
func (w *wobbler) polyline(pts ...float64) string {
	d := "M" + num(pts[0]) + "," + num(pts[1])
	for i := 2; i+1 < len(pts); i += 2 {
		d += w.segment(pts[i-2], pts[i-1], pts[i], pts[i+1])
	}
	return d
}

// rect returns a closed outline of the rectangle.
func (w *wobbler) rect(x, y, width, height float64) string {
	return w.polyline(
		x, y,
		x+width, y,
		x+width, y+height,
		x, y+height,
		x, y,
	)
}
