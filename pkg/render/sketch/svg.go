package sketch

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/seqdia/pkg/diagram"
	"github.com/matzehuels/seqdia/pkg/diagram/layout"
	"github.com/matzehuels/seqdia/pkg/fonts"
)

const markerDefs = `<defs>
<marker id="arrowblock" viewBox="0 0 5 5" markerWidth="5" markerHeight="5" orient="auto" refX="5" refY="2.5"><path d="M 0 0 L 5 2.5 L 0 5 z"/></marker>
<marker id="arrowopen" viewBox="0 0 9.6 16" markerWidth="4" markerHeight="16" orient="auto" refX="9.6" refY="8"><path d="M 9.6,8 1.92,16 0,13.7 5.76,8 0,2.286 1.92,0 9.6,8 z"/></marker>
</defs>
`

// DefaultRoughness is the wobble applied when no option overrides it.
const DefaultRoughness = 1.0

// Option configures Render.
type Option func(*renderer)

type renderer struct {
	background string
	fontFamily string
	stroke     string
	roughness  float64
}

func WithBackground(color string) Option  { return func(r *renderer) { r.background = color } }
func WithFontFamily(family string) Option { return func(r *renderer) { r.fontFamily = family } }
func WithStroke(color string) Option      { return func(r *renderer) { r.stroke = color } }

// WithRoughness scales the wobble. Zero draws straight lines.
func WithRoughness(f float64) Option {
	return func(r *renderer) { r.roughness = math.Max(0, f) }
}

// Render draws l as an SVG document.
func Render(l *layout.Layout, opts ...Option) []byte {
	r := renderer{
		fontFamily: fonts.Hand,
		stroke:     "#000",
		roughness:  DefaultRoughness,
	}
	for _, opt := range opts {
		opt(&r)
	}
	w := newWobbler(r.roughness)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s" version="1.1">`+"\n",
		num(l.Width), num(l.Height), num(l.Width), num(l.Height))
	if l.Title != nil {
		buf.WriteString("<title>")
		escape(&buf, l.Title.Label.Text)
		buf.WriteString("</title>\n")
	}
	buf.WriteString(markerDefs)
	fmt.Fprintf(&buf, `<g fill="none" stroke="%s" stroke-width="2px" font-family="%s" font-size="%spx">`+"\n",
		attr(r.stroke), attr(r.fontFamily), num(layout.FontSize))

	if r.background != "" {
		fmt.Fprintf(&buf, `<rect x="0" y="0" width="%s" height="%s" fill="%s" stroke="none"/>`+"\n",
			num(l.Width), num(l.Height), attr(r.background))
	}

	if l.Title != nil {
		r.box(&buf, w, *l.Title)
	}
	for _, c := range l.Columns {
		r.box(&buf, w, c.Top)
		r.box(&buf, w, c.Bottom)
		r.path(&buf, w.line(c.Center, c.LifelineTop, c.Center, c.LifelineBottom), "", false)
	}
	for _, s := range l.Signals {
		r.signal(&buf, w, s)
	}
	for _, n := range l.Notes {
		r.note(&buf, w, n)
	}

	buf.WriteString("</g>\n</svg>\n")
	return buf.Bytes()
}

func (r *renderer) box(buf *bytes.Buffer, w *wobbler, b layout.Box) {
	rc := b.Rect
	r.path(buf, w.rect(rc.X, rc.Y, rc.W, rc.H), "", false)
	r.text(buf, b.Label)
}

func (r *renderer) signal(buf *bytes.Buffer, w *wobbler, s layout.SignalRow) {
	marker := ""
	switch s.Signal.Arrow {
	case diagram.FilledArrow:
		marker = "arrowblock"
	case diagram.OpenArrow:
		marker = "arrowopen"
	}
	dotted := s.Signal.Stroke == diagram.Dotted

	r.labelBackground(buf, s.Label)
	r.text(buf, s.Label)

	if s.Signal.Self() {
		d := w.polyline(s.X1, s.Y1, s.X2, s.Y1, s.X2, s.Y2, s.X1, s.Y2)
		r.path(buf, d, marker, dotted)
		return
	}
	r.path(buf, w.line(s.X1, s.Y1, s.X2, s.Y2), marker, dotted)
}

func (r *renderer) note(buf *bytes.Buffer, w *wobbler, n layout.NoteRow) {
	rc := n.Box.Rect
	fmt.Fprintf(buf, `<rect x="%s" y="%s" width="%s" height="%s" fill="#fffde7" stroke="none"/>`+"\n",
		num(rc.X), num(rc.Y), num(rc.W), num(rc.H))
	r.box(buf, w, n.Box)
}

func (r *renderer) path(buf *bytes.Buffer, d, marker string, dotted bool) {
	fmt.Fprintf(buf, `<path d="%s"`, d)
	if marker != "" {
		fmt.Fprintf(buf, ` marker-end="url(#%s)"`, marker)
	}
	if dotted {
		buf.WriteString(` stroke-dasharray="6px,2px"`)
	}
	buf.WriteString("/>\n")
}

func (r *renderer) labelBackground(buf *bytes.Buffer, l layout.Label) {
	if l.Text == "" {
		return
	}
	b := l.Bounds()
	fmt.Fprintf(buf, `<rect x="%s" y="%s" width="%s" height="%s" fill="#fff" fill-opacity="0.7" stroke="none"/>`+"\n",
		num(b.X), num(b.Y), num(b.W), num(b.H))
}

func (r *renderer) text(buf *bytes.Buffer, l layout.Label) {
	if l.Text == "" {
		return
	}
	anchor := "start"
	switch l.Anchor {
	case layout.Middle:
		anchor = "middle"
	case layout.End:
		anchor = "end"
	}
	fmt.Fprintf(buf, `<text x="%s" y="%s" text-anchor="%s" fill="%s" stroke="none">`,
		num(l.X), num(l.Y), anchor, attr(r.stroke))
	for _, line := range strings.Split(l.Text, "\n") {
		fmt.Fprintf(buf, `<tspan x="%s" dy="%s">`, num(l.X), num(layout.LineHeight))
		escape(buf, line)
		buf.WriteString("</tspan>")
	}
	buf.WriteString("</text>\n")
}

// num formats a coordinate with at most one decimal.
func num(f float64) string {
	f = math.Round(f*10) / 10
	if f == 0 {
		f = 0 // normalise -0
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func escape(buf *bytes.Buffer, s string) {
	_ = xml.EscapeText(buf, []byte(s))
}

func attr(s string) string {
	var b bytes.Buffer
	escape(&b, s)
	return b.String()
}
