// Package layout computes the geometry of a sequence diagram.
//
// [Compute] places the title, one column per actor, and one row per signal or
// note. Columns are spaced so that every label fits between the lifelines it
// spans: each signal and note contributes a minimum distance between two
// actor centers, and a single left-to-right pass moves every actor just far
// enough to satisfy the constraints that end at it.
//
// All coordinates are in SVG user units with the origin at the top left.
// The result depends only on the document, so identical sources always
// produce identical layouts.
package layout

import (
	"math"

	"github.com/matzehuels/seqdia/pkg/diagram"
)

// Spacing in user units.
const (
	DiagramMargin = 10.0

	ActorMargin  = 10.0
	ActorPadding = 10.0

	SignalMargin  = 10.0
	SignalPadding = 10.0

	NoteMargin  = 10.0
	NotePadding = 5.0
	NoteOverlap = 15.0

	TitlePadding = 5.0

	SelfSignalWidth = 20.0
)

// Anchor is the horizontal alignment of a label relative to its X.
type Anchor int

const (
	Start Anchor = iota
	Middle
	End
)

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, W, H float64
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Label is positioned text. Y is the top of the first line.
type Label struct {
	Text   string
	X, Y   float64
	Anchor Anchor
	Size   Size
}

// Bounds returns the rectangle covered by the label's text.
func (l Label) Bounds() Rect {
	x := l.X
	switch l.Anchor {
	case Middle:
		x -= l.Size.W / 2
	case End:
		x -= l.Size.W
	}
	return Rect{X: x, Y: l.Y, W: l.Size.W, H: l.Size.H}
}

// Box is a framed label.
type Box struct {
	Rect  Rect
	Label Label
}

// Column is one actor: a box at the top, a lifeline, and a box at the bottom.
type Column struct {
	Actor          diagram.Actor
	Center         float64
	Top, Bottom    Box
	LifelineTop    float64
	LifelineBottom float64
}

// SignalRow is a drawn signal. For a signal between two actors the line runs
// from (X1, Y1) to (X2, Y2) with Y1 == Y2. For a self signal the line leaves
// the lifeline at Y1, runs right to X2, down to Y2 and back to X1.
type SignalRow struct {
	Signal *diagram.Signal
	X1, Y1 float64
	X2, Y2 float64
	Label  Label
}

// NoteRow is a drawn note.
type NoteRow struct {
	Note *diagram.Note
	Box  Box
}

// Layout is the computed geometry of a document.
type Layout struct {
	Width, Height float64
	Title         *Box
	Columns       []Column
	Signals       []SignalRow
	Notes         []NoteRow
}

// Compute lays out doc.
func Compute(doc *diagram.Document) *Layout {
	l := &Layout{}
	c := newColumns(doc.Actors())

	top := DiagramMargin
	if doc.Title != "" {
		sz := Measure(doc.Title)
		r := Rect{X: DiagramMargin, Y: DiagramMargin, W: sz.W + 2*TitlePadding, H: sz.H + 2*TitlePadding}
		l.Title = &Box{Rect: r, Label: Label{
			Text: doc.Title, X: r.X + TitlePadding, Y: r.Y + TitlePadding, Anchor: Start, Size: sz,
		}}
		top = r.Bottom() + DiagramMargin
	}

	for _, st := range doc.Statements {
		switch s := st.(type) {
		case *diagram.Signal:
			c.constrainSignal(s)
		case *diagram.Note:
			c.constrainNote(s)
		}
	}
	c.place()

	actorHeight := 0.0
	for _, a := range c.actors {
		actorHeight = math.Max(actorHeight, a.size.H+2*ActorPadding)
	}

	y := top + actorHeight
	for _, st := range doc.Statements {
		switch s := st.(type) {
		case *diagram.Signal:
			row, h := c.signalRow(s, y)
			l.Signals = append(l.Signals, row)
			y += h
		case *diagram.Note:
			row, h := c.noteRow(s, y)
			l.Notes = append(l.Notes, row)
			y += h
		}
	}

	for _, a := range c.actors {
		w := a.size.W + 2*ActorPadding
		box := func(y float64) Box {
			r := Rect{X: a.x, Y: y, W: w, H: actorHeight}
			return Box{Rect: r, Label: Label{
				Text: a.actor.Display, X: a.center(), Y: y + (actorHeight-a.size.H)/2, Anchor: Middle, Size: a.size,
			}}
		}
		l.Columns = append(l.Columns, Column{
			Actor:          a.actor,
			Center:         a.center(),
			Top:            box(top),
			Bottom:         box(y),
			LifelineTop:    top + actorHeight,
			LifelineBottom: y,
		})
	}

	l.Width, l.Height = l.extent()
	if len(c.actors) == 0 {
		l.Height = math.Max(l.Height, top)
	} else {
		l.Height = y + actorHeight + DiagramMargin
	}
	return l
}

// extent returns the smallest width and height that contain every element
// plus the diagram margin.
func (l *Layout) extent() (float64, float64) {
	maxX, maxY := DiagramMargin, DiagramMargin
	grow := func(r Rect) {
		maxX = math.Max(maxX, r.Right())
		maxY = math.Max(maxY, r.Bottom())
	}
	if l.Title != nil {
		grow(l.Title.Rect)
	}
	for _, c := range l.Columns {
		grow(c.Top.Rect)
		grow(c.Bottom.Rect)
	}
	for _, s := range l.Signals {
		grow(s.Label.Bounds())
		grow(Rect{X: math.Max(s.X1, s.X2), Y: s.Y2})
	}
	for _, n := range l.Notes {
		grow(n.Box.Rect)
	}
	return maxX + DiagramMargin, maxY + DiagramMargin
}

type actorCol struct {
	actor diagram.Actor
	size  Size
	x     float64 // left edge of the actor box

	// minCenter is the smallest allowed center, from notes left of the
	// first actor.
	minCenter float64
}

func (a *actorCol) width() float64  { return a.size.W + 2*ActorPadding }
func (a *actorCol) center() float64 { return a.x + a.width()/2 }

// constraint requires center(to) - center(from) >= dist.
type constraint struct {
	from, to int
	dist     float64
}

type columns struct {
	actors      []*actorCol
	index       map[string]int
	constraints []constraint
}

func newColumns(actors []diagram.Actor) *columns {
	c := &columns{index: make(map[string]int, len(actors))}
	for i, a := range actors {
		c.index[a.Name] = i
		c.actors = append(c.actors, &actorCol{actor: a, size: Measure(a.Display)})
	}
	return c
}

// ensure records that the centers of actors i < j must be at least dist
// apart. i may be -1 for the left edge of the diagram. j may be one past the
// last actor, which only widens the diagram and needs no constraint.
func (c *columns) ensure(i, j int, dist float64) {
	if i > j {
		i, j = j, i
	}
	switch {
	case i == j:
		return
	case j >= len(c.actors):
		return
	case i < 0:
		a := c.actors[j]
		a.minCenter = math.Max(a.minCenter, DiagramMargin+dist)
	default:
		c.constraints = append(c.constraints, constraint{from: i, to: j, dist: dist})
	}
}

func (c *columns) constrainSignal(s *diagram.Signal) {
	sz := Measure(s.Message)
	from, to := c.index[s.From], c.index[s.To]
	if from == to {
		c.ensure(from, from+1, SelfSignalWidth+2*SignalPadding+sz.W)
		return
	}
	c.ensure(from, to, sz.W+2*(SignalMargin+SignalPadding))
}

func (c *columns) constrainNote(n *diagram.Note) {
	sz := Measure(n.Message)
	w := sz.W + 2*NotePadding
	a := c.index[n.Actors[0]]

	switch {
	case n.Placement == diagram.LeftOf:
		c.ensure(a-1, a, w+2*NoteMargin)
	case n.Placement == diagram.RightOf:
		c.ensure(a, a+1, w+2*NoteMargin)
	case len(n.Actors) == 2:
		c.ensure(a, c.index[n.Actors[1]], w-2*NoteOverlap)
	default:
		c.ensure(a-1, a, w/2+NoteMargin)
		c.ensure(a, a+1, w/2+NoteMargin)
	}
}

// place assigns x positions left to right. Each actor starts right after its
// predecessor and is pushed further right by every constraint ending at it.
func (c *columns) place() {
	x := DiagramMargin
	for i, a := range c.actors {
		a.x = math.Max(x, a.minCenter-a.width()/2)
		for _, k := range c.constraints {
			if k.to != i {
				continue
			}
			from := c.actors[k.from]
			a.x = math.Max(a.x, from.center()+k.dist-a.width()/2)
		}
		x = a.x + a.width() + ActorMargin
	}
}

func (c *columns) signalRow(s *diagram.Signal, y float64) (SignalRow, float64) {
	sz := Measure(s.Message)
	h := sz.H + 2*(SignalMargin+SignalPadding)
	from := c.actors[c.index[s.From]].center()
	to := c.actors[c.index[s.To]].center()

	if s.Self() {
		x2 := from + SelfSignalWidth
		return SignalRow{
			Signal: s,
			X1:     from,
			Y1:     y + SignalMargin,
			X2:     x2,
			Y2:     y + h - SignalMargin,
			Label: Label{
				Text:   s.Message,
				X:      x2 + SignalPadding,
				Y:      y + SignalMargin + SignalPadding,
				Anchor: Start,
				Size:   sz,
			},
		}, h
	}

	lineY := y + h - SignalMargin
	return SignalRow{
		Signal: s,
		X1:     from,
		Y1:     lineY,
		X2:     to,
		Y2:     lineY,
		Label: Label{
			Text:   s.Message,
			X:      (from + to) / 2,
			Y:      y + SignalMargin,
			Anchor: Middle,
			Size:   sz,
		},
	}, h
}

func (c *columns) noteRow(n *diagram.Note, y float64) (NoteRow, float64) {
	sz := Measure(n.Message)
	r := Rect{Y: y + NoteMargin, W: sz.W + 2*NotePadding, H: sz.H + 2*NotePadding}
	center := c.actors[c.index[n.Actors[0]]].center()

	switch {
	case n.Placement == diagram.LeftOf:
		r.X = center - NoteMargin - r.W
	case n.Placement == diagram.RightOf:
		r.X = center + NoteMargin
	case len(n.Actors) == 2:
		other := c.actors[c.index[n.Actors[1]]].center()
		left := math.Min(center, other) - NoteOverlap
		right := math.Max(center, other) + NoteOverlap
		r.W = math.Max(r.W, right-left)
		r.X = (left+right)/2 - r.W/2
	default:
		r.X = center - r.W/2
	}

	return NoteRow{
		Note: n,
		Box: Box{Rect: r, Label: Label{
			Text: n.Message, X: r.X + NotePadding, Y: r.Y + NotePadding, Anchor: Start, Size: sz,
		}},
	}, r.H + 2*NoteMargin
}
