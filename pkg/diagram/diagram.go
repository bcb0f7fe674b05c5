package diagram

// LineType is the stroke of a signal.
type LineType int

const (
	// Solid is drawn for a single dash.
	Solid LineType = iota
	// Dotted is drawn for a double dash.
	Dotted
)

// ArrowType is the head at the receiving end of a signal.
type ArrowType int

const (
	NoArrow ArrowType = iota
	FilledArrow
	OpenArrow
)

// Placement positions a note relative to its actors.
type Placement int

const (
	LeftOf Placement = iota
	RightOf
	Over
)

func (p Placement) String() string {
	switch p {
	case LeftOf:
		return "left of"
	case RightOf:
		return "right of"
	default:
		return "over"
	}
}

// Statement is one parsed line.
type Statement interface {
	// Line is the 1-based source line.
	Line() int
	statement()
}

type pos struct{ line int }

func (p pos) Line() int { return p.line }
func (pos) statement()  {}

// Title names the diagram. Only the first title is drawn.
type Title struct {
	pos
	Text string
}

// Participant declares an actor, optionally with a display name.
type Participant struct {
	pos
	Name    string
	Display string
}

// Signal is a message from one actor to another, or to itself.
type Signal struct {
	pos
	From, To string
	Stroke   LineType
	Arrow    ArrowType
	Message  string
}

// Self reports whether the signal starts and ends at the same actor.
func (s *Signal) Self() bool { return s.From == s.To }

// Note is free text attached to one or two actors.
type Note struct {
	pos
	Placement Placement
	Actors    []string
	Message   string
}

// Actor is a lifeline in the diagram.
type Actor struct {
	Name    string
	Display string
}

// Document is a parsed diagram.
type Document struct {
	Title      string
	Statements []Statement
}

// Actors returns every actor in order of first appearance. A participant
// statement that comes after an actor's first use still sets its display
// name.
func (d *Document) Actors() []Actor {
	var actors []Actor
	index := make(map[string]int)
	add := func(name, display string) {
		if i, ok := index[name]; ok {
			if display != "" && actors[i].Display == actors[i].Name {
				actors[i].Display = display
			}
			return
		}
		if display == "" {
			display = name
		}
		index[name] = len(actors)
		actors = append(actors, Actor{Name: name, Display: display})
	}

	for _, st := range d.Statements {
		switch s := st.(type) {
		case *Participant:
			add(s.Name, s.Display)
		case *Signal:
			add(s.From, "")
			add(s.To, "")
		case *Note:
			for _, a := range s.Actors {
				add(a, "")
			}
		}
	}
	return actors
}

// Signals returns the signal statements in source order.
func (d *Document) Signals() []*Signal {
	var out []*Signal
	for _, st := range d.Statements {
		if s, ok := st.(*Signal); ok {
			out = append(out, s)
		}
	}
	return out
}
