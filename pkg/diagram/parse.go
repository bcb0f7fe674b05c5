package diagram

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ParseError describes the first problem found in diagram source.
type ParseError struct {
	Line    int // 1-based
	Column  int // 1-based, counted in characters
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// Parse parses diagram source. An empty or comment-only source yields an
// empty document.
func Parse(src string) (*Document, error) {
	src = strings.TrimPrefix(src, "\ufeff")

	doc := &Document{}
	titled := false
	for i, raw := range strings.Split(src, "\n") {
		s := &scanner{text: strings.TrimSuffix(raw, "\r"), line: i + 1}
		st, err := s.statement()
		if err != nil {
			return nil, err
		}
		if st == nil {
			continue
		}
		if t, ok := st.(*Title); ok && !titled {
			doc.Title = t.Text
			titled = true
		}
		doc.Statements = append(doc.Statements, st)
	}
	return doc, nil
}

// scanner walks a single source line.
type scanner struct {
	text string
	pos  int
	line int
}

func (s *scanner) errorf(format string, args ...any) *ParseError {
	return &ParseError{
		Line:    s.line,
		Column:  utf8.RuneCountInString(s.text[:s.pos]) + 1,
		Message: fmt.Sprintf(format, args...),
	}
}

func (s *scanner) eof() bool { return s.pos >= len(s.text) }

func (s *scanner) peek() rune {
	if s.eof() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.text[s.pos:])
	return r
}

func (s *scanner) skipSpace() {
	for !s.eof() {
		r, n := utf8.DecodeRuneInString(s.text[s.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		s.pos += n
	}
}

// keyword consumes word if it appears at the current position followed by
// a space, a colon or the end of the line. Matching ignores case.
func (s *scanner) keyword(word string) bool {
	end := s.pos + len(word)
	if end > len(s.text) || !strings.EqualFold(s.text[s.pos:end], word) {
		return false
	}
	if end < len(s.text) {
		r, _ := utf8.DecodeRuneInString(s.text[end:])
		if !unicode.IsSpace(r) && r != ':' && r != '"' {
			return false
		}
	}
	s.pos = end
	return true
}

func (s *scanner) statement() (Statement, error) {
	s.skipSpace()
	if s.eof() || s.peek() == '#' {
		return nil, nil
	}
	p := pos{line: s.line}
	start := s.pos

	for _, k := range []struct {
		word  string
		parse func(pos) (Statement, error)
	}{
		{"title", s.title},
		{"participant", s.participant},
		{"note", s.note},
	} {
		if !s.keyword(k.word) {
			continue
		}
		// A keyword is also a valid actor name. Whichever reading fails
		// first gives way to the other; the keyword's error wins when
		// neither fits.
		if s.arrowAhead() {
			s.pos = start
			if st, err := s.signal(p); err == nil {
				return st, nil
			}
			s.keyword(k.word)
		}
		st, err := k.parse(p)
		if err == nil {
			return st, nil
		}
		s.pos = start
		if sig, serr := s.signal(p); serr == nil {
			return sig, nil
		}
		return nil, err
	}
	return s.signal(p)
}

// arrowAhead reports whether the next token starts an arrow.
func (s *scanner) arrowAhead() bool {
	at := s.pos
	s.skipSpace()
	rest := s.text[s.pos:]
	s.pos = at
	return strings.HasPrefix(rest, "-") || strings.HasPrefix(rest, "→")
}

func (s *scanner) title(p pos) (Statement, error) {
	s.skipSpace()
	if s.peek() == ':' {
		s.pos++
	}
	text := strings.TrimSpace(s.text[s.pos:])
	if text == "" {
		return nil, s.errorf("title text expected")
	}
	return &Title{pos: p, Text: unescape(text)}, nil
}

func (s *scanner) participant(p pos) (Statement, error) {
	name, err := s.actor(true)
	if err != nil {
		return nil, err
	}
	st := &Participant{pos: p, Name: name}

	s.skipSpace()
	if s.keyword("as") {
		display, err := s.actor(false)
		if err != nil {
			return nil, err
		}
		st.Display = display
	}

	s.skipSpace()
	if !s.eof() {
		return nil, s.errorf("unexpected %q after participant", s.peek())
	}
	return st, nil
}

func (s *scanner) note(p pos) (Statement, error) {
	st := &Note{pos: p}

	s.skipSpace()
	switch {
	case s.keyword("left"):
		st.Placement = LeftOf
	case s.keyword("right"):
		st.Placement = RightOf
	case s.keyword("over"):
		st.Placement = Over
	default:
		return nil, s.errorf("expected left of, right of or over")
	}
	if st.Placement != Over {
		s.skipSpace()
		if !s.keyword("of") {
			return nil, s.errorf("expected of after %s", strings.Fields(st.Placement.String())[0])
		}
	}

	first, err := s.actor(false)
	if err != nil {
		return nil, err
	}
	st.Actors = []string{first}

	s.skipSpace()
	if s.peek() == ',' {
		if st.Placement != Over {
			return nil, s.errorf("only notes over actors can span two actors")
		}
		s.pos++
		second, err := s.actor(false)
		if err != nil {
			return nil, err
		}
		st.Actors = append(st.Actors, second)
	}

	msg, err := s.message()
	if err != nil {
		return nil, err
	}
	st.Message = msg
	return st, nil
}

func (s *scanner) signal(p pos) (Statement, error) {
	from, err := s.actor(false)
	if err != nil {
		return nil, err
	}
	s.skipSpace()
	stroke, arrow, err := s.arrow()
	if err != nil {
		return nil, err
	}
	to, err := s.actor(false)
	if err != nil {
		return nil, err
	}
	msg, err := s.message()
	if err != nil {
		return nil, err
	}
	return &Signal{pos: p, From: from, To: to, Stroke: stroke, Arrow: arrow, Message: msg}, nil
}

func (s *scanner) arrow() (LineType, ArrowType, error) {
	start := s.pos
	if strings.HasPrefix(s.text[s.pos:], "→") {
		s.pos += len("→")
		return Solid, FilledArrow, nil
	}

	dashes := 0
	for s.peek() == '-' {
		dashes++
		s.pos++
	}
	heads := 0
	for s.peek() == '>' {
		heads++
		s.pos++
	}

	if dashes == 0 {
		return 0, 0, s.errorf("expected arrow (-, --, ->, -->, ->> or -->>)")
	}
	if dashes > 2 || heads > 2 {
		s.pos = start
		return 0, 0, s.errorf("unknown arrow %q", strings.Repeat("-", dashes)+strings.Repeat(">", heads))
	}

	stroke := Solid
	if dashes == 2 {
		stroke = Dotted
	}
	arrow := NoArrow
	switch heads {
	case 1:
		arrow = FilledArrow
	case 2:
		arrow = OpenArrow
	}
	return stroke, arrow, nil
}

// actor reads a quoted or bare actor name. Bare names end at the characters
// that start an arrow or a message. In a participant declaration a bare name
// also ends before a standalone "as".
func (s *scanner) actor(declaration bool) (string, error) {
	s.skipSpace()
	if s.peek() == '"' {
		return s.quoted()
	}

	start := s.pos
	end := s.pos
	for !s.eof() {
		r, n := utf8.DecodeRuneInString(s.text[s.pos:])
		if r == '-' || r == '>' || r == ':' || r == ',' || r == '→' {
			break
		}
		if declaration && unicode.IsSpace(r) {
			save := s.pos
			s.skipSpace()
			if s.keyword("as") {
				s.pos = save
				break
			}
			s.pos = save
		}
		s.pos += n
		if !unicode.IsSpace(r) {
			end = s.pos
		}
	}
	s.pos = end

	name := s.text[start:end]
	if name == "" {
		return "", s.errorf("actor name expected")
	}
	return name, nil
}

func (s *scanner) quoted() (string, error) {
	open := s.pos
	s.pos++ // opening quote

	var b strings.Builder
	for !s.eof() {
		r, n := utf8.DecodeRuneInString(s.text[s.pos:])
		s.pos += n
		switch r {
		case '\\':
			if s.peek() == '"' || s.peek() == '\\' {
				b.WriteRune(s.peek())
				s.pos++
				continue
			}
			b.WriteRune(r)
		case '"':
			if b.Len() == 0 {
				s.pos = open
				return "", s.errorf("empty actor name")
			}
			return b.String(), nil
		default:
			b.WriteRune(r)
		}
	}
	s.pos = open
	return "", s.errorf("unterminated quoted actor name")
}

func (s *scanner) message() (string, error) {
	s.skipSpace()
	if s.peek() != ':' {
		if s.eof() {
			return "", s.errorf("expected ':' followed by a message")
		}
		return "", s.errorf("unexpected %q, expected ':'", s.peek())
	}
	s.pos++
	return unescape(strings.TrimSpace(s.text[s.pos:])), nil
}

// unescape turns the two characters \n into a line break.
func unescape(text string) string {
	return strings.ReplaceAll(text, `\n`, "\n")
}
