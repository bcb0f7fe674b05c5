package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/seqdia/pkg/editor"
	"github.com/matzehuels/seqdia/pkg/observability"
)

// Message kinds sent by the browser.
const (
	msgInit   = "init"
	msgChange = "change"
)

// clientMessage is one message from the browser. The first message on a
// connection must be init; every later one is change.
type clientMessage struct {
	Type string `json:"type"`
	Hash string `json:"hash,omitempty"`
	Text string `json:"text,omitempty"`
}

// command is one UI change for the browser to apply.
type command struct {
	Op          string    `json:"op"`
	Text        string    `json:"text,omitempty"`
	SVG         string    `json:"svg,omitempty"`
	Hash        string    `json:"hash,omitempty"`
	Name        string    `json:"name,omitempty"`
	On          bool      `json:"on,omitempty"`
	ID          int       `json:"id,omitempty"`
	Line        int       `json:"line,omitempty"`
	Message     string    `json:"message,omitempty"`
	CoverGutter bool      `json:"coverGutter,omitempty"`
	NoHScroll   bool      `json:"noHScroll,omitempty"`
	Commands    []command `json:"commands,omitempty"`
}

// frame is everything the controller did for one client message.
type frame struct {
	Session  string    `json:"session,omitempty"`
	Commands []command `json:"commands"`
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(s.cfg.MaxBody)

	sess := newLiveSession(conn)
	s.sessions.add(sess)
	defer s.sessions.remove(sess.ID)

	ctx := context.WithoutCancel(r.Context())
	logger := s.logger.With("session", sess.ID)
	observability.Session().OnSessionOpen(ctx, sess.ID)

	events, err := s.serveLive(ctx, sess, logger)
	observability.Session().OnSessionClose(ctx, sess.ID, events)

	if err != nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
		logger.Warn("session ended", "err", err, "events", events)
		return
	}
	logger.Debug("session closed", "events", events)
}

// serveLive runs the controller for one connection. Messages are handled
// strictly one after another on this goroutine.
func (s *Server) serveLive(ctx context.Context, sess *liveSession, logger *log.Logger) (int, error) {
	var hello clientMessage
	if err := sess.conn.ReadJSON(&hello); err != nil {
		return 0, err
	}
	if hello.Type != msgInit {
		return 0, errors.New("first message must be init")
	}

	page := newRemotePage(strings.TrimPrefix(hello.Hash, "#"))
	ctrl := editor.New(s.engine, page, editor.WithLogger(logger))

	start := time.Now()
	err := ctrl.Initialize(ctx)
	observability.Session().OnSessionEvent(ctx, sess.ID, msgInit, time.Since(start), err)
	if err != nil {
		logger.Info("shared diagram not loaded", "err", err)
	}
	if err := sess.conn.WriteJSON(frame{Session: sess.ID, Commands: page.flush()}); err != nil {
		return 0, err
	}

	events := 0
	for {
		var msg clientMessage
		if err := sess.conn.ReadJSON(&msg); err != nil {
			return events, err
		}
		if msg.Type != msgChange {
			logger.Warn("ignoring message", "type", msg.Type)
			continue
		}
		events++

		start := time.Now()
		page.editor.value = msg.Text
		err := ctrl.OnChange(ctx, msg.Text)
		observability.Session().OnSessionEvent(ctx, sess.ID, msgChange, time.Since(start), err)

		if err := sess.conn.WriteJSON(frame{Commands: page.flush()}); err != nil {
			return events, err
		}
	}
}

// remotePage records controller calls as commands for the browser.
// It is used from a single goroutine.
type remotePage struct {
	hash    string
	editor  *remoteEditor
	pending []command
	target  *[]command
}

func newRemotePage(hash string) *remotePage {
	p := &remotePage{hash: hash}
	p.target = &p.pending
	return p
}

func (p *remotePage) emit(c command) { *p.target = append(*p.target, c) }

// flush returns and clears the recorded commands.
func (p *remotePage) flush() []command {
	out := p.pending
	p.pending = nil
	p.target = &p.pending
	if out == nil {
		out = []command{}
	}
	return out
}

func (p *remotePage) MountEditor(opts editor.EditorOptions) editor.Editor {
	p.editor = &remoteEditor{page: p}
	return p.editor
}

func (p *remotePage) Hash() string { return p.hash }

func (p *remotePage) ReplaceHash(token string) {
	p.hash = token
	p.emit(command{Op: "replaceHash", Hash: token})
}

func (p *remotePage) SetOutput(svg string) {
	p.emit(command{Op: "setOutput", SVG: svg})
}

func (p *remotePage) SetClass(name string, on bool) {
	p.emit(command{Op: "setClass", Name: name, On: on})
}

type remoteWidget struct {
	id   int
	line int
}

func (w *remoteWidget) Line() int { return w.line }

// remoteEditor mirrors the browser's CodeMirror instance.
type remoteEditor struct {
	page   *remotePage
	value  string
	nextID int
}

func (e *remoteEditor) Value() string { return e.value }

func (e *remoteEditor) SetValue(text string) {
	e.value = text
	e.page.emit(command{Op: "setValue", Text: text})
}

// OnChange does nothing: edits arrive as websocket messages, and the session
// loop hands them to the controller itself so it sees render failures.
func (e *remoteEditor) OnChange(func(text string)) {}

// Batch groups the commands emitted by fn into one batch command, which the
// browser applies inside a single CodeMirror operation.
func (e *remoteEditor) Batch(fn func()) {
	p := e.page
	outer := p.target
	var inner []command
	p.target = &inner
	defer func() {
		p.target = outer
		p.emit(command{Op: "batch", Commands: inner})
	}()
	fn()
}

func (e *remoteEditor) AddLineWidget(line int, message string, opts editor.WidgetOptions) editor.Widget {
	e.nextID++
	w := &remoteWidget{id: e.nextID, line: line}
	e.page.emit(command{
		Op:          "addLineWidget",
		ID:          w.id,
		Line:        line,
		Message:     message,
		CoverGutter: opts.CoverGutter,
		NoHScroll:   opts.NoHScroll,
	})
	return w
}

func (e *remoteEditor) RemoveLineWidget(w editor.Widget) {
	if rw, ok := w.(*remoteWidget); ok {
		e.page.emit(command{Op: "removeLineWidget", ID: rw.id})
	}
}

var (
	_ editor.Page   = (*remotePage)(nil)
	_ editor.Editor = (*remoteEditor)(nil)
)
