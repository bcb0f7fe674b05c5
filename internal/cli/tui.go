package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/matzehuels/seqdia/pkg/editor"
	"github.com/matzehuels/seqdia/pkg/editor/headless"
)

// Editor styles
var (
	editTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
)

// =============================================================================
// EditModel - Terminal live editor
// =============================================================================

// renderedMsg reports that the controller finished handling an edit.
type renderedMsg struct {
	wrote string // --out file written for this edit, if any
	err   error  // writing --out failed
}

// editModel is the bubbletea model of "seqdia edit". The controller runs on
// an in-memory page; edits are handed to a worker goroutine so typing never
// waits for a render, and only the newest pending edit is rendered.
type editModel struct {
	ctx  context.Context
	page *headless.Page

	input textarea.Model
	path  string // source file saved by ctrl+s
	out   string // SVG file rewritten after each successful render

	submitted string
	edits     chan string
	rendered  chan renderedMsg
	lastOut   string

	notice string
	width  int
}

// newEditModel initializes the controller on page and renders src unless
// the page fragment already supplied the text.
func newEditModel(ctx context.Context, eng editor.Engine, page *headless.Page, path, src, out string) *editModel {
	ctrl := editor.New(eng, page, editor.WithLogger(loggerFromContext(ctx)))
	if err := ctrl.Initialize(ctx); err != nil {
		loggerFromContext(ctx).Debug("initial fragment not loaded", "err", err)
	}

	m := &editModel{
		ctx:      ctx,
		page:     page,
		path:     path,
		out:      out,
		edits:    make(chan string, 1),
		rendered: make(chan renderedMsg),
	}

	if page.Hash() == "" && src != "" {
		m.apply(src)
	}
	m.submitted = page.Editor().Value()

	m.input = textarea.New()
	m.input.ShowLineNumbers = true
	m.input.CharLimit = 0
	m.input.MaxHeight = 0
	m.input.Placeholder = "Alice->Bob: Hello"
	m.input.SetValue(m.submitted)
	m.input.Focus()
	return m
}

// apply types text into the page editor, which renders it through the
// controller, then rewrites the --out file if the diagram changed.
func (m *editModel) apply(text string) renderedMsg {
	m.page.Editor().Type(text)

	var msg renderedMsg
	if m.out == "" || m.page.HasClass(editor.IncompleteClass) {
		return msg
	}
	svg := m.page.Output()
	if svg == "" || svg == m.lastOut {
		return msg
	}
	if err := os.WriteFile(m.out, []byte(svg), 0644); err != nil {
		msg.err = err
		return msg
	}
	m.lastOut = svg
	msg.wrote = m.out
	return msg
}

// work renders submitted edits until ctx ends.
func (m *editModel) work() {
	for {
		select {
		case <-m.ctx.Done():
			return
		case text := <-m.edits:
			msg := m.apply(text)
			select {
			case m.rendered <- msg:
			case <-m.ctx.Done():
				return
			}
		}
	}
}

// submit queues text, replacing an edit that has not been picked up yet.
func (m *editModel) submit(text string) {
	m.submitted = text
	for {
		select {
		case m.edits <- text:
			return
		default:
		}
		select {
		case <-m.edits:
		default:
		}
	}
}

func (m *editModel) waitRendered() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.rendered:
			return msg
		case <-m.ctx.Done():
			return nil
		}
	}
}

func (m *editModel) save() {
	if m.path == "" {
		m.notice = "no file to save to; start with seqdia edit <file>"
		return
	}
	if err := os.WriteFile(m.path, []byte(m.input.Value()), 0644); err != nil {
		m.notice = statusFail.mark() + " " + err.Error()
		return
	}
	m.notice = statusOK.mark() + " saved " + m.path
}

func (m *editModel) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.waitRendered())
}

func (m *editModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "ctrl+s":
			m.save()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.SetWidth(msg.Width)
		m.input.SetHeight(max(msg.Height-8, 3))
	case renderedMsg:
		switch {
		case msg.err != nil:
			m.notice = statusFail.mark() + " " + msg.err.Error()
		case msg.wrote != "":
			m.notice = arrowMark + " wrote " + msg.wrote
		}
		return m, m.waitRendered()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if v := m.input.Value(); v != m.submitted {
		m.submit(v)
	}
	return m, cmd
}

func (m *editModel) View() string {
	var b strings.Builder

	title := "seqdia"
	if m.path != "" {
		title += " " + m.path
	}
	b.WriteString(editTitleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.page.HasClass(editor.IncompleteClass) {
		b.WriteString(statusWarn.line("incomplete"))
	} else if svg := m.page.Output(); svg != "" {
		b.WriteString(statusOK.line(fmt.Sprintf("rendered (%d bytes)", len(svg))))
	}
	b.WriteString("\n")

	for _, w := range m.page.Editor().Widgets() {
		b.WriteString(diagnosticLine(fmt.Sprintf("line %d", w.Line()+1), w.Message))
		b.WriteString("\n")
	}

	if hash := m.page.Hash(); hash != "" {
		width := m.width
		if width <= 0 {
			width = 80
		}
		b.WriteString(styleMuted.Render(runewidth.Truncate("#"+hash, width, "…")))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(m.notice)
		b.WriteString("\n")
	}
	b.WriteString(styleMuted.Render("ctrl+s save  esc quit"))
	return b.String()
}
