package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/seqdia/pkg/codec"
	"github.com/matzehuels/seqdia/pkg/editor"
	"github.com/matzehuels/seqdia/pkg/editor/headless"
	"github.com/matzehuels/seqdia/pkg/engine"
)

func newTestEditModel(t *testing.T, fragment, src, out string) *editModel {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return newEditModel(ctx, engine.New(), headless.NewPage(fragment), "", src, out)
}

func TestEditModelInitialRender(t *testing.T) {
	m := newTestEditModel(t, "", sampleDiagram, "")

	if m.page.Output() == "" {
		t.Fatal("initial source should be rendered")
	}
	if m.input.Value() != sampleDiagram {
		t.Errorf("textarea = %q, want the source", m.input.Value())
	}
	if m.page.Hash() != codec.Encode(sampleDiagram) {
		t.Errorf("hash = %q, want the encoded source", m.page.Hash())
	}

	view := m.View()
	for _, want := range []string{"rendered", "#/v1/"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestEditModelFromFragment(t *testing.T) {
	m := newTestEditModel(t, codec.Encode("A->B: shared\n"), "ignored->x: y\n", "")

	if got := m.input.Value(); got != "A->B: shared\n" {
		t.Errorf("textarea = %q, want the shared text", got)
	}
}

func TestEditModelDiagnostics(t *testing.T) {
	m := newTestEditModel(t, "", sampleDiagram, "")
	good := m.page.Output()

	m.apply("A->B: ok\nA->\n")

	if !m.page.HasClass(editor.IncompleteClass) {
		t.Error("failed render should mark the page incomplete")
	}
	if m.page.Output() != good {
		t.Error("failed render should keep the last good diagram")
	}
	view := m.View()
	for _, want := range []string{"incomplete", "line 2:"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m.apply("A->B: fixed\n")
	if m.page.HasClass(editor.IncompleteClass) || len(m.page.Editor().Widgets()) != 0 {
		t.Error("successful render should clear the diagnostics")
	}
}

func TestEditModelWritesOut(t *testing.T) {
	out := filepath.Join(t.TempDir(), "live.svg")
	m := newTestEditModel(t, "", "", out)

	msg := m.apply("A->B: one\n")
	if msg.wrote != out || msg.err != nil {
		t.Fatalf("apply() = %+v, want a write to %s", msg, out)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<svg") {
		t.Error("--out file is not an SVG")
	}

	if msg := m.apply("A->B: one\n"); msg.wrote != "" {
		t.Error("unchanged diagram should not be rewritten")
	}
	if msg := m.apply("A->"); msg.wrote != "" {
		t.Error("failed render should not write --out")
	}
}

func TestEditModelSubmitKeepsNewest(t *testing.T) {
	m := newTestEditModel(t, "", "", "")

	m.submit("first")
	m.submit("second")
	m.submit("third")

	if got := <-m.edits; got != "third" {
		t.Errorf("pending edit = %q, want third", got)
	}
	select {
	case extra := <-m.edits:
		t.Errorf("unexpected extra edit %q", extra)
	default:
	}
}

func TestEditModelUpdate(t *testing.T) {
	m := newTestEditModel(t, "", "", "")

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("A")})
	if m.submitted != "A" {
		t.Errorf("submitted = %q, want A", m.submitted)
	}
	if got := <-m.edits; got != "A" {
		t.Errorf("queued edit = %q, want A", got)
	}

	_, _ = m.Update(renderedMsg{wrote: "x.svg"})
	if !strings.Contains(m.notice, "x.svg") {
		t.Errorf("notice = %q", m.notice)
	}

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if !strings.Contains(m.notice, "no file") {
		t.Errorf("saving without a path should say so, got %q", m.notice)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc should return tea.Quit")
	}
}

func TestEditModelSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.seq")
	m := newTestEditModel(t, "", sampleDiagram, "")
	m.path = path

	m.save()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != sampleDiagram {
		t.Errorf("saved %q", data)
	}
}
