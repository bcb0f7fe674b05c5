// Package headless implements an in-memory editor.Page and editor.Editor.
//
// It records everything the controller does so that tests can assert on the
// visible state, and it backs the terminal editor, where the source lives in
// a text area and the "page" is a status panel.
package headless

import (
	"maps"
	"slices"
	"sync"

	"github.com/matzehuels/seqdia/pkg/editor"
)

// Page is an in-memory editor.Page.
type Page struct {
	mu         sync.Mutex
	hash       string
	output     string
	classes    map[string]bool
	editor     *Editor
	hashWrites int
	outWrites  int
}

// NewPage returns a page whose URL fragment is hash, given without '#'.
func NewPage(hash string) *Page {
	return &Page{hash: hash, classes: make(map[string]bool)}
}

// MountEditor implements editor.Page.
func (p *Page) MountEditor(opts editor.EditorOptions) editor.Editor {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.editor = NewEditor(opts)
	return p.editor
}

func (p *Page) Hash() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hash
}

func (p *Page) ReplaceHash(token string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hash = token
	p.hashWrites++
}

func (p *Page) SetOutput(svg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.output = svg
	p.outWrites++
}

func (p *Page) SetClass(name string, on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if on {
		p.classes[name] = true
	} else {
		delete(p.classes, name)
	}
}

// Output returns the diagram panel's markup.
func (p *Page) Output() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.output
}

// HasClass reports whether name is set on the page root.
func (p *Page) HasClass(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.classes[name]
}

// Classes returns the set classes in sorted order.
func (p *Page) Classes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Sorted(maps.Keys(p.classes))
}

// Editor returns the mounted editor, or nil.
func (p *Page) Editor() *Editor {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.editor
}

// Writes returns how often the fragment and the diagram panel were replaced.
func (p *Page) Writes() (hash, output int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hashWrites, p.outWrites
}

// Widget is an attached or detached line widget.
type Widget struct {
	line     int
	Message  string
	Options  editor.WidgetOptions
	attached bool
}

// Line implements editor.Widget.
func (w *Widget) Line() int { return w.line }

// Editor is an in-memory editor.Editor.
type Editor struct {
	Options editor.EditorOptions

	mu        sync.Mutex
	value     string
	listeners []func(string)
	widgets   []*Widget
	depth     int
	flushes   int
	unbatched int
}

// NewEditor returns an empty editor.
func NewEditor(opts editor.EditorOptions) *Editor {
	return &Editor{Options: opts}
}

func (e *Editor) Value() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.value
}

// SetValue replaces the text without notifying listeners.
func (e *Editor) SetValue(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.value = text
}

// Type replaces the text as a user edit would and notifies every listener.
func (e *Editor) Type(text string) {
	e.mu.Lock()
	e.value = text
	listeners := slices.Clone(e.listeners)
	e.mu.Unlock()

	for _, fn := range listeners {
		fn(text)
	}
}

func (e *Editor) OnChange(fn func(text string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// Batch runs fn and counts one flush when the outermost batch ends.
func (e *Editor) Batch(fn func()) {
	e.mu.Lock()
	e.depth++
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.depth--
		if e.depth == 0 {
			e.flushes++
		}
	}()
	fn()
}

func (e *Editor) AddLineWidget(line int, message string, opts editor.WidgetOptions) editor.Widget {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.track()
	w := &Widget{line: line, Message: message, Options: opts, attached: true}
	e.widgets = append(e.widgets, w)
	return w
}

// RemoveLineWidget detaches w. Widgets from another editor are ignored.
func (e *Editor) RemoveLineWidget(w editor.Widget) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.track()
	hw, ok := w.(*Widget)
	if !ok {
		return
	}
	for i, x := range e.widgets {
		if x == hw {
			x.attached = false
			e.widgets = slices.Delete(e.widgets, i, i+1)
			return
		}
	}
}

func (e *Editor) track() {
	if e.depth == 0 {
		e.unbatched++
	}
}

// Widgets returns the attached widgets in attach order.
func (e *Editor) Widgets() []*Widget {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.widgets)
}

// Listeners returns the number of registered change listeners.
func (e *Editor) Listeners() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.listeners)
}

// Flushes returns the number of completed outermost batches.
func (e *Editor) Flushes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.flushes
}

// Unbatched returns the number of widget changes made outside a batch.
func (e *Editor) Unbatched() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.unbatched
}

var (
	_ editor.Page   = (*Page)(nil)
	_ editor.Editor = (*Editor)(nil)
)
