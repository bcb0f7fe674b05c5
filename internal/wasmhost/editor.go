//go:build js && wasm

package wasmhost

import (
	"syscall/js"

	"github.com/matzehuels/seqdia/pkg/editor"
)

// pendingChanges bounds change events queued while a render runs.
const pendingChanges = 64

// Widget is a CodeMirror line widget handle.
type Widget struct {
	line   int
	handle js.Value
}

func (w *Widget) Line() int { return w.line }

// Editor wraps a CodeMirror instance.
//
// Change events are queued from the CodeMirror callback and delivered to
// listeners one at a time on a separate goroutine, so a render never runs
// inside a JavaScript callback.
type Editor struct {
	cm       js.Value
	document js.Value

	setting   bool
	listeners []func(string)
	changes   chan string
	funcs     []js.Func
}

func newEditor(cm, document js.Value) *Editor {
	return &Editor{cm: cm, document: document}
}

func (e *Editor) Value() string {
	return e.cm.Call("getValue").String()
}

// SetValue replaces the text without notifying listeners.
func (e *Editor) SetValue(text string) {
	e.setting = true
	defer func() { e.setting = false }()
	e.cm.Call("setValue", text)
}

func (e *Editor) OnChange(fn func(text string)) {
	e.listeners = append(e.listeners, fn)
	if e.changes != nil {
		return
	}

	e.changes = make(chan string, pendingChanges)
	cb := js.FuncOf(func(js.Value, []js.Value) any {
		if e.setting {
			return nil
		}
		text := e.Value()
		select {
		case e.changes <- text:
		default:
			// Queue full: drop the oldest edit, the newest text wins.
			select {
			case <-e.changes:
			default:
			}
			e.changes <- text
		}
		return nil
	})
	e.funcs = append(e.funcs, cb)
	e.cm.Call("on", "change", cb)
	go e.deliver()
}

func (e *Editor) deliver() {
	for text := range e.changes {
		for _, fn := range e.listeners {
			fn(text)
		}
	}
}

// Batch runs fn inside a CodeMirror operation so the editor redraws once.
func (e *Editor) Batch(fn func()) {
	cb := js.FuncOf(func(js.Value, []js.Value) any {
		fn()
		return nil
	})
	defer cb.Release()
	e.cm.Call("operation", cb)
}

func (e *Editor) AddLineWidget(line int, message string, opts editor.WidgetOptions) editor.Widget {
	node := e.document.Call("createElement", "div")
	pre := e.document.Call("createElement", "pre")
	pre.Set("className", "error-msg")
	pre.Set("textContent", message)
	node.Call("appendChild", pre)

	h := e.cm.Call("addLineWidget", line, node, map[string]any{
		"coverGutter": opts.CoverGutter,
		"noHScroll":   opts.NoHScroll,
	})
	return &Widget{line: line, handle: h}
}

func (e *Editor) RemoveLineWidget(w editor.Widget) {
	if cw, ok := w.(*Widget); ok {
		e.cm.Call("removeLineWidget", cw.handle)
	}
}

var _ editor.Editor = (*Editor)(nil)
