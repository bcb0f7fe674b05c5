//go:build js && wasm

package wasmhost

import (
	"errors"
	"strings"
	"syscall/js"

	"github.com/matzehuels/seqdia/pkg/editor"
)

// Page is the editor page in the current document: a textarea for the
// source and an <output> element for the diagram.
type Page struct {
	window   js.Value
	document js.Value
	textarea js.Value
	output   js.Value
}

// NewPage finds the page elements in the global document.
func NewPage() (*Page, error) {
	window := js.Global()
	document := window.Get("document")
	p := &Page{
		window:   window,
		document: document,
		textarea: document.Call("querySelector", "textarea"),
		output:   document.Call("querySelector", "output"),
	}
	if p.textarea.IsNull() || p.output.IsNull() {
		return nil, errors.New("wasmhost: page needs a textarea and an output element")
	}
	if window.Get("CodeMirror").IsUndefined() {
		return nil, errors.New("wasmhost: CodeMirror is not loaded")
	}
	return p, nil
}

// MountEditor replaces the textarea with a CodeMirror editor.
func (p *Page) MountEditor(opts editor.EditorOptions) editor.Editor {
	cm := p.window.Get("CodeMirror").Call("fromTextArea", p.textarea, map[string]any{
		"lineNumbers":  opts.LineNumbers,
		"lineWrapping": opts.LineWrapping,
	})
	return newEditor(cm, p.document)
}

// Hash returns location.hash without the leading '#'.
func (p *Page) Hash() string {
	return strings.TrimPrefix(p.window.Get("location").Get("hash").String(), "#")
}

// ReplaceHash sets the fragment without adding a history entry.
func (p *Page) ReplaceHash(token string) {
	p.window.Get("history").Call("replaceState", js.Null(), "", "#"+token)
}

func (p *Page) SetOutput(svg string) {
	p.output.Set("innerHTML", svg)
}

func (p *Page) SetClass(name string, on bool) {
	p.document.Get("body").Get("classList").Call("toggle", name, on)
}

var _ editor.Page = (*Page)(nil)
