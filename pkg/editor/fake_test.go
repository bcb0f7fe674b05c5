package editor_test

import (
	"context"
	"strings"
	"sync"

	"github.com/matzehuels/seqdia/pkg/diagram"
	"github.com/matzehuels/seqdia/pkg/editor"
)

// fakeEngine renders "<svg>text</svg>" and encodes "/t/text". Text containing
// "bad" fails with a parse error on line 3.
type fakeEngine struct {
	mu      sync.Mutex
	renders []string
	decodes []string

	renderFn func(text string) (editor.Rendered, error)
	decodeFn func(fragment string) (editor.Loaded, error)
}

func svgOf(text string) string   { return "<svg>" + text + "</svg>" }
func tokenOf(text string) string { return "/t/" + text }

func (f *fakeEngine) RenderAndEncode(_ context.Context, text string) (editor.Rendered, error) {
	f.mu.Lock()
	f.renders = append(f.renders, text)
	fn := f.renderFn
	f.mu.Unlock()

	if fn != nil {
		return fn(text)
	}
	if strings.Contains(text, "bad") {
		return editor.Rendered{}, &diagram.ParseError{Line: 3, Column: 1, Message: "unexpected token"}
	}
	return editor.Rendered{Token: tokenOf(text), SVG: svgOf(text)}, nil
}

func (f *fakeEngine) Decode(_ context.Context, fragment string) (editor.Loaded, error) {
	f.mu.Lock()
	f.decodes = append(f.decodes, fragment)
	fn := f.decodeFn
	f.mu.Unlock()

	if fn != nil {
		return fn(fragment)
	}
	text := strings.TrimPrefix(fragment, "/t/")
	return editor.Loaded{Text: text, SVG: svgOf(text)}, nil
}

func (f *fakeEngine) calls() (renders, decodes int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.renders), len(f.decodes)
}
