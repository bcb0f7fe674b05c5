package editor

import (
	"context"
	"fmt"
)

// Outcome is the result of one render attempt.
type Outcome struct {
	Document    string
	SVG         string
	Token       string
	Diagnostics []Diagnostic
	Err         error
}

// OK reports whether the attempt succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Pipeline runs a single render attempt and marks the page incomplete while
// the diagram panel is behind the source.
type Pipeline struct {
	engine Engine
	page   Page
}

// NewPipeline returns a pipeline rendering through engine.
func NewPipeline(engine Engine, page Page) *Pipeline {
	return &Pipeline{engine: engine, page: page}
}

// Render calls the engine exactly once. Errors and panics from the engine
// become a failed Outcome with exactly one diagnostic; they never escape.
// The incomplete class is set before the call and cleared only on success.
func (p *Pipeline) Render(ctx context.Context, document string) Outcome {
	p.page.SetClass(IncompleteClass, true)

	var r Rendered
	err := safely(func() (err error) {
		r, err = p.engine.RenderAndEncode(ctx, document)
		return err
	})
	if err != nil {
		return Outcome{
			Document:    document,
			Diagnostics: []Diagnostic{DiagnosticFor(err)},
			Err:         err,
		}
	}

	p.page.SetClass(IncompleteClass, false)
	return Outcome{Document: document, SVG: r.SVG, Token: r.Token}
}

// safely runs fn and turns a panic into an error.
func safely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine panic: %v", r)
		}
	}()
	return fn()
}
