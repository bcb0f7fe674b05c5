package editor

import (
	"errors"

	"github.com/matzehuels/seqdia/pkg/diagram"
	perrors "github.com/matzehuels/seqdia/pkg/errors"
)

// Diagnostic is one render problem shown inline in the editor.
type Diagnostic struct {
	Message string `json:"message"`
	Line    int    `json:"line"` // 1-based, 0 when unlocated
}

// LineIndex is the 0-based editor line the diagnostic is shown under.
// Unlocated diagnostics go under the first line.
func (d Diagnostic) LineIndex() int {
	return max(d.Line, 1) - 1
}

// DiagnosticFor describes err as a single diagnostic.
func DiagnosticFor(err error) Diagnostic {
	var pe *diagram.ParseError
	if errors.As(err, &pe) {
		return Diagnostic{Message: pe.Message, Line: pe.Line}
	}
	return Diagnostic{Message: perrors.UserMessage(err)}
}

// DiagnosticRenderer owns the line widgets that show diagnostics.
type DiagnosticRenderer struct {
	editor  Editor
	widgets []Widget
}

// NewDiagnosticRenderer returns a renderer with no widgets attached.
func NewDiagnosticRenderer(ed Editor) *DiagnosticRenderer {
	return &DiagnosticRenderer{editor: ed}
}

// Apply replaces every attached widget with one widget per diagnostic, in
// order, as a single editor batch. An empty list clears all widgets.
func (r *DiagnosticRenderer) Apply(diags []Diagnostic) {
	r.editor.Batch(func() {
		for len(r.widgets) > 0 {
			w := r.widgets[0]
			r.widgets = r.widgets[1:]
			r.editor.RemoveLineWidget(w)
		}
		r.widgets = nil

		opts := WidgetOptions{CoverGutter: true, NoHScroll: true}
		for _, d := range diags {
			r.widgets = append(r.widgets, r.editor.AddLineWidget(d.LineIndex(), d.Message, opts))
		}
	})
}

// Widgets returns the attached widgets in the order they were added.
func (r *DiagnosticRenderer) Widgets() []Widget {
	return append([]Widget(nil), r.widgets...)
}
