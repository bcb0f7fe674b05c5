package editor

import "context"

// IncompleteClass is set on the page while the diagram panel does not show
// the current source.
const IncompleteClass = "incomplete"

// Loaded is the result of decoding a shared fragment.
type Loaded struct {
	Text string
	SVG  string
}

// Rendered is the result of rendering and encoding source text.
type Rendered struct {
	Token string
	SVG   string
}

// Engine renders diagram source and converts it to and from fragment tokens.
//
// Failures that point at a source line should wrap a *diagram.ParseError so
// the controller can place the error under that line.
type Engine interface {
	// Decode loads a fragment captured at page load. When the fragment
	// decodes but the text does not render, implementations return the
	// text in Loaded together with the error.
	Decode(ctx context.Context, fragment string) (Loaded, error)

	// RenderAndEncode renders text and returns the token that restores it.
	RenderAndEncode(ctx context.Context, text string) (Rendered, error)
}

// EditorOptions configures the editor mounted by a Page.
type EditorOptions struct {
	LineNumbers  bool
	LineWrapping bool
}

// WidgetOptions configures an inline line widget.
type WidgetOptions struct {
	// CoverGutter extends the widget under the line number gutter.
	CoverGutter bool
	// NoHScroll keeps the widget from scrolling horizontally with the text.
	NoHScroll bool
}

// Widget is a handle to an attached line widget.
type Widget interface {
	// Line is the 0-based line index the widget was attached to.
	Line() int
}

// Editor is a source editor with line widgets.
type Editor interface {
	Value() string
	SetValue(text string)

	// OnChange registers fn to be called with the full text after every
	// user edit.
	OnChange(fn func(text string))

	// Batch runs fn as one visual update. Implementations must flush their
	// pending changes even when fn panics.
	Batch(fn func())

	AddLineWidget(line int, message string, opts WidgetOptions) Widget
	RemoveLineWidget(w Widget)
}

// Page is the document hosting the editor.
type Page interface {
	// MountEditor creates the editor on the page's source text area.
	MountEditor(opts EditorOptions) Editor

	// Hash returns the URL fragment without its leading '#'.
	Hash() string

	// ReplaceHash sets the URL fragment without navigating or adding a
	// history entry.
	ReplaceHash(token string)

	// SetOutput replaces the diagram panel's markup.
	SetOutput(svg string)

	// SetClass adds or removes a class on the page root.
	SetClass(name string, on bool)
}
