package editor

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/seqdia/pkg/diagram"
	perrors "github.com/matzehuels/seqdia/pkg/errors"
)

// ErrInitialized is returned by a second call to Initialize.
var ErrInitialized = errors.New("editor: controller already initialized")

// ErrNotInitialized is returned by OnChange before Initialize.
var ErrNotInitialized = errors.New("editor: controller not initialized")

// LoadFailurePrefix starts the diagnostic shown when the fragment captured at
// page load cannot be decoded.
const LoadFailurePrefix = "cannot load shared diagram: "

// Controller keeps the editor, the diagram panel and the URL fragment in sync.
// It is safe to call OnChange from several goroutines; events are applied one
// at a time and stale events are dropped.
type Controller struct {
	engine Engine
	page   Page
	logger *log.Logger

	editor      Editor
	pipeline    *Pipeline
	diagnostics *DiagnosticRenderer

	mu          sync.Mutex
	initialized bool
	stamp       atomic.Uint64 // last stamp handed out
	applied     uint64        // stamp of the last event processed; guarded by mu
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger for debug output. The default discards logs.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// New returns a controller. Nothing happens until Initialize.
func New(engine Engine, page Page, opts ...Option) *Controller {
	c := &Controller{
		engine:   engine,
		page:     page,
		logger:   log.New(io.Discard),
		pipeline: NewPipeline(engine, page),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize mounts the editor, loads the diagram stored in the URL fragment
// if there is one, and starts listening for edits. Change events delivered
// through the editor's listener run with ctx.
//
// A fragment that cannot be loaded leaves the editor usable: the error is
// shown as a diagnostic and also returned for logging.
func (c *Controller) Initialize(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return ErrInitialized
	}
	c.initialized = true

	c.editor = c.page.MountEditor(EditorOptions{LineNumbers: true, LineWrapping: true})
	c.diagnostics = NewDiagnosticRenderer(c.editor)

	var err error
	if fragment := c.page.Hash(); fragment != "" {
		err = c.load(ctx, fragment)
	}

	c.editor.OnChange(func(string) {
		if err := c.edited(ctx); err != nil {
			c.logger.Debug("render failed", "err", err)
		}
	})
	return err
}

func (c *Controller) load(ctx context.Context, fragment string) error {
	var loaded Loaded
	err := safely(func() (err error) {
		loaded, err = c.engine.Decode(ctx, fragment)
		return err
	})
	if err == nil {
		c.editor.SetValue(loaded.Text)
		c.page.SetOutput(loaded.SVG)
		c.logger.Debug("loaded shared diagram", "bytes", len(loaded.Text))
		return nil
	}

	if loaded.Text != "" {
		c.editor.SetValue(loaded.Text)
	}
	c.page.SetClass(IncompleteClass, true)

	var pe *diagram.ParseError
	d := DiagnosticFor(err)
	if !errors.As(err, &pe) {
		d = Diagnostic{Message: LoadFailurePrefix + perrors.UserMessage(err)}
	}
	c.diagnostics.Apply([]Diagnostic{d})
	return err
}

// OnChange renders text, the editor content at the time of the change, and
// applies the outcome. On failure the render error is returned after every
// UI update has been made; callers only log it.
func (c *Controller) OnChange(ctx context.Context, text string) error {
	return c.change(ctx, c.stamp.Add(1), func() string { return text })
}

// edited handles an edit reported by the mounted editor. The document is read
// from the editor once the event holds the lock, so the text rendered last is
// never older than the editor's content when its event was stamped.
func (c *Controller) edited(ctx context.Context) error {
	return c.change(ctx, c.stamp.Add(1), func() string { return c.editor.Value() })
}

func (c *Controller) change(ctx context.Context, stamp uint64, document func() string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return ErrNotInitialized
	}
	if stamp < c.applied {
		c.logger.Debug("dropped stale change", "stamp", stamp, "applied", c.applied)
		return nil
	}
	c.applied = stamp
	text := document()

	start := time.Now()
	out := c.pipeline.Render(ctx, text)
	if !out.OK() {
		c.diagnostics.Apply(out.Diagnostics)
		return out.Err
	}

	c.page.SetOutput(out.SVG)
	c.page.ReplaceHash(out.Token)
	c.diagnostics.Apply(nil)
	c.logger.Debug("rendered", "bytes", len(text), "svg", len(out.SVG), "duration", time.Since(start))
	return nil
}

// Diagnostics returns the widgets currently showing diagnostics.
func (c *Controller) Diagnostics() []Widget {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.diagnostics == nil {
		return nil
	}
	return c.diagnostics.Widgets()
}

// Editor returns the mounted editor, or nil before Initialize.
func (c *Controller) Editor() Editor {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editor
}
