// Package engine turns diagram source into SVG and share tokens.
//
// An [Engine] runs parse → layout → render with caching and implements
// [editor.Engine], so every editor host uses the same rendering path:
//
//	eng := engine.New(engine.WithCache(c), engine.WithLogger(logger))
//	r, err := eng.RenderAndEncode(ctx, "Alice -> Bob: hi")
//	// r.Token is "/v1/...", r.SVG the sketch rendering
//
// Rendered artifacts are cached under the hash of the source text, so a
// cache shared by several processes serves every one of them. Concurrent
// requests for the same artifact are coalesced into a single render. Errors
// are never cached.
//
// Besides the sketch view the engine renders any [View] registered with
// [WithView]; the CLI adds the participant graph this way.
package engine

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/seqdia/pkg/cache"
	"github.com/matzehuels/seqdia/pkg/codec"
	"github.com/matzehuels/seqdia/pkg/diagram"
	"github.com/matzehuels/seqdia/pkg/diagram/layout"
	"github.com/matzehuels/seqdia/pkg/editor"
	perrors "github.com/matzehuels/seqdia/pkg/errors"
	"github.com/matzehuels/seqdia/pkg/observability"
	"github.com/matzehuels/seqdia/pkg/render/sketch"
)

// Views and formats known to every engine.
const (
	ViewSketch = "sketch"
	FormatSVG  = "svg"
)

// View renders a parsed document in one format.
type View func(ctx context.Context, doc *diagram.Document, format string) ([]byte, error)

// Engine renders diagrams with caching. It is safe for concurrent use.
type Engine struct {
	cache   cache.Cache
	keyer   cache.Keyer
	logger  *log.Logger
	ttl     time.Duration
	maxSize int
	views   map[string]View
	sketch  []sketch.Option

	group singleflight.Group
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache sets the artifact cache. The default caches nothing.
func WithCache(c cache.Cache) Option {
	return func(e *Engine) {
		if c != nil {
			e.cache = c
		}
	}
}

// WithKeyer sets the cache key layout.
func WithKeyer(k cache.Keyer) Option {
	return func(e *Engine) {
		if k != nil {
			e.keyer = k
		}
	}
}

// WithLogger sets the logger. The default discards logs.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTTL sets how long rendered artifacts are cached.
func WithTTL(ttl time.Duration) Option {
	return func(e *Engine) { e.ttl = ttl }
}

// WithMaxSize rejects documents larger than n bytes. Zero disables the limit.
func WithMaxSize(n int) Option {
	return func(e *Engine) { e.maxSize = n }
}

// WithView registers a view under name, replacing any view with that name.
func WithView(name string, v View) Option {
	return func(e *Engine) { e.views[name] = v }
}

// WithSketchOptions configures the built-in sketch view.
func WithSketchOptions(opts ...sketch.Option) Option {
	return func(e *Engine) { e.sketch = append(e.sketch, opts...) }
}

// New returns an engine with the sketch view registered.
func New(opts ...Option) *Engine {
	e := &Engine{
		cache:   cache.NewNullCache(),
		keyer:   cache.NewDefaultKeyer(),
		logger:  log.New(io.Discard),
		ttl:     cache.ArtifactTTL,
		maxSize: codec.MaxDocumentSize,
		views:   make(map[string]View),
	}
	e.views[ViewSketch] = e.renderSketch
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Generate renders text as a sketch SVG.
func (e *Engine) Generate(ctx context.Context, text string) (string, error) {
	svg, err := e.Render(ctx, text, ViewSketch, FormatSVG)
	return string(svg), err
}

// Render renders text with the named view in the given format.
// Parse failures carry the PARSE_ERROR code and wrap a *diagram.ParseError.
func (e *Engine) Render(ctx context.Context, text, view, format string) ([]byte, error) {
	v, ok := e.views[view]
	if !ok {
		return nil, perrors.New(perrors.ErrCodeInvalidView, "unknown view %q", view)
	}
	if err := perrors.ValidateDocument(text, e.maxSize); err != nil {
		return nil, err
	}

	key := e.keyer.ArtifactKey(cache.Hash([]byte(text)), cache.ArtifactKeyOpts{Format: format, View: view})
	if data, hit, err := e.cache.Get(ctx, key); err != nil {
		e.logger.Warn("cache read failed", "err", err)
	} else if hit {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	ch := e.group.DoChan(key, func() (any, error) {
		return e.render(context.WithoutCancel(ctx), key, text, v, format)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (e *Engine) render(ctx context.Context, key, text string, v View, format string) ([]byte, error) {
	start := time.Now()
	observability.Engine().OnRenderStart(ctx, len(text))

	out, err := e.build(ctx, text, v, format)
	observability.Engine().OnRenderComplete(ctx, len(out), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	if err := e.cache.Set(ctx, key, out, e.ttl); err != nil {
		e.logger.Warn("cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "artifact", len(out))
	}
	e.logger.Debug("rendered diagram", "format", format, "bytes", len(out), "duration", time.Since(start))
	return out, nil
}

func (e *Engine) build(ctx context.Context, text string, v View, format string) ([]byte, error) {
	doc, err := diagram.Parse(text)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeParse, err, "cannot render diagram")
	}
	return v(ctx, doc, format)
}

func (e *Engine) renderSketch(_ context.Context, doc *diagram.Document, format string) ([]byte, error) {
	if format != FormatSVG {
		return nil, perrors.New(perrors.ErrCodeUnsupported, "sketch view renders svg only, not %q", format)
	}
	return sketch.Render(layout.Compute(doc), e.sketch...), nil
}

// RenderAndEncode renders text and returns it with its share token.
func (e *Engine) RenderAndEncode(ctx context.Context, text string) (editor.Rendered, error) {
	svg, err := e.Generate(ctx, text)
	if err != nil {
		return editor.Rendered{}, err
	}
	return editor.Rendered{Token: codec.Encode(text), SVG: svg}, nil
}

// Decode loads a share token. When the token decodes but the text does not
// render, the text is returned together with the error.
func (e *Engine) Decode(ctx context.Context, fragment string) (editor.Loaded, error) {
	text, err := codec.Decode(fragment)
	observability.Engine().OnDecode(ctx, len(fragment), err)
	if err != nil {
		return editor.Loaded{}, err
	}
	svg, err := e.Generate(ctx, text)
	return editor.Loaded{Text: text, SVG: svg}, err
}

var _ editor.Engine = (*Engine)(nil)
