package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/seqdia/pkg/cache"
	"github.com/matzehuels/seqdia/pkg/codec"
	"github.com/matzehuels/seqdia/pkg/diagram"
	perrors "github.com/matzehuels/seqdia/pkg/errors"
)

func countingView(calls *atomic.Int32) View {
	return func(_ context.Context, doc *diagram.Document, format string) ([]byte, error) {
		calls.Add(1)
		return []byte(format + ":" + doc.Title), nil
	}
}

func TestGenerate(t *testing.T) {
	e := New()
	svg, err := e.Generate(context.Background(), "title Hello\nA -> B: hi")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.HasPrefix(svg, "<svg") || !strings.Contains(svg, "<title>Hello</title>") {
		t.Errorf("Generate() = %.120s", svg)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	src := "A -> B: one\nB -->> C: two"
	a, _ := New().Generate(context.Background(), src)
	b, _ := New().Generate(context.Background(), src)
	if a != b {
		t.Error("separate engines should render identical output")
	}
}

func TestRenderErrors(t *testing.T) {
	ctx := context.Background()
	e := New(WithMaxSize(64))

	tests := []struct {
		name   string
		text   string
		view   string
		format string
		code   perrors.Code
	}{
		{"parse error", "A -> : x", ViewSketch, FormatSVG, perrors.ErrCodeParse},
		{"unknown view", "A -> B: x", "gantt", FormatSVG, perrors.ErrCodeInvalidView},
		{"unsupported format", "A -> B: x", ViewSketch, "png", perrors.ErrCodeUnsupported},
		{"too large", strings.Repeat("x", 65), ViewSketch, FormatSVG, perrors.ErrCodeTooLarge},
		{"invalid utf8", "A -> B: \xff", ViewSketch, FormatSVG, perrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Render(ctx, tt.text, tt.view, tt.format)
			if code := perrors.GetCode(err); code != tt.code {
				t.Errorf("Render() error = %v, want code %s", err, tt.code)
			}
		})
	}

	_, err := e.Render(ctx, "A -> : x", ViewSketch, FormatSVG)
	var pe *diagram.ParseError
	if !errors.As(err, &pe) || pe.Line != 1 {
		t.Errorf("parse failure should wrap *diagram.ParseError, got %v", err)
	}
}

func TestRenderCaches(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32
	e := New(WithCache(cache.NewMemoryCache(16)), WithView("count", countingView(&calls)))

	for range 3 {
		out, err := e.Render(ctx, "title T", "count", "svg")
		if err != nil {
			t.Fatal(err)
		}
		if string(out) != "svg:T" {
			t.Errorf("Render() = %q", out)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("view ran %d times, want 1", n)
	}

	if _, err := e.Render(ctx, "title T", "count", "png"); err != nil {
		t.Fatal(err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("a different format should miss the cache, view ran %d times", n)
	}
}

func TestRenderDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	var calls atomic.Int32
	fail := true
	e := New(WithCache(cache.NewMemoryCache(16)), WithView("flaky", func(context.Context, *diagram.Document, string) ([]byte, error) {
		calls.Add(1)
		if fail {
			return nil, errors.New("transient")
		}
		return []byte("ok"), nil
	}))

	if _, err := e.Render(ctx, "A -> B: x", "flaky", "svg"); err == nil {
		t.Fatal("first render should fail")
	}
	fail = false
	out, err := e.Render(ctx, "A -> B: x", "flaky", "svg")
	if err != nil || string(out) != "ok" {
		t.Fatalf("second render = %q, %v", out, err)
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("view ran %d times, want 2", n)
	}
}

func TestRenderCoalesces(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	e := New(WithCache(cache.NewMemoryCache(16)), WithView("slow", func(context.Context, *diagram.Document, string) ([]byte, error) {
		calls.Add(1)
		once.Do(func() { close(started) })
		<-release
		return []byte("done"), nil
	}))

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := e.Render(context.Background(), "A -> B: x", "slow", "svg")
			if err == nil && string(out) != "done" {
				err = errors.New("unexpected output " + string(out))
			}
			errs <- err
		}()
	}

	<-started
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Error(err)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("view ran %d times for concurrent identical requests, want 1", n)
	}
}

func TestRenderContextCanceled(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	e := New(WithView("stuck", func(context.Context, *diagram.Document, string) ([]byte, error) {
		<-release
		return nil, nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := e.Render(ctx, "A -> B: x", "stuck", "svg"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Render() error = %v, want deadline exceeded", err)
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	e := New()

	docs := []string{
		"",
		"A→B: hello",
		"title Order\nparticipant C as \"Customer\"\nC -> Shop: order\nShop -->> C: receipt\\nthanks\nnote over C, Shop: done",
	}
	for _, doc := range docs {
		r, err := e.RenderAndEncode(ctx, doc)
		if err != nil {
			t.Fatalf("RenderAndEncode(%q): %v", doc, err)
		}
		if r.Token != codec.Encode(doc) {
			t.Errorf("token = %q, want codec.Encode", r.Token)
		}

		loaded, err := e.Decode(ctx, "#"+r.Token)
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if loaded.Text != doc {
			t.Errorf("Decode().Text = %q, want %q", loaded.Text, doc)
		}
		direct, _ := e.Generate(ctx, doc)
		if loaded.SVG != direct || r.SVG != direct {
			t.Error("decoded diagram differs from rendering the document directly")
		}
	}
}

func TestDecodeErrors(t *testing.T) {
	ctx := context.Background()
	e := New()

	loaded, err := e.Decode(ctx, "/v1/!!")
	if !perrors.Is(err, perrors.ErrCodeInvalidFragment) {
		t.Errorf("Decode(garbage) error = %v", err)
	}
	if loaded.Text != "" || loaded.SVG != "" {
		t.Errorf("Decode(garbage) = %+v, want zero", loaded)
	}

	loaded, err = e.Decode(ctx, codec.Encode("A ->"))
	if !perrors.Is(err, perrors.ErrCodeParse) {
		t.Errorf("Decode(unparseable) error = %v", err)
	}
	if loaded.Text != "A ->" || loaded.SVG != "" {
		t.Errorf("Decode(unparseable) = %+v, want the text without svg", loaded)
	}
}
