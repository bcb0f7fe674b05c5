package sketch

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/seqdia/pkg/diagram"
	"github.com/matzehuels/seqdia/pkg/diagram/layout"
)

func render(t *testing.T, src string, opts ...Option) string {
	t.Helper()
	doc, err := diagram.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return string(Render(layout.Compute(doc), opts...))
}

func TestRenderWellFormed(t *testing.T) {
	svg := render(t, `title <Checkout> & "pay"
participant C as "Customer"
C -> Shop: buy
Shop -->> C: receipt
C - C: hmm
note over C, Shop: done`)

	dec := xml.NewDecoder(strings.NewReader(svg))
	for {
		_, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("invalid XML: %v\n%s", err, svg)
		}
	}
}

func TestRenderElements(t *testing.T) {
	svg := render(t, "title Demo\nA -> B: filled\nA ->> B: open\nA -- B: dotted\nA -> A: self")

	tests := []struct {
		name string
		want string
	}{
		{"svg root", `<svg xmlns="http://www.w3.org/2000/svg"`},
		{"title element", "<title>Demo</title>"},
		{"block marker", `id="arrowblock"`},
		{"open marker", `id="arrowopen"`},
		{"filled arrow used", `marker-end="url(#arrowblock)"`},
		{"open arrow used", `marker-end="url(#arrowopen)"`},
		{"dotted stroke", `stroke-dasharray="6px,2px"`},
		{"message text", ">filled</tspan>"},
		{"actor text", ">A</tspan>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(svg, tt.want) {
				t.Errorf("output does not contain %q", tt.want)
			}
		})
	}
}

func TestRenderEscapesText(t *testing.T) {
	svg := render(t, `A -> B: x < y && "z"`)
	if strings.Contains(svg, "x < y") {
		t.Error("message text should be escaped")
	}
	if !strings.Contains(svg, "x &lt; y &amp;&amp;") {
		t.Errorf("escaped message missing in:\n%s", svg)
	}
}

func TestRenderMultilineLabel(t *testing.T) {
	svg := render(t, `A -> B: first\nsecond`)
	if !strings.Contains(svg, ">first</tspan><tspan") || !strings.Contains(svg, ">second</tspan>") {
		t.Errorf("expected one tspan per line:\n%s", svg)
	}
}

func TestRenderDeterministic(t *testing.T) {
	src := "A -> B: one\nB --> C: two\nnote right of C: n"
	if render(t, src) != render(t, src) {
		t.Error("Render should be deterministic")
	}
}

func TestRenderRoughness(t *testing.T) {
	src := "A -> B: hi"

	for _, d := range pathData(render(t, src, WithRoughness(0))) {
		if strings.Contains(d, "C") {
			t.Errorf("roughness 0 should draw straight segments, got %q", d)
		}
	}

	curved := false
	for _, d := range pathData(render(t, src)) {
		if strings.Contains(d, "C") {
			curved = true
		}
	}
	if !curved {
		t.Error("default roughness should draw curves")
	}
}

// pathData returns the d attribute of every top-level path.
func pathData(svg string) []string {
	var out []string
	for _, line := range strings.Split(svg, "\n") {
		if rest, ok := strings.CutPrefix(line, `<path d="`); ok {
			out = append(out, rest[:strings.IndexByte(rest, '"')])
		}
	}
	return out
}

func TestRenderOptions(t *testing.T) {
	svg := render(t, "A -> B: hi", WithBackground("#fafafa"), WithFontFamily("Comic Neue"), WithStroke("#333"))
	for _, want := range []string{`fill="#fafafa"`, `font-family="Comic Neue"`, `stroke="#333"`} {
		if !strings.Contains(svg, want) {
			t.Errorf("output does not contain %q", want)
		}
	}
}

func TestRenderDefaultFont(t *testing.T) {
	svg := render(t, "A -> B: hi")
	if !strings.Contains(svg, `font-family="&#39;xkcd Script&#39;`) {
		t.Errorf("default font should be the hand stack:\n%s", svg)
	}
}

func TestRenderEmpty(t *testing.T) {
	svg := Render(layout.Compute(&diagram.Document{}))
	if !bytes.HasPrefix(svg, []byte("<svg")) || !bytes.HasSuffix(svg, []byte("</svg>\n")) {
		t.Errorf("empty diagram should still be a complete svg: %s", svg)
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{-0.01, "0"},
		{10, "10"},
		{10.25, "10.3"},
		{-3.14159, "-3.1"},
	}
	for _, tt := range tests {
		if got := num(tt.in); got != tt.want {
			t.Errorf("num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
