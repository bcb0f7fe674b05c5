package nodelink

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/seqdia/pkg/diagram"
)

func mustParse(t *testing.T, src string) *diagram.Document {
	t.Helper()
	doc, err := diagram.Parse(src)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestToDOT_Basic(t *testing.T) {
	doc := mustParse(t, "participant A as Alice\nA -> B: hello\nB --> A: hi")

	dot := ToDOT(doc, Options{})

	for _, want := range []string{
		"digraph G",
		`"A" [label="Alice"]`,
		`"B" [label="B"]`,
		`"A" -> "B" [label="1"]`,
		`"B" -> "A" [label="2", style=dashed]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s\n%s", want, dot)
		}
	}
}

func TestToDOT_Arrows(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"A -> B: x", `[label="1"]`},
		{"A - B: x", `dir=none`},
		{"A ->> B: x", `arrowhead=vee`},
		{"A -->> B: x", `style=dashed, arrowhead=vee`},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if dot := ToDOT(mustParse(t, tt.src), Options{}); !strings.Contains(dot, tt.want) {
				t.Errorf("ToDOT(%q) missing %s\n%s", tt.src, tt.want, dot)
			}
		})
	}
}

func TestToDOT_Detailed(t *testing.T) {
	doc := mustParse(t, "title Login\nA -> B: \"sign in\"\nnote over A, B: handshake")

	plain := ToDOT(doc, Options{})
	if strings.Contains(plain, "sign in") || strings.Contains(plain, "note#") {
		t.Error("non-detailed output should only number edges")
	}

	dot := ToDOT(doc, Options{Detailed: true})
	for _, want := range []string{
		`label="Login"`,
		`label="1. \"sign in\""`,
		`"note#1" [shape=note`,
		`"note#1" -> "A"`,
		`"note#1" -> "B"`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("detailed output missing %s\n%s", want, dot)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	dot := ToDOT(mustParse(t, "A -> B: hello"), Options{Detailed: true})

	svg, err := RenderSVG(context.Background(), dot)
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)) {
		t.Errorf("svg header not normalized: %.200s", svg)
	}
	if !bytes.Contains(svg, []byte("hello")) {
		t.Error("svg missing edge label")
	}
}

func TestRenderInvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), "digraph {"); err == nil {
		t.Error("RenderSVG should fail on invalid DOT")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="116pt" viewBox="0.00 0.00 62.00 116.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 116.00" width="62" height="116"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	noBox := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(noBox); !bytes.Equal(got, noBox) {
		t.Error("svg without viewBox should be unchanged")
	}
}
