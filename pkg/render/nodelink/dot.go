package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/seqdia/pkg/diagram"
)

// Options configures participant graph generation.
type Options struct {
	// Detailed adds the message text to every edge label and draws notes
	// as note-shaped nodes attached to their actors. When false, edges are
	// labelled with their sequence number only.
	Detailed bool
}

// ToDOT converts a document to Graphviz DOT with one node per actor and one
// edge per signal, numbered in source order. The resulting DOT string can be
// rendered using [RenderSVG] or [RenderPNG].
//
// Dotted signals become dashed edges; signals without an arrow head become
// edges with dir=none; open arrows use the "vee" head.
func ToDOT(doc *diagram.Document, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=11];\n")
	if doc.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", doc.Title)
	}
	buf.WriteString("\n")

	for _, a := range doc.Actors() {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", a.Name, a.Display)
	}

	buf.WriteString("\n")
	notes := 0
	for i, s := range doc.Signals() {
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", s.From, s.To, strings.Join(edgeAttrs(i+1, s, opts.Detailed), ", "))
	}
	if opts.Detailed {
		for _, st := range doc.Statements {
			n, ok := st.(*diagram.Note)
			if !ok {
				continue
			}
			notes++
			id := fmt.Sprintf("note#%d", notes)
			fmt.Fprintf(&buf, "  %q [shape=note, style=filled, fillcolor=\"#fffde7\", label=%q];\n", id, n.Message)
			for _, a := range n.Actors {
				fmt.Fprintf(&buf, "  %q -> %q [style=dotted, dir=none];\n", id, a)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func edgeAttrs(seq int, s *diagram.Signal, detailed bool) []string {
	label := strconv.Itoa(seq)
	if detailed && s.Message != "" {
		label += ". " + s.Message
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if s.Stroke == diagram.Dotted {
		attrs = append(attrs, "style=dashed")
	}
	switch s.Arrow {
	case diagram.NoArrow:
		attrs = append(attrs, "dir=none")
	case diagram.OpenArrow:
		attrs = append(attrs, "arrowhead=vee")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := render(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one whose
// width and height match the viewBox, so the image scales like sketch output.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
