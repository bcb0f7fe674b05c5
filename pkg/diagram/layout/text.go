package layout

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Typography shared with the renderers.
const (
	FontSize   = 16.0
	LineHeight = FontSize * 1.2

	// glyphWidth is the advance of a single-width character relative to
	// the font size. East Asian wide characters count twice.
	glyphWidth = 0.6
)

// Size is a width and height in user units.
type Size struct {
	W, H float64
}

// Measure estimates the box a possibly multi-line label occupies.
func Measure(text string) Size {
	lines := strings.Split(text, "\n")
	widest := 0
	for _, line := range lines {
		if w := runewidth.StringWidth(line); w > widest {
			widest = w
		}
	}
	return Size{
		W: float64(widest) * FontSize * glyphWidth,
		H: float64(len(lines)) * LineHeight,
	}
}
