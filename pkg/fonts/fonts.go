// Package fonts names the CSS font stacks used by the SVG renderers.
//
// Nothing is embedded: a stack lists families in order of preference and
// the viewer picks the first one it has installed.
package fonts

import "strings"

// Hand is the handwriting stack used by the sketch view.
const Hand = `'xkcd Script', 'Comic Neue', 'Comic Sans MS', 'Bradley Hand', cursive`

// Sans is the plain stack, used when a hand-drawn look is not wanted.
const Sans = `Helvetica, Arial, sans-serif`

// Stack returns the font stack registered under name ("hand" or "sans").
// Any other name is treated as a literal family list and returned as is.
func Stack(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "hand", "":
		return Hand
	case "sans":
		return Sans
	}
	return name
}
