package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Palette shared by the commands and the edit view.
var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorLink   = lipgloss.Color("75")
	colorText   = lipgloss.Color("255")
	colorLabel  = lipgloss.Color("245")
	colorMuted  = lipgloss.Color("240")
)

var (
	styleLink  = lipgloss.NewStyle().Foreground(colorLink).Underline(true)
	styleMuted = lipgloss.NewStyle().Foreground(colorMuted)
	styleText  = lipgloss.NewStyle().Foreground(colorText)
	styleLabel = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleSpin  = lipgloss.NewStyle().Foreground(colorAccent)
	styleFail  = lipgloss.NewStyle().Foreground(colorFail)
)

const arrowMark = "→"

// status is the outcome a line of output reports.
type status int

const (
	statusOK status = iota
	statusFail
	statusWarn
	statusInfo
)

var statusMarks = [...]struct {
	glyph string
	color lipgloss.Color
}{
	statusOK:   {"✓", colorOK},
	statusFail: {"✗", colorFail},
	statusWarn: {"!", colorWarn},
	statusInfo: {"›", colorLabel},
}

// mark is the unstyled glyph, for callers that style the whole row.
func (s status) mark() string { return statusMarks[s].glyph }

// line prefixes msg with the colored glyph of s.
func (s status) line(msg string) string {
	m := statusMarks[s]
	return lipgloss.NewStyle().Foreground(m.color).Render(m.glyph) + " " + msg
}

// diagnosticLine formats one parse error. "check" prints it with a
// file:line:column location and the edit view lists it per editor line.
func diagnosticLine(loc, msg string) string {
	return statusFail.line(styleMuted.Render(loc+":") + " " + styleFail.Render(msg))
}

func printStatus(s status, format string, args ...any) {
	fmt.Println(s.line(fmt.Sprintf(format, args...)))
}

func printDetail(format string, args ...any) {
	fmt.Println("  " + styleMuted.Render(fmt.Sprintf(format, args...)))
}

// printWritten lists a file a command produced.
func printWritten(path string) {
	fmt.Println("  " + styleMuted.Render(arrowMark) + " " + styleText.Render(path))
}

func printField(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + styleText.Render(value))
}
