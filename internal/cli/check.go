package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seqdia/pkg/diagram"
)

// checkResult is the outcome of parsing one file.
type checkResult struct {
	path    string
	actors  int
	signals int
	notes   int
	err     error
}

func (r checkResult) location() string {
	var pe *diagram.ParseError
	if errors.As(r.err, &pe) {
		return fmt.Sprintf("%s:%d:%d", r.path, pe.Line, pe.Column)
	}
	return r.path
}

func (r checkResult) message() string {
	var pe *diagram.ParseError
	if errors.As(r.err, &pe) {
		return pe.Message
	}
	return r.err.Error()
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file...]",
		Short: "Report the first error in each diagram",
		Long: `Parse each diagram and report the first error with its line and column.

The command exits with a non-zero status when any file fails to parse.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]checkResult, len(args))
			for i, path := range args {
				results[i] = checkFile(path)
			}

			fmt.Println(checkTable(results))

			failed := 0
			for _, r := range results {
				if r.err != nil {
					failed++
					fmt.Println(diagnosticLine(r.location(), r.message()))
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d diagram(s) have errors", failed, len(results))
			}
			printStatus(statusOK, "All %d diagram(s) are valid", len(results))
			return nil
		},
	}
}

func checkFile(path string) checkResult {
	r := checkResult{path: path}
	src, err := os.ReadFile(path)
	if err != nil {
		r.err = err
		return r
	}
	doc, err := diagram.Parse(string(src))
	if err != nil {
		r.err = err
		return r
	}
	r.actors = len(doc.Actors())
	r.signals = len(doc.Signals())
	for _, st := range doc.Statements {
		if _, ok := st.(*diagram.Note); ok {
			r.notes++
		}
	}
	return r
}

// checkTable renders a summary with one row per file.
func checkTable(results []checkResult) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if r.err != nil {
			rows = append(rows, []string{statusFail.mark(), r.path, "—", "—", "—"})
			continue
		}
		rows = append(rows, []string{
			statusOK.mark(), r.path,
			strconv.Itoa(r.actors), strconv.Itoa(r.signals), strconv.Itoa(r.notes),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorLabel).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMuted)).
		Headers("", "File", "Actors", "Signals", "Notes").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < 0 || row >= len(results) {
				return lipgloss.NewStyle()
			}
			if results[row].err != nil {
				return lipgloss.NewStyle().Foreground(colorFail)
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorOK)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
