package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seqdia/pkg/cache"
	"github.com/matzehuels/seqdia/pkg/editor/headless"
)

// editCommand creates the edit command, the terminal live editor.
func (c *CLI) editCommand() *cobra.Command {
	var out, fragment string

	cmd := &cobra.Command{
		Use:   "edit [file]",
		Short: "Edit a diagram in the terminal with live diagnostics",
		Long: `Edit a diagram in the terminal.

Every change is rendered immediately. Errors are listed under the editor
with their line, and the share fragment of the last good render is shown
below. With --out the SVG file is rewritten after every successful render.

A missing file is created on the first save (ctrl+s).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return c.runEdit(cmd.Context(), path, out, fragment)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "SVG file rewritten after each successful render")
	cmd.Flags().StringVar(&fragment, "fragment", "", "start from a share fragment or link")
	return cmd
}

func (c *CLI) runEdit(ctx context.Context, path, out, fragment string) error {
	src := ""
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		src = string(data)
	}

	cfg, err := c.config()
	if err != nil {
		return err
	}
	eng, store, err := c.newEngine(ctx, cfg, cache.BackendFile)
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	page := headless.NewPage(fragmentOf(fragment))
	m := newEditModel(ctx, eng, page, path, src, out)
	go m.work()

	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}
