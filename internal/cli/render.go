package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/seqdia/pkg/cache"
	"github.com/matzehuels/seqdia/pkg/diagram"
	"github.com/matzehuels/seqdia/pkg/engine"
	"github.com/matzehuels/seqdia/pkg/render/nodelink"
)

// Views registered by the CLI on top of the engine's sketch view.
const (
	ViewNodeLink         = "nodelink"
	ViewNodeLinkDetailed = "nodelink-detailed"
)

// Output formats.
const (
	formatSVG = "svg"
	formatDOT = "dot"
	formatPNG = "png"
)

// validFormats lists the formats each view supports.
var validFormats = map[string][]string{
	engine.ViewSketch:    {formatSVG},
	ViewNodeLink:         {formatSVG, formatDOT, formatPNG},
	ViewNodeLinkDetailed: {formatSVG, formatDOT, formatPNG},
}

// nodeLinkView draws the participant graph with Graphviz.
func nodeLinkView(opts nodelink.Options) engine.View {
	return func(ctx context.Context, doc *diagram.Document, format string) ([]byte, error) {
		dot := nodelink.ToDOT(doc, opts)
		switch format {
		case formatDOT:
			return []byte(dot), nil
		case formatSVG:
			return nodelink.RenderSVG(ctx, dot)
		case formatPNG:
			return nodelink.RenderPNG(ctx, dot)
		default:
			return nil, fmt.Errorf("nodelink: unknown format %q", format)
		}
	}
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string // output file, "-" for stdout, or a directory for several inputs
	view     string // sketch or nodelink
	format   string // svg, dot or png
	detailed bool   // label nodelink edges with messages and draw notes
	jobs     int    // files rendered concurrently
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{view: engine.ViewSketch, format: formatSVG, jobs: runtime.NumCPU()}

	cmd := &cobra.Command{
		Use:   "render [file...]",
		Short: "Render diagram files",
		Long: `Render one or more diagram files.

The sketch view draws the hand-drawn sequence diagram. The nodelink view
draws the participants as a Graphviz graph with one numbered edge per
message, and can also emit the DOT source or a PNG.

Each input is written next to itself with the format as extension unless
-o is given. With several inputs -o names a directory.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.detailed && opts.view == ViewNodeLink {
				opts.view = ViewNodeLinkDetailed
			}
			if err := validateViewFormat(opts.view, opts.format); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout, or directory for several inputs")
	cmd.Flags().StringVar(&opts.view, "view", opts.view, "view: sketch (default), nodelink")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), dot, png")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show messages and notes (nodelink)")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", opts.jobs, "files rendered concurrently")
	completeRenderFlags(cmd)

	return cmd
}

// validateViewFormat checks that view exists and supports format.
func validateViewFormat(view, format string) error {
	formats, ok := validFormats[view]
	if !ok {
		return fmt.Errorf("invalid view: %s (must be 'sketch' or 'nodelink')", view)
	}
	for _, f := range formats {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("view %s cannot produce %s (supported: %s)", view, format, strings.Join(formats, ", "))
}

// outputPath derives where the rendering of input is written.
func outputPath(output, input, format string, many bool) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + "." + format
	switch {
	case output == "":
		return filepath.Join(filepath.Dir(input), name)
	case many:
		return filepath.Join(output, name)
	default:
		return output
	}
}

func (c *CLI) runRender(ctx context.Context, inputs []string, opts renderOpts) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.config()
	if err != nil {
		return err
	}
	eng, store, err := c.newEngine(ctx, cfg, cache.BackendFile)
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}
	defer store.Close()

	many := len(inputs) > 1
	if many && opts.output == "-" {
		return fmt.Errorf("cannot write %d files to stdout", len(inputs))
	}
	if many && opts.output != "" {
		if err := os.MkdirAll(opts.output, 0755); err != nil {
			return err
		}
	}

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d diagram(s)...", len(inputs)))
	if opts.output != "-" {
		spinner.Start()
	}

	paths := make([]string, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.jobs, 1))
	for i, input := range inputs {
		g.Go(func() error {
			src, err := os.ReadFile(input)
			if err != nil {
				return err
			}
			data, err := eng.Render(gctx, string(src), opts.view, opts.format)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}

			if opts.output == "-" {
				_, err = os.Stdout.Write(data)
				return err
			}
			path := outputPath(opts.output, input, opts.format, many)
			if err := os.WriteFile(path, data, 0644); err != nil {
				return err
			}
			logger.Debug("rendered", "input", input, "output", path, "bytes", len(data))
			paths[i] = path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if opts.output != "-" {
			spinner.StopWithError("Render failed")
		}
		return err
	}
	if opts.output == "-" {
		return nil
	}
	spinner.StopWithSuccess(fmt.Sprintf("Rendered %d diagram(s)", len(inputs)))
	for _, p := range paths {
		printWritten(p)
	}
	prog.done("Render complete")
	return nil
}
