package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seqdia/pkg/codec"
)

// System clipboard access, replaced in tests.
var (
	copyToClipboard    = clipboard.WriteAll
	pasteFromClipboard = clipboard.ReadAll
)

// encodeCommand creates the encode command, which prints the share fragment
// for a diagram file.
func (c *CLI) encodeCommand() *cobra.Command {
	var (
		baseURL string
		copyURL bool
	)

	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Print the share fragment of a diagram",
		Long: `Print the URL fragment that stores a diagram.

Opening the editor with this fragment restores the diagram. With --url, or
when [server] base_url is configured, a complete share link is printed.
Reads standard input when the file is - or omitted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "-"
			if len(args) == 1 {
				input = args[0]
			}
			src, err := readSource(input, cmd.InOrStdin())
			if err != nil {
				return err
			}

			if baseURL == "" {
				cfg, err := c.config()
				if err != nil {
					return err
				}
				baseURL = cfg.Server.BaseURL
			}
			link := shareLink(baseURL, codec.Encode(src))
			fmt.Fprintln(cmd.OutOrStdout(), link)
			if copyURL {
				if err := copyToClipboard(link); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				loggerFromContext(cmd.Context()).Debug("share link copied", "bytes", len(link))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "", "editor URL to prefix the fragment with")
	cmd.Flags().BoolVar(&copyURL, "copy", false, "also copy the link to the clipboard")
	return cmd
}

// decodeCommand creates the decode command, which prints the diagram stored
// in a share fragment or link.
func (c *CLI) decodeCommand() *cobra.Command {
	var (
		output string
		paste  bool
	)

	cmd := &cobra.Command{
		Use:   "decode <fragment|url>",
		Short: "Print the diagram stored in a share fragment",
		Long: `Print the diagram stored in a share fragment or link.

With --paste the link is read from the clipboard instead of the arguments.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if paste {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.ExactArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var link string
			if paste {
				var err error
				if link, err = pasteFromClipboard(); err != nil {
					return fmt.Errorf("read clipboard: %w", err)
				}
			} else {
				link = args[0]
			}
			text, err := codec.Decode(fragmentOf(link))
			if err != nil {
				return err
			}
			if output == "" {
				_, err = io.WriteString(cmd.OutOrStdout(), text)
				return err
			}
			if err := os.WriteFile(output, []byte(text), 0644); err != nil {
				return err
			}
			printStatus(statusOK, "Decoded %d bytes", len(text))
			printWritten(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the diagram to a file")
	cmd.Flags().BoolVar(&paste, "paste", false, "read the link from the clipboard")
	return cmd
}

// readSource reads a diagram file, or r when path is "-".
func readSource(path string, r io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(r)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// shareLink joins an editor URL and a fragment. Without a URL the bare
// fragment is returned.
func shareLink(baseURL, fragment string) string {
	if baseURL == "" {
		return fragment
	}
	return strings.TrimSuffix(baseURL, "/") + "/#" + fragment
}

// fragmentOf extracts the fragment from a share link. Anything without a
// '#' is taken to be a fragment already.
func fragmentOf(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '#'); i >= 0 {
		return s[i+1:]
	}
	return s
}
