package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/pep723-loader/internal/app"
	"github.com/runoshun/pep723-loader/internal/usecase"
)

// Output formats for inspect.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// newInspectCommand creates the inspect command.
func newInspectCommand(c *app.Container) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect SCRIPT",
		Short: "Show a script's inline metadata",
		Long: `Print the decoded "# /// script" block of SCRIPT: requires-python,
dependencies and the [tool] table. uv is not needed.`,
		Example: `  pep723-loader inspect tool.py
  pep723-loader inspect --format json tool.py`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case formatText, formatJSON, formatYAML:
			default:
				return fmt.Errorf("invalid --format %q: must be text, json or yaml", format)
			}

			uc := c.InspectScriptUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InspectScriptInput{Path: args[0]})
			if err != nil {
				return err
			}

			return writeMetadata(cmd.OutOrStdout(), out, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "Output format (text, json, yaml)")

	return cmd
}

func writeMetadata(w io.Writer, out *usecase.InspectScriptOutput, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		// A script without metadata is reported as null.
		return enc.Encode(out.Metadata)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(out.Metadata); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	if out.Metadata == nil {
		_, _ = fmt.Fprintf(w, "%s: %s\n", out.Path, Styles.Muted.Render("no inline script metadata"))
		return nil
	}

	m := out.Metadata
	_, _ = fmt.Fprintln(w, field("script", m.Path))
	if m.RequiresPython != "" {
		_, _ = fmt.Fprintln(w, field("requires-python", m.RequiresPython))
	}
	if len(m.Dependencies) == 0 {
		_, _ = fmt.Fprintln(w, field("dependencies", Styles.Muted.Render("(none)")))
	} else {
		_, _ = fmt.Fprintln(w, field("dependencies", ""))
		for _, dep := range m.Dependencies {
			_, _ = fmt.Fprintf(w, "  - %s\n", dep)
		}
	}
	if len(m.Tool) > 0 {
		tools := make([]string, 0, len(m.Tool))
		for name := range m.Tool {
			tools = append(tools, name)
		}
		sort.Strings(tools)
		_, _ = fmt.Fprintln(w, field("tool", strings.Join(tools, ", ")))
	}
	return nil
}
