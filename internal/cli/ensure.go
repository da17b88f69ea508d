package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/pep723-loader/internal/app"
	"github.com/runoshun/pep723-loader/internal/usecase"
)

// newEnsureCommand creates the ensure command.
func newEnsureCommand(c *app.Container) *cobra.Command {
	var reinstall bool

	cmd := &cobra.Command{
		Use:   "ensure",
		Short: "Make sure uv is available",
		Long: `Locate uv (configured path, PATH, then the managed install directory)
and install it from GitHub releases when it is missing or older than
uv.min_version. Prints where uv was found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.EnsureUVUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.EnsureUVInput{Reinstall: reinstall})
			if err != nil {
				return err
			}

			version := out.UV.Version
			if version == "" {
				version = "unknown"
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(w, field("path", out.UV.Path))
			_, _ = fmt.Fprintln(w, field("version", version))
			_, _ = fmt.Fprintln(w, field("source", string(out.UV.Source)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&reinstall, "reinstall", false, "Install uv into the managed directory even if one is present")

	return cmd
}
