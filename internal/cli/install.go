package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/runoshun/pep723-loader/internal/app"
	"github.com/runoshun/pep723-loader/internal/domain"
	"github.com/runoshun/pep723-loader/internal/usecase"
)

// newInstallCommand creates the install command.
func newInstallCommand(c *app.Container) *cobra.Command {
	var opts struct {
		python string
		system bool
		quiet  bool
		dryRun bool
	}

	cmd := &cobra.Command{
		Use:   "install [flags] SCRIPT... [-- UV_ARGS...]",
		Short: "Install a script's inline dependencies",
		Long: `Install the dependencies declared in each script's "# /// script" block
with "uv pip install --requirements SCRIPT".

uv is located or installed first. Scripts without a metadata block are
skipped. Arguments after "--" are passed to uv unchanged.`,
		Example: `  # Install into the active virtual environment
  pep723-loader install tool.py

  # Install into the system interpreter, passing an index URL to uv
  pep723-loader install --system tool.py -- --index-url https://pypi.example/simple`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scripts, extra := splitAtDash(cmd, args)
			if len(scripts) == 0 {
				return domain.ErrNoScripts
			}

			uc := c.InstallDepsUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InstallDepsInput{
				Scripts:   scripts,
				Python:    opts.python,
				ExtraArgs: extra,
				System:    opts.system,
				Quiet:     opts.quiet,
				DryRun:    opts.dryRun,
				Streams:   streams(cmd),
			})
			if out != nil {
				printInstallResults(cmd.OutOrStdout(), cmd.ErrOrStderr(), out, opts.dryRun)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.python, "python", "p", "", "Interpreter to install into (passed to uv --python)")
	cmd.Flags().BoolVar(&opts.system, "system", false, "Install into the system interpreter")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Pass --quiet to uv")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "Print the uv commands without running them")

	return cmd
}

// printInstallResults reports per-script results. Dry-run commands go to
// stdout so they can be piped; status lines go to stderr.
func printInstallResults(stdout, stderr io.Writer, out *usecase.InstallDepsOutput, dryRun bool) {
	for _, r := range out.Results {
		switch {
		case r.Skipped:
			_, _ = fmt.Fprintln(stderr, Styles.Muted.Render(fmt.Sprintf("- %s: no inline script metadata, skipped", r.Script)))
		case dryRun && r.Command != nil:
			_, _ = fmt.Fprintln(stdout, r.Command.String())
		}
	}
}

// splitAtDash separates positional args from those after "--".
func splitAtDash(cmd *cobra.Command, args []string) (before, after []string) {
	dash := cmd.ArgsLenAtDash()
	if dash < 0 {
		return args, nil
	}
	return args[:dash], args[dash:]
}

// streams returns the command's standard streams for child processes.
func streams(cmd *cobra.Command) domain.Streams {
	return domain.Streams{
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	}
}
