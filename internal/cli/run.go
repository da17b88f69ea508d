package cli

import (
	"github.com/spf13/cobra"

	"github.com/runoshun/pep723-loader/internal/app"
	"github.com/runoshun/pep723-loader/internal/usecase"
)

// newRunCommand creates the run command.
func newRunCommand(c *app.Container) *cobra.Command {
	var python string
	var system bool

	cmd := &cobra.Command{
		Use:   "run [flags] TOOL [ARGS...]",
		Short: "Install dependencies of scripts in ARGS, then run TOOL",
		Long: `Install the inline dependencies of every existing .py file among ARGS,
then run TOOL with ARGS and exit with its exit status.

Flags must come before TOOL; everything after it is passed to the tool.`,
		Example: `  pep723-loader run mypy --strict tool.py
  pep723-loader run --system pyright tool.py`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := c.RunToolUseCase()
			_, err := uc.Execute(cmd.Context(), usecase.RunToolInput{
				Command: args,
				Python:  python,
				System:  system,
				Streams: streams(cmd),
			})
			return err
		},
	}

	// Stop flag parsing at TOOL so its own flags pass through.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVarP(&python, "python", "p", "", "Interpreter to install into (passed to uv --python)")
	cmd.Flags().BoolVar(&system, "system", false, "Install into the system interpreter")

	return cmd
}
