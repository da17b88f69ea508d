// Package cli provides the command-line interface for pep723-loader.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/runoshun/pep723-loader/internal/app"
)

// Command group IDs.
const (
	groupDeps  = "deps"
	groupSetup  = "setup"
)

// ContainerFunc builds the container once the persistent flags are parsed.
type ContainerFunc func(opts app.Options) (*app.Container, error)

var logLevels = []string{"debug", "info", "warn", "error"}

// NewRootCommand creates the root command for pep723-loader.
// The container is built by newContainer before any subcommand runs;
// subcommands receive a pointer that is filled in at that point.
func NewRootCommand(newContainer ContainerFunc, version string) *cobra.Command {
	var configPath, logLevel string
	c := &app.Container{}

	root := &cobra.Command{
		Use:   "pep723-loader",
		Short: "Install PEP 723 inline script dependencies with uv",
		Long: `pep723-loader makes sure the uv executable is available, then uses it to
install the dependencies a Python script declares in its inline
"# /// script" metadata block into the active environment.

Wrap a linter or type checker with "run" so it sees the script's dependencies:

  pep723-loader run mypy script.py`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if logLevel != "" && !slices.Contains(logLevels, logLevel) {
				return fmt.Errorf("invalid --log-level %q: must be one of debug, info, warn, error", logLevel)
			}

			built, err := newContainer(app.Options{
				Stderr:     cmd.ErrOrStderr(),
				ConfigPath: configPath,
				LogLevel:   logLevel,
				Version:    version,

				TolerateConfigErrors: cmd.Annotations[annotationTolerateConfig] == "true",
			})
			if err != nil {
				return err
			}
			*c = *built

			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), Styles.Warning.Render("Warning: "+w))
			}
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return c.Close()
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Load this config file after the global and project ones")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddGroup(
		&cobra.Group{ID: groupDeps, Title: "Dependency Commands:"},
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
	)

	installCmd := newInstallCommand(c)
	installCmd.GroupID = groupDeps

	runCmd := newRunCommand(c)
	runCmd.GroupID = groupDeps

	inspectCmd := newInspectCommand(c)
	inspectCmd.GroupID = groupDeps

	ensureCmd := newEnsureCommand(c)
	ensureCmd.GroupID = groupSetup

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	root.AddCommand(installCmd, runCmd, inspectCmd, ensureCmd, configCmd)

	return root
}
