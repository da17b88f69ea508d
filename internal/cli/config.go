package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/pep723-loader/internal/app"
	"github.com/runoshun/pep723-loader/internal/domain"
	"github.com/runoshun/pep723-loader/internal/usecase"
)

// annotationTolerateConfig marks commands that must work with a broken config file.
const annotationTolerateConfig = "tolerate-config-errors"

// newConfigCommand creates the config command.
func newConfigCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  `Manage pep723-loader configuration files and settings.`,
		// No RunE: shows subcommand list when called without arguments
	}

	// Add subcommands
	cmd.AddCommand(newConfigShowCommand(c))
	cmd.AddCommand(newConfigTemplateCommand())
	cmd.AddCommand(newConfigInitCommand(c))

	return cmd
}

// newConfigShowCommand creates the config show subcommand.
func newConfigShowCommand(c *app.Container) *cobra.Command {
	var ignoreGlobal, ignoreProject, ignoreEnv bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display effective configuration",
		Long: `Display effective configuration after merging all sources.

Shows which config files were loaded and the final merged configuration.
Use --ignore-global, --ignore-project or --ignore-env to exclude specific sources for debugging.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.ShowConfigUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.ShowConfigInput{
				IgnoreGlobal:  ignoreGlobal,
				IgnoreProject: ignoreProject,
				IgnoreEnv:     ignoreEnv,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()

			// Display loaded files section
			_, _ = fmt.Fprintln(w, "[Loaded from]")
			if !ignoreGlobal {
				printConfigSource(cmd, out.GlobalConfig)
			}
			if !ignoreProject {
				printConfigSource(cmd, out.ProjectConfig)
			}
			if out.ExplicitConfig.Path != "" {
				printConfigSource(cmd, out.ExplicitConfig)
			}

			_, _ = fmt.Fprintln(w)

			// Display effective config in TOML format
			_, _ = fmt.Fprintln(w, "[Effective Config]")
			_, _ = fmt.Fprint(w, out.Effective)
			return nil
		},
	}

	cmd.Flags().BoolVar(&ignoreGlobal, "ignore-global", false, "Ignore global configuration")
	cmd.Flags().BoolVar(&ignoreProject, "ignore-project", false, "Ignore project configuration ("+domain.ProjectConfigFileName+")")
	cmd.Flags().BoolVar(&ignoreEnv, "ignore-env", false, "Ignore PEP723_LOADER_* environment variables")

	return cmd
}

func printConfigSource(cmd *cobra.Command, info domain.ConfigInfo) {
	if info.Path == "" {
		return
	}
	if info.Exists {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", info.Path)
		return
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "- %s %s\n", info.Path, Styles.Muted.Render("(not found)"))
}

// newConfigTemplateCommand creates the config template subcommand.
func newConfigTemplateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "template",
		Short: "Output configuration template",
		Long: `Output a configuration file template to stdout.

It does not depend on existing configuration files and will work even if they are broken.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationTolerateConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprint(cmd.OutOrStdout(), domain.ConfigTemplate())
			return nil
		},
	}
}

// newConfigInitCommand creates the config init subcommand.
func newConfigInitCommand(c *app.Container) *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate configuration file template",
		Long: `Generate a configuration file template.

By default, creates the project configuration file ` + domain.ProjectConfigFileName + ` at the
repository root (or the current directory outside a git repository).
With --global, creates the global configuration file at ~/.config/pep723-loader/config.toml.

Error conditions:
- Target file already exists: error`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationTolerateConfig: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.InitConfigUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InitConfigInput{
				Global: global,
			})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Created config file: %s\n", out.Path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Generate global configuration")

	return cmd
}
