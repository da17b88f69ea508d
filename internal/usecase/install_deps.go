package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/runoshun/pep723-loader/internal/domain"
)

// InstallDepsInput contains the parameters for installing script dependencies.
// Empty fields fall back to the [install] section of the configuration.
// Fields are ordered to minimize memory padding.
type InstallDepsInput struct {
	Streams   domain.Streams // Streams attached to uv
	Python    string         // Target interpreter (--python)
	Scripts   []string       // Script paths (required)
	ExtraArgs []string       // Appended after the configured extra_args
	System    bool           // Install into the system interpreter (--system)
	Quiet     bool           // Pass --quiet to uv
	DryRun    bool           // Build the commands without running them
}

// ScriptResult describes what was done for a single script.
type ScriptResult struct {
	Metadata *domain.ScriptMetadata // Decoded metadata; nil when the script has none
	Command  *domain.ExecCommand    // uv command; nil when skipped
	Script   string
	Skipped  bool // No script metadata block, nothing to install
}

// InstallDepsOutput contains the result of installing script dependencies.
type InstallDepsOutput struct {
	UV      *domain.UV // Resolved uv; nil when every script was skipped
	Results []ScriptResult
}

// InstallDeps installs the inline dependencies of Python scripts with uv.
type InstallDeps struct {
	reader   domain.MetadataReader
	ensureUV *EnsureUV
	executor domain.CommandExecutor
	logger   domain.Logger
	config   *domain.Config
	getenv   func(string) string
}

// NewInstallDeps creates a new InstallDeps use case.
func NewInstallDeps(
	reader domain.MetadataReader,
	ensureUV *EnsureUV,
	executor domain.CommandExecutor,
	config *domain.Config,
	logger domain.Logger,
) *InstallDeps {
	return &InstallDeps{
		reader:   reader,
		ensureUV: ensureUV,
		executor: executor,
		config:   config,
		logger:   logger,
		getenv:   os.Getenv,
	}
}

// WithGetenv replaces the environment lookup. Used by tests.
func (uc *InstallDeps) WithGetenv(getenv func(string) string) *InstallDeps {
	uc.getenv = getenv
	return uc
}

// Execute validates every script, ensures uv is present, and runs
// `uv pip install --requirements <script>` for each script that declares metadata.
// It stops at the first failing install.
func (uc *InstallDeps) Execute(ctx context.Context, in InstallDepsInput) (*InstallDepsOutput, error) {
	if len(in.Scripts) == 0 {
		return nil, domain.ErrNoScripts
	}

	// Validate all scripts before starting anything.
	results := make([]ScriptResult, 0, len(in.Scripts))
	pending := 0
	for _, script := range in.Scripts {
		meta, err := uc.reader.Read(script)
		if err != nil {
			return nil, err
		}
		result := ScriptResult{Script: script, Metadata: meta, Skipped: meta == nil}
		if meta == nil {
			uc.logger.Info("install", fmt.Sprintf("%s has no script metadata; skipping", script))
		} else {
			pending++
		}
		results = append(results, result)
	}

	out := &InstallDepsOutput{Results: results}
	if pending == 0 {
		return out, nil
	}

	uv, err := uc.resolveUV(ctx, in.DryRun)
	if err != nil {
		return nil, err
	}
	out.UV = uv

	opts := uc.mergeOptions(in)
	if !opts.System && opts.Python == "" && uc.getenv("VIRTUAL_ENV") == "" {
		uc.logger.Warn("install", "no virtual environment is active (VIRTUAL_ENV is unset); uv may refuse to install")
	}

	for i := range out.Results {
		result := &out.Results[i]
		if result.Skipped {
			continue
		}
		result.Command = buildInstallCommand(uv.Path, result.Script, opts)

		if in.DryRun {
			continue
		}

		uc.logger.Debug("install", result.Command.String())
		code, err := uc.executor.Run(ctx, result.Command, in.Streams)
		if err != nil {
			return out, &domain.InstallError{Script: result.Script, ExitCode: code, Err: err}
		}
		if code != 0 {
			return out, &domain.InstallError{Script: result.Script, ExitCode: code}
		}
		uc.logger.Info("install", fmt.Sprintf("installed dependencies for %s", result.Script))
	}

	return out, nil
}

// resolveUV ensures uv is present. A dry run never provisions and falls back
// to the bare executable name when uv is missing.
func (uc *InstallDeps) resolveUV(ctx context.Context, dryRun bool) (*domain.UV, error) {
	ensured, err := uc.ensureUV.Execute(ctx, EnsureUVInput{Offline: dryRun})
	if err == nil {
		return &ensured.UV, nil
	}
	if dryRun && errors.Is(err, domain.ErrUVNotFound) {
		return &domain.UV{Path: domain.UVBinaryName()}, nil
	}
	return nil, err
}

func (uc *InstallDeps) mergeOptions(in InstallDepsInput) domain.InstallConfig {
	cfg := uc.config.Install
	opts := domain.InstallConfig{
		Python: cfg.Python,
		System: cfg.System || in.System,
		Quiet:  cfg.Quiet || in.Quiet,
	}
	if in.Python != "" {
		opts.Python = in.Python
	}
	opts.ExtraArgs = append(append([]string{}, cfg.ExtraArgs...), in.ExtraArgs...)
	return opts
}

// buildInstallCommand returns
// `uv pip install [--python P] [--system] [--quiet] --requirements <script> [extra...]`.
func buildInstallCommand(uvPath, script string, opts domain.InstallConfig) *domain.ExecCommand {
	args := []string{"pip", "install"}
	if opts.Python != "" {
		args = append(args, "--python", opts.Python)
	}
	if opts.System {
		args = append(args, "--system")
	}
	if opts.Quiet {
		args = append(args, "--quiet")
	}
	args = append(args, "--requirements", script)
	args = append(args, opts.ExtraArgs...)
	return domain.NewCommand(uvPath, args, "")
}
