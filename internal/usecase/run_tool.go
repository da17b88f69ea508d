package usecase

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/runoshun/pep723-loader/internal/domain"
)

// RunToolInput contains the parameters for running a tool against scripts.
// Fields are ordered to minimize memory padding.
type RunToolInput struct {
	Streams domain.Streams // Streams attached to uv and the tool
	Python  string         // Forwarded to the dependency install
	Command []string       // Tool and its arguments (required)
	System  bool           // Forwarded to the dependency install
}

// RunToolOutput contains the result of running a tool.
type RunToolOutput struct {
	Install *InstallDepsOutput // nil when no argument named a Python script
}

// RunTool installs the dependencies of every script named on a tool's
// command line, then runs the tool.
type RunTool struct {
	install  *InstallDeps
	executor domain.CommandExecutor
	logger   domain.Logger
}

// NewRunTool creates a new RunTool use case.
func NewRunTool(install *InstallDeps, executor domain.CommandExecutor, logger domain.Logger) *RunTool {
	return &RunTool{
		install:  install,
		executor: executor,
		logger:   logger,
	}
}

// Execute runs the tool and returns a *domain.ExitError when it exits non-zero.
func (uc *RunTool) Execute(ctx context.Context, in RunToolInput) (*RunToolOutput, error) {
	if len(in.Command) == 0 {
		return nil, domain.ErrEmptyCommand
	}

	out := &RunToolOutput{}
	if scripts := scriptArgs(in.Command[1:]); len(scripts) > 0 {
		installed, err := uc.install.Execute(ctx, InstallDepsInput{
			Scripts: scripts,
			Python:  in.Python,
			System:  in.System,
			Streams: in.Streams,
		})
		if err != nil {
			return nil, err
		}
		out.Install = installed
	}

	cmd := domain.NewCommand(in.Command[0], in.Command[1:], "")
	uc.logger.Debug("run", cmd.String())
	code, err := uc.executor.Run(ctx, cmd, in.Streams)
	if err != nil {
		return out, fmt.Errorf("run %s: %w", in.Command[0], err)
	}
	if code != 0 {
		return out, &domain.ExitError{Command: in.Command[0], Code: code}
	}
	return out, nil
}

// scriptArgs returns the arguments that name existing .py files.
func scriptArgs(args []string) []string {
	var scripts []string
	for _, a := range args {
		if !strings.HasSuffix(a, ".py") {
			continue
		}
		if info, err := os.Stat(a); err == nil && info.Mode().IsRegular() {
			scripts = append(scripts, a)
		}
	}
	return scripts
}
