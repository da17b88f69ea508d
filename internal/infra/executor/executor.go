// Package executor provides command execution functionality.
package executor

import (
	"context"
	"errors"
	"os"
	"os/exec"

	"github.com/runoshun/pep723-loader/internal/domain"
)

// Client implements domain.CommandExecutor interface.
type Client struct{}

// NewClient creates a new command executor client.
func NewClient() *Client {
	return &Client{}
}

// Ensure Client implements domain.CommandExecutor interface.
var _ domain.CommandExecutor = (*Client)(nil)

// LookPath resolves name against PATH.
func (c *Client) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Output runs the command and returns its combined output.
func (c *Client) Output(ctx context.Context, cmd *domain.ExecCommand) ([]byte, error) {
	return build(ctx, cmd).CombinedOutput()
}

// Run runs a command with the given streams attached.
// A non-zero exit status is returned as exitCode with a nil error.
func (c *Client) Run(ctx context.Context, cmd *domain.ExecCommand, streams domain.Streams) (int, error) {
	execCmd := build(ctx, cmd)
	execCmd.Stdin = streams.Stdin
	execCmd.Stdout = streams.Stdout
	execCmd.Stderr = streams.Stderr

	err := execCmd.Run()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// Killed by a signal, usually because ctx was cancelled.
			if ctxErr := ctx.Err(); ctxErr != nil {
				return code, ctxErr
			}
			return code, err
		}
		return code, nil
	}
	return -1, err
}

func build(ctx context.Context, cmd *domain.ExecCommand) *exec.Cmd {
	// #nosec G204 - cmd.Program and cmd.Args come from trusted UseCase code
	execCmd := exec.CommandContext(ctx, cmd.Program, cmd.Args...)
	if cmd.Dir != "" {
		execCmd.Dir = cmd.Dir
	}
	if len(cmd.Env) > 0 {
		execCmd.Env = append(os.Environ(), cmd.Env...)
	}
	return execCmd
}
