// Package main is the entry point for the pep723-loader CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/runoshun/pep723-loader/internal/app"
	"github.com/runoshun/pep723-loader/internal/cli"
	"github.com/runoshun/pep723-loader/internal/domain"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run executes the CLI with args and returns the process exit code.
func run(args []string, stderr io.Writer) int {
	// Cancelling the context kills a running uv or tool and aborts downloads.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCommand(app.New, version)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		reportError(stderr, err)
	}
	return domain.ExitCode(err)
}

// reportError prints err unless it only carries the exit status of a
// wrapped tool, which has already written its own diagnostics.
func reportError(w io.Writer, err error) {
	var exitErr *domain.ExitError
	if errors.As(err, &exitErr) {
		return
	}
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
}
