package domain

import (
	"errors"
	"fmt"
)

// Domain errors.
var (
	ErrSetup               = errors.New("uv setup failed")
	ErrInstall             = errors.New("dependency installation failed")
	ErrUVNotFound          = errors.New("uv executable not found")
	ErrUVTooOld            = errors.New("uv executable is older than the required minimum version")
	ErrScriptNotFound      = errors.New("script not found")
	ErrNotAFile            = errors.New("script path is not a regular file")
	ErrNoScripts           = errors.New("no script specified")
	ErrMultipleBlocks      = errors.New("multiple script metadata blocks found")
	ErrInvalidMetadata     = errors.New("invalid script metadata")
	ErrUnsupportedPlatform = errors.New("no uv release available for this platform")
	ErrConfigExists        = errors.New("config file already exists")
	ErrEmptyCommand        = errors.New("command cannot be empty")
	ErrInvalidVersion      = errors.New("invalid semantic version")
)

// SetupError reports that uv could not be located or provisioned.
// It matches ErrSetup with errors.Is and also unwraps to the underlying cause.
type SetupError struct {
	Err error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("%s: %v", ErrSetup, e.Err)
}

// Unwrap returns both ErrSetup and the cause so either can be matched.
func (e *SetupError) Unwrap() []error {
	return []error{ErrSetup, e.Err}
}

// InstallError reports a non-zero exit from uv while installing a script's dependencies.
// Fields are ordered to minimize memory padding.
type InstallError struct {
	Err      error
	Script   string
	ExitCode int
}

func (e *InstallError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s for %s: %v", ErrInstall, e.Script, e.Err)
	}
	return fmt.Sprintf("%s for %s (exit status %d)", ErrInstall, e.Script, e.ExitCode)
}

// Unwrap returns both ErrInstall and the cause so either can be matched.
func (e *InstallError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInstall}
	}
	return []error{ErrInstall, e.Err}
}

// ExitStatus returns the exit code to propagate to the caller.
func (e *InstallError) ExitStatus() int {
	return e.ExitCode
}

// ExitError carries the exit status of a wrapped tool so main can propagate it.
type ExitError struct {
	Command string
	Code    int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.Code)
}

// ExitStatus returns the exit code to propagate to the caller.
func (e *ExitError) ExitStatus() int {
	return e.Code
}

// ExitStatuser is implemented by errors that carry a process exit code.
type ExitStatuser interface {
	ExitStatus() int
}

// ExitCode returns the process exit code for err.
// nil maps to 0, errors carrying an exit status map to that status, anything else to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var es ExitStatuser
	if errors.As(err, &es) {
		if code := es.ExitStatus(); code > 0 {
			return code
		}
	}
	return 1
}
