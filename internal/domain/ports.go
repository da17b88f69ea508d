package domain

import (
	"context"
	"io"
)

// Streams bundles the standard streams attached to a child process.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// CommandExecutor runs external programs.
type CommandExecutor interface {
	// LookPath resolves an executable name against PATH.
	LookPath(name string) (string, error)

	// Output runs the command and returns its combined output.
	Output(ctx context.Context, cmd *ExecCommand) ([]byte, error)

	// Run runs the command with the given streams attached and blocks until it exits.
	// A non-zero exit is reported through the exit code, not the error;
	// the error is non-nil only when the process could not be started or waited on.
	Run(ctx context.Context, cmd *ExecCommand, streams Streams) (exitCode int, err error)
}

// ProvisionResult describes a freshly installed uv binary.
type ProvisionResult struct {
	Path    string
	Version string
}

// UVProvisioner downloads and installs uv.
type UVProvisioner interface {
	// Provision installs the requested uv release and returns the binary location.
	Provision(ctx context.Context, req ProvisionRequest) (*ProvisionResult, error)
}

// MetadataReader reads PEP 723 metadata from a script file.
type MetadataReader interface {
	// Read returns the decoded "script" block, or nil if the script has none.
	Read(path string) (*ScriptMetadata, error)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (defaults, global, project, explicit file, environment).
	Load() (*Config, error)

	// LoadWithOptions returns the merged configuration with options to ignore sources.
	LoadWithOptions(opts LoadConfigOptions) (*Config, error)
}

// LoadConfigOptions specifies which sources to skip while loading.
type LoadConfigOptions struct {
	IgnoreGlobal  bool
	IgnoreProject bool
	IgnoreEnv     bool
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	// GetGlobalConfigInfo returns information about the global config file.
	GetGlobalConfigInfo() ConfigInfo

	// GetProjectConfigInfo returns information about the project config file.
	GetProjectConfigInfo() ConfigInfo

	// GetExplicitConfigInfo returns information about the --config file, if any.
	GetExplicitConfigInfo() ConfigInfo

	// InitGlobalConfig writes the config template to the global location.
	InitGlobalConfig() (string, error)

	// InitProjectConfig writes the config template to the project root.
	InitProjectConfig() (string, error)
}

// Logger provides logging functionality.
type Logger interface {
	Debug(category, msg string)
	Info(category, msg string)
	Warn(category, msg string)
	Error(category, msg string)
}

// NopLogger discards every message.
type NopLogger struct{}

func (NopLogger) Debug(string, string) {}
func (NopLogger) Info(string, string)  {}
func (NopLogger) Warn(string, string)  {}
func (NopLogger) Error(string, string) {}
