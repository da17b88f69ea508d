// Package app provides the dependency injection container for the application.
package app

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/runoshun/pep723-loader/internal/domain"
	"github.com/runoshun/pep723-loader/internal/infra/config"
	"github.com/runoshun/pep723-loader/internal/infra/executor"
	"github.com/runoshun/pep723-loader/internal/infra/git"
	"github.com/runoshun/pep723-loader/internal/infra/logging"
	"github.com/runoshun/pep723-loader/internal/infra/scriptmeta"
	"github.com/runoshun/pep723-loader/internal/infra/uvinstall"
	"github.com/runoshun/pep723-loader/internal/usecase"
)

// Options holds the values the CLI passes when building the container.
type Options struct {
	Stderr     io.Writer // Console destination for log output
	Dir        string    // Working directory; project root is discovered from here
	ConfigPath string    // --config
	LogLevel   string    // --log-level; overrides [log].level when set
	Version    string    // Reported in the GitHub User-Agent

	// TolerateConfigErrors falls back to defaults when config files fail to load.
	TolerateConfigErrors bool
}

// Paths holds the directories resolved at startup.
type Paths struct {
	WorkingDir  string // Directory the command runs in
	ProjectRoot string // Git work-tree root, or WorkingDir outside a repository
}

// Container provides dependency injection for the application.
// It holds all port implementations and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	Executor      domain.CommandExecutor
	Provisioner   domain.UVProvisioner
	Metadata      domain.MetadataReader
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	Logger        domain.Logger

	// Effective configuration
	AppConfig *domain.Config

	Paths Paths

	closer io.Closer
}

// New creates a new Container for the project containing opts.Dir.
func New(opts Options) (*Container, error) {
	dir := opts.Dir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get current directory: %w", err)
		}
		dir = cwd
	}
	paths := Paths{WorkingDir: dir, ProjectRoot: git.ProjectRoot(dir)}

	configLoader := config.NewLoader(paths.ProjectRoot, opts.ConfigPath)
	appConfig, err := configLoader.Load()
	if err != nil {
		if !opts.TolerateConfigErrors {
			return nil, fmt.Errorf("load config: %w", err)
		}
		appConfig = domain.NewDefaultConfig()
		appConfig.Warnings = append(appConfig.Warnings, fmt.Sprintf("using defaults: %v", err))
	}
	if opts.LogLevel != "" {
		appConfig.Log.Level = opts.LogLevel
	}

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	logger := logging.New(stderr, appConfig.Log.File, logging.ParseLevel(appConfig.Log.Level))

	userAgent := domain.AppName + "/" + opts.Version
	github := uvinstall.NewGitHubClient(
		uvinstall.WithHTTPClient(&http.Client{Timeout: appConfig.UV.Timeout()}),
		uvinstall.WithToken(os.Getenv("GITHUB_TOKEN")),
		uvinstall.WithUserAgent(userAgent),
	)
	provisioner := uvinstall.NewInstaller(
		uvinstall.WithGitHubClient(github),
		uvinstall.WithLogger(logger),
	)

	return &Container{
		Executor:      executor.NewClient(),
		Provisioner:   provisioner,
		Metadata:      scriptmeta.NewReader(),
		ConfigLoader:  configLoader,
		ConfigManager: config.NewManager(paths.ProjectRoot, opts.ConfigPath),
		Logger:        logger,
		AppConfig:     appConfig,
		Paths:         paths,
		closer:        logger,
	}, nil
}

// Deps holds the ports injected by NewWithDeps.
type Deps struct {
	Executor      domain.CommandExecutor
	Provisioner   domain.UVProvisioner
	Metadata      domain.MetadataReader
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	Logger        domain.Logger
	Config        *domain.Config
}

// NewWithDeps creates a new Container with custom dependencies for testing.
func NewWithDeps(deps Deps) *Container {
	cfg := deps.Config
	if cfg == nil {
		cfg = domain.NewDefaultConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = domain.NopLogger{}
	}
	return &Container{
		Executor:      deps.Executor,
		Provisioner:   deps.Provisioner,
		Metadata:      deps.Metadata,
		ConfigLoader:  deps.ConfigLoader,
		ConfigManager: deps.ConfigManager,
		Logger:        logger,
		AppConfig:     cfg,
	}
}

// Close releases resources held by the container, such as the log file.
func (c *Container) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// UseCase factory methods

// EnsureUVUseCase returns a new EnsureUV use case.
func (c *Container) EnsureUVUseCase() *usecase.EnsureUV {
	return usecase.NewEnsureUV(c.Executor, c.Provisioner, c.AppConfig, c.Logger)
}

// InstallDepsUseCase returns a new InstallDeps use case.
func (c *Container) InstallDepsUseCase() *usecase.InstallDeps {
	return usecase.NewInstallDeps(c.Metadata, c.EnsureUVUseCase(), c.Executor, c.AppConfig, c.Logger)
}

// RunToolUseCase returns a new RunTool use case.
func (c *Container) RunToolUseCase() *usecase.RunTool {
	return usecase.NewRunTool(c.InstallDepsUseCase(), c.Executor, c.Logger)
}

// InspectScriptUseCase returns a new InspectScript use case.
func (c *Container) InspectScriptUseCase() *usecase.InspectScript {
	return usecase.NewInspectScript(c.Metadata)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}
