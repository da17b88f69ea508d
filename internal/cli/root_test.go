package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/pep723-loader/internal/app"
	"github.com/runoshun/pep723-loader/internal/domain"
	"github.com/runoshun/pep723-loader/internal/testutil"
)

// testEnv bundles the mocks behind a root command built for tests.
type testEnv struct {
	executor    *testutil.MockCommandExecutor
	provisioner *testutil.MockProvisioner
	reader      *testutil.MockMetadataReader
	loader      *testutil.MockConfigLoader
	manager     *testutil.MockConfigManager
	config      *domain.Config
	opts        []app.Options
	stdout      bytes.Buffer
	stderr      bytes.Buffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := domain.NewDefaultConfig()
	cfg.UV.InstallDir = t.TempDir()
	env := &testEnv{
		executor:    testutil.NewMockCommandExecutor(),
		provisioner: &testutil.MockProvisioner{},
		reader:      testutil.NewMockMetadataReader(),
		loader:      testutil.NewMockConfigLoader(),
		manager:     testutil.NewMockConfigManager(),
		config:      cfg,
	}
	env.executor.Paths["uv"] = "/usr/bin/uv"
	env.executor.Outputs["/usr/bin/uv"] = []byte("uv 0.5.11 (c4d0caaee 2024-12-19)")
	t.Setenv("VIRTUAL_ENV", "/venv")
	return env
}

// root builds a root command whose container is backed by the mocks.
func (e *testEnv) root(args ...string) *cobra.Command {
	root := NewRootCommand(func(opts app.Options) (*app.Container, error) {
		e.opts = append(e.opts, opts)
		return app.NewWithDeps(app.Deps{
			Executor:      e.executor,
			Provisioner:   e.provisioner,
			Metadata:      e.reader,
			ConfigLoader:  e.loader,
			ConfigManager: e.manager,
			Config:        e.config,
		}), nil
	}, "test-version")
	root.SetOut(&e.stdout)
	root.SetErr(&e.stderr)
	root.SetArgs(args)
	return root
}

func (e *testEnv) execute(args ...string) error {
	return e.root(args...).Execute()
}

func TestNewRootCommand_Version(t *testing.T) {
	env := newTestEnv(t)

	err := env.execute("--version")

	require.NoError(t, err)
	assert.Contains(t, env.stdout.String(), "test-version")
	assert.Empty(t, env.opts, "container is not built for --version")
}

func TestNewRootCommand_Help(t *testing.T) {
	env := newTestEnv(t)

	err := env.execute("--help")

	require.NoError(t, err)
	out := env.stdout.String()
	assert.Contains(t, out, "Dependency Commands:")
	assert.Contains(t, out, "install")
	assert.Contains(t, out, "run")
	assert.Contains(t, out, "ensure")
}

func TestNewRootCommand_PassesPersistentFlags(t *testing.T) {
	env := newTestEnv(t)

	err := env.execute("--config", "/tmp/extra.toml", "--log-level", "debug", "ensure")

	require.NoError(t, err)
	require.Len(t, env.opts, 1)
	assert.Equal(t, "/tmp/extra.toml", env.opts[0].ConfigPath)
	assert.Equal(t, "debug", env.opts[0].LogLevel)
	assert.Equal(t, "test-version", env.opts[0].Version)
	assert.False(t, env.opts[0].TolerateConfigErrors)
}

func TestNewRootCommand_InvalidLogLevel(t *testing.T) {
	env := newTestEnv(t)

	err := env.execute("--log-level", "loud", "ensure")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "--log-level")
	assert.Empty(t, env.opts)
}

func TestNewRootCommand_PrintsConfigWarnings(t *testing.T) {
	env := newTestEnv(t)
	env.config.Warnings = []string{"unknown key: [uv].pth"}

	err := env.execute("ensure")

	require.NoError(t, err)
	assert.Contains(t, env.stderr.String(), "Warning: unknown key: [uv].pth")
}

func TestNewRootCommand_ContainerError(t *testing.T) {
	root := NewRootCommand(func(app.Options) (*app.Container, error) {
		return nil, errors.New("load config: broken")
	}, "test-version")
	root.SetArgs([]string{"ensure"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}
