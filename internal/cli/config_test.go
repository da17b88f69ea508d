package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/pep723-loader/internal/domain"
)

func TestConfigShowCommand(t *testing.T) {
	env := newTestEnv(t)
	env.manager.ProjectConfigInfo.Exists = true
	env.loader.Config.Install.Python = "3.12"

	err := env.execute("config", "show")

	require.NoError(t, err)
	out := env.stdout.String()
	assert.Contains(t, out, "[Loaded from]")
	assert.Contains(t, out, "- /test/.pep723-loader.toml\n")
	assert.Contains(t, out, "/home/test/.config/pep723-loader/config.toml")
	assert.Contains(t, out, "(not found)")
	assert.Contains(t, out, "[Effective Config]")
	assert.Contains(t, out, "python = '3.12'")
}

func TestConfigShowCommand_IgnoreFlags(t *testing.T) {
	env := newTestEnv(t)

	err := env.execute("config", "show", "--ignore-global", "--ignore-project", "--ignore-env")

	require.NoError(t, err)
	require.Len(t, env.loader.Options, 1)
	assert.Equal(t, domain.LoadConfigOptions{IgnoreGlobal: true, IgnoreProject: true, IgnoreEnv: true}, env.loader.Options[0])
	assert.NotContains(t, env.stdout.String(), "config.toml")
}

func TestConfigTemplateCommand(t *testing.T) {
	env := newTestEnv(t)

	err := env.execute("config", "template")

	require.NoError(t, err)
	assert.Equal(t, domain.ConfigTemplate(), env.stdout.String())
	require.Len(t, env.opts, 1)
	assert.True(t, env.opts[0].TolerateConfigErrors)
}

func TestConfigInitCommand(t *testing.T) {
	t.Run("project", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.execute("config", "init")

		require.NoError(t, err)
		assert.True(t, env.manager.InitProjectCalled)
		assert.Contains(t, env.stdout.String(), "Created config file: /test/.pep723-loader.toml")
	})

	t.Run("global", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.execute("config", "init", "--global")

		require.NoError(t, err)
		assert.True(t, env.manager.InitGlobalCalled)
	})

	t.Run("already exists", func(t *testing.T) {
		env := newTestEnv(t)
		env.manager.InitProjectErr = domain.ErrConfigExists

		err := env.execute("config", "init")

		assert.ErrorIs(t, err, domain.ErrConfigExists)
	})
}
