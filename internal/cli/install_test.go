package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/pep723-loader/internal/domain"
)

func TestInstallCommand(t *testing.T) {
	t.Run("runs uv for each script", func(t *testing.T) {
		env := newTestEnv(t)
		env.reader.Metadata["tool.py"] = &domain.ScriptMetadata{Dependencies: []string{"requests"}}

		err := env.execute("install", "tool.py")

		require.NoError(t, err)
		require.Len(t, env.executor.RunCalls, 1)
		assert.Equal(t, []string{"pip", "install", "--requirements", "tool.py"}, env.executor.RunCalls[0].Args)
	})

	t.Run("passes flags and args after dash", func(t *testing.T) {
		env := newTestEnv(t)
		env.reader.Metadata["tool.py"] = &domain.ScriptMetadata{Dependencies: []string{"requests"}}

		err := env.execute("install", "--system", "-p", "3.12", "-q", "tool.py", "--", "--upgrade")

		require.NoError(t, err)
		require.Len(t, env.executor.RunCalls, 1)
		assert.Equal(t, []string{
			"pip", "install", "--python", "3.12", "--system", "--quiet",
			"--requirements", "tool.py", "--upgrade",
		}, env.executor.RunCalls[0].Args)
	})

	t.Run("dry run prints the command", func(t *testing.T) {
		env := newTestEnv(t)
		env.reader.Metadata["my tool.py"] = &domain.ScriptMetadata{Dependencies: []string{"requests"}}

		err := env.execute("install", "--dry-run", "my tool.py")

		require.NoError(t, err)
		assert.Empty(t, env.executor.RunCalls)
		assert.Equal(t, "/usr/bin/uv pip install --requirements 'my tool.py'\n", env.stdout.String())
	})

	t.Run("reports skipped scripts", func(t *testing.T) {
		env := newTestEnv(t)
		env.reader.Metadata["plain.py"] = nil

		err := env.execute("install", "plain.py")

		require.NoError(t, err)
		assert.Contains(t, env.stderr.String(), "plain.py: no inline script metadata, skipped")
	})

	t.Run("propagates uv exit status", func(t *testing.T) {
		env := newTestEnv(t)
		env.reader.Metadata["tool.py"] = &domain.ScriptMetadata{Dependencies: []string{"requests"}}
		env.executor.ExitCodes["/usr/bin/uv"] = 2

		err := env.execute("install", "tool.py")

		require.ErrorIs(t, err, domain.ErrInstall)
		assert.Equal(t, 2, domain.ExitCode(err))
	})

	t.Run("missing script", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.execute("install", "missing.py")

		require.ErrorIs(t, err, domain.ErrScriptNotFound)
		assert.Empty(t, env.executor.RunCalls)
	})

	t.Run("only extra args", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.execute("install", "--", "--upgrade")

		assert.ErrorIs(t, err, domain.ErrNoScripts)
	})

	t.Run("requires a script", func(t *testing.T) {
		env := newTestEnv(t)

		err := env.execute("install")

		assert.Error(t, err)
	})
}
