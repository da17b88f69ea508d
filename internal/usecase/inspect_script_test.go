package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/pep723-loader/internal/domain"
	"github.com/runoshun/pep723-loader/internal/testutil"
	"github.com/runoshun/pep723-loader/internal/usecase"
)

func TestInspectScript_Execute(t *testing.T) {
	reader := testutil.NewMockMetadataReader()
	reader.Metadata["tool.py"] = &domain.ScriptMetadata{
		RequiresPython: ">=3.11",
		Dependencies:   []string{"requests<3", "rich"},
	}
	reader.Metadata["plain.py"] = nil
	uc := usecase.NewInspectScript(reader)

	t.Run("returns decoded metadata", func(t *testing.T) {
		out, err := uc.Execute(context.Background(), usecase.InspectScriptInput{Path: "tool.py"})

		require.NoError(t, err)
		assert.Equal(t, ">=3.11", out.Metadata.RequiresPython)
		assert.Equal(t, []string{"requests<3", "rich"}, out.Metadata.Dependencies)
	})

	t.Run("no block", func(t *testing.T) {
		out, err := uc.Execute(context.Background(), usecase.InspectScriptInput{Path: "plain.py"})

		require.NoError(t, err)
		assert.Nil(t, out.Metadata)
	})

	t.Run("missing script", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), usecase.InspectScriptInput{Path: "missing.py"})

		assert.ErrorIs(t, err, domain.ErrScriptNotFound)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), usecase.InspectScriptInput{})

		assert.ErrorIs(t, err, domain.ErrNoScripts)
	})
}
