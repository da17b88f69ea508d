package uvinstall

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTarGz returns a gzip-compressed tarball holding files (name -> content).
func buildTarGz(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     name,
			Mode:     0o755,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}))
		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func writeArchive(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestExtractBinary_TarGzNested(t *testing.T) {
	dir := t.TempDir()
	archive := writeArchive(t, dir, "uv.tar.gz", buildTarGz(t, map[string]string{
		"uv-x86_64-unknown-linux-gnu/uvx": "uvx-binary",
		"uv-x86_64-unknown-linux-gnu/uv":  "uv-binary",
	}))

	path, err := extractBinary(archive, "uv", dir)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "uv-binary", string(content))
	assert.Equal(t, dir, filepath.Dir(path))
}

func TestExtractBinary_Zip(t *testing.T) {
	dir := t.TempDir()
	archive := writeArchive(t, dir, "uv.zip", buildZip(t, map[string]string{
		"uv.exe":  "uv-windows",
		"uvx.exe": "uvx-windows",
	}))

	path, err := extractBinary(archive, "uv.exe", dir)
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "uv-windows", string(content))
}

func TestExtractBinary_Missing(t *testing.T) {
	dir := t.TempDir()
	archive := writeArchive(t, dir, "uv.tar.gz", buildTarGz(t, map[string]string{
		"README.md": "docs",
	}))

	_, err := extractBinary(archive, "uv", dir)
	require.ErrorIs(t, err, errBinaryNotFound)

	// Only the archive itself remains.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestExtractBinary_Corrupt(t *testing.T) {
	dir := t.TempDir()
	archive := writeArchive(t, dir, "uv.tar.gz", []byte("not a gzip stream"))

	_, err := extractBinary(archive, "uv", dir)
	assert.Error(t, err)
}
