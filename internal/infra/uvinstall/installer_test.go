package uvinstall

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/pep723-loader/internal/domain"
)

const testArchive = "uv-x86_64-unknown-linux-gnu.tar.gz"

// releaseServer serves a single uv release (tag) with the given archive bytes
// and sidecar content, and counts requests per path.
type releaseServer struct {
	srv     *httptest.Server
	mu      sync.Mutex
	hits    map[string]int
	archive []byte
	sidecar string
	tag     string
}

func newReleaseServer(t *testing.T, tag string, archive []byte, sidecar string) *releaseServer {
	t.Helper()

	rs := &releaseServer{hits: map[string]int{}, archive: archive, sidecar: sidecar, tag: tag}
	mux := http.NewServeMux()
	releaseHandler := func(w http.ResponseWriter, r *http.Request) {
		rs.hit(r.URL.Path)
		fmt.Fprintf(w, `{"tag_name": %q, "assets": [
			{"name": %q, "browser_download_url": "%s/dl/archive"},
			{"name": %q, "browser_download_url": "%s/dl/sidecar"}
		]}`, rs.tag, testArchive, rs.srv.URL, testArchive+".sha256", rs.srv.URL)
	}
	mux.HandleFunc("/repos/astral-sh/uv/releases/latest", releaseHandler)
	mux.HandleFunc("/repos/astral-sh/uv/releases/tags/"+tag, releaseHandler)
	mux.HandleFunc("/dl/archive", func(w http.ResponseWriter, r *http.Request) {
		rs.hit(r.URL.Path)
		_, _ = w.Write(rs.archive)
	})
	mux.HandleFunc("/dl/sidecar", func(w http.ResponseWriter, r *http.Request) {
		rs.hit(r.URL.Path)
		_, _ = w.Write([]byte(rs.sidecar))
	})

	rs.srv = httptest.NewServer(mux)
	t.Cleanup(rs.srv.Close)
	return rs
}

func (rs *releaseServer) hit(path string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.hits[path]++
}

func (rs *releaseServer) count(path string) int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.hits[path]
}

func (rs *releaseServer) installer() *Installer {
	client := NewGitHubClient(WithHTTPClient(rs.srv.Client()), WithBaseURL(rs.srv.URL))
	return NewInstaller(
		WithGitHubClient(client),
		WithPlatform(Platform{GOOS: "linux", GOARCH: "amd64"}),
	)
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func TestInstaller_ProvisionLatest(t *testing.T) {
	archive := buildTarGz(t, map[string]string{
		"uv-x86_64-unknown-linux-gnu/uv":  "#!/bin/sh\necho uv 0.5.11\n",
		"uv-x86_64-unknown-linux-gnu/uvx": "uvx",
	})
	rs := newReleaseServer(t, "0.5.11", archive, sha256Hex(archive)+"  "+testArchive+"\n")
	installDir := filepath.Join(t.TempDir(), "nested", "bin")

	result, err := rs.installer().Provision(context.Background(), domain.ProvisionRequest{InstallDir: installDir})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(installDir, "uv"), result.Path)
	assert.Equal(t, "0.5.11", result.Version)
	assert.Equal(t, 1, rs.count("/repos/astral-sh/uv/releases/latest"))

	info, err := os.Stat(result.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	content, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "echo uv 0.5.11")

	// Temp archive and extraction files are cleaned up.
	entries, err := os.ReadDir(installDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestInstaller_ProvisionPinnedVersion(t *testing.T) {
	archive := buildTarGz(t, map[string]string{"uv-x86_64-unknown-linux-gnu/uv": "uv"})
	rs := newReleaseServer(t, "0.4.30", archive, sha256Hex(archive))

	result, err := rs.installer().Provision(context.Background(), domain.ProvisionRequest{
		Version:    "v0.4.30",
		InstallDir: t.TempDir(),
	})
	require.NoError(t, err)

	assert.Equal(t, "0.4.30", result.Version)
	assert.Equal(t, 1, rs.count("/repos/astral-sh/uv/releases/tags/0.4.30"))
	assert.Zero(t, rs.count("/repos/astral-sh/uv/releases/latest"))
}

func TestInstaller_ChecksumMismatch(t *testing.T) {
	archive := buildTarGz(t, map[string]string{"uv-x86_64-unknown-linux-gnu/uv": "uv"})
	rs := newReleaseServer(t, "0.5.11", archive, sha256Hex([]byte("something else")))
	installDir := t.TempDir()

	_, err := rs.installer().Provision(context.Background(), domain.ProvisionRequest{InstallDir: installDir})
	require.ErrorIs(t, err, ErrChecksumMismatch)

	_, statErr := os.Stat(filepath.Join(installDir, "uv"))
	assert.True(t, os.IsNotExist(statErr))

	entries, err := os.ReadDir(installDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestInstaller_KeepsExistingBinaryOnFailure(t *testing.T) {
	archive := buildTarGz(t, map[string]string{"README.md": "no binary here"})
	rs := newReleaseServer(t, "0.5.11", archive, sha256Hex(archive))
	installDir := t.TempDir()
	existing := filepath.Join(installDir, "uv")
	require.NoError(t, os.WriteFile(existing, []byte("old uv"), 0o755)) //nolint:gosec // test executable

	_, err := rs.installer().Provision(context.Background(), domain.ProvisionRequest{InstallDir: installDir})
	require.ErrorIs(t, err, errBinaryNotFound)

	content, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "old uv", string(content))
}

func TestInstaller_UnsupportedPlatform(t *testing.T) {
	installer := NewInstaller(WithPlatform(Platform{GOOS: "plan9", GOARCH: "amd64"}))

	_, err := installer.Provision(context.Background(), domain.ProvisionRequest{InstallDir: t.TempDir()})
	assert.ErrorIs(t, err, domain.ErrUnsupportedPlatform)
}

func TestInstaller_InvalidVersion(t *testing.T) {
	rs := newReleaseServer(t, "0.5.11", nil, "")

	_, err := rs.installer().Provision(context.Background(), domain.ProvisionRequest{
		Version:    "newest",
		InstallDir: t.TempDir(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidVersion)
}

func TestInstaller_MissingAsset(t *testing.T) {
	rs := newReleaseServer(t, "0.5.11", nil, "")
	installer := rs.installer()
	installer.platform = Platform{GOOS: "darwin", GOARCH: "arm64"}

	_, err := installer.Provision(context.Background(), domain.ProvisionRequest{InstallDir: t.TempDir()})
	assert.ErrorIs(t, err, ErrAssetNotFound)
}

func TestInstaller_RequiresInstallDir(t *testing.T) {
	_, err := NewInstaller().Provision(context.Background(), domain.ProvisionRequest{})
	assert.Error(t, err)
}
