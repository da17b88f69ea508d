package uvinstall

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/runoshun/pep723-loader/internal/domain"
)

// maxSidecarBytes bounds the size of a .sha256 sidecar download.
const maxSidecarBytes = 4 << 10

// ErrAssetNotFound indicates the release has no asset with the expected name.
var ErrAssetNotFound = errors.New("asset not found in release")

// Ensure Installer implements domain.UVProvisioner.
var _ domain.UVProvisioner = (*Installer)(nil)

type (
	// Installer downloads a uv release for the running platform and installs
	// its binary into a target directory.
	Installer struct {
		client   *GitHubClient
		logger   domain.Logger
		platform Platform
	}

	// InstallerOption configures an Installer during construction.
	InstallerOption func(*Installer)
)

// WithGitHubClient overrides the default GitHubClient used by the Installer.
func WithGitHubClient(c *GitHubClient) InstallerOption {
	return func(i *Installer) {
		i.client = c
	}
}

// WithPlatform overrides the detected platform.
func WithPlatform(p Platform) InstallerOption {
	return func(i *Installer) {
		i.platform = p
	}
}

// WithLogger sets the logger used for progress messages.
func WithLogger(l domain.Logger) InstallerOption {
	return func(i *Installer) {
		i.logger = l
	}
}

// NewInstaller creates an Installer for the running platform.
func NewInstaller(opts ...InstallerOption) *Installer {
	i := &Installer{
		platform: Platform{
			GOOS:   runtime.GOOS,
			GOARCH: runtime.GOARCH,
			Musl:   runtime.GOOS == "linux" && detectMusl(),
		},
		logger: domain.NopLogger{},
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.client == nil {
		i.client = NewGitHubClient()
	}
	return i
}

// Provision installs the requested uv release into req.InstallDir.
// The existing binary, if any, is replaced only after the new one has been
// downloaded, verified, and extracted.
func (i *Installer) Provision(ctx context.Context, req domain.ProvisionRequest) (*domain.ProvisionResult, error) {
	if req.InstallDir == "" {
		return nil, errors.New("install directory is not set")
	}

	archiveName, err := i.platform.ArchiveName()
	if err != nil {
		return nil, err
	}

	release, err := i.resolveRelease(ctx, req.Version)
	if err != nil {
		return nil, err
	}
	version := strings.TrimPrefix(release.TagName, "v")

	archiveAsset, err := findAsset(release.Assets, archiveName)
	if err != nil {
		return nil, err
	}
	sidecarAsset, err := findAsset(release.Assets, archiveName+".sha256")
	if err != nil {
		return nil, err
	}

	// Fetch the expected hash before the (much larger) archive.
	expectedHash, err := i.downloadSidecar(ctx, sidecarAsset, archiveName)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(req.InstallDir, 0o755); err != nil { //nolint:gosec // Install dir holds an executable
		return nil, fmt.Errorf("creating install directory: %w", err)
	}

	i.logger.Info("provision", fmt.Sprintf("downloading uv %s (%s)", version, archiveName))

	// Temp files live in the install dir so the final rename stays on one filesystem.
	suffix := ".tar.gz"
	if strings.HasSuffix(archiveName, ".zip") {
		suffix = ".zip"
	}
	archivePath, err := downloadToTempFile(ctx, i.client, archiveAsset.BrowserDownloadURL, req.InstallDir, suffix)
	if err != nil {
		return nil, fmt.Errorf("downloading archive: %w", err)
	}
	defer func() { _ = os.Remove(archivePath) }()

	if err := VerifyFile(archivePath, expectedHash); err != nil {
		return nil, fmt.Errorf("verifying archive checksum: %w", err)
	}

	binaryName := i.platform.BinaryName()
	tempBinary, err := extractBinary(archivePath, binaryName, req.InstallDir)
	if err != nil {
		return nil, fmt.Errorf("extracting uv from archive: %w", err)
	}

	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tempBinary)
		}
	}()

	if err := os.Chmod(tempBinary, 0o755); err != nil { //nolint:gosec // Executable must be runnable by the user
		return nil, fmt.Errorf("setting binary permissions: %w", err)
	}

	target := filepath.Join(req.InstallDir, binaryName)
	if err := os.Rename(tempBinary, target); err != nil {
		return nil, fmt.Errorf("installing binary: %w", err)
	}
	renamed = true

	i.logger.Info("provision", fmt.Sprintf("installed uv %s to %s", version, target))

	return &domain.ProvisionResult{
		Path:    target,
		Version: version,
	}, nil
}

// resolveRelease returns the latest release, or the release tagged version.
func (i *Installer) resolveRelease(ctx context.Context, version string) (*Release, error) {
	if version == "" {
		release, err := i.client.LatestRelease(ctx)
		if err != nil {
			return nil, fmt.Errorf("fetching latest uv release: %w", err)
		}
		return release, nil
	}

	tag, err := domain.NormalizeVersion(version)
	if err != nil {
		return nil, err
	}
	release, err := i.client.GetReleaseByTag(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("fetching uv release %s: %w", tag, err)
	}
	return release, nil
}

func (i *Installer) downloadSidecar(ctx context.Context, asset *Asset, archiveName string) (string, error) {
	body, err := i.client.DownloadAsset(ctx, asset.BrowserDownloadURL)
	if err != nil {
		return "", fmt.Errorf("downloading checksum: %w", err)
	}
	defer func() { _ = body.Close() }() // read-only HTTP response body

	content, err := io.ReadAll(io.LimitReader(body, maxSidecarBytes))
	if err != nil {
		return "", fmt.Errorf("reading checksum: %w", err)
	}

	return ParseSidecar(string(content), archiveName)
}

// findAsset scans the release assets for one with the given name.
func findAsset(assets []Asset, name string) (*Asset, error) {
	for i := range assets {
		if assets[i].Name == name {
			return &assets[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrAssetNotFound, name)
}

// downloadToTempFile downloads the asset at url into a temporary file in dir
// and returns its path. The caller is responsible for removing the file.
func downloadToTempFile(ctx context.Context, client *GitHubClient, url, dir, suffix string) (_ string, err error) {
	body, err := client.DownloadAsset(ctx, url)
	if err != nil {
		return "", err
	}
	defer func() { _ = body.Close() }() // read-only HTTP response body

	tmp, err := os.CreateTemp(dir, ".uv-download-*"+suffix)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if closeErr := tmp.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := io.Copy(tmp, body); err != nil {
		return "", fmt.Errorf("writing to temp file: %w", err)
	}

	return tmp.Name(), nil
}
