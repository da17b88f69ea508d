// Package usecase contains the application use cases.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/runoshun/pep723-loader/internal/domain"
)

// EnsureUVInput contains the input for the EnsureUV use case.
type EnsureUVInput struct {
	Reinstall bool // Provision even when a usable uv is already present
	Offline   bool // Never provision; fail with ErrUVNotFound instead
}

// EnsureUVOutput contains the output of the EnsureUV use case.
type EnsureUVOutput struct {
	UV domain.UV
}

// EnsureUV makes sure a usable uv executable is present, provisioning it when allowed.
type EnsureUV struct {
	executor    domain.CommandExecutor
	provisioner domain.UVProvisioner
	logger      domain.Logger
	config      *domain.Config
}

// NewEnsureUV creates a new EnsureUV use case.
func NewEnsureUV(
	executor domain.CommandExecutor,
	provisioner domain.UVProvisioner,
	config *domain.Config,
	logger domain.Logger,
) *EnsureUV {
	return &EnsureUV{
		executor:    executor,
		provisioner: provisioner,
		config:      config,
		logger:      logger,
	}
}

// Execute resolves uv from, in order, the configured path, PATH, and the
// managed install directory, then provisions it if none is usable.
// Every failure is returned as a *domain.SetupError.
func (uc *EnsureUV) Execute(ctx context.Context, in EnsureUVInput) (*EnsureUVOutput, error) {
	uv, err := uc.locate(ctx)
	switch {
	case err != nil && uv != nil:
		// Explicit uv.path is authoritative; no fallback.
		return nil, &domain.SetupError{Err: err}
	case err != nil && !errors.Is(err, domain.ErrUVNotFound):
		return nil, &domain.SetupError{Err: err}
	}

	if uv != nil && !in.Reinstall {
		older, checkErr := uc.olderThanMin(uv)
		if checkErr != nil {
			return nil, &domain.SetupError{Err: checkErr}
		}
		if !older {
			uc.logger.Debug("uv", fmt.Sprintf("using %s uv %s at %s", uv.Source, displayVersion(uv.Version), uv.Path))
			return &EnsureUVOutput{UV: *uv}, nil
		}
		if uv.Source == domain.UVSourceConfig || !uc.config.UV.AutoInstallEnabled() || in.Offline {
			return nil, &domain.SetupError{Err: fmt.Errorf("%w: %s is %s, need %s",
				domain.ErrUVTooOld, uv.Path, uv.Version, uc.config.UV.MinVersion)}
		}
		uc.logger.Warn("uv", fmt.Sprintf("uv %s at %s is older than %s; installing a newer one",
			uv.Version, uv.Path, uc.config.UV.MinVersion))
	}

	if uv == nil && (in.Offline || !uc.config.UV.AutoInstallEnabled()) {
		return nil, &domain.SetupError{Err: fmt.Errorf("%w: not on PATH and automatic installation is disabled", domain.ErrUVNotFound)}
	}

	provisioned, err := uc.provision(ctx)
	if err != nil {
		return nil, &domain.SetupError{Err: err}
	}
	return &EnsureUVOutput{UV: *provisioned}, nil
}

// locate finds an existing uv. A non-nil UV with a non-nil error means the
// configured path is unusable.
func (uc *EnsureUV) locate(ctx context.Context) (*domain.UV, error) {
	if p := uc.config.UV.Path; p != "" {
		uv := &domain.UV{Path: p, Source: domain.UVSourceConfig}
		if err := checkExecutable(p); err != nil {
			return uv, err
		}
		uv.Version = uc.readVersion(ctx, p)
		return uv, nil
	}

	if p, err := uc.executor.LookPath("uv"); err == nil {
		return &domain.UV{Path: p, Source: domain.UVSourcePath, Version: uc.readVersion(ctx, p)}, nil
	}

	if dir := uc.config.ResolvedInstallDir(); dir != "" {
		p := filepath.Join(dir, domain.UVBinaryName())
		if checkExecutable(p) == nil {
			return &domain.UV{Path: p, Source: domain.UVSourceManaged, Version: uc.readVersion(ctx, p)}, nil
		}
	}

	return nil, domain.ErrUVNotFound
}

func (uc *EnsureUV) provision(ctx context.Context) (*domain.UV, error) {
	dir := uc.config.ResolvedInstallDir()
	if dir == "" {
		return nil, fmt.Errorf("%w: cannot determine install directory", domain.ErrUVNotFound)
	}

	uc.logger.Info("uv", fmt.Sprintf("installing uv into %s", dir))
	result, err := uc.provisioner.Provision(ctx, domain.ProvisionRequest{
		Version:    uc.config.UV.Version,
		InstallDir: dir,
	})
	if err != nil {
		return nil, fmt.Errorf("install uv: %w", err)
	}

	uv := &domain.UV{Path: result.Path, Version: result.Version, Source: domain.UVSourceProvisioned}
	older, err := uc.olderThanMin(uv)
	if err != nil {
		return nil, err
	}
	if older {
		return nil, fmt.Errorf("%w: installed uv %s, need %s", domain.ErrUVTooOld, uv.Version, uc.config.UV.MinVersion)
	}
	return uv, nil
}

// readVersion returns the bare version reported by `uv --version`,
// or "" when it cannot be determined.
func (uc *EnsureUV) readVersion(ctx context.Context, path string) string {
	out, err := uc.executor.Output(ctx, domain.NewCommand(path, []string{"--version"}, ""))
	if err != nil {
		uc.logger.Warn("uv", fmt.Sprintf("%s --version failed: %v", path, err))
		return ""
	}
	return domain.ParseUVVersion(string(out))
}

// olderThanMin reports whether uv is older than uv.min_version.
// An unknown version passes the check.
func (uc *EnsureUV) olderThanMin(uv *domain.UV) (bool, error) {
	minVersion := uc.config.UV.MinVersion
	if minVersion == "" {
		return false, nil
	}
	if _, err := domain.NormalizeVersion(minVersion); err != nil {
		return false, fmt.Errorf("uv.min_version: %w", err)
	}
	if uv.Version == "" {
		uc.logger.Warn("uv", fmt.Sprintf("cannot determine version of %s; skipping min_version check", uv.Path))
		return false, nil
	}
	older, err := domain.VersionLess(uv.Version, minVersion)
	if err != nil {
		uc.logger.Warn("uv", fmt.Sprintf("unrecognized uv version %q; skipping min_version check", uv.Version))
		return false, nil
	}
	return older, nil
}

// checkExecutable verifies that path is a regular file the user can execute.
func checkExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", domain.ErrUVNotFound, path)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", domain.ErrUVNotFound, path)
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o111 == 0 {
		return fmt.Errorf("%w: %s is not executable", domain.ErrUVNotFound, path)
	}
	return nil
}

func displayVersion(v string) string {
	if v == "" {
		return "(unknown version)"
	}
	return v
}
