package domain

import (
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/mod/semver"
)

// UVSource describes where the resolved uv executable came from.
type UVSource string

// UV sources, in resolution order.
const (
	UVSourceConfig      UVSource = "config"
	UVSourcePath        UVSource = "path"
	UVSourceManaged     UVSource = "managed"
	UVSourceProvisioned UVSource = "provisioned"
)

// UV is a resolved, usable uv executable.
type UV struct {
	Path    string
	Version string // Bare version, e.g. "0.5.11"; empty if it could not be determined
	Source  UVSource
}

// UVBinaryName returns the uv executable file name for the current platform.
func UVBinaryName() string {
	if runtime.GOOS == "windows" {
		return "uv.exe"
	}
	return "uv"
}

// ParseUVVersion extracts the version from `uv --version` output,
// e.g. "uv 0.5.11 (c4d0caaee 2024-12-19)" yields "0.5.11".
func ParseUVVersion(output string) string {
	fields := strings.Fields(strings.TrimSpace(output))
	if len(fields) < 2 || fields[0] != "uv" {
		return ""
	}
	return fields[1]
}

// ProvisionRequest describes which uv release to install and where.
type ProvisionRequest struct {
	Version    string // Release version; empty selects the latest release
	InstallDir string
}

// NormalizeVersion validates v as a semantic version and returns it without a
// leading "v", matching the tag format of uv releases.
func NormalizeVersion(v string) (string, error) {
	bare := strings.TrimPrefix(strings.TrimSpace(v), "v")
	if !semver.IsValid("v" + bare) {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, v)
	}
	return bare, nil
}

// VersionLess reports whether version a is older than version b.
// Both must be valid semantic versions, with or without a leading "v".
func VersionLess(a, b string) (bool, error) {
	na, err := NormalizeVersion(a)
	if err != nil {
		return false, err
	}
	nb, err := NormalizeVersion(b)
	if err != nil {
		return false, err
	}
	return semver.Compare("v"+na, "v"+nb) < 0, nil
}
