package uvinstall

import (
	"fmt"
	"path/filepath"

	"github.com/runoshun/pep723-loader/internal/domain"
)

// Platform identifies the OS/architecture pair a uv build targets.
type Platform struct {
	GOOS   string
	GOARCH string
	Musl   bool // Linux only: link against musl instead of glibc
}

// linuxTriples maps GOARCH to the glibc and musl triples; an empty musl
// entry means uv publishes no musl build for that architecture.
var linuxTriples = map[string][2]string{
	"amd64":   {"x86_64-unknown-linux-gnu", "x86_64-unknown-linux-musl"},
	"arm64":   {"aarch64-unknown-linux-gnu", "aarch64-unknown-linux-musl"},
	"386":     {"i686-unknown-linux-gnu", "i686-unknown-linux-musl"},
	"arm":     {"armv7-unknown-linux-gnueabihf", "armv7-unknown-linux-musleabihf"},
	"ppc64le": {"powerpc64le-unknown-linux-gnu", ""},
	"s390x":   {"s390x-unknown-linux-gnu", ""},
	"riscv64": {"riscv64gc-unknown-linux-gnu", ""},
}

var darwinTriples = map[string]string{
	"amd64": "x86_64-apple-darwin",
	"arm64": "aarch64-apple-darwin",
}

var windowsTriples = map[string]string{
	"amd64": "x86_64-pc-windows-msvc",
	"arm64": "aarch64-pc-windows-msvc",
	"386":   "i686-pc-windows-msvc",
}

// TargetTriple returns the Rust target triple uv publishes for p.
func (p Platform) TargetTriple() (string, error) {
	var triple string
	switch p.GOOS {
	case "linux":
		variants := linuxTriples[p.GOARCH]
		triple = variants[0]
		if p.Musl {
			triple = variants[1]
		}
	case "darwin":
		triple = darwinTriples[p.GOARCH]
	case "windows":
		triple = windowsTriples[p.GOARCH]
	}
	if triple == "" {
		return "", fmt.Errorf("%w: %s/%s", domain.ErrUnsupportedPlatform, p.GOOS, p.GOARCH)
	}
	return triple, nil
}

// ArchiveName returns the release asset name for p, e.g. "uv-x86_64-unknown-linux-gnu.tar.gz".
func (p Platform) ArchiveName() (string, error) {
	triple, err := p.TargetTriple()
	if err != nil {
		return "", err
	}
	if p.GOOS == "windows" {
		return "uv-" + triple + ".zip", nil
	}
	return "uv-" + triple + ".tar.gz", nil
}

// BinaryName returns the uv executable name inside the archive.
func (p Platform) BinaryName() string {
	if p.GOOS == "windows" {
		return "uv.exe"
	}
	return "uv"
}

// detectMusl reports whether the running Linux system uses the musl loader.
func detectMusl() bool {
	matches, err := filepath.Glob("/lib/ld-musl-*")
	return err == nil && len(matches) > 0
}
