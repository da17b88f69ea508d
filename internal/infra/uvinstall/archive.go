package uvinstall

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

// maxBinaryBytes is the upper bound on the extracted binary size (500 MB).
const maxBinaryBytes = 500 << 20

// errBinaryNotFound is returned when the archive holds no entry named like the uv binary.
var errBinaryNotFound = errors.New("binary not found in archive")

// extractBinary extracts the entry whose base name is binaryName from the
// archive at archivePath into a new temp file in targetDir and returns its path.
// Both flat and nested (uv-<triple>/uv) layouts are handled.
func extractBinary(archivePath, binaryName, targetDir string) (string, error) {
	if strings.HasSuffix(archivePath, ".zip") {
		return extractFromZip(archivePath, binaryName, targetDir)
	}
	return extractFromTarGz(archivePath, binaryName, targetDir)
}

func extractFromTarGz(archivePath, binaryName, targetDir string) (string, error) {
	f, err := os.Open(archivePath) //nolint:gosec // Path is a temp file created by this package
	if err != nil {
		return "", fmt.Errorf("opening archive: %w", err)
	}
	defer func() { _ = f.Close() }() // read-only file handle

	gz, err := gzip.NewReader(f)
	if err != nil {
		return "", fmt.Errorf("creating gzip reader: %w", err)
	}
	defer func() { _ = gz.Close() }()

	tr := tar.NewReader(gz)
	for {
		hdr, nextErr := tr.Next()
		if errors.Is(nextErr, io.EOF) {
			break
		}
		if nextErr != nil {
			return "", fmt.Errorf("reading tar entry: %w", nextErr)
		}

		if hdr.Typeflag != tar.TypeReg || path.Base(hdr.Name) != binaryName {
			continue
		}

		return writeTemp(tr, targetDir)
	}

	return "", fmt.Errorf("%w: %q in %s", errBinaryNotFound, binaryName, archivePath)
}

func extractFromZip(archivePath, binaryName, targetDir string) (string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("opening archive: %w", err)
	}
	defer func() { _ = zr.Close() }()

	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() || path.Base(zf.Name) != binaryName {
			continue
		}

		rc, err := zf.Open()
		if err != nil {
			return "", fmt.Errorf("opening zip entry %s: %w", zf.Name, err)
		}
		tmp, err := writeTemp(rc, targetDir)
		_ = rc.Close()
		return tmp, err
	}

	return "", fmt.Errorf("%w: %q in %s", errBinaryNotFound, binaryName, archivePath)
}

// writeTemp copies at most maxBinaryBytes from r into a new temp file in dir.
func writeTemp(r io.Reader, dir string) (_ string, err error) {
	tmp, err := os.CreateTemp(dir, ".uv-extract-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file for binary: %w", err)
	}
	defer func() {
		if closeErr := tmp.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	n, err := io.Copy(tmp, io.LimitReader(r, maxBinaryBytes+1))
	if err != nil {
		return "", fmt.Errorf("extracting binary: %w", err)
	}
	if n > maxBinaryBytes {
		return "", fmt.Errorf("extracting binary: larger than %d bytes", maxBinaryBytes)
	}

	return tmp.Name(), nil
}
