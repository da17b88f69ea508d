package uvinstall

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	// ErrChecksumMismatch indicates the computed SHA256 hash does not match the expected hash.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrInvalidChecksumFile indicates a .sha256 sidecar could not be parsed.
	ErrInvalidChecksumFile = errors.New("invalid checksum file")
)

// ChecksumError provides details about a checksum verification failure.
// It wraps ErrChecksumMismatch so callers can use errors.Is for classification.
type ChecksumError struct {
	Filename string
	Expected string
	Got      string
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("checksum verification failed for %s\nExpected: %s\nGot:      %s", e.Filename, e.Expected, e.Got)
}

// Unwrap returns ErrChecksumMismatch so callers can use errors.Is.
func (e *ChecksumError) Unwrap() error { return ErrChecksumMismatch }

// ParseSidecar parses a sha256sum-style sidecar ("<hex>  <name>" or
// "<hex> *<name>") and returns the hash for assetName. A bare hash with
// no filename is accepted.
func ParseSidecar(content, assetName string) (string, error) {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: empty", ErrInvalidChecksumFile)
	}

	hash := fields[0]
	if !isValidHexHash(hash) {
		return "", fmt.Errorf("%w: %q is not a SHA256 hash", ErrInvalidChecksumFile, hash)
	}

	if len(fields) > 1 {
		name := strings.TrimPrefix(fields[1], "*")
		if name != assetName {
			return "", fmt.Errorf("%w: checksum is for %q, expected %q", ErrInvalidChecksumFile, name, assetName)
		}
	}

	return strings.ToLower(hash), nil
}

// VerifyFile computes the SHA256 hash of the file at path and compares it with
// expectedHash. Returns a *ChecksumError wrapping ErrChecksumMismatch on mismatch.
func VerifyFile(path, expectedHash string) error {
	got, err := ComputeFileHash(path)
	if err != nil {
		return err
	}

	if !strings.EqualFold(got, expectedHash) {
		return &ChecksumError{
			Filename: path,
			Expected: strings.ToLower(expectedHash),
			Got:      got,
		}
	}

	return nil
}

// ComputeFileHash returns the lowercase hex-encoded SHA256 digest of the file at path.
func ComputeFileHash(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // Path is a temp file created by this package
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }() // read-only file handle

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing file %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// isValidHexHash checks if s is a valid 64-character hex-encoded SHA256 hash.
func isValidHexHash(s string) bool {
	if len(s) != 64 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
