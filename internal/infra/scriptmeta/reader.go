// Package scriptmeta reads PEP 723 inline metadata from Python scripts.
package scriptmeta

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/pep723-loader/internal/domain"
)

// maxScriptBytes bounds how much of a script is read when looking for metadata.
const maxScriptBytes = 16 << 20

// Ensure Reader implements domain.MetadataReader.
var _ domain.MetadataReader = (*Reader)(nil)

// Reader decodes the "script" block of a PEP 723 script.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// scriptTable is the TOML layout of a "script" block.
type scriptTable struct {
	Tool           map[string]any `toml:"tool"`
	RequiresPython string         `toml:"requires-python"`
	Dependencies   []string       `toml:"dependencies"`
}

// Read returns the decoded metadata of the script at path, or nil if it has no "script" block.
func (r *Reader) Read(path string) (*domain.ScriptMetadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrScriptNotFound, path)
		}
		return nil, fmt.Errorf("stat script: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotAFile, path)
	}
	if info.Size() > maxScriptBytes {
		return nil, fmt.Errorf("script %s is larger than %d bytes", path, maxScriptBytes)
	}

	data, err := os.ReadFile(path) //nolint:gosec // Script path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}

	return Parse(path, string(data))
}

// Parse decodes the "script" block in src. path is only recorded in the result.
func Parse(path, src string) (*domain.ScriptMetadata, error) {
	content, found, err := domain.ExtractScriptBlock(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !found {
		return nil, nil
	}

	var table scriptTable
	if err := toml.Unmarshal([]byte(content), &table); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%w: %s: line %d column %d: %s", domain.ErrInvalidMetadata, path, row, col, derr.Error())
		}
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidMetadata, path, err)
	}

	return &domain.ScriptMetadata{
		Path:           path,
		RequiresPython: table.RequiresPython,
		Dependencies:   table.Dependencies,
		Tool:           table.Tool,
		Raw:            content,
	}, nil
}
