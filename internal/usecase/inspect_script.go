package usecase

import (
	"context"

	"github.com/runoshun/pep723-loader/internal/domain"
)

// InspectScriptInput contains the input for the InspectScript use case.
type InspectScriptInput struct {
	Path string // Script path (required)
}

// InspectScriptOutput contains the output of the InspectScript use case.
type InspectScriptOutput struct {
	Metadata *domain.ScriptMetadata // nil when the script has no metadata block
	Path     string
}

// InspectScript reads the inline metadata of a script without touching uv.
type InspectScript struct {
	reader domain.MetadataReader
}

// NewInspectScript creates a new InspectScript use case.
func NewInspectScript(reader domain.MetadataReader) *InspectScript {
	return &InspectScript{reader: reader}
}

// Execute reads and decodes the script's metadata block.
func (uc *InspectScript) Execute(_ context.Context, in InspectScriptInput) (*InspectScriptOutput, error) {
	if in.Path == "" {
		return nil, domain.ErrNoScripts
	}
	meta, err := uc.reader.Read(in.Path)
	if err != nil {
		return nil, err
	}
	return &InspectScriptOutput{Path: in.Path, Metadata: meta}, nil
}
