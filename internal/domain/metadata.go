package domain

import (
	"regexp"
	"strings"
)

// ScriptBlockType is the PEP 723 block type that carries dependency metadata.
const ScriptBlockType = "script"

// inlineBlockPattern matches a PEP 723 inline metadata block.
// The content group spans every comment line up to the closing "# ///".
var inlineBlockPattern = regexp.MustCompile(`(?m)^# /// (?P<type>[a-zA-Z0-9-]+)$\s(?P<content>(^#(| .*)$\s)+)^# ///$`)

// ScriptMetadata is the decoded "script" block of a PEP 723 script.
// Fields are ordered to minimize memory padding.
type ScriptMetadata struct {
	Tool           map[string]any `json:"tool,omitempty" yaml:"tool,omitempty"`
	Path           string         `json:"path" yaml:"path"`
	RequiresPython string         `json:"requires_python,omitempty" yaml:"requires_python,omitempty"`
	Raw            string         `json:"-" yaml:"-"`
	Dependencies   []string       `json:"dependencies" yaml:"dependencies"`
}

// HasDependencies reports whether the script declares at least one dependency.
func (m *ScriptMetadata) HasDependencies() bool {
	return m != nil && len(m.Dependencies) > 0
}

// InlineBlock is one raw PEP 723 block found in a source file.
type InlineBlock struct {
	Type    string
	Content string // Comment prefixes stripped
}

// ExtractInlineBlocks returns every PEP 723 block in src, in file order.
func ExtractInlineBlocks(src string) []InlineBlock {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	typeIdx := inlineBlockPattern.SubexpIndex("type")
	contentIdx := inlineBlockPattern.SubexpIndex("content")

	var blocks []InlineBlock
	for _, m := range inlineBlockPattern.FindAllStringSubmatch(src, -1) {
		blocks = append(blocks, InlineBlock{
			Type:    m[typeIdx],
			Content: stripCommentPrefix(m[contentIdx]),
		})
	}
	return blocks
}

// ExtractScriptBlock returns the content of the single "script" block in src.
// found is false when there is none; ErrMultipleBlocks is returned when there is more than one.
func ExtractScriptBlock(src string) (content string, found bool, err error) {
	for _, b := range ExtractInlineBlocks(src) {
		if b.Type != ScriptBlockType {
			continue
		}
		if found {
			return "", false, ErrMultipleBlocks
		}
		content, found = b.Content, true
	}
	return content, found, nil
}

// stripCommentPrefix removes "# " (or a bare "#") from the start of every line.
func stripCommentPrefix(block string) string {
	lines := strings.SplitAfter(block, "\n")
	var b strings.Builder
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "# "):
			b.WriteString(line[2:])
		case strings.HasPrefix(line, "#"):
			b.WriteString(line[1:])
		default:
			b.WriteString(line)
		}
	}
	return b.String()
}
