package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors defines the color palette for status output.
var Colors = struct {
	Primary lipgloss.Color
	Muted   lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
}{
	Primary: lipgloss.Color("#6C5CE7"), // Purple
	Muted:   lipgloss.Color("#636E72"), // Gray
	Error:   lipgloss.Color("#D63031"), // Red
	Success: lipgloss.Color("#00B894"), // Green
	Warning: lipgloss.Color("#FDCB6E"), // Yellow
}

// Styles holds the lipgloss styles used by the commands.
var Styles = struct {
	Label   lipgloss.Style
	Value   lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
}{
	Label:   lipgloss.NewStyle().Foreground(Colors.Primary).Bold(true),
	Value:   lipgloss.NewStyle(),
	Muted:   lipgloss.NewStyle().Foreground(Colors.Muted),
	Success: lipgloss.NewStyle().Foreground(Colors.Success).Bold(true),
	Warning: lipgloss.NewStyle().Foreground(Colors.Warning),
	Error:   lipgloss.NewStyle().Foreground(Colors.Error).Bold(true),
}

// labelWidth aligns "label: value" rows.
const labelWidth = 16

// field renders an aligned "label  value" row.
func field(label, value string) string {
	return Styles.Label.Width(labelWidth).Render(label) + Styles.Value.Render(value)
}
