package service

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/ludo-technologies/pysmell/domain"
	"gopkg.in/yaml.v3"
)

// EncodeJSON returns an indented JSON string for the given value.
func EncodeJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", domain.NewOutputError("failed to marshal JSON", err)
	}
	return string(data), nil
}

// WriteJSON writes indented JSON for the given value to the writer.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode JSON", err)
	}
	return nil
}

// EncodeYAML returns a YAML string for the given value.
func EncodeYAML(v interface{}) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", domain.NewOutputError("failed to marshal YAML", err)
	}
	return string(data), nil
}

// WriteYAML writes YAML for the given value to the writer.
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return domain.NewOutputError("failed to encode YAML", err)
	}
	return nil
}

// Standard formatting constants
const (
	HeaderWidth = 60
	LabelWidth  = 16
	ItemPadding = 4
)

// FormatUtils provides shared text formatting helpers. Colors are disabled
// when noColor is set or when fatih/color detects a non-terminal.
type FormatUtils struct {
	noColor bool
	red     *color.Color
	yellow  *color.Color
	green   *color.Color
	cyan    *color.Color
	bold    *color.Color
}

// NewFormatUtils creates a new format utilities instance
func NewFormatUtils(noColor bool) *FormatUtils {
	f := &FormatUtils{
		noColor: noColor,
		red:     color.New(color.FgRed, color.Bold),
		yellow:  color.New(color.FgYellow),
		green:   color.New(color.FgGreen, color.Bold),
		cyan:    color.New(color.FgCyan),
		bold:    color.New(color.Bold),
	}
	if noColor {
		for _, c := range []*color.Color{f.red, f.yellow, f.green, f.cyan, f.bold} {
			c.DisableColor()
		}
	}
	return f
}

// FormatMainHeader creates a standardized main header
func (f *FormatUtils) FormatMainHeader(title string) string {
	var builder strings.Builder
	builder.WriteString(f.bold.Sprint(title) + "\n")
	builder.WriteString(strings.Repeat("=", HeaderWidth) + "\n")
	return builder.String()
}

// FormatSectionHeader creates a standardized section header
func (f *FormatUtils) FormatSectionHeader(title string) string {
	return fmt.Sprintf("\n%s\n%s\n", f.cyan.Sprint(title), strings.Repeat("-", len(title)))
}

// FormatLabel creates a consistently formatted label with right alignment
func (f *FormatUtils) FormatLabel(label string, value interface{}) string {
	padding := LabelWidth - len(label)
	if padding < 0 {
		padding = 0
	}
	return fmt.Sprintf("%s%s: %v\n", strings.Repeat(" ", padding), label, value)
}

// Indent prefixes every line of s with n spaces.
func (f *FormatUtils) Indent(s string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = pad + line
	}
	return strings.Join(lines, "\n") + "\n"
}

// FormatStatus colors a report status: green when clean, yellow for minor
// issues and red when structural smells were found.
func (f *FormatUtils) FormatStatus(status string) string {
	switch status {
	case domain.StatusCleanCode:
		return f.green.Sprint(status)
	case domain.StatusMinorIssues:
		return f.yellow.Sprint(status)
	case domain.StatusSmellsDetected:
		return f.red.Sprint(status)
	default:
		return status
	}
}

// Error renders an error line.
func (f *FormatUtils) Error(s string) string {
	return f.red.Sprint(s)
}

// Warning renders a warning line.
func (f *FormatUtils) Warning(s string) string {
	return f.yellow.Sprint(s)
}

// FormatWarningsSection renders a list of warnings, or nothing.
func (f *FormatUtils) FormatWarningsSection(warnings []string) string {
	if len(warnings) == 0 {
		return ""
	}
	var builder strings.Builder
	for _, w := range warnings {
		builder.WriteString(strings.Repeat(" ", ItemPadding) + f.Warning("! "+w) + "\n")
	}
	return builder.String()
}
