package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format represents the output format.
type Format string

const (
	// FormatNone prints only the progress lines, no structured report.
	FormatNone Format = ""
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat = FormatNone

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// ParseFormat validates a --format value. "text" and "" mean FormatNone.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatNone, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatNone, fmt.Errorf("unsupported format: %s (use text, yaml, or json)", s)
	}
}

// Print serializes v to stdout in the current output format.
func Print(v any) error {
	return Fprint(os.Stdout, v)
}

// Fprint serializes v to w in the current output format. FormatNone writes
// nothing.
func Fprint(w io.Writer, v any) error {
	switch OutputFormat {
	case FormatNone:
		return nil
	case FormatJSON:
		if PrettyOutput {
			return PrintPrettyJSON(w, v)
		}
		return PrintJSON(w, v)
	case FormatYAML:
		return PrintYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// PrintJSON serializes v to w as compact single-line JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// PrintPrettyJSON serializes v to w as indented JSON.
func PrintPrettyJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// PrintYAML serializes v to w as YAML.
func PrintYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}

// YAMLString renders v as YAML, for tool results and log lines.
func YAMLString(v any) (string, error) {
	var buf bytes.Buffer
	if err := PrintYAML(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}
