// Package output renders command results as tables, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Format selects how results are printed
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a --output value
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid output format '%s', must be one of: table, json, yaml", s)
	}
}

// Printer writes command results
type Printer struct {
	Out    io.Writer
	Format Format
}

// New creates a printer
func New(out io.Writer, format Format) *Printer {
	return &Printer{Out: out, Format: format}
}

// Structured reports whether results are printed as data rather than text
func (p *Printer) Structured() bool {
	return p.Format == FormatJSON || p.Format == FormatYAML
}

// Render prints v as JSON or YAML, or calls text for table output
func (p *Printer) Render(v any, text func(w io.Writer)) error {
	switch p.Format {
	case FormatJSON:
		enc := json.NewEncoder(p.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(p.Out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		text(p.Out)
		return nil
	}
}

// Printf writes human-readable text. It is silent in structured formats so
// the output stays parseable.
func (p *Printer) Printf(format string, args ...any) {
	if p.Structured() {
		return
	}
	fmt.Fprintf(p.Out, format, args...)
}

// Table writes aligned columns with an underlined header
func Table(w io.Writer, headers []string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	rules := make([]string, len(headers))
	for i, h := range headers {
		rules[i] = strings.Repeat("─", len([]rune(h)))
	}
	fmt.Fprintln(tw, strings.Join(rules, "\t"))

	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

// Number formats a nutrient value without trailing zeros
func Number(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.1f", v), "0"), ".")
}

// Optional formats a nutrient value that may be absent
func Optional(v *float64) string {
	if v == nil {
		return "-"
	}
	return Number(*v)
}

// Bar draws a percentage as a fixed-width progress bar
func Bar(percent float64, width int) string {
	if percent < 0 {
		percent = 0
	}
	filled := int(percent / 100 * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("·", width-filled) + "]"
}
