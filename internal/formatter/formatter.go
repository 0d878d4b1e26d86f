// Package formatter renders a dashboard report for export: JSON, CSV,
// Markdown, XLSX and a styled terminal summary.
package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/CovTrack/internal/dashboard"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(report *dashboard.Report) ([]byte, error)
}

// Spec describes how a format is served as a file
type Spec struct {
	Name        string
	Extension   string
	ContentType string
}

var specs = map[string]Spec{
	"json":     {Name: "json", Extension: "json", ContentType: "application/json"},
	"csv":      {Name: "csv", Extension: "csv", ContentType: "text/csv; charset=utf-8"},
	"markdown": {Name: "markdown", Extension: "md", ContentType: "text/markdown; charset=utf-8"},
	"xlsx":     {Name: "xlsx", Extension: "xlsx", ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	"text":     {Name: "text", Extension: "txt", ContentType: "text/plain; charset=utf-8"},
}

// Lookup resolves a format name or file extension, e.g. "md" or "markdown"
func Lookup(format string) (Spec, bool) {
	format = strings.ToLower(strings.TrimSpace(format))
	if s, ok := specs[format]; ok {
		return s, true
	}
	for _, s := range specs {
		if s.Extension == format {
			return s, true
		}
	}
	return Spec{}, false
}

// New returns the formatter for a format name or extension. color only
// affects the text format.
func New(format string, color bool) (Formatter, error) {
	spec, ok := Lookup(format)
	if !ok {
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
	switch spec.Name {
	case "json":
		return NewJSON(), nil
	case "csv":
		return NewCSV(), nil
	case "markdown":
		return NewMarkdown(), nil
	case "xlsx":
		return NewXLSX(), nil
	default:
		return NewTerminal(color), nil
	}
}
