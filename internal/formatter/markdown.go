package formatter

import (
	"fmt"
	"strings"

	"github.com/yildizm/CovTrack/internal/dashboard"
	"github.com/yildizm/CovTrack/internal/figure"
)

// markdownFormatter formats output as Markdown
type markdownFormatter struct{}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown() Formatter {
	return &markdownFormatter{}
}

func (f *markdownFormatter) Format(report *dashboard.Report) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Covid-19 India\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Selection: **%s**\n\n", escapeMarkdown(selectionTitle(report)))

	b.WriteString("## Table of Contents\n")
	b.WriteString("- [Totals](#totals)\n")
	b.WriteString("- [Series](#series)\n")
	b.WriteString("- [States](#states)\n\n")

	f.writeTotals(&b, report)
	f.writeSeries(&b, report)
	f.writeStates(&b, report)

	b.WriteString("---\n")
	b.WriteString("*Report generated by CovTrack*\n")
	return []byte(b.String()), nil
}

func (f *markdownFormatter) writeTotals(b *strings.Builder, report *dashboard.Report) {
	b.WriteString("## Totals\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(b, "| Total cases | %s |\n", figure.Count(report.Totals.Cases))
	fmt.Fprintf(b, "| Total deaths | %s |\n", figure.Count(report.Totals.Deaths))
	fmt.Fprintf(b, "| Total cured | %s |\n\n", figure.Count(report.Totals.Cured))
}

// writeSeries writes both charts as one table followed by an ASCII chart
func (f *markdownFormatter) writeSeries(b *strings.Builder, report *dashboard.Report) {
	b.WriteString("## Series\n\n")
	rows := seriesRows(report.Series)
	if len(rows) == 0 {
		b.WriteString("No data for this selection.\n\n")
		return
	}

	fmt.Fprintf(b, "| %s | New cases | New deaths |\n", report.Series.Cases.XLabel)
	b.WriteString("|---|---:|---:|\n")
	for _, row := range rows {
		fmt.Fprintf(b, "| %s | %s | %s |\n", row.Label, figure.Count(row.Cases), figure.Count(row.Deaths))
	}
	b.WriteString("\n```\n")
	b.WriteString(report.Series.Cases.Title + ":\n")
	max := report.Series.Cases.Max()
	for _, row := range rows {
		fmt.Fprintf(b, "%4s │%s│ %s\n", row.Label, asciiBar(row.Cases, max), figure.Count(row.Cases))
	}
	b.WriteString("```\n\n")
}

func (f *markdownFormatter) writeStates(b *strings.Builder, report *dashboard.Report) {
	b.WriteString("## States\n\n")
	b.WriteString("| " + strings.Join(report.Columns, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("---|", len(report.Columns)) + "\n")
	for _, row := range report.Rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = escapeMarkdown(c)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	b.WriteString("\n")
}

func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
