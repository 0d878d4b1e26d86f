package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/CovTrack/internal/dashboard"
	"github.com/yildizm/CovTrack/internal/emoji"
	"github.com/yildizm/CovTrack/internal/figure"
)

// terminalFormatter formats output as text for terminal display
type terminalFormatter struct {
	color  bool
	title  lipgloss.Style
	label  lipgloss.Style
	cases  lipgloss.Style
	deaths lipgloss.Style
	cured  lipgloss.Style
}

// NewTerminal creates a new terminal formatter with optional color support
func NewTerminal(color bool) Formatter {
	f := &terminalFormatter{color: color}
	if color {
		f.title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
		f.label = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
		f.cases = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B"))
		f.deaths = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
		f.cured = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))
	}
	return f
}

func (f *terminalFormatter) Format(report *dashboard.Report) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b)
	f.writeTotals(&b, report)
	f.writeSeries(&b, report)
	f.writeStates(&b, report)

	return []byte(b.String()), nil
}

func (f *terminalFormatter) render(s lipgloss.Style, text string) string {
	if !f.color {
		return text
	}
	return s.Render(text)
}

// writeHeader writes a header with box drawing
func (f *terminalFormatter) writeHeader(b *strings.Builder) {
	header := "Covid-19 India"
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + f.render(f.title, header) + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

func (f *terminalFormatter) writeTotals(b *strings.Builder, report *dashboard.Report) {
	fmt.Fprintf(b, "%s Totals (%s)\n", emoji.GetEmoji("statistics"), report.Selection.State)
	fmt.Fprintf(b, "├─ %s %s\n", f.render(f.label, "Total cases:"), f.render(f.cases, figure.Count(report.Totals.Cases)))
	fmt.Fprintf(b, "├─ %s %s\n", f.render(f.label, "Total deaths:"), f.render(f.deaths, figure.Count(report.Totals.Deaths)))
	fmt.Fprintf(b, "└─ %s %s\n\n", f.render(f.label, "Total cured:"), f.render(f.cured, figure.Count(report.Totals.Cured)))
}

func (f *terminalFormatter) writeSeries(b *strings.Builder, report *dashboard.Report) {
	fmt.Fprintf(b, "%s %s (%s)\n", emoji.GetEmoji("chart"), report.Series.Cases.Title, report.Selection.Month)
	rows := seriesRows(report.Series)
	if len(rows) == 0 {
		b.WriteString("└─ No data for this selection\n\n")
		return
	}
	max := report.Series.Cases.Max()
	for i, row := range rows {
		branch := "├─"
		if i == len(rows)-1 {
			branch = "└─"
		}
		fmt.Fprintf(b, "%s %4s │%s│ %s cases, %s deaths\n",
			branch, row.Label, f.render(f.cases, asciiBar(row.Cases, max)),
			figure.Count(row.Cases), figure.Count(row.Deaths))
	}
	b.WriteString("\n")
}

// writeStates lists the region table in file order
func (f *terminalFormatter) writeStates(b *strings.Builder, report *dashboard.Report) {
	fmt.Fprintf(b, "%s States\n", emoji.GetEmoji("table"))
	width := 0
	for _, row := range report.Rows {
		if len(row) > 0 && len(row[0]) > width {
			width = len(row[0])
		}
	}
	for i, row := range report.Rows {
		if len(row) < 4 {
			continue
		}
		branch := "├─"
		if i == len(report.Rows)-1 {
			branch = "└─"
		}
		fmt.Fprintf(b, "%s %-*s %12s %10s %12s\n", branch, width, row[0], row[1], row[2], row[3])
	}
}
