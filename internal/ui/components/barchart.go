package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/CovTrack/internal/analyzer"
	"github.com/yildizm/CovTrack/internal/figure"
)

// BarChart is a vertical bar chart drawn with block characters.
type BarChart struct {
	Chart  analyzer.Chart
	Color  lipgloss.TerminalColor
	Width  int
	Height int
}

// NewBarChart creates a bar chart for c.
func NewBarChart(c analyzer.Chart, width, height int) *BarChart {
	return &BarChart{Chart: c, Color: titleColor, Width: width, Height: height}
}

// SetColor sets the bar color.
func (b *BarChart) SetColor(c lipgloss.TerminalColor) *BarChart {
	b.Color = c
	return b
}

// Render renders the chart in a bordered panel.
func (b *BarChart) Render() string {
	titleStyle := lipgloss.NewStyle().Foreground(titleColor).Bold(true)
	mutedStyle := lipgloss.NewStyle().Foreground(mutedColor)

	content := []string{titleStyle.Render(b.Chart.Title), ""}
	if b.Chart.Len() == 0 {
		content = append(content, mutedStyle.Render("No data for this selection"))
	} else {
		content = append(content, b.renderBars(), b.renderAxis())
	}

	joined := lipgloss.JoinVertical(lipgloss.Left, content...)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(mutedColor).
		Padding(0, 1).
		Width(b.Width).
		Render(joined)
}

const axisWidth = 9

// columnWidth is how many cells each bar takes, at least one.
func (b *BarChart) columnWidth() int {
	n := b.Chart.Len()
	if n == 0 {
		return 1
	}
	w := (b.Width - axisWidth - 4) / n
	return max(1, min(w, 3))
}

func (b *BarChart) rows() int {
	return max(3, b.Height-6)
}

func (b *BarChart) renderBars() string {
	rows := b.rows()
	col := b.columnWidth()
	maxValue := b.Chart.Max()

	axisStyle := lipgloss.NewStyle().Foreground(mutedColor)
	barStyle := lipgloss.NewStyle().Foreground(b.Color)

	lines := make([]string, 0, rows)
	for row := rows; row >= 1; row-- {
		var line strings.Builder

		label := ""
		if row == rows {
			label = figure.Count(maxValue)
		}
		line.WriteString(axisStyle.Render(fmt.Sprintf("%*s │", axisWidth-2, label)))

		for _, v := range b.Chart.Y {
			cell := strings.Repeat(" ", col)
			if scaledHeight(v, maxValue, rows) >= row {
				cell = barStyle.Render(strings.Repeat("█", col))
			}
			line.WriteString(cell)
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// scaledHeight maps v onto 0..rows. Any non-zero value gets at least one row.
func scaledHeight(v, maxValue int64, rows int) int {
	if v <= 0 || maxValue <= 0 {
		return 0
	}
	h := int(v * int64(rows) / maxValue)
	return max(h, 1)
}

// renderAxis draws the baseline and the first and last x labels.
func (b *BarChart) renderAxis() string {
	axisStyle := lipgloss.NewStyle().Foreground(mutedColor)
	n := b.Chart.Len()
	width := n * b.columnWidth()

	base := strings.Repeat(" ", axisWidth-2) + " └" + strings.Repeat("─", width)

	first, last := b.Chart.X[0], b.Chart.X[n-1]
	labels := first
	if n > 1 {
		gap := max(1, width-len(first)-len(last))
		labels = first + strings.Repeat(" ", gap) + last
	}
	labels = strings.Repeat(" ", axisWidth+1) + labels

	return axisStyle.Render(base) + "\n" + axisStyle.Render(labels)
}
