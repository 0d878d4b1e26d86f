package formatter

import (
	"strings"

	"github.com/yildizm/CovTrack/internal/analyzer"
	"github.com/yildizm/CovTrack/internal/dashboard"
)

const barWidth = 20

// asciiBar draws v as a fixed width bar relative to max
func asciiBar(v, max int64) string {
	n := 0
	if max > 0 && v > 0 {
		n = int(float64(v) / float64(max) * barWidth)
	}
	return strings.Repeat("█", n) + strings.Repeat("░", barWidth-n)
}

// seriesRow is one X position of the two charts
type seriesRow struct {
	Label  string
	Cases  int64
	Deaths int64
}

// seriesRows zips the two charts of a bundle on their shared X values
func seriesRows(b analyzer.Bundle) []seriesRow {
	rows := make([]seriesRow, b.Cases.Len())
	for i, x := range b.Cases.X {
		rows[i] = seriesRow{Label: x, Cases: b.Cases.Y[i]}
		if i < len(b.Deaths.Y) {
			rows[i].Deaths = b.Deaths.Y[i]
		}
	}
	return rows
}

func selectionTitle(r *dashboard.Report) string {
	return r.Selection.State + ", " + r.Selection.Month
}
