package formatter

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/yildizm/CovTrack/internal/analyzer"
	"github.com/yildizm/CovTrack/internal/dashboard"
)

// jsonFormatter formats output as JSON
type jsonFormatter struct{}

// NewJSON creates a new JSON formatter
func NewJSON() Formatter {
	return &jsonFormatter{}
}

// JSONOutput is the exported document
type JSONOutput struct {
	GeneratedAt time.Time           `json:"generated_at"`
	Selection   dashboard.Selection `json:"selection"`
	Totals      analyzer.Totals     `json:"totals"`
	Cases       analyzer.Chart      `json:"cases"`
	Deaths      analyzer.Chart      `json:"deaths"`
	States      []map[string]string `json:"states"`
}

func (f *jsonFormatter) Format(report *dashboard.Report) ([]byte, error) {
	output := &JSONOutput{
		GeneratedAt: report.GeneratedAt,
		Selection:   report.Selection,
		Totals:      report.Totals,
		Cases:       report.Series.Cases,
		Deaths:      report.Series.Deaths,
		States:      tableRecords(report.Columns, report.Rows),
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return data, nil
}

// tableRecords turns the region table into one object per row
func tableRecords(columns []string, rows [][]string) []map[string]string {
	records := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		rec := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(row) {
				rec[col] = row[i]
			}
		}
		records = append(records, rec)
	}
	return records
}
