package formatter

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
	"github.com/yildizm/CovTrack/internal/dashboard"
)

// Sheet names of the workbook
const (
	SheetSummary = "Summary"
	SheetSeries  = "Series"
	SheetStates  = "States"
)

// xlsxFormatter writes a workbook with summary, series and state sheets
type xlsxFormatter struct{}

// NewXLSX creates a new Excel formatter
func NewXLSX() Formatter {
	return &xlsxFormatter{}
}

func (f *xlsxFormatter) Format(report *dashboard.Report) ([]byte, error) {
	wb := excelize.NewFile()
	defer func() { _ = wb.Close() }()

	if err := wb.SetSheetName("Sheet1", SheetSummary); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	bold, err := wb.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	summary := [][]interface{}{
		{"Generated", report.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"State", report.Selection.State},
		{"Month", report.Selection.Month},
		{"Total cases", report.Totals.Cases},
		{"Total deaths", report.Totals.Deaths},
		{"Total cured", report.Totals.Cured},
	}
	if err := writeRows(wb, SheetSummary, nil, summary, bold); err != nil {
		return nil, err
	}

	series := make([][]interface{}, 0, report.Series.Cases.Len())
	for _, row := range seriesRows(report.Series) {
		series = append(series, []interface{}{row.Label, row.Cases, row.Deaths})
	}
	header := []string{report.Series.Cases.XLabel, "new_cases", "new_deaths"}
	if err := writeRows(wb, SheetSeries, header, series, bold); err != nil {
		return nil, err
	}

	states := make([][]interface{}, 0, len(report.Rows))
	for _, row := range report.Rows {
		cells := make([]interface{}, len(row))
		for i, c := range row {
			cells[i] = cellValue(c)
		}
		states = append(states, cells)
	}
	if err := writeRows(wb, SheetStates, report.Columns, states, bold); err != nil {
		return nil, err
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// writeRows fills a sheet, creating it when needed. A non-nil header goes in
// row 1 in bold.
func writeRows(wb *excelize.File, sheet string, header []string, rows [][]interface{}, headerStyle int) error {
	if idx, _ := wb.GetSheetIndex(sheet); idx < 0 {
		if _, err := wb.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}
	}

	row := 1
	if header != nil {
		values := make([]interface{}, len(header))
		for i, h := range header {
			values[i] = h
		}
		if err := setRow(wb, sheet, row, values); err != nil {
			return err
		}
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := wb.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("failed to style header of %s: %w", sheet, err)
		}
		endCol, _ := excelize.ColumnNumberToName(len(header))
		if err := wb.SetColWidth(sheet, "A", endCol, 16); err != nil {
			return fmt.Errorf("failed to size columns of %s: %w", sheet, err)
		}
		row++
	}

	for _, values := range rows {
		if err := setRow(wb, sheet, row, values); err != nil {
			return err
		}
		row++
	}
	return nil
}

func setRow(wb *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// cellValue stores integer looking cells as numbers
func cellValue(s string) interface{} {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return s
}
