package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
	"github.com/yildizm/CovTrack/internal/analyzer"
	"github.com/yildizm/CovTrack/internal/dashboard"
	"github.com/yildizm/CovTrack/internal/dataset"
	"github.com/yildizm/CovTrack/internal/emoji"
)

func sampleReport() *dashboard.Report {
	series := analyzer.MonthSeries([]dataset.DailyRecord{
		{Month: "03", NewCases: 10},
		{Month: "03", NewCases: 5, NewDeaths: 1},
		{Month: "04", NewCases: 7, NewDeaths: 2},
	}, analyzer.AllMonths)

	return &dashboard.Report{
		GeneratedAt: time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC),
		Selection:   dashboard.Selection{State: analyzer.AllStates, Month: analyzer.AllMonths},
		Totals:      analyzer.Totals{Cases: 1250, Deaths: 13, Cured: 1100},
		Series:      series,
		Columns:     []string{"state", "totalcases", "deaths", "cured", "id"},
		Rows: [][]string{
			{"Kerala", "1000", "10", "900", "32"},
			{"Goa", "250", "3", "200", "30"},
		},
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "json", want: "json", ok: true},
		{in: "md", want: "markdown", ok: true},
		{in: " Markdown ", want: "markdown", ok: true},
		{in: "txt", want: "text", ok: true},
		{in: "xlsx", want: "xlsx", ok: true},
		{in: "pdf", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			spec, ok := Lookup(tt.in)
			if ok != tt.ok || spec.Name != tt.want {
				t.Errorf("Lookup(%q) = %q/%v, want %q/%v", tt.in, spec.Name, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestNewUnsupported(t *testing.T) {
	if _, err := New("yaml", false); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestJSONFormatter(t *testing.T) {
	out, err := NewJSON().Format(sampleReport())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var doc JSONOutput
	if err := json.Unmarshal(out, &doc); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if doc.Totals.Cases != 1250 {
		t.Errorf("Expected total cases 1250, got %d", doc.Totals.Cases)
	}
	if diff := cmp.Diff([]int64{15, 7}, doc.Cases.Y); diff != "" {
		t.Errorf("cases mismatch (-want +got):\n%s", diff)
	}
	if len(doc.States) != 2 || doc.States[1]["state"] != "Goa" || doc.States[1]["id"] != "30" {
		t.Errorf("Unexpected states %+v", doc.States)
	}
}

func TestCSVFormatter(t *testing.T) {
	out, err := NewCSV().Format(sampleReport())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	want := [][]string{
		{"Month", "new_cases", "new_deaths"},
		{"03", "15", "1"},
		{"04", "7", "2"},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("CSV mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := NewMarkdown().Format(sampleReport())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	md := string(out)

	for _, want := range []string{
		"# Covid-19 India",
		"Generated: 2020-05-01 12:00:00",
		"| Total cases | 1,250 |",
		"| Month | New cases | New deaths |",
		"| 03 | 15 | 1 |",
		"Month vs Number of cases:",
		"| state | totalcases | deaths | cured | id |",
		"| Kerala | 1000 | 10 | 900 | 32 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}
}

func TestMarkdownEmptySeries(t *testing.T) {
	r := sampleReport()
	r.Series = analyzer.MonthSeries(nil, "07")
	out, err := NewMarkdown().Format(r)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(string(out), "No data for this selection.") {
		t.Error("Expected empty series notice")
	}
}

func TestXLSXFormatter(t *testing.T) {
	out, err := NewXLSX().Format(sampleReport())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	wb, err := excelize.OpenReader(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("Output is not a workbook: %v", err)
	}
	defer func() { _ = wb.Close() }()

	if diff := cmp.Diff([]string{SheetSummary, SheetSeries, SheetStates}, wb.GetSheetList()); diff != "" {
		t.Errorf("sheet list mismatch (-want +got):\n%s", diff)
	}

	got, err := wb.GetCellValue(SheetSummary, "B4")
	if err != nil || got != "1250" {
		t.Errorf("Expected total cases 1250 in B4, got %q (%v)", got, err)
	}
	rows, err := wb.GetRows(SheetSeries)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if diff := cmp.Diff([][]string{{"Month", "new_cases", "new_deaths"}, {"03", "15", "1"}, {"04", "7", "2"}}, rows); diff != "" {
		t.Errorf("series sheet mismatch (-want +got):\n%s", diff)
	}
	name, _ := wb.GetCellValue(SheetStates, "A3")
	if name != "Goa" {
		t.Errorf("Expected Goa in States!A3, got %q", name)
	}
}

func TestTerminalFormatter(t *testing.T) {
	emoji.SetEmojiDisabled(true)
	defer emoji.SetEmojiDisabled(false)

	out, err := NewTerminal(false).Format(sampleReport())
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	text := string(out)

	for _, want := range []string{
		"║ Covid-19 India ║",
		"[STATS] Totals (All states)",
		"├─ Total cases: 1,250",
		"└─ Total cured: 1,100",
		"[CHART] Month vs Number of cases (All months)",
		"15 cases, 1 deaths",
		"[TABLE] States",
		"└─ Goa",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected terminal output to contain %q\n%s", want, text)
		}
	}
	if strings.Contains(text, "\x1b[") {
		t.Error("Expected no ANSI escapes with color disabled")
	}
}

func TestAsciiBar(t *testing.T) {
	tests := []struct {
		v, max int64
		full   int
	}{
		{v: 0, max: 10, full: 0},
		{v: 5, max: 10, full: 10},
		{v: 10, max: 10, full: 20},
		{v: 3, max: 0, full: 0},
	}
	for _, tt := range tests {
		bar := asciiBar(tt.v, tt.max)
		if got := strings.Count(bar, "█"); got != tt.full {
			t.Errorf("asciiBar(%d, %d) has %d full cells, want %d", tt.v, tt.max, got, tt.full)
		}
		if got := len([]rune(bar)); got != barWidth {
			t.Errorf("asciiBar(%d, %d) width %d, want %d", tt.v, tt.max, got, barWidth)
		}
	}
}
