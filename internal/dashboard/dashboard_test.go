package dashboard

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"
	"github.com/yildizm/CovTrack/internal/analyzer"
	"github.com/yildizm/CovTrack/internal/dataset"
	"github.com/yildizm/CovTrack/internal/figure"
	"github.com/yildizm/CovTrack/internal/logger"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func square(lon, lat float64) orb.Polygon {
	return orb.Polygon{orb.Ring{{lon, lat}, {lon + 1, lat}, {lon + 1, lat + 1}, {lon, lat + 1}, {lon, lat}}}
}

func day(s string, cases, deaths int64) dataset.DailyRecord {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return dataset.DailyRecord{Date: d, Month: s[5:7], NewCases: cases, NewDeaths: deaths}
}

func testDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(
		[]dataset.Region{
			{Name: "B", TotalCases: 50, Deaths: 1, Cured: 45},
			{Name: "A", TotalCases: 1000, Deaths: 2, Cured: 900},
		},
		[]dataset.DailyRecord{
			day("2020-04-01", 7, 2),
			day("2020-03-01", 10, 0),
			day("2020-03-02", 5, 1),
		},
		[]dataset.Boundary{
			{Code: "1", Name: "A", Geometry: square(72, 20)},
			{Code: "2", Name: "B", Geometry: square(80, 25)},
		},
	)
	if err != nil {
		t.Fatalf("dataset.New failed: %v", err)
	}
	return ds
}

func newTestDashboard(t *testing.T) (*Dashboard, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	d, err := New(testDataset(t), figure.DefaultMapOptions(), logger.NewWithCore("dashboard", nil, core))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return d, logs
}

func TestNewRendersMapOnce(t *testing.T) {
	d, _ := newTestDashboard(t)
	fig := d.Map()
	if fig == nil || len(fig.SVG) == 0 {
		t.Fatal("Expected rendered map")
	}
	if fig.Regions != 2 {
		t.Errorf("Expected 2 colored regions, got %d", fig.Regions)
	}

	s := d.NewSession()
	s.SelectState("A")
	s.SelectMonth("03")
	if d.Map() != fig {
		t.Error("Expected selections to leave the map untouched")
	}
}

func TestNewRejectsNilDataset(t *testing.T) {
	if _, err := New(nil, figure.MapOptions{}, nil); err == nil {
		t.Error("Expected error for nil dataset")
	}
}

func TestOptions(t *testing.T) {
	d, _ := newTestDashboard(t)

	wantStates := []Option{
		{Label: analyzer.AllStates, Value: analyzer.AllStates},
		{Label: "B", Value: "B"},
		{Label: "A", Value: "A"},
	}
	if diff := cmp.Diff(wantStates, d.StateOptions()); diff != "" {
		t.Errorf("state options mismatch (-want +got):\n%s", diff)
	}

	wantMonths := []Option{
		{Label: analyzer.AllMonths, Value: analyzer.AllMonths},
		{Label: "03 (March)", Value: "03"},
		{Label: "04 (April)", Value: "04"},
	}
	if diff := cmp.Diff(wantMonths, d.MonthOptions()); diff != "" {
		t.Errorf("month options mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionInitialState(t *testing.T) {
	d, _ := newTestDashboard(t)
	if got := d.NewSession().Selection(); got != Initial {
		t.Errorf("Expected %+v, got %+v", Initial, got)
	}
}

func TestSelectState(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantState string
		wantCases string
	}{
		{name: "all states", value: analyzer.AllStates, wantState: analyzer.AllStates, wantCases: "1,050"},
		{name: "absent", value: "", wantState: analyzer.AllStates, wantCases: "1,050"},
		{name: "single state", value: "A", wantState: "A", wantCases: "1,000"},
		{name: "unknown fails open", value: "Atlantis", wantState: analyzer.AllStates, wantCases: "1,050"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDashboard(t)
			s := d.NewSession()
			view := s.SelectState(tt.value)
			if view.State != tt.wantState || view.Cases != tt.wantCases {
				t.Errorf("Expected %s/%s, got %s/%s", tt.wantState, tt.wantCases, view.State, view.Cases)
			}
			if s.Selection().State != tt.wantState {
				t.Errorf("Expected session state %q, got %q", tt.wantState, s.Selection().State)
			}
		})
	}
}

func TestSelectStateLogsFallback(t *testing.T) {
	d, logs := newTestDashboard(t)
	d.NewSession().SelectState("Atlantis")

	warns := logs.FilterLevelExact(zapcore.WarnLevel).All()
	if len(warns) != 1 {
		t.Fatalf("Expected 1 warning, got %d", len(warns))
	}
	if got := warns[0].ContextMap()["state"]; got != "Atlantis" {
		t.Errorf("Expected state field, got %v", got)
	}
}

func TestSelectMonth(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantMonth string
		wantX     []string
		wantY     []int64
	}{
		{name: "all months", value: analyzer.AllMonths, wantMonth: analyzer.AllMonths, wantX: []string{"04", "03"}, wantY: []int64{7, 15}},
		{name: "absent", value: "", wantMonth: analyzer.AllMonths, wantX: []string{"04", "03"}, wantY: []int64{7, 15}},
		{name: "single month", value: "03", wantMonth: "03", wantX: []string{"1", "2"}, wantY: []int64{10, 5}},
		{name: "month without rows", value: "11", wantMonth: "11", wantX: []string{}, wantY: []int64{}},
		{name: "garbage fails open", value: "March", wantMonth: analyzer.AllMonths, wantX: []string{"04", "03"}, wantY: []int64{7, 15}},
		{name: "out of range fails open", value: "13", wantMonth: analyzer.AllMonths, wantX: []string{"04", "03"}, wantY: []int64{7, 15}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDashboard(t)
			s := d.NewSession()
			view := s.SelectMonth(tt.value)
			if view.Month != tt.wantMonth || s.Selection().Month != tt.wantMonth {
				t.Errorf("Expected month %q, got view %q session %q", tt.wantMonth, view.Month, s.Selection().Month)
			}
			if diff := cmp.Diff(tt.wantX, view.Series.Cases.X); diff != "" {
				t.Errorf("X mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantY, view.Series.Cases.Y); diff != "" {
				t.Errorf("Y mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSelectorsAreIndependent(t *testing.T) {
	d, _ := newTestDashboard(t)
	s := d.NewSession()

	s.SelectMonth("03")
	s.SelectState("B")
	s.SelectState("Atlantis")
	if got := s.Selection(); got.Month != "03" || got.State != analyzer.AllStates {
		t.Errorf("Unexpected selection %+v", got)
	}
}

func TestTable(t *testing.T) {
	d, _ := newTestDashboard(t)
	if diff := cmp.Diff([]string{"state", "totalcases", "deaths", "cured", "id"}, d.Columns()); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	want := [][]string{
		{"B", "50", "1", "45", "2"},
		{"A", "1000", "2", "900", "1"},
	}
	if diff := cmp.Diff(want, d.Rows()); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestReport(t *testing.T) {
	d, _ := newTestDashboard(t)
	r := d.Report(Selection{State: "B", Month: "bogus"})

	if r.Selection != (Selection{State: "B", Month: analyzer.AllMonths}) {
		t.Errorf("Unexpected resolved selection %+v", r.Selection)
	}
	if r.Totals != (analyzer.Totals{Cases: 50, Deaths: 1, Cured: 45}) {
		t.Errorf("Unexpected totals %+v", r.Totals)
	}
	if !strings.HasPrefix(r.Series.Cases.Title, analyzer.LabelMonth) {
		t.Errorf("Unexpected series title %q", r.Series.Cases.Title)
	}
	if len(r.Rows) != 2 || r.GeneratedAt.IsZero() {
		t.Errorf("Unexpected report %+v", r)
	}
}
