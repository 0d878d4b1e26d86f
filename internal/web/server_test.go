package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/xuri/excelize/v2"
	"github.com/yildizm/CovTrack/internal/analyzer"
	"github.com/yildizm/CovTrack/internal/config"
	"github.com/yildizm/CovTrack/internal/dashboard"
	"github.com/yildizm/CovTrack/internal/dataset"
	"github.com/yildizm/CovTrack/internal/figure"
	"github.com/yildizm/CovTrack/internal/logger"
	"github.com/yildizm/CovTrack/internal/monitor"
	"go.uber.org/goleak"
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

func testDashboard(t *testing.T, cases int64) *dashboard.Dashboard {
	t.Helper()
	ds, err := dataset.New(
		[]dataset.Region{
			{Name: "A", TotalCases: cases, Deaths: 2, Cured: 90},
			{Name: "B & C", TotalCases: 50, Deaths: 1, Cured: 45},
		},
		[]dataset.DailyRecord{
			day("2020-03-01", 10, 0),
			day("2020-03-02", 5, 1),
			day("2020-04-01", 7, 2),
		},
		[]dataset.Boundary{
			{Code: "1", Name: "A", Geometry: square(72, 20)},
			{Code: "2", Name: "B & C", Geometry: square(80, 25)},
		},
	)
	if err != nil {
		t.Fatalf("dataset.New failed: %v", err)
	}
	d, err := dashboard.New(ds, figure.DefaultMapOptions(), nil)
	if err != nil {
		t.Fatalf("dashboard.New failed: %v", err)
	}
	return d
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer(config.DefaultConfig().Server, testDashboard(t, 100), logger.Nop())
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return s
}

func get(t *testing.T, h http.Handler, target string, htmx bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if htmx {
		req.Header.Set(HTMXRequestHeader, "true")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewServerValidation(t *testing.T) {
	cfg := config.DefaultConfig().Server
	if _, err := NewServer(cfg, nil, nil); err == nil {
		t.Error("Expected error without dashboard")
	}
	cfg.BasePath = "dash"
	if _, err := NewServer(cfg, testDashboard(t, 1), nil); err == nil {
		t.Error("Expected error for relative base path")
	}
}

func TestPage(t *testing.T) {
	rec := get(t, newTestServer(t).Handler(), "/dash/", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<title>Covid India Tracker</title>",
		"<h1>Covid-19 India</h1>",
		`<select id="select-state" name="state" hx-get="/dash/totals"`,
		`<option value="All states" selected>All states</option>`,
		`<option value="B &amp; C">B &amp; C</option>`,
		`<option value="03">03 (March)</option>`,
		`<div id="Total_Cases" class="three columns counter" data-state="All states">150</div>`,
		`class="choropleth"`,
		"<th>totalcases</th>",
		"Month vs Number of cases",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected page to contain %q", want)
		}
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("Expected a request id header")
	}
}

func TestPageWithSelection(t *testing.T) {
	body := get(t, newTestServer(t).Handler(), "/dash/?state=A&month=03", false).Body.String()
	if !strings.Contains(body, `<option value="A" selected>A</option>`) {
		t.Error("Expected state A to be selected")
	}
	if !strings.Contains(body, `<option value="03" selected>`) {
		t.Error("Expected month 03 to be selected")
	}
	if !strings.Contains(body, "Day in the month vs Number of cases") {
		t.Error("Expected per-day charts")
	}
}

func TestRedirect(t *testing.T) {
	rec := get(t, newTestServer(t).Handler(), "/dash?state=A", false)
	if rec.Code != http.StatusFound {
		t.Fatalf("Expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dash/?state=A" {
		t.Errorf("Expected redirect to /dash/?state=A, got %q", loc)
	}
}

func TestTotalsFragment(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{name: "single state", query: "state=A", want: `data-state="A">100</div>`},
		{name: "all states", query: "state=All+states", want: `data-state="All states">150</div>`},
		{name: "unknown fails open", query: "state=Atlantis", want: `data-state="All states">150</div>`},
		{name: "absent", query: "", want: `data-state="All states">150</div>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, newTestServer(t).Handler(), "/dash/totals?"+tt.query, true)
			body := rec.Body.String()
			if rec.Code != http.StatusOK || !strings.Contains(body, tt.want) {
				t.Errorf("Expected %q, got %d %q", tt.want, rec.Code, body)
			}
			if strings.Contains(body, "<html") {
				t.Error("Expected a fragment, not a full page")
			}
		})
	}
}

func TestTotalsWithoutHTMXRendersPage(t *testing.T) {
	body := get(t, newTestServer(t).Handler(), "/dash/totals?state=A", false).Body.String()
	if !strings.Contains(body, "<html") || !strings.Contains(body, `data-state="A">100</div>`) {
		t.Error("Expected full page with the selection applied")
	}
}

func TestSeriesFragment(t *testing.T) {
	h := newTestServer(t).Handler()

	body := get(t, h, "/dash/series?month=04", true).Body.String()
	if !strings.Contains(body, `data-month="04"`) || strings.Count(body, "<svg") != 2 {
		t.Errorf("Expected two charts for month 04, got %q", body)
	}

	body = get(t, h, "/dash/series?month=11", true).Body.String()
	if !strings.Contains(body, "No data for this selection") {
		t.Error("Expected placeholder charts for a month without rows")
	}
}

func TestPageHTMXReturnsMain(t *testing.T) {
	body := get(t, newTestServer(t).Handler(), "/dash/", true).Body.String()
	if strings.Contains(body, "<html") || !strings.Contains(body, "<h1>Covid-19 India</h1>") {
		t.Error("Expected main content only for htmx page requests")
	}
}

func TestMapSVG(t *testing.T) {
	s := newTestServer(t)
	rec := get(t, s.Handler(), "/dash/map.svg", false)
	if ct := rec.Header().Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Expected image/svg+xml, got %q", ct)
	}
	if !bytes.Equal(rec.Body.Bytes(), s.Dashboard().Map().SVG) {
		t.Error("Expected the cached map")
	}
}

func TestAPI(t *testing.T) {
	h := newTestServer(t).Handler()

	var totals dashboard.TotalsView
	if err := json.Unmarshal(get(t, h, "/dash/api/totals?state=B+%26+C", false).Body.Bytes(), &totals); err != nil {
		t.Fatalf("Invalid totals JSON: %v", err)
	}
	if totals.Totals != (analyzer.Totals{Cases: 50, Deaths: 1, Cured: 45}) {
		t.Errorf("Unexpected totals %+v", totals)
	}

	var charts dashboard.ChartsView
	if err := json.Unmarshal(get(t, h, "/dash/api/series", false).Body.Bytes(), &charts); err != nil {
		t.Fatalf("Invalid series JSON: %v", err)
	}
	if charts.Month != analyzer.AllMonths || len(charts.Series.Cases.Y) != 2 || charts.Series.Cases.Y[0] != 15 {
		t.Errorf("Unexpected series %+v", charts)
	}

	var regions []map[string]any
	if err := json.Unmarshal(get(t, h, "/dash/api/regions", false).Body.Bytes(), &regions); err != nil {
		t.Fatalf("Invalid regions JSON: %v", err)
	}
	if len(regions) != 2 || regions[0]["state"] != "A" || regions[0]["id"] != "1" {
		t.Errorf("Unexpected regions %+v", regions)
	}
}

func TestExport(t *testing.T) {
	h := newTestServer(t).Handler()

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{path: "/dash/export.json?state=A", contentType: "application/json", contains: `"total_cases": 100`},
		{path: "/dash/export.csv?month=03", contentType: "text/csv; charset=utf-8", contains: "Day in the month,new_cases,new_deaths"},
		{path: "/dash/export.md", contentType: "text/markdown; charset=utf-8", contains: "| Total cases | 150 |"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, tt.path, false)
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Expected content type %q, got %q", tt.contentType, ct)
			}
			if !strings.Contains(rec.Header().Get("Content-Disposition"), "attachment") {
				t.Error("Expected attachment disposition")
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("Expected body to contain %q", tt.contains)
			}
		})
	}

	rec := get(t, h, "/dash/export.xlsx", false)
	wb, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("Expected a workbook: %v", err)
	}
	_ = wb.Close()
}

func TestExportUnknownFormat(t *testing.T) {
	rec := get(t, newTestServer(t).Handler(), "/dash/export.pdf", false)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
	rec = get(t, newTestServer(t).Handler(), "/dash/nothing-here", false)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	rec := get(t, newTestServer(t).Handler(), "/healthz", false)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("Expected 200 ok, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestCustomBasePath(t *testing.T) {
	cfg := config.DefaultConfig().Server
	cfg.BasePath = "/"
	s, err := NewServer(cfg, testDashboard(t, 100), nil)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	body := get(t, s.Handler(), "/", false).Body.String()
	if !strings.Contains(body, `hx-get="/totals"`) {
		t.Error("Expected fragment urls under the root base path")
	}
	if rec := get(t, s.Handler(), "/totals?state=A", true); !strings.Contains(rec.Body.String(), ">100</div>") {
		t.Errorf("Unexpected totals fragment %q", rec.Body.String())
	}
}

func TestSetDashboard(t *testing.T) {
	s := newTestServer(t)
	s.SetDashboard(nil)
	if s.Dashboard() == nil {
		t.Fatal("Expected nil swap to be ignored")
	}

	s.SetDashboard(testDashboard(t, 900))
	body := get(t, s.Handler(), "/dash/totals?state=A", true).Body.String()
	if !strings.Contains(body, ">900</div>") {
		t.Errorf("Expected swapped dashboard to be served, got %q", body)
	}
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()
	get(t, h, "/dash/", false)
	get(t, h, "/dash/totals?state=A", true)
	get(t, h, "/dash/series?month=01", true)
	get(t, h, "/dash/export.json", false)
	if err := s.TrackReload(func() error {
		time.Sleep(2 * time.Millisecond)
		return nil
	}); err != nil {
		t.Fatalf("Expected successful reload, got %v", err)
	}
	s.SetDashboard(testDashboard(t, 900))
	bad := errors.New("bad csv")
	if err := s.TrackReload(func() error {
		time.Sleep(2 * time.Millisecond)
		return bad
	}); !errors.Is(err, bad) {
		t.Errorf("Expected reload error back, got %v", err)
	}
	s.ReloadFailed(bad)

	rec := get(t, h, "/dash/api/metrics", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var snap monitor.MetricsSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("Metrics are not JSON: %v", err)
	}
	if snap.DatasetSwaps != 1 {
		t.Errorf("Expected 1 dataset swap, got %d", snap.DatasetSwaps)
	}
	want := map[monitor.OperationType]int64{
		monitor.OperationPage:     1,
		monitor.OperationFragment: 2,
		monitor.OperationExport:   1,
		monitor.OperationMap:      0,
	}
	for op, count := range want {
		m, _ := snap.Operation(op)
		if m.Count != count {
			t.Errorf("Expected %d %s runs, got %d", count, op, m.Count)
		}
	}
	reload, _ := snap.Operation(monitor.OperationReload)
	if reload.Count != 2 || reload.ErrorCount != 1 {
		t.Errorf("Expected 2 reloads with 1 failure, got %+v", reload)
	}
	if reload.MinTime < (2 * time.Millisecond).Nanoseconds() {
		t.Errorf("Expected reloads to be timed, got min %v", time.Duration(reload.MinTime))
	}
}

func TestRecoverPanic(t *testing.T) {
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RequestID(), RecoverPanic(logger.Nop()))

	rec := get(t, h, "/", false)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rec.Code)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}), RequestID())
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "abc" {
		t.Errorf("Expected echoed id abc, got %q", got)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	_ = resp.Body.Close()
	client.CloseIdleConnections()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
