// Package dashboard ties a loaded dataset to the selector state of one
// client. A Dashboard is immutable and shared; a Session holds the two
// dropdown values and turns selection changes into display payloads.
package dashboard

import (
	"fmt"
	"strconv"
	"time"

	"github.com/yildizm/CovTrack/internal/analyzer"
	"github.com/yildizm/CovTrack/internal/dataset"
	"github.com/yildizm/CovTrack/internal/figure"
	"github.com/yildizm/CovTrack/internal/logger"
)

// Option is one dropdown entry.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Selection is the pair of dropdown values. Empty fields mean "absent".
type Selection struct {
	State string `json:"state"`
	Month string `json:"month"`
}

// Initial is the selection a new session starts with.
var Initial = Selection{State: analyzer.AllStates, Month: analyzer.AllMonths}

// Dashboard is a dataset plus its pre-rendered map.
type Dashboard struct {
	data     *dataset.Dataset
	mapFig   *figure.MapFigure
	log      *logger.Logger
	loadedAt time.Time
}

// New renders the map for ds and returns the dashboard around it. The map
// is drawn once here and never again for this dataset.
func New(ds *dataset.Dataset, opts figure.MapOptions, log *logger.Logger) (*Dashboard, error) {
	if ds == nil {
		return nil, fmt.Errorf("dashboard needs a dataset")
	}
	if log == nil {
		log = logger.Nop()
	}
	fig, err := figure.RenderMap(ds.Regions, ds.Boundaries, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to render map: %w", err)
	}
	log.DebugWithFields("Map rendered", []logger.Field{
		logger.F("regions", fig.Regions),
		logger.F("boundaries", len(ds.Boundaries)),
		logger.F("bytes", len(fig.SVG)),
	})
	return &Dashboard{
		data:     ds,
		mapFig:   fig,
		log:      log,
		loadedAt: time.Now(),
	}, nil
}

// Dataset returns the underlying dataset.
func (d *Dashboard) Dataset() *dataset.Dataset { return d.data }

// Map returns the choropleth rendered at construction.
func (d *Dashboard) Map() *figure.MapFigure { return d.mapFig }

// LoadedAt is when the dashboard was built.
func (d *Dashboard) LoadedAt() time.Time { return d.loadedAt }

// Regions returns the region table in file order.
func (d *Dashboard) Regions() []dataset.Region { return d.data.Regions }

// StateOptions lists "All states" followed by every state in file order.
func (d *Dashboard) StateOptions() []Option {
	opts := make([]Option, 0, len(d.data.Regions)+1)
	opts = append(opts, Option{Label: analyzer.AllStates, Value: analyzer.AllStates})
	for _, name := range d.data.StateNames() {
		opts = append(opts, Option{Label: name, Value: name})
	}
	return opts
}

// MonthOptions lists "All months" followed by the distinct months in sorted
// order.
func (d *Dashboard) MonthOptions() []Option {
	months := d.data.Months()
	opts := make([]Option, 0, len(months)+1)
	opts = append(opts, Option{Label: analyzer.AllMonths, Value: analyzer.AllMonths})
	for _, m := range months {
		opts = append(opts, Option{Label: monthLabel(m), Value: m})
	}
	return opts
}

func monthLabel(key string) string {
	n, ok := monthNumber(key)
	if !ok {
		return key
	}
	return fmt.Sprintf("%s (%s)", key, time.Month(n))
}

// monthNumber parses a two-digit month key "01".."12".
func monthNumber(key string) (int, bool) {
	if len(key) != 2 {
		return 0, false
	}
	n, err := strconv.Atoi(key)
	if err != nil || n < 1 || n > 12 {
		return 0, false
	}
	return n, true
}

// Columns returns the header of the static region table.
func (d *Dashboard) Columns() []string {
	cols := []string{"state", "totalcases", "deaths", "cured"}
	cols = append(cols, d.data.ExtraColumns...)
	return append(cols, "id")
}

// Rows returns the static region table, one row per region, aligned with
// Columns.
func (d *Dashboard) Rows() [][]string {
	rows := make([][]string, len(d.data.Regions))
	for i, r := range d.data.Regions {
		row := make([]string, 0, 5+len(r.Extra))
		row = append(row,
			r.Name,
			strconv.FormatInt(r.TotalCases, 10),
			strconv.FormatInt(r.Deaths, 10),
			strconv.FormatInt(r.Cured, 10),
		)
		row = append(row, r.Extra...)
		rows[i] = append(row, r.Code)
	}
	return rows
}
