package dashboard

import (
	"errors"
	"time"

	"github.com/yildizm/CovTrack/internal/analyzer"
	"github.com/yildizm/CovTrack/internal/figure"
	"github.com/yildizm/CovTrack/internal/logger"
)

// TotalsView is what the three counters display.
type TotalsView struct {
	State  string          `json:"state"`
	Totals analyzer.Totals `json:"totals"`
	Cases  string          `json:"cases"`
	Deaths string          `json:"deaths"`
	Cured  string          `json:"cured"`
}

// ChartsView is what the two bar charts display.
type ChartsView struct {
	Month  string         `json:"month"`
	Series analyzer.Bundle `json:"series"`
}

// Session is the selector state of one client. It is not safe for
// concurrent use; each request or terminal program owns its own.
type Session struct {
	dash *Dashboard
	sel  Selection
}

// NewSession starts a session at the initial selection.
func (d *Dashboard) NewSession() *Session {
	return &Session{dash: d, sel: Initial}
}

// Selection returns the current dropdown values.
func (s *Session) Selection() Selection { return s.sel }

// SelectState updates the state dropdown and recomputes the counters. An
// unknown state falls back to all states.
func (s *Session) SelectState(value string) TotalsView {
	if analyzer.IsAllStates(value) {
		value = analyzer.AllStates
	}
	totals, err := analyzer.Aggregate(s.dash.data.Regions, value)
	if errors.Is(err, analyzer.ErrNotFound) {
		s.dash.log.WarnWithFields("Unknown state selection, showing all states", []logger.Field{
			logger.F("state", value),
		})
		value = analyzer.AllStates
		totals, _ = analyzer.Aggregate(s.dash.data.Regions, value)
	}
	s.sel.State = value
	return newTotalsView(value, totals)
}

// SelectMonth updates the month dropdown and recomputes the charts. A value
// that is not a month key falls back to all months; a month key with no
// rows produces empty charts.
func (s *Session) SelectMonth(value string) ChartsView {
	switch {
	case analyzer.IsAllMonths(value):
		value = analyzer.AllMonths
	default:
		if _, ok := monthNumber(value); !ok {
			s.dash.log.WarnWithFields("Invalid month selection, showing all months", []logger.Field{
				logger.F("month", value),
			})
			value = analyzer.AllMonths
		}
	}
	s.sel.Month = value
	return ChartsView{Month: value, Series: analyzer.MonthSeries(s.dash.data.Daily, value)}
}

// Apply sets both dropdowns at once.
func (s *Session) Apply(sel Selection) (TotalsView, ChartsView) {
	return s.SelectState(sel.State), s.SelectMonth(sel.Month)
}

func newTotalsView(state string, t analyzer.Totals) TotalsView {
	return TotalsView{
		State:  state,
		Totals: t,
		Cases:  figure.Count(t.Cases),
		Deaths: figure.Count(t.Deaths),
		Cured:  figure.Count(t.Cured),
	}
}

// Report is a snapshot of everything the page shows for one selection.
type Report struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Selection   Selection       `json:"selection"`
	Totals      analyzer.Totals `json:"totals"`
	Series      analyzer.Bundle `json:"series"`
	Columns     []string        `json:"columns"`
	Rows        [][]string      `json:"rows"`
}

// Report resolves sel the same way a session does and snapshots the result.
func (d *Dashboard) Report(sel Selection) *Report {
	s := d.NewSession()
	totals, charts := s.Apply(sel)
	return &Report{
		GeneratedAt: time.Now(),
		Selection:   s.Selection(),
		Totals:      totals.Totals,
		Series:      charts.Series,
		Columns:     d.Columns(),
		Rows:        d.Rows(),
	}
}
