package analyzer

import (
	"strconv"

	"github.com/yildizm/CovTrack/internal/dataset"
)

// Axis and title text shown on the charts.
const (
	LabelMonth      = "Month"
	LabelDayInMonth = "Day in the month"
	LabelCases      = "Number of cases"
	LabelDeaths     = "Number of deaths"
)

// Chart is one bar chart worth of data.
type Chart struct {
	Title  string   `json:"title"`
	XLabel string   `json:"x_label"`
	YLabel string   `json:"y_label"`
	X      []string `json:"x"`
	Y      []int64  `json:"y"`
}

// Len returns the number of bars.
func (c Chart) Len() int { return len(c.X) }

// Max returns the largest Y value, or 0 for an empty chart.
func (c Chart) Max() int64 {
	var m int64
	for i, v := range c.Y {
		if i == 0 || v > m {
			m = v
		}
	}
	return m
}

// Bundle is the pair of charts produced for one month selection. Both
// charts share the same X values.
type Bundle struct {
	Month  string `json:"month"`
	Cases  Chart  `json:"cases"`
	Deaths Chart  `json:"deaths"`
}

// IsAllMonths reports whether a month selection means the whole range.
func IsAllMonths(selection string) bool {
	return selection == "" || selection == AllMonths
}

// MonthSeries builds the two charts for a month selection.
//
// For all months, rows are grouped by month in the order the months first
// appear and summed. For a single month, the rows of that month are returned
// in file order against a 1-based day index; the index counts matching rows,
// not calendar days. A month without rows yields empty charts.
func MonthSeries(daily []dataset.DailyRecord, selection string) Bundle {
	if IsAllMonths(selection) {
		return byMonth(daily)
	}
	return withinMonth(daily, selection)
}

func byMonth(daily []dataset.DailyRecord) Bundle {
	index := make(map[string]int)
	var (
		months []string
		cases  []int64
		deaths []int64
	)
	for _, rec := range daily {
		i, ok := index[rec.Month]
		if !ok {
			i = len(months)
			index[rec.Month] = i
			months = append(months, rec.Month)
			cases = append(cases, 0)
			deaths = append(deaths, 0)
		}
		cases[i] += rec.NewCases
		deaths[i] += rec.NewDeaths
	}
	return newBundle(AllMonths, LabelMonth, months, cases, deaths)
}

func withinMonth(daily []dataset.DailyRecord, month string) Bundle {
	var (
		days   []string
		cases  []int64
		deaths []int64
	)
	for _, rec := range daily {
		if rec.Month != month {
			continue
		}
		days = append(days, strconv.Itoa(len(days)+1))
		cases = append(cases, rec.NewCases)
		deaths = append(deaths, rec.NewDeaths)
	}
	return newBundle(month, LabelDayInMonth, days, cases, deaths)
}

func newBundle(selection, xLabel string, x []string, cases, deaths []int64) Bundle {
	if x == nil {
		x = []string{}
		cases = []int64{}
		deaths = []int64{}
	}
	// The charts get separate X slices so callers may modify one safely.
	deathX := make([]string, len(x))
	copy(deathX, x)
	return Bundle{
		Month: selection,
		Cases: Chart{
			Title:  xLabel + " vs " + LabelCases,
			XLabel: xLabel,
			YLabel: LabelCases,
			X:      x,
			Y:      cases,
		},
		Deaths: Chart{
			Title:  xLabel + " vs " + LabelDeaths,
			XLabel: xLabel,
			YLabel: LabelDeaths,
			X:      deathX,
			Y:      deaths,
		},
	}
}
