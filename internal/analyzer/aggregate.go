// Package analyzer holds the pure computations behind the dashboard: state
// totals and month series. Nothing here knows about HTTP or terminals.
package analyzer

import (
	"errors"
	"fmt"

	"github.com/yildizm/CovTrack/internal/dataset"
)

// Selection sentinels.
const (
	AllStates = "All states"
	AllMonths = "All months"
)

// ErrNotFound is returned when a selected state is not in the table.
var ErrNotFound = errors.New("state not found")

// Totals are the three headline counters.
type Totals struct {
	Cases  int64 `json:"total_cases"`
	Deaths int64 `json:"total_deaths"`
	Cured  int64 `json:"total_cured"`
}

// IsAllStates reports whether a state selection means the whole country.
func IsAllStates(selection string) bool {
	return selection == "" || selection == AllStates
}

// Aggregate sums the counters over every region, or returns one region's
// counters unchanged when a state is selected.
func Aggregate(regions []dataset.Region, selection string) (Totals, error) {
	if IsAllStates(selection) {
		var t Totals
		for _, r := range regions {
			t.Cases += r.TotalCases
			t.Deaths += r.Deaths
			t.Cured += r.Cured
		}
		return t, nil
	}

	for _, r := range regions {
		if r.Name == selection {
			return Totals{Cases: r.TotalCases, Deaths: r.Deaths, Cured: r.Cured}, nil
		}
	}
	return Totals{}, fmt.Errorf("%w: %q", ErrNotFound, selection)
}
