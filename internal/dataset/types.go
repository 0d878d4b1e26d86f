package dataset

import (
	"sort"
	"time"

	"github.com/paulmach/orb"
)

// Region is one state with its cumulative counts.
type Region struct {
	Name       string   `json:"state"`
	Code       string   `json:"id"`
	TotalCases int64    `json:"totalcases"`
	Deaths     int64    `json:"deaths"`
	Cured      int64    `json:"cured"`
	Extra      []string `json:"-"`
}

// DailyRecord is one day of nationwide new cases and deaths.
type DailyRecord struct {
	Date      time.Time `json:"date"`
	Month     string    `json:"month"`
	NewCases  int64     `json:"new_cases"`
	NewDeaths int64     `json:"new_deaths"`
}

// Boundary is the geometry of one region as read from the GeoJSON file.
type Boundary struct {
	Code     string
	Name     string
	Geometry orb.Geometry
}

// Dataset is the immutable result of a load. Nothing mutates it after
// construction; reloads build a new Dataset.
type Dataset struct {
	Regions      []Region
	Daily        []DailyRecord
	Boundaries   []Boundary
	ExtraColumns []string

	codes  map[string]string
	byName map[string]int
}

// New assembles a Dataset from already parsed parts. Every region name must
// resolve through the boundaries, exactly like a file load.
func New(regions []Region, daily []DailyRecord, boundaries []Boundary) (*Dataset, error) {
	codes, err := lookupFromBoundaries(boundaries)
	if err != nil {
		return nil, err
	}
	joined, err := join(regions, codes)
	if err != nil {
		return nil, err
	}
	return build(joined, daily, boundaries, nil, codes), nil
}

func build(regions []Region, daily []DailyRecord, boundaries []Boundary, extra []string, codes map[string]string) *Dataset {
	byName := make(map[string]int, len(regions))
	for i, r := range regions {
		byName[r.Name] = i
	}
	return &Dataset{
		Regions:      regions,
		Daily:        daily,
		Boundaries:   boundaries,
		ExtraColumns: extra,
		codes:        codes,
		byName:       byName,
	}
}

// Code resolves a display name through the geographic lookup.
func (d *Dataset) Code(name string) (string, bool) {
	code, ok := d.codes[name]
	return code, ok
}

// Region returns the region with the given name.
func (d *Dataset) Region(name string) (Region, bool) {
	i, ok := d.byName[name]
	if !ok {
		return Region{}, false
	}
	return d.Regions[i], true
}

// StateNames returns region names in file order.
func (d *Dataset) StateNames() []string {
	names := make([]string, len(d.Regions))
	for i, r := range d.Regions {
		names[i] = r.Name
	}
	return names
}

// MonthsInOrder returns the distinct month keys in the order they first
// appear in the daily table.
func (d *Dataset) MonthsInOrder() []string {
	seen := make(map[string]bool)
	var months []string
	for _, rec := range d.Daily {
		if !seen[rec.Month] {
			seen[rec.Month] = true
			months = append(months, rec.Month)
		}
	}
	return months
}

// Months returns the distinct month keys sorted lexicographically.
func (d *Dataset) Months() []string {
	months := d.MonthsInOrder()
	sort.Strings(months)
	return months
}
