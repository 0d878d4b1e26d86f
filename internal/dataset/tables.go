package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// Column names of the state totals table.
const (
	ColState      = "state"
	ColTotalCases = "totalcases"
	ColDeaths     = "deaths"
	ColCured      = "cured"
)

// Column names of the daily table.
const (
	ColDate      = "date"
	ColNewCases  = "new_cases"
	ColNewDeaths = "new_deaths"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

type header map[string]int

func readHeader(r *csv.Reader, required ...string) (header, []string, error) {
	names, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	h := make(header, len(names))
	for i, n := range names {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(n, "\ufeff")))
		if key == "" {
			// unnamed index column written by dataframe exports
			continue
		}
		if _, dup := h[key]; !dup {
			h[key] = i
		}
	}
	for _, col := range required {
		if _, ok := h[col]; !ok {
			return nil, nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}
	return h, names, nil
}

func (h header) get(row []string, col string) string {
	i, ok := h[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseStates reads the state totals table. Codes are joined later.
func parseStates(data []byte) ([]Region, []string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	h, names, err := readHeader(r, ColState, ColTotalCases, ColDeaths, ColCured)
	if err != nil {
		return nil, nil, err
	}

	core := map[int]bool{h[ColState]: true, h[ColTotalCases]: true, h[ColDeaths]: true, h[ColCured]: true}
	var extraIdx []int
	var extraCols []string
	for i, n := range names {
		if core[i] || strings.TrimSpace(n) == "" || strings.EqualFold(strings.TrimSpace(n), "id") {
			continue
		}
		extraIdx = append(extraIdx, i)
		extraCols = append(extraCols, strings.TrimSpace(n))
	}

	var regions []Region
	seen := make(map[string]bool)
	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", line, err)
		}

		name := h.get(row, ColState)
		if name == "" {
			return nil, nil, fmt.Errorf("row %d: empty state name", line)
		}
		if seen[name] {
			return nil, nil, fmt.Errorf("row %d: duplicate state %q", line, name)
		}
		seen[name] = true

		region := Region{Name: name}
		if region.TotalCases, err = parseCount(h.get(row, ColTotalCases), false); err != nil {
			return nil, nil, fmt.Errorf("row %d: %s: %w", line, ColTotalCases, err)
		}
		if region.Deaths, err = parseCount(h.get(row, ColDeaths), false); err != nil {
			return nil, nil, fmt.Errorf("row %d: %s: %w", line, ColDeaths, err)
		}
		if region.Cured, err = parseCount(h.get(row, ColCured), false); err != nil {
			return nil, nil, fmt.Errorf("row %d: %s: %w", line, ColCured, err)
		}
		if len(extraIdx) > 0 {
			region.Extra = make([]string, len(extraIdx))
			for j, idx := range extraIdx {
				if idx < len(row) {
					region.Extra[j] = strings.TrimSpace(row[idx])
				}
			}
		}
		regions = append(regions, region)
	}
	return regions, extraCols, nil
}

// parseDaily reads the daily table, keeping file order.
func parseDaily(data []byte) ([]DailyRecord, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	h, _, err := readHeader(r, ColDate, ColNewCases, ColNewDeaths)
	if err != nil {
		return nil, err
	}

	var records []DailyRecord
	for line := 2; ; line++ {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		raw := h.get(row, ColDate)
		date, month, err := parseDate(raw)
		if err != nil {
			return nil, &DateError{Value: raw, Row: line}
		}

		rec := DailyRecord{Date: date, Month: month}
		if rec.NewCases, err = parseCount(h.get(row, ColNewCases), true); err != nil {
			return nil, fmt.Errorf("row %d: %s: %w", line, ColNewCases, err)
		}
		if rec.NewDeaths, err = parseCount(h.get(row, ColNewDeaths), true); err != nil {
			return nil, fmt.Errorf("row %d: %s: %w", line, ColNewDeaths, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// parseDate parses the date and derives the month key from the second
// dash-separated segment of the raw string.
func parseDate(raw string) (time.Time, string, error) {
	var (
		t   time.Time
		err error
	)
	for _, layout := range dateLayouts {
		if t, err = time.Parse(layout, raw); err == nil {
			break
		}
	}
	if err != nil {
		return time.Time{}, "", err
	}
	parts := strings.Split(raw, "-")
	if len(parts) < 3 || len(parts[1]) != 2 {
		return time.Time{}, "", fmt.Errorf("no month segment in %q", raw)
	}
	return t, parts[1], nil
}

// parseCount parses an integer count. Whole floats such as "12.0" are
// accepted. Daily rows treat empty cells as zero and may carry negative
// corrections; state totals may not.
func parseCount(s string, daily bool) (int64, error) {
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		if daily {
			return 0, nil
		}
		return 0, errors.New("empty value")
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return 0, fmt.Errorf("invalid count %q", s)
		}
		n = int64(f)
	}
	if n < 0 && !daily {
		return 0, fmt.Errorf("negative count %d", n)
	}
	return n, nil
}
