package figure

import (
	"fmt"
	"html"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"github.com/yildizm/CovTrack/internal/analyzer"
)

// BarOptions controls bar chart size and color.
type BarOptions struct {
	Width  int
	Height int
	Color  string
}

// DefaultBarOptions returns the size used on the dashboard page.
func DefaultBarOptions() BarOptions {
	return BarOptions{Width: 560, Height: 360, Color: "#636efa"}
}

const (
	barSpacing  = 4
	minBarWidth = 4
	maxBarWidth = 48
)

// RenderBar writes c as an SVG bar chart. An empty chart renders a titled
// placeholder instead of failing.
func RenderBar(w io.Writer, c analyzer.Chart, opts BarOptions) error {
	def := DefaultBarOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.Color == "" {
		opts.Color = def.Color
	}

	if c.Len() == 0 {
		return renderEmpty(w, c, opts)
	}

	fill := drawing.ColorFromHex(trimHash(opts.Color))
	bars := make([]chart.Value, c.Len())
	lo := 0.0
	for i := range c.X {
		v := float64(c.Y[i])
		if v < lo {
			lo = v
		}
		bars[i] = chart.Value{
			Label: c.X[i],
			Value: v,
			Style: chart.Style{FillColor: fill, StrokeColor: fill, StrokeWidth: 1},
		}
	}
	hi := float64(c.Max())
	if hi <= lo {
		hi = lo + 1
	}

	graph := chart.BarChart{
		Title:      c.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		BarWidth:   barWidth(opts.Width, c.Len()),
		BarSpacing: barSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Name:           c.YLabel,
			Range:          &chart.ContinuousRange{Min: lo, Max: hi * 1.05},
			ValueFormatter: func(v interface{}) string { return axisValue(v) },
		},
		Bars: bars,
	}
	if err := graph.Render(chart.SVG, w); err != nil {
		return fmt.Errorf("failed to render %q: %w", c.Title, err)
	}
	return nil
}

func barWidth(width, n int) int {
	usable := width - 120
	bw := usable/n - barSpacing
	if bw < minBarWidth {
		return minBarWidth
	}
	if bw > maxBarWidth {
		return maxBarWidth
	}
	return bw
}

func axisValue(v interface{}) string {
	f, ok := v.(float64)
	if !ok {
		return fmt.Sprint(v)
	}
	return Count(int64(f))
}

func trimHash(hex string) string {
	if len(hex) > 0 && hex[0] == '#' {
		return hex[1:]
	}
	return hex
}

func renderEmpty(w io.Writer, c analyzer.Chart, opts BarOptions) error {
	_, err := fmt.Fprintf(w,
		`<svg xmlns="http://www.w3.org/2000/svg" class="bar-empty" width="%d" height="%d" viewBox="0 0 %d %d">`+
			`<text x="%d" y="28" text-anchor="middle" font-family="sans-serif" font-size="15">%s</text>`+
			`<text x="%d" y="%d" text-anchor="middle" font-family="sans-serif" font-size="12" fill="#6b7280">No data for this selection</text>`+
			`</svg>`,
		opts.Width, opts.Height, opts.Width, opts.Height,
		opts.Width/2, html.EscapeString(c.Title),
		opts.Width/2, opts.Height/2)
	return err
}
