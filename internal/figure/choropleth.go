package figure

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"
	"github.com/yildizm/CovTrack/internal/dataset"
)

// MapOptions controls the choropleth layout.
type MapOptions struct {
	Width     int     `yaml:"width" json:"width"`
	Height    int     `yaml:"height" json:"height"`
	CenterLat float64 `yaml:"center_lat" json:"center_lat"`
	LowColor  string  `yaml:"low_color" json:"low_color"`
	HighColor string  `yaml:"high_color" json:"high_color"`
}

// DefaultMapOptions matches the original India view.
func DefaultMapOptions() MapOptions {
	return MapOptions{
		Width:     640,
		Height:    700,
		CenterLat: 24,
		LowColor:  "#0d0887",
		HighColor: "#f0f921",
	}
}

// MapFigure is a rendered choropleth.
type MapFigure struct {
	SVG     []byte
	Min     int64
	Max     int64
	Regions int
}

const (
	mapPadding   = 16.0
	legendHeight = 48.0
	noDataColor  = "#d1d5db"
)

// ErrNoBoundaries is returned when there is nothing to draw.
var ErrNoBoundaries = errors.New("no boundaries to draw")

// RenderMap draws every boundary, filled by the region's total cases on a
// linear scale between LowColor and HighColor. Hovering a region shows its
// name and counters.
func RenderMap(regions []dataset.Region, boundaries []dataset.Boundary, opts MapOptions) (*MapFigure, error) {
	if len(boundaries) == 0 {
		return nil, ErrNoBoundaries
	}
	def := DefaultMapOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.LowColor == "" {
		opts.LowColor = def.LowColor
	}
	if opts.HighColor == "" {
		opts.HighColor = def.HighColor
	}
	low, err := colorful.Hex(opts.LowColor)
	if err != nil {
		return nil, fmt.Errorf("invalid low color %q: %w", opts.LowColor, err)
	}
	high, err := colorful.Hex(opts.HighColor)
	if err != nil {
		return nil, fmt.Errorf("invalid high color %q: %w", opts.HighColor, err)
	}

	byCode := make(map[string]dataset.Region, len(regions))
	fig := &MapFigure{}
	for i, r := range regions {
		byCode[r.Code] = r
		if i == 0 || r.TotalCases < fig.Min {
			fig.Min = r.TotalCases
		}
		if i == 0 || r.TotalCases > fig.Max {
			fig.Max = r.TotalCases
		}
	}

	proj := newProjection(boundaries, opts)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" class="choropleth" width="%d" height="%d" viewBox="0 0 %d %d">`,
		opts.Width, opts.Height, opts.Width, opts.Height)
	buf.WriteString(`<g stroke="#ffffff" stroke-width="0.6" fill-rule="evenodd">`)

	for _, b := range boundaries {
		region, ok := byCode[b.Code]
		fill := noDataColor
		title := html.EscapeString(b.Name) + "\nno data"
		if ok {
			fill = blend(low, high, scale(region.TotalCases, fig.Min, fig.Max))
			title = html.EscapeString(region.Name) +
				"\ntotalcases: " + Count(region.TotalCases) +
				"\ndeaths: " + Count(region.Deaths) +
				"\ncured: " + Count(region.Cured)
			fig.Regions++
		}

		d := proj.path(b.Geometry)
		if d == "" {
			if c, ok := proj.point(b.Geometry); ok {
				fmt.Fprintf(&buf, `<circle data-code="%s" cx="%.1f" cy="%.1f" r="4" fill="%s"><title>%s</title></circle>`,
					html.EscapeString(b.Code), c[0], c[1], fill, title)
			}
			continue
		}
		fmt.Fprintf(&buf, `<path data-code="%s" d="%s" fill="%s"><title>%s</title></path>`,
			html.EscapeString(b.Code), d, fill, title)
	}
	buf.WriteString(`</g>`)
	writeLegend(&buf, opts, fig.Min, fig.Max)
	buf.WriteString(`</svg>`)

	fig.SVG = buf.Bytes()
	return fig, nil
}

func scale(v, lo, hi int64) float64 {
	if hi <= lo {
		return 0
	}
	return float64(v-lo) / float64(hi-lo)
}

func blend(low, high colorful.Color, t float64) string {
	switch {
	case t <= 0:
		return low.Hex()
	case t >= 1:
		return high.Hex()
	}
	return low.BlendHcl(high, t).Clamped().Hex()
}

func writeLegend(buf *bytes.Buffer, opts MapOptions, lo, hi int64) {
	y := float64(opts.Height) - legendHeight + 8
	w := float64(opts.Width) / 2
	x := mapPadding
	fmt.Fprintf(buf, `<defs><linearGradient id="cases-scale"><stop offset="0" stop-color="%s"/><stop offset="1" stop-color="%s"/></linearGradient></defs>`,
		opts.LowColor, opts.HighColor)
	fmt.Fprintf(buf, `<g class="legend" font-family="sans-serif" font-size="11"><text x="%.1f" y="%.1f">totalcases</text>`, x, y)
	fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="10" fill="url(#cases-scale)"/>`, x, y+6, w)
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f">%s</text>`, x, y+30, Count(lo))
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" text-anchor="end">%s</text></g>`, x+w, y+30, Count(hi))
}

// projection is an equirectangular projection with longitudes shrunk by the
// cosine of the center latitude, fitted into the drawing area.
type projection struct {
	bound orb.Bound
	kx    float64
	scale float64
	offX  float64
	offY  float64
}

func newProjection(boundaries []dataset.Boundary, opts MapOptions) projection {
	var bound orb.Bound
	first := true
	for _, b := range boundaries {
		if b.Geometry == nil {
			continue
		}
		if first {
			bound = b.Geometry.Bound()
			first = false
			continue
		}
		bound = bound.Union(b.Geometry.Bound())
	}

	lat := opts.CenterLat
	if lat == 0 {
		lat = (bound.Min.Lat() + bound.Max.Lat()) / 2
	}
	kx := math.Cos(lat * math.Pi / 180)
	if kx <= 0 {
		kx = 1
	}

	spanX := (bound.Max.Lon() - bound.Min.Lon()) * kx
	spanY := bound.Max.Lat() - bound.Min.Lat()
	availW := float64(opts.Width) - 2*mapPadding
	availH := float64(opts.Height) - 2*mapPadding - legendHeight

	s := math.Inf(1)
	if spanX > 0 {
		s = availW / spanX
	}
	if spanY > 0 {
		s = math.Min(s, availH/spanY)
	}
	if math.IsInf(s, 1) {
		s = 1
	}

	return projection{
		bound: bound,
		kx:    kx,
		scale: s,
		offX:  mapPadding + (availW-spanX*s)/2,
		offY:  mapPadding + (availH-spanY*s)/2,
	}
}

func (p projection) project(pt orb.Point) (float64, float64) {
	x := p.offX + (pt.Lon()-p.bound.Min.Lon())*p.kx*p.scale
	y := p.offY + (p.bound.Max.Lat()-pt.Lat())*p.scale
	return x, y
}

func (p projection) point(g orb.Geometry) ([2]float64, bool) {
	pt, ok := g.(orb.Point)
	if !ok {
		return [2]float64{}, false
	}
	x, y := p.project(pt)
	return [2]float64{x, y}, true
}

// path returns SVG path data for polygonal geometries and "" otherwise.
func (p projection) path(g orb.Geometry) string {
	var out []byte
	switch geom := g.(type) {
	case orb.Polygon:
		out = p.appendPolygon(out, geom)
	case orb.MultiPolygon:
		for _, poly := range geom {
			out = p.appendPolygon(out, poly)
		}
	case orb.Collection:
		for _, sub := range geom {
			if d := p.path(sub); d != "" {
				out = append(out, d...)
			}
		}
	}
	return string(out)
}

func (p projection) appendPolygon(out []byte, poly orb.Polygon) []byte {
	for _, ring := range poly {
		for i, pt := range ring {
			if i == 0 {
				out = append(out, 'M')
			} else {
				out = append(out, 'L')
			}
			x, y := p.project(pt)
			out = strconv.AppendFloat(out, x, 'f', 1, 64)
			out = append(out, ' ')
			out = strconv.AppendFloat(out, y, 'f', 1, 64)
		}
		if len(ring) > 0 {
			out = append(out, 'Z')
		}
	}
	return out
}
