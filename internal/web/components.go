package web

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"

	"github.com/a-h/templ"
	"github.com/yildizm/CovTrack/internal/dashboard"
	"github.com/yildizm/CovTrack/internal/figure"
)

const (
	pageTitle  = "Covid India Tracker"
	heading    = "Covid-19 India"
	stylesheet = "https://codepen.io/chriddyp/pen/bWLwgP.css"
	htmxScript = "https://unpkg.com/htmx.org@1.9.12"
)

const inlineStyle = `body{max-width:1400px;margin:0 auto;padding:0 1.5rem}
.counter{font-size:2.4rem;font-weight:600}
.counter-label{color:#6b7280;margin-bottom:0}
.table-wrap{height:450px;overflow-y:auto}
.table-wrap table{width:100%}
.choropleth{max-width:100%;height:auto;background:#111827}
.choropleth path:hover{stroke:#111827;stroke-width:1.5}
select{width:100%}`

// htmlWriter stops writing after the first error.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) printf(format string, args ...interface{}) {
	if h.err != nil {
		return
	}
	_, h.err = fmt.Fprintf(h.w, format, args...)
}

func (h *htmlWriter) component(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

var esc = html.EscapeString

// pageData is everything the full page shows.
type pageData struct {
	Base     string
	Dash     *dashboard.Dashboard
	Totals   dashboard.TotalsView
	Charts   dashboard.ChartsView
	Selected dashboard.Selection
	Bars     figure.BarOptions
}

// Page is the complete dashboard document.
func Page(data pageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.printf(`<title>%s</title>`, esc(pageTitle))
		h.printf(`<link rel="stylesheet" href="%s">`, stylesheet)
		h.printf(`<script src="%s"></script>`, htmxScript)
		h.printf(`<style>%s</style>`, inlineStyle)
		h.raw(`</head><body><main>`)

		h.printf(`<div class="row"><h1>%s</h1></div>`, esc(heading))

		h.raw(`<div class="row"><div class="three columns"><p></p></div>`)
		h.raw(`<div class="three columns"><p class="counter-label">Total Cases</p></div>`)
		h.raw(`<div class="three columns"><p class="counter-label">Total Deaths</p></div>`)
		h.raw(`<div class="three columns"><p class="counter-label">Cured</p></div></div>`)

		h.raw(`<div class="row"><div class="three columns">`)
		h.component(ctx, Select("select-state", "state", data.Base+"totals", "#totals",
			data.Dash.StateOptions(), data.Selected.State))
		h.raw(`</div><div id="totals">`)
		h.component(ctx, Counters(data.Totals))
		h.raw(`</div></div>`)

		h.raw(`<div class="row"><div class="eight columns" id="states-graph">`)
		h.raw(string(data.Dash.Map().SVG))
		h.raw(`</div><div class="four columns table-wrap">`)
		h.component(ctx, RegionTable(data.Dash.Columns(), data.Dash.Rows()))
		h.raw(`</div></div>`)

		h.raw(`<div class="row"><div class="three columns">`)
		h.component(ctx, Select("select-month", "month", data.Base+"series", "#charts",
			data.Dash.MonthOptions(), data.Selected.Month))
		h.raw(`</div></div>`)

		h.raw(`<div class="row" id="charts">`)
		h.component(ctx, Charts(data.Charts, data.Bars))
		h.raw(`</div>`)

		h.printf(`<div class="row"><p>Export: <a href="%[1]sexport.csv">CSV</a> · <a href="%[1]sexport.xlsx">Excel</a> · <a href="%[1]sexport.md">Markdown</a> · <a href="%[1]sexport.json">JSON</a></p></div>`, esc(data.Base))
		h.raw(`</main></body></html>`)
		return h.err
	})
}

// Select is a dropdown that asks the server for a fragment on change.
func Select(id, name, url, target string, options []dashboard.Option, selected string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.printf(`<select id="%s" name="%s" hx-get="%s" hx-target="%s" hx-trigger="change">`,
			esc(id), esc(name), esc(url), esc(target))
		for _, opt := range options {
			attr := ""
			if opt.Value == selected {
				attr = " selected"
			}
			h.printf(`<option value="%s"%s>%s</option>`, esc(opt.Value), attr, esc(opt.Label))
		}
		h.raw(`</select>`)
		return h.err
	})
}

// Counters renders the three totals.
func Counters(v dashboard.TotalsView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.printf(`<div id="Total_Cases" class="three columns counter" data-state="%s">%s</div>`, esc(v.State), v.Cases)
		h.printf(`<div id="Total_Deaths" class="three columns counter">%s</div>`, v.Deaths)
		h.printf(`<div id="Total_Cured" class="three columns counter">%s</div>`, v.Cured)
		return h.err
	})
}

// Charts renders the new cases and new deaths bar charts side by side.
func Charts(v dashboard.ChartsView, opts figure.BarOptions) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var cases, deaths bytes.Buffer
		if err := figure.RenderBar(&cases, v.Series.Cases, opts); err != nil {
			return err
		}
		deathOpts := opts
		deathOpts.Color = "#ef553b"
		if err := figure.RenderBar(&deaths, v.Series.Deaths, deathOpts); err != nil {
			return err
		}

		h := &htmlWriter{w: w}
		h.printf(`<div class="six columns" id="new_cases_month" data-month="%s">`, esc(v.Month))
		h.raw(cases.String())
		h.raw(`</div><div class="six columns" id="new_deaths_month">`)
		h.raw(deaths.String())
		h.raw(`</div>`)
		return h.err
	})
}

// RegionTable renders the static state table.
func RegionTable(columns []string, rows [][]string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<table id="table"><thead><tr>`)
		for _, c := range columns {
			h.printf(`<th>%s</th>`, esc(c))
		}
		h.raw(`</tr></thead><tbody>`)
		for _, row := range rows {
			h.raw(`<tr>`)
			for _, cell := range row {
				h.printf(`<td>%s</td>`, esc(cell))
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table>`)
		return h.err
	})
}
