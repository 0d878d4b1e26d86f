package web

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/yildizm/CovTrack/internal/dashboard"
	"github.com/yildizm/CovTrack/internal/formatter"
	"github.com/yildizm/CovTrack/internal/logger"
	"github.com/yildizm/CovTrack/internal/monitor"
)

// exportFormats are served as <base>export.<extension>.
var exportFormats = []string{"json", "csv", "markdown", "xlsx"}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	base := s.base

	if root := strings.TrimSuffix(base, "/"); root != "" {
		mux.HandleFunc("GET "+root, func(w http.ResponseWriter, r *http.Request) {
			target := base
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusFound)
		})
	}
	mux.Handle("GET "+base+"{$}", s.track(monitor.OperationPage, s.handlePage))
	mux.Handle("GET "+base+"totals", s.track(monitor.OperationFragment, s.handleTotals))
	mux.Handle("GET "+base+"series", s.track(monitor.OperationFragment, s.handleSeries))
	mux.Handle("GET "+base+"map.svg", s.track(monitor.OperationMap, s.handleMap))
	mux.Handle("GET "+base+"api/totals", s.track(monitor.OperationAPI, s.handleAPITotals))
	mux.Handle("GET "+base+"api/series", s.track(monitor.OperationAPI, s.handleAPISeries))
	mux.Handle("GET "+base+"api/regions", s.track(monitor.OperationAPI, s.handleAPIRegions))
	mux.HandleFunc("GET "+base+"api/metrics", s.handleAPIMetrics)
	for _, name := range exportFormats {
		spec, _ := formatter.Lookup(name)
		mux.Handle("GET "+base+"export."+spec.Extension, s.track(monitor.OperationExport, s.handleExport(spec)))
	}
	mux.HandleFunc("GET "+base+"{file}", s.handleUnknown)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

func selectionFrom(r *http.Request) dashboard.Selection {
	q := r.URL.Query()
	return dashboard.Selection{State: q.Get("state"), Month: q.Get("month")}
}

// page builds the full document for a selection.
func (s *Server) page(d *dashboard.Dashboard, sel dashboard.Selection) pageData {
	session := d.NewSession()
	totals, charts := session.Apply(sel)
	return pageData{
		Base:     s.base,
		Dash:     d,
		Totals:   totals,
		Charts:   charts,
		Selected: session.Selection(),
		Bars:     s.bars,
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	d := s.Dashboard()
	RenderPage(w, r, nil, Page(s.page(d, selectionFrom(r))))
}

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	d := s.Dashboard()
	sel := selectionFrom(r)
	view := d.NewSession().SelectState(sel.State)
	RenderPage(w, r, Counters(view), Page(s.page(d, sel)))
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	d := s.Dashboard()
	sel := selectionFrom(r)
	view := d.NewSession().SelectMonth(sel.Month)
	RenderPage(w, r, Charts(view, s.bars), Page(s.page(d, sel)))
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	d := s.Dashboard()
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Last-Modified", d.LoadedAt().UTC().Format(http.TimeFormat))
	if _, err := w.Write(d.Map().SVG); err != nil {
		s.log.WarnWithFields("Failed to write map", []logger.Field{logger.Error(err)})
	}
}

func (s *Server) handleAPITotals(w http.ResponseWriter, r *http.Request) {
	view := s.Dashboard().NewSession().SelectState(r.URL.Query().Get("state"))
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAPISeries(w http.ResponseWriter, r *http.Request) {
	view := s.Dashboard().NewSession().SelectMonth(r.URL.Query().Get("month"))
	s.writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAPIRegions(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Dashboard().Regions())
}

func (s *Server) handleAPIMetrics(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

func (s *Server) handleExport(spec formatter.Spec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := formatter.New(spec.Name, false)
		if err != nil {
			_ = WriteJSONError(w, http.StatusBadRequest, err.Error())
			return
		}
		report := s.Dashboard().Report(selectionFrom(r))
		data, err := f.Format(report)
		if err != nil {
			s.log.ErrorWithFields("Export failed", []logger.Field{
				logger.F("format", spec.Name),
				logger.Error(err),
			})
			_ = WriteJSONError(w, http.StatusInternalServerError, "export failed")
			return
		}

		filename := fmt.Sprintf("covtrack-%s.%s", report.GeneratedAt.Format("20060102"), spec.Extension)
		w.Header().Set("Content-Type", spec.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		if _, err := w.Write(data); err != nil {
			s.log.WarnWithFields("Failed to write export", []logger.Field{logger.Error(err)})
		}
	}
}

// handleUnknown answers 400 for export names with an unsupported extension
// and 404 for everything else.
func (s *Server) handleUnknown(w http.ResponseWriter, r *http.Request) {
	file := r.PathValue("file")
	if ext, ok := strings.CutPrefix(file, "export."); ok {
		_ = WriteJSONError(w, http.StatusBadRequest, "unsupported export format: "+ext)
		return
	}
	http.NotFound(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Dataset-Loaded", s.Dashboard().LoadedAt().UTC().Format(time.RFC3339))
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	if err := WriteJSON(w, status, payload); err != nil {
		s.log.WarnWithFields("Failed to write JSON response", []logger.Field{logger.Error(err)})
	}
}
