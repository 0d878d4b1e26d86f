package web

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

// HTMXRequestHeader is set by htmx on every request it issues.
const HTMXRequestHeader = "HX-Request"

// IsHTMXRequest reports whether the request was initiated by htmx.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(HTMXRequestHeader), "true")
}

// RenderPage renders fragment for htmx requests and full otherwise. When
// fragment is nil an htmx request gets the <main> content of full.
func RenderPage(w http.ResponseWriter, r *http.Request, fragment templ.Component, full templ.Component) {
	htmx := IsHTMXRequest(r)
	switch {
	case htmx && fragment != nil:
		templ.Handler(fragment).ServeHTTP(w, r)
	case htmx && full != nil:
		renderMain(w, r, full)
	case full != nil:
		templ.Handler(full).ServeHTTP(w, r)
	case fragment != nil:
		templ.Handler(fragment).ServeHTTP(w, r)
	default:
		http.NotFound(w, r)
	}
}

func renderMain(w http.ResponseWriter, r *http.Request, full templ.Component) {
	var body bytes.Buffer
	if err := full.Render(r.Context(), &body); err != nil {
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	out := body.Bytes()
	if main, ok := extractMainContent(out); ok {
		out = main
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(out)
}

func extractMainContent(body []byte) ([]byte, bool) {
	start := bytes.Index(body, []byte("<main"))
	if start < 0 {
		return nil, false
	}
	openClose := bytes.Index(body[start:], []byte(">"))
	if openClose < 0 {
		return nil, false
	}
	contentStart := start + openClose + 1
	end := bytes.Index(body[contentStart:], []byte("</main>"))
	if end < 0 {
		return nil, false
	}
	return body[contentStart : contentStart+end], true
}
