package web

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/errgrid/internal/logging"
)

// render buffers c so a failing component can still produce an error page.
func render(w http.ResponseWriter, r *http.Request, c templ.Component) {
	var buf bytes.Buffer
	if err := c.Render(r.Context(), &buf); err != nil {
		fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		respondWriteError(r, err)
	}
}

// respondWriteError logs a failure to write a response body. Nothing can be
// sent to the client at that point.
func respondWriteError(r *http.Request, err error) {
	logging.FromContext(r.Context()).Warn("write response", "path", r.URL.Path, "error", err)
}
