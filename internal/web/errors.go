package web

// errors.go renders every handler error the same way: the technical error is
// logged with the request id, and the client gets the mapped user message as
// JSON for API calls and fetch fragments, or as an HTML alert for pages.

import (
	"net/http"
	"strings"

	"github.com/JonMunkholm/errgrid/internal/core"
	"github.com/JonMunkholm/errgrid/internal/logging"
	"github.com/JonMunkholm/errgrid/internal/web/templates"
)

// ErrorResponse is the JSON body of an API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusByCode maps user message codes to HTTP statuses. Codes missing here
// are server errors.
var statusByCode = map[string]int{
	"REP001":  http.StatusNotFound,
	"REP002":  http.StatusBadRequest,
	"REP003":  http.StatusRequestEntityTooLarge,
	"VAL001":  http.StatusBadRequest,
	"VAL002":  http.StatusBadRequest,
	"VAL003":  http.StatusBadRequest,
	"LOC001":  http.StatusBadRequest,
	"LOC002":  http.StatusBadRequest,
	"LOC003":  http.StatusBadRequest,
	"EXP001":  http.StatusServiceUnavailable,
	"EXP002":  http.StatusGatewayTimeout,
	"DB001":   http.StatusConflict,
	"REQ001":  499,
	"REQ002":  http.StatusGatewayTimeout,
	"RATE001": http.StatusTooManyRequests,
	"AUTH001": http.StatusUnauthorized,
}

// statusFor picks the HTTP status for err.
func statusFor(err error) int {
	if status, ok := statusByCode[core.MapError(err).Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// fail responds with the status derived from err.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	respondError(w, r, err, statusFor(err))
}

// respondError logs err and writes the user-facing message.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	msg := core.MapError(err)

	log := logging.FromContext(r.Context()).With(
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", msg.Code,
	)
	if statusCode >= 500 {
		log.Error("request error")
	} else {
		log.Warn("request error")
	}

	switch {
	case wantsJSON(r):
		writeJSON(w, r, statusCode, ErrorResponse{
			Error:   msg.Message,
			Message: msg.Message,
			Action:  msg.Action,
			Code:    msg.Code,
		})
	default:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(statusCode)
		_ = templates.ErrorAlert(msg.Message, msg.Action, msg.Code).Render(r.Context(), w)
	}
}

// wantsJSON reports whether the client expects a JSON error body.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
