package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/errgrid/internal/core"
	"github.com/JonMunkholm/errgrid/internal/detail"
	"github.com/JonMunkholm/errgrid/internal/highlight"
	"github.com/JonMunkholm/errgrid/internal/web/templates"
)

// maxSelectionBody bounds selection requests; they carry keys and indexes only.
const maxSelectionBody = 1 << 20

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleHealth reports liveness and export capacity.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":  "ok",
		"exports": s.service.Limiter().Status(),
	})
}

// handleIndex renders the report list page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	reports, err := s.service.ListReports(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	render(w, r, templates.ReportList(reports))
}

// handleReportPage renders the annotated grid and the unfiltered detail view.
func (s *Server) handleReportPage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	view, err := s.service.Grid(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	page, err := s.service.Details(r.Context(), id, nil)
	if err != nil {
		fail(w, r, err)
		return
	}
	render(w, r, templates.ReportPage(view, page))
}

// handleDetailRows renders the detail rows whose location matches ?search=.
func (s *Server) handleDetailRows(w http.ResponseWriter, r *http.Request) {
	filters := map[detail.Column]string{
		detail.ColumnLocation: r.URL.Query().Get("search"),
	}
	page, err := s.service.Details(r.Context(), chi.URLParam(r, "id"), filters)
	if err != nil {
		fail(w, r, err)
		return
	}
	render(w, r, templates.DetailRows(page))
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := s.service.ListReports(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	if reports == nil {
		reports = []core.ReportSummary{}
	}
	writeJSON(w, r, http.StatusOK, reports)
}

// diagnosticResponse describes an error record that could not be indexed.
type diagnosticResponse struct {
	Position int                   `json:"position"`
	Error    string                `json:"error"`
	Record   highlight.ErrorRecord `json:"record"`
}

func diagnosticsResponse(diags []highlight.Diagnostic) []diagnosticResponse {
	out := make([]diagnosticResponse, len(diags))
	for i, d := range diags {
		out[i] = diagnosticResponse{Position: d.Position, Error: d.Err.Error(), Record: d.Record}
	}
	return out
}

// handleCreateReport accepts a report payload and responds with its summary.
func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
			respondError(w, r, fmt.Errorf("invalid json: content type %q", ct), http.StatusUnsupportedMediaType)
			return
		}
	}

	raw, err := core.ReadPayload(http.MaxBytesReader(w, r.Body, s.cfg.Reports.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fail(w, r, fmt.Errorf("request body too large: limit is %d bytes", tooLarge.Limit))
			return
		}
		fail(w, r, fmt.Errorf("read request body: %w", err))
		return
	}

	res, err := s.service.CreateReport(withRequestSource(r.Context(), r), raw)
	if err != nil {
		fail(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/reports/"+res.Report.ID)
	writeJSON(w, r, http.StatusCreated, map[string]any{
		"report":      res.Report.Summary(),
		"diagnostics": diagnosticsResponse(res.Diagnostics),
	})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	res, err := s.service.GetReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"report":      res.Report,
		"diagnostics": diagnosticsResponse(res.Diagnostics),
	})
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteReport(r.Context(), chi.URLParam(r, "id")); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleHighlight answers ?location=B3, or ?column=&row= with zero-based
// indexes where either may be omitted.
func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	q, err := highlightQuery(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	res, err := s.service.Highlight(r.Context(), chi.URLParam(r, "id"), q)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

func highlightQuery(r *http.Request) (highlight.Query, error) {
	params := r.URL.Query()
	if loc := params.Get("location"); loc != "" {
		return core.ParseLocation(loc)
	}

	col, hasCol, err := indexParam(params.Get("column"))
	if err != nil {
		return highlight.Query{}, fmt.Errorf("invalid coordinate: column: %w", err)
	}
	row, hasRow, err := indexParam(params.Get("row"))
	if err != nil {
		return highlight.Query{}, fmt.Errorf("invalid coordinate: row: %w", err)
	}

	switch {
	case hasCol && hasRow:
		return highlight.At(col, row), nil
	case hasCol:
		return highlight.AtColumn(col), nil
	case hasRow:
		return highlight.AtRow(row), nil
	default:
		return highlight.Query{}, errors.New("invalid coordinate: location, column or row is required")
	}
}

// indexParam parses an optional non-negative index.
func indexParam(v string) (int, bool, error) {
	if v == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false, err
	}
	if n < 0 {
		return 0, false, fmt.Errorf("%d is negative", n)
	}
	return n, true, nil
}

// handleSelection applies one grid selection event.
func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	var req core.SelectionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSelectionBody))
	if err := dec.Decode(&req); err != nil {
		fail(w, r, fmt.Errorf("invalid json: %w", err))
		return
	}

	res, err := s.service.Select(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, res)
}

// handleExport streams the report as a styled workbook.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	file, err := s.service.Export(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.Header().Set("X-Styled-Cells", strconv.Itoa(file.Summary.Styled))
	if _, err := w.Write(file.Data); err != nil {
		respondWriteError(r, err)
	}
}
