package templates

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/errgrid/internal/core"
	"github.com/JonMunkholm/errgrid/internal/detail"
	"github.com/JonMunkholm/errgrid/internal/grid"
	"github.com/JonMunkholm/errgrid/internal/highlight"
)

func TestReportList(t *testing.T) {
	var buf bytes.Buffer
	err := ReportList([]core.ReportSummary{{
		ID:        "r1",
		Name:      "<Core & run>",
		CreatedAt: time.Date(2026, 3, 4, 5, 6, 0, 0, time.UTC),
		Rows:      12,
		Errors:    3,
	}}).Render(context.Background(), &buf)
	require.NoError(t, err)

	html := buf.String()
	assert.Contains(t, html, "<!doctype html>")
	assert.Contains(t, html, "<title>Reports · errgrid</title>")
	assert.Contains(t, html, `<a href="/reports/r1">&lt;Core &amp; run&gt;</a>`)
	assert.Contains(t, html, "<td>2026-03-04 05:06</td><td>12</td>")
	assert.Contains(t, html, "<main><h1>Reports</h1>")

	buf.Reset()
	require.NoError(t, ReportList(nil).Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), `class="empty"`)
	assert.NotContains(t, buf.String(), "report-list")
}

func TestReportPage(t *testing.T) {
	view := &core.GridView{
		Report:  core.ReportSummary{ID: "r1", Name: "Run"},
		Columns: grid.Columns([]string{"depth"}),
		Letters: []string{"", "A"},
		Rows: []*grid.Row{{Cells: []grid.Cell{
			{Value: "1", Classes: []string{"error-row"}},
			{Value: "x<y", Classes: []string{"error-cell", "warning-column"}},
		}}},
		Diagnostics: 2,
	}
	details := &core.DetailPage{
		Titles: []string{"Location", "Severity", "Message", "Sample", "Field"},
		Rows:   []detail.Row{{Location: "A1", Severity: highlight.SeverityError, Message: "bad"}},
		Total:  1,
	}

	var buf bytes.Buffer
	require.NoError(t, ReportPage(view, details).Render(context.Background(), &buf))
	html := buf.String()

	assert.Contains(t, html, `<section class="report" data-report="r1">`)
	assert.Contains(t, html, `href="/api/reports/r1/export"`)
	assert.Contains(t, html, "2 error(s) carry no location")
	assert.Contains(t, html, `<th class="error-row" data-col="0">1</th>`)
	assert.Contains(t, html, `<td class="error-cell warning-column" data-col="1">x&lt;y</td>`)
	assert.Contains(t, html, `<tr class="severity-error"><td>A1</td><td>error</td><td>bad</td>`)
	assert.Contains(t, html, "</section></main></body></html>")
}

func TestDetailRows_Empty(t *testing.T) {
	var buf bytes.Buffer
	page := &core.DetailPage{Titles: []string{"a", "b", "c"}}
	require.NoError(t, DetailRows(page).Render(context.Background(), &buf))
	assert.Equal(t, `<tr class="empty"><td colspan="3">No matching errors</td></tr>`, buf.String())
}

func TestErrorAlert(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ErrorAlert("Report not found", "", "REP001").Render(context.Background(), &buf))
	assert.Equal(t,
		`<div class="alert alert-error" role="alert"><strong>Report not found</strong><code>REP001</code></div>`,
		buf.String())
}
