package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/errgrid/internal/detail"
	"github.com/JonMunkholm/errgrid/internal/grid"
	"github.com/JonMunkholm/errgrid/internal/logging"
	"github.com/JonMunkholm/errgrid/internal/selection"
	"github.com/JonMunkholm/errgrid/internal/xlsxstyle"
)

// GridView is a report laid out for the interactive grid.
type GridView struct {
	Report      ReportSummary `json:"report"`
	Columns     []grid.Column `json:"columns"`
	Letters     []string      `json:"letters"`
	Rows        []*grid.Row   `json:"rows"`
	Diagnostics int           `json:"diagnostics"`
}

// Grid builds the display rows of a report and tags every cell with its
// error markers.
func (s *Service) Grid(ctx context.Context, id string) (*GridView, error) {
	lr, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := displayRows(lr.report)
	if err != nil {
		return nil, err
	}
	grid.AnnotateRows(grid.NewAnnotator(lr.resolver), rows)

	cols := grid.Columns(lr.report.Columns)
	return &GridView{
		Report:      lr.report.Summary(),
		Columns:     cols,
		Letters:     grid.LetterHeader(len(cols)),
		Rows:        rows,
		Diagnostics: len(lr.diagnostics),
	}, nil
}

// displayRows pads every sample to the report width and reshapes the samples
// into display rows.
func displayRows(r *Report) ([]*grid.Row, error) {
	samples := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		if len(row) == len(r.Columns) {
			samples[i] = row
			continue
		}
		padded := make([]string, len(r.Columns))
		copy(padded, row)
		samples[i] = padded
	}

	rows, err := grid.BuildRows(samples, r.Positions)
	if err != nil {
		return nil, fmt.Errorf("report %s: %w", r.ID, err)
	}
	return rows, nil
}

// DetailPage is a filtered slice of the detail view.
type DetailPage struct {
	Titles []string     `json:"titles"`
	Rows   []detail.Row `json:"rows"`
	Total  int          `json:"total"`
}

// Details lists the report's errors, filtered per column by regular
// expressions. Empty expressions are ignored.
func (s *Service) Details(ctx context.Context, id string, filters map[detail.Column]string) (*DetailPage, error) {
	lr, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	v := detail.NewView(lr.report.Errors)
	for col, expr := range filters {
		if err := v.Search(int(col), expr); err != nil {
			return nil, err
		}
	}
	return &DetailPage{Titles: detail.Titles[:], Rows: v.Rows(), Total: v.Total()}, nil
}

// SelectionRequest carries the client's current key set and one widget event.
type SelectionRequest struct {
	Keys  []string        `json:"keys"`
	Event selection.Event `json:"event"`
}

// SelectionResult is the state after one selection step.
type SelectionResult struct {
	Keys       []string              `json:"keys"`
	Expression string                `json:"expression"`
	Deselect   []selection.CellIndex `json:"deselect"`
	Details    *DetailPage           `json:"details"`
}

// Select folds one selection event into the client's key set and returns the
// detail rows matching the new filter.
func (s *Service) Select(ctx context.Context, id string, req SelectionRequest) (*SelectionResult, error) {
	lr, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := displayRows(lr.report)
	if err != nil {
		return nil, err
	}

	numbers := selection.RowNumberFunc(func(i int) string {
		if i < 0 || i >= len(rows) {
			return ""
		}
		return rows[i].Number()
	})

	keys, revert := selection.Reduce(selection.NewKeySet(req.Keys...), req.Event, numbers)
	expr := selection.FilterExpression(keys)

	page, err := s.Details(ctx, id, map[detail.Column]string{detail.ColumnLocation: expr})
	if err != nil {
		return nil, err
	}

	logging.WithReport(ctx, id).Debug("selection changed",
		"kind", req.Event.Kind,
		"keys", keys.Len(),
		"expression", expr,
	)

	if revert == nil {
		revert = []selection.CellIndex{}
	}
	return &SelectionResult{
		Keys:       keys.Keys(),
		Expression: expr,
		Deselect:   revert,
		Details:    page,
	}, nil
}

// ExportFile is a styled workbook ready for download.
type ExportFile struct {
	Name    string
	Data    []byte
	Summary xlsxstyle.Summary
}

// Export writes the report to a new workbook and styles every highlighted
// cell. Exports share a bounded number of slots.
func (s *Service) Export(ctx context.Context, id string) (*ExportFile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.exportTimeout)
	defer cancel()

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, exportErr(err)
	}
	defer s.limiter.Release()

	lr, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := displayRows(lr.report)
	if err != nil {
		return nil, err
	}

	log := logging.WithReport(ctx, id)
	start := time.Now()

	data := make([][]string, len(rows))
	for i, row := range rows {
		data[i] = row.DataValues()
	}

	wb, err := xlsxstyle.BuildWorkbook(s.sheet, lr.report.Columns, data)
	if err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}
	defer wb.Close()

	reg, err := xlsxstyle.Register(wb, s.palette)
	if err != nil {
		return nil, fmt.Errorf("style workbook: %w", err)
	}
	styler := xlsxstyle.NewStyler(lr.resolver, reg,
		xlsxstyle.WithHeaderRows(xlsxstyle.HeaderRows),
		xlsxstyle.WithLogger(log),
	)
	sum, err := styler.Apply(wb)
	if err != nil {
		return nil, fmt.Errorf("style workbook: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, exportErr(err)
	}

	buf, err := wb.File().WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	log.Info("report exported",
		"cells", sum.Cells,
		"styled", sum.Styled,
		"bytes", buf.Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return &ExportFile{
		Name:    exportFileName(lr.report.Name),
		Data:    buf.Bytes(),
		Summary: sum,
	}, nil
}

func exportErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("export timed out: %w", err)
	}
	return err
}

// exportFileName derives a download name from the report name.
func exportFileName(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, name)
	clean = strings.Trim(clean, "._")
	if clean == "" {
		clean = "report"
	}
	return clean + ".xlsx"
}
