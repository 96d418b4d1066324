package xlsxstyle

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/JonMunkholm/errgrid/internal/highlight"
)

// ErrMalformedCellAddress is reported for worksheet cell references that do
// not look like "B12".
var ErrMalformedCellAddress = errors.New("malformed cell address")

var cellRefPattern = regexp.MustCompile(`^([A-Z]+)([0-9]+)$`)

// ParseCellRef splits a cell reference into a zero-based column index and a
// 1-based row number.
func ParseCellRef(ref string) (column, rowNumber int, err error) {
	m := cellRefPattern.FindStringSubmatch(ref)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrMalformedCellAddress, ref)
	}

	column, err = highlight.LettersToIndex(m[1])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q: %v", ErrMalformedCellAddress, ref, err)
	}

	rowNumber, err = strconv.Atoi(m[2])
	if err != nil || rowNumber < 1 {
		return 0, 0, fmt.Errorf("%w: %q: bad row number", ErrMalformedCellAddress, ref)
	}
	return column, rowNumber, nil
}

// Worksheet is the sheet being styled.
type Worksheet interface {
	CellRefs() ([]string, error)
	SetCellStyle(ref string, styleID int) error
}

// OutcomeSource resolves single-winner outcomes for a location.
type OutcomeSource interface {
	Outcome(q highlight.Query) highlight.Outcome
}

// Styler applies registered styles to worksheet cells.
type Styler struct {
	outcomes   OutcomeSource
	registry   Registry
	headerRows int
	logger     *slog.Logger
}

// Option configures a Styler.
type Option func(*Styler)

// WithHeaderRows sets how many sheet rows precede the first data row. Cells
// in those rows are never styled.
func WithHeaderRows(n int) Option {
	return func(s *Styler) { s.headerRows = max(n, 0) }
}

// WithLogger sets the logger used for skipped cells.
func WithLogger(l *slog.Logger) Option {
	return func(s *Styler) { s.logger = l }
}

// NewStyler returns a styler resolving outcomes with src and styles from reg.
func NewStyler(src OutcomeSource, reg Registry, opts ...Option) *Styler {
	s := &Styler{outcomes: src, registry: reg, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary reports what one styling pass did.
type Summary struct {
	Cells     int                       `json:"cells"`
	Styled    int                       `json:"styled"`
	Malformed []string                  `json:"malformed,omitempty"`
	Outcomes  map[highlight.Outcome]int `json:"outcomes"`
}

// Apply styles every highlighted cell of ws. Malformed references are
// skipped and listed in the summary; any error from the worksheet itself
// aborts the pass. Cells without an outcome are left untouched, so running
// Apply again with the same index assigns the same styles.
func (s *Styler) Apply(ws Worksheet) (Summary, error) {
	sum := Summary{Outcomes: make(map[highlight.Outcome]int)}

	refs, err := ws.CellRefs()
	if err != nil {
		return sum, fmt.Errorf("list cells: %w", err)
	}

	for _, ref := range refs {
		sum.Cells++

		col, rowNumber, err := ParseCellRef(ref)
		if err != nil {
			s.logger.Warn("skipping cell", "ref", ref, "error", err)
			sum.Malformed = append(sum.Malformed, ref)
			continue
		}

		row := rowNumber - 1 - s.headerRows
		if row < 0 {
			continue
		}

		outcome := s.outcomes.Outcome(highlight.At(col, row))
		if outcome == highlight.OutcomeNone {
			continue
		}

		id, ok := s.registry.StyleID(outcome)
		if !ok {
			return sum, fmt.Errorf("no style registered for %s", outcome)
		}
		if err := ws.SetCellStyle(ref, id); err != nil {
			return sum, fmt.Errorf("style %s: %w", ref, err)
		}
		sum.Styled++
		sum.Outcomes[outcome]++
	}

	return sum, nil
}
