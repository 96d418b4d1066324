package selection

import (
	"fmt"
	"log/slog"
)

// Widget is the grid the user selects cells in.
type Widget interface {
	RowNumbers
	Deselect(cells []CellIndex)
}

// DetailFilter receives the recomputed filter expression. An empty
// expression clears the filter.
type DetailFilter interface {
	Search(column int, expr string) error
}

// Synchronizer applies widget events to its key set and pushes the derived
// expression to the detail view after every event. It is not safe for
// concurrent use; events must be delivered in the order they happened.
type Synchronizer struct {
	widget       Widget
	detail       DetailFilter
	detailColumn int
	logger       *slog.Logger

	keys KeySet
}

// NewSynchronizer filters detailColumn of detail from selections in widget.
func NewSynchronizer(widget Widget, detail DetailFilter, detailColumn int) *Synchronizer {
	return &Synchronizer{
		widget:       widget,
		detail:       detail,
		detailColumn: detailColumn,
		logger:       slog.Default(),
	}
}

// WithLogger replaces the default logger.
func (s *Synchronizer) WithLogger(l *slog.Logger) *Synchronizer {
	s.logger = l
	return s
}

// Handle processes one event. Synthetic-column selections are reverted on
// the widget before the filter is recomputed.
func (s *Synchronizer) Handle(ev Event) error {
	if ev.Type != TypeCell {
		return nil
	}

	next, revert := Reduce(s.keys, ev, s.widget)
	if len(revert) > 0 {
		s.widget.Deselect(revert)
	}
	s.keys = next

	expr := FilterExpression(s.keys)
	s.logger.Debug("selection changed",
		"kind", ev.Kind,
		"cells", len(ev.Indexes),
		"keys", s.keys.Len(),
		"expr", expr,
	)

	if err := s.detail.Search(s.detailColumn, expr); err != nil {
		return fmt.Errorf("apply detail filter %q: %w", expr, err)
	}
	return nil
}

// Keys returns the current key set.
func (s *Synchronizer) Keys() KeySet { return s.keys }

// Expression returns the filter expression for the current key set.
func (s *Synchronizer) Expression() string { return FilterExpression(s.keys) }
