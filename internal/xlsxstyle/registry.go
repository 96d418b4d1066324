package xlsxstyle

import (
	"fmt"

	"github.com/JonMunkholm/errgrid/internal/highlight"
)

// StyleTable is the document's shared style table. AppendSolidFill adds a
// solid background fill plus a cell format referencing it and returns the
// new cell format's id, keeping the table's declared counts consistent.
type StyleTable interface {
	AppendSolidFill(rgb string) (int, error)
}

// Registry maps outcomes to registered style ids. It is immutable.
type Registry struct {
	ids map[highlight.Outcome]int
}

// StyleID returns the style registered for o.
func (r Registry) StyleID(o highlight.Outcome) (int, bool) {
	id, ok := r.ids[o]
	return id, ok
}

// Len returns the number of registered outcomes.
func (r Registry) Len() int { return len(r.ids) }

// Register appends one style per outcome, in highlight.Outcomes order. It is
// not idempotent: calling it twice on the same document appends twice.
func Register(table StyleTable, palette Palette) (Registry, error) {
	if err := palette.Validate(); err != nil {
		return Registry{}, err
	}

	ids := make(map[highlight.Outcome]int, len(highlight.Outcomes))
	for _, o := range highlight.Outcomes {
		id, err := table.AppendSolidFill(palette.Color(o))
		if err != nil {
			return Registry{}, fmt.Errorf("register %s style: %w", o, err)
		}
		ids[o] = id
	}
	return Registry{ids: ids}, nil
}
