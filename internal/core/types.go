package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/errgrid/internal/highlight"
)

// DBTX is the database surface the report store needs. Satisfied by both
// *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// ReportInput is the payload accepted by CreateReport.
type ReportInput struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`

	// Positions holds the zero-based data-row position of each row when the
	// rows are a sparse sample of a larger table. Nil means contiguous.
	Positions []int `json:"positions,omitempty"`

	Errors []highlight.ErrorRecord `json:"errors"`
}

// Source records who submitted a report.
type Source struct {
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// Report is a stored report.
type Report struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Source    Source    `json:"source"`
	ReportInput
}

// Summary condenses r for listings.
func (r *Report) Summary() ReportSummary {
	s := ReportSummary{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		Columns:   len(r.Columns),
		Rows:      len(r.Rows),
	}
	for _, e := range r.Errors {
		switch e.Severity {
		case highlight.SeverityError:
			s.Errors++
		case highlight.SeverityWarning:
			s.Warnings++
		}
	}
	return s
}

// ReportSummary is one entry of the report list.
type ReportSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Columns   int       `json:"columns"`
	Rows      int       `json:"rows"`
	Errors    int       `json:"errors"`
	Warnings  int       `json:"warnings"`
}

// Limits bounds accepted reports.
type Limits struct {
	MaxRows   int
	MaxErrors int
}

// DefaultLimits are used when a Service is built without explicit limits.
var DefaultLimits = Limits{MaxRows: 100_000, MaxErrors: 200_000}
