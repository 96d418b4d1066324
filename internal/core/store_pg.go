package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// reportsSchema creates the reports table. The report body is kept as one
// jsonb document; the counters are denormalized for cheap listings.
const reportsSchema = `
CREATE TABLE IF NOT EXISTS reports (
	id            uuid PRIMARY KEY,
	name          text NOT NULL DEFAULT '',
	created_at    timestamptz NOT NULL DEFAULT now(),
	source        jsonb NOT NULL DEFAULT '{}',
	body          jsonb NOT NULL,
	column_count  integer NOT NULL,
	row_count     integer NOT NULL,
	error_count   integer NOT NULL,
	warning_count integer NOT NULL
);
CREATE INDEX IF NOT EXISTS reports_created_at_idx ON reports (created_at);
`

// PGStore keeps reports in PostgreSQL.
type PGStore struct {
	db DBTX
}

// NewPGStore returns a store using db, typically a *pgxpool.Pool.
func NewPGStore(db DBTX) *PGStore {
	return &PGStore{db: db}
}

// Migrate creates the reports table if it does not exist.
func (s *PGStore) Migrate(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, reportsSchema); err != nil {
		return fmt.Errorf("migrate reports: %w", err)
	}
	return nil
}

func (s *PGStore) Save(ctx context.Context, r *Report) error {
	body, err := json.Marshal(r.ReportInput)
	if err != nil {
		return fmt.Errorf("encode report %s: %w", r.ID, err)
	}
	source, err := json.Marshal(r.Source)
	if err != nil {
		return fmt.Errorf("encode report %s: %w", r.ID, err)
	}

	sum := r.Summary()
	_, err = s.db.Exec(ctx, `
		INSERT INTO reports (id, name, created_at, source, body, column_count, row_count, error_count, warning_count)
		VALUES ($1::uuid, $2, $3, $4::jsonb, $5::jsonb, $6, $7, $8, $9)`,
		r.ID, r.Name, r.CreatedAt, string(source), string(body),
		sum.Columns, sum.Rows, sum.Errors, sum.Warnings,
	)
	if err != nil {
		return fmt.Errorf("save report %s: %w", r.ID, err)
	}
	return nil
}

func (s *PGStore) Get(ctx context.Context, id string) (*Report, error) {
	var (
		r            Report
		source, body []byte
	)
	err := s.db.QueryRow(ctx, `
		SELECT id::text, created_at, source, body
		FROM reports WHERE id::text = $1`, id,
	).Scan(&r.ID, &r.CreatedAt, &source, &body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get report %s: %w", id, ErrReportNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", id, err)
	}

	if err := json.Unmarshal(source, &r.Source); err != nil {
		return nil, fmt.Errorf("decode report %s source: %w", id, err)
	}
	if err := json.Unmarshal(body, &r.ReportInput); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", id, err)
	}
	return &r, nil
}

// List returns summaries, newest first.
func (s *PGStore) List(ctx context.Context) ([]ReportSummary, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id::text, name, created_at, column_count, row_count, error_count, warning_count
		FROM reports ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []ReportSummary
	for rows.Next() {
		var sum ReportSummary
		if err := rows.Scan(&sum.ID, &sum.Name, &sum.CreatedAt,
			&sum.Columns, &sum.Rows, &sum.Errors, &sum.Warnings); err != nil {
			return nil, fmt.Errorf("list reports: %w", err)
		}
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return out, nil
}

func (s *PGStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM reports WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("delete report %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete report %s: %w", id, ErrReportNotFound)
	}
	return nil
}

func (s *PGStore) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM reports WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge reports: %w", err)
	}
	return tag.RowsAffected(), nil
}
