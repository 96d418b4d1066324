package core

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/errgrid/internal/highlight"
	"github.com/JonMunkholm/errgrid/internal/logging"
	"github.com/JonMunkholm/errgrid/internal/xlsxstyle"
)

// DefaultExportTimeout bounds one export when no timeout is configured.
const DefaultExportTimeout = 2 * time.Minute

// Options configures a Service. Zero fields select defaults.
type Options struct {
	Limits        Limits
	Limiter       *ExportLimiter
	Palette       xlsxstyle.Palette
	SheetName     string
	ExportTimeout time.Duration
	Now           func() time.Time
}

// Service is the entry point for every report operation. It can be used by
// the web handlers, the CLI or tests alike.
type Service struct {
	store         ReportStore
	limits        Limits
	limiter       *ExportLimiter
	palette       xlsxstyle.Palette
	sheet         string
	exportTimeout time.Duration
	now           func() time.Time

	mu    sync.RWMutex
	cache map[string]*loadedReport
}

// loadedReport is a report with its location index built.
type loadedReport struct {
	report      *Report
	resolver    *highlight.Resolver
	diagnostics []highlight.Diagnostic
}

// NewService returns a service backed by store.
func NewService(store ReportStore, opts Options) *Service {
	s := &Service{
		store:         store,
		limits:        opts.Limits,
		limiter:       opts.Limiter,
		palette:       opts.Palette,
		sheet:         opts.SheetName,
		exportTimeout: opts.ExportTimeout,
		now:           opts.Now,
		cache:         make(map[string]*loadedReport),
	}
	if s.limits == (Limits{}) {
		s.limits = DefaultLimits
	}
	if s.limiter == nil {
		s.limiter = NewExportLimiter(0, 0)
	}
	if s.palette == nil {
		s.palette = xlsxstyle.DefaultPalette()
	}
	if s.sheet == "" {
		s.sheet = xlsxstyle.DefaultSheet
	}
	if s.exportTimeout <= 0 {
		s.exportTimeout = DefaultExportTimeout
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Limiter returns the export limiter, for shutdown draining and health.
func (s *Service) Limiter() *ExportLimiter { return s.limiter }

// CreateResult is the outcome of CreateReport.
type CreateResult struct {
	Report      *Report
	Diagnostics []highlight.Diagnostic
}

// CreateReport validates raw, stores it as a new report and indexes its
// errors. Records that cannot be indexed are kept in the report and returned
// as diagnostics.
func (s *Service) CreateReport(ctx context.Context, raw []byte) (*CreateResult, error) {
	in, err := DecodeReport(raw, s.limits)
	if err != nil {
		return nil, err
	}

	r := &Report{
		ID:          uuid.New().String(),
		CreatedAt:   s.now().UTC(),
		Source:      SourceFromContext(ctx),
		ReportInput: *in,
	}
	if strings.TrimSpace(r.Name) == "" {
		r.Name = "Report " + r.CreatedAt.Format("2006-01-02 15:04")
	}

	if err := s.store.Save(ctx, r); err != nil {
		return nil, err
	}
	lr := s.remember(r)

	log := logging.WithReport(ctx, r.ID)
	log.Info("report created",
		"rows", len(r.Rows),
		"columns", len(r.Columns),
		"errors", len(r.Errors),
		"dropped", len(lr.diagnostics),
	)
	for _, d := range lr.diagnostics {
		log.Warn("error record not indexed", "position", d.Position, "error", d.Err)
	}

	return &CreateResult{Report: r, Diagnostics: lr.diagnostics}, nil
}

// GetReport returns the report and the diagnostics of its error records.
func (s *Service) GetReport(ctx context.Context, id string) (*CreateResult, error) {
	lr, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return &CreateResult{Report: lr.report, Diagnostics: lr.diagnostics}, nil
}

// ListReports returns report summaries, newest first.
func (s *Service) ListReports(ctx context.Context) ([]ReportSummary, error) {
	return s.store.List(ctx)
}

// DeleteReport removes a report.
func (s *Service) DeleteReport(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.forget(id)
	logging.WithReport(ctx, id).Info("report deleted")
	return nil
}

// PurgeExpired deletes reports older than retention.
func (s *Service) PurgeExpired(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := s.now().Add(-retention)
	n, err := s.store.PurgeBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	for id, lr := range s.cache {
		if lr.report.CreatedAt.Before(cutoff) {
			delete(s.cache, id)
		}
	}
	s.mu.Unlock()
	return n, nil
}

func (s *Service) load(ctx context.Context, id string) (*loadedReport, error) {
	s.mu.RLock()
	lr, ok := s.cache[id]
	s.mu.RUnlock()
	if ok {
		return lr, nil
	}

	r, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.remember(r), nil
}

func (s *Service) remember(r *Report) *loadedReport {
	ix, diags := highlight.Build(r.Errors)
	lr := &loadedReport{
		report:      r,
		resolver:    highlight.NewResolver(ix),
		diagnostics: diags,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.cache[r.ID]; ok {
		return existing
	}
	s.cache[r.ID] = lr
	return lr
}

func (s *Service) forget(id string) {
	s.mu.Lock()
	delete(s.cache, id)
	s.mu.Unlock()
}

// HighlightResult describes everything known about one location.
type HighlightResult struct {
	Location string            `json:"location"`
	Errors   highlight.Result  `json:"errors"`
	Markers  highlight.Markers `json:"markers"`
	Classes  []string          `json:"classes"`
	Outcome  highlight.Outcome `json:"outcome"`
}

// Highlight resolves q against the report's errors.
func (s *Service) Highlight(ctx context.Context, id string, q highlight.Query) (*HighlightResult, error) {
	lr, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	res := lr.resolver.Query(q)
	markers := res.Markers()
	return &HighlightResult{
		Location: queryLocation(q),
		Errors:   res,
		Markers:  markers,
		Classes:  markers.Classes(),
		Outcome:  res.Outcome(),
	}, nil
}

// ParseLocation turns "B3", "B" or "3" into a query. Row numbers are 1-based
// as displayed.
func ParseLocation(loc string) (highlight.Query, error) {
	loc = strings.TrimSpace(loc)
	if loc == "" {
		return highlight.Query{}, fmt.Errorf("invalid coordinate: empty location")
	}

	split := strings.IndexFunc(loc, func(r rune) bool { return r >= '0' && r <= '9' })
	label, number := loc, ""
	if split >= 0 {
		label, number = loc[:split], loc[split:]
	}

	var (
		col, row       int
		hasCol, hasRow bool
	)
	if label != "" {
		c, err := highlight.LettersToIndex(label)
		if err != nil {
			return highlight.Query{}, fmt.Errorf("location %q: %w", loc, err)
		}
		col, hasCol = c, true
	}
	if number != "" {
		n, err := strconv.Atoi(number)
		if err != nil || n < 1 {
			return highlight.Query{}, fmt.Errorf("invalid coordinate: location %q", loc)
		}
		row, hasRow = n-1, true
	}

	switch {
	case hasCol && hasRow:
		return highlight.At(col, row), nil
	case hasCol:
		return highlight.AtColumn(col), nil
	default:
		return highlight.AtRow(row), nil
	}
}

func queryLocation(q highlight.Query) string {
	col, hasCol := q.Column()
	row, hasRow := q.Row()
	var b strings.Builder
	if hasCol {
		b.WriteString(highlight.IndexToLetters(col))
	}
	if hasRow {
		b.WriteString(strconv.Itoa(row + 1))
	}
	return b.String()
}
