package core

import "context"

type contextKey string

const ctxKeySource contextKey = "report_source"

// ContextWithSource attaches the submitting client to ctx. CreateReport
// stores it with the report.
func ContextWithSource(ctx context.Context, src Source) context.Context {
	return context.WithValue(ctx, ctxKeySource, src)
}

// SourceFromContext returns the client attached by ContextWithSource.
func SourceFromContext(ctx context.Context) Source {
	if v, ok := ctx.Value(ctxKeySource).(Source); ok {
		return v
	}
	return Source{}
}
