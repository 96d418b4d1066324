package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/errgrid/internal/core"
)

// withRequestSource records the client address and user agent in ctx so new
// reports remember who submitted them. RemoteAddr has already been resolved
// by TrustedRealIP.
func withRequestSource(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithSource(ctx, core.Source{
		IPAddress: r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
}
