package metrics

import "context"

type routeKey struct{}

type routeHolder struct{ pattern string }

// WithRoute prepares ctx so an inner handler can report the route pattern it
// matched. Middleware that labels metrics calls this before serving.
func WithRoute(ctx context.Context) context.Context {
	return context.WithValue(ctx, routeKey{}, &routeHolder{})
}

// SetRoute records the matched pattern on a context prepared by WithRoute.
func SetRoute(ctx context.Context, pattern string) {
	if h, ok := ctx.Value(routeKey{}).(*routeHolder); ok {
		h.pattern = pattern
	}
}

// Route returns the recorded pattern, or "unmatched".
func Route(ctx context.Context) string {
	if h, ok := ctx.Value(routeKey{}).(*routeHolder); ok && h.pattern != "" {
		return h.pattern
	}
	return "unmatched"
}
