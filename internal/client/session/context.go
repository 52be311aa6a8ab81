package session

import "context"

type ctxKey struct{}

// NewContext returns a context carrying the session manager. The application
// shell installs it once; everything below obtains the session via
// FromContext.
func NewContext(ctx context.Context, m *Manager) context.Context {
	return context.WithValue(ctx, ctxKey{}, m)
}

// FromContext returns the session manager installed by NewContext. Calling
// it outside an active session scope is a programming error and panics.
func FromContext(ctx context.Context) *Manager {
	m, ok := ctx.Value(ctxKey{}).(*Manager)
	if !ok {
		panic("session.FromContext called outside a session scope")
	}
	return m
}
