package context

import (
	"context"
)

type usernameKey struct{}

// Manager stores the session username in request contexts.
type Manager struct{}

// NewManager creates a new HTTP context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetUsernameToContext returns a copy of ctx carrying username.
func (m *Manager) SetUsernameToContext(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey{}, username)
}

// GetUsernameFromContext returns the username set by SetUsernameToContext.
// An empty username counts as absent.
func (m *Manager) GetUsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey{}).(string)
	if !ok || username == "" {
		return "", false
	}
	return username, true
}
