package model

import (
	"context"
	"time"
)

// SessionStore keeps the set of live sessions so logout can revoke a token
// before it expires.
type SessionStore interface {
	Save(ctx context.Context, session Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

// Session binds a session id to the username that logged in.
type Session struct {
	ID        string
	Username  string
	ExpiresAt time.Time
}

// TokenManager signs and parses session tokens.
type TokenManager interface {
	GenerateSessionToken(username string) (token string, sessionID string, expiresAt time.Time, err error)
	ParseSessionToken(token string) (username string, sessionID string, err error)
}
