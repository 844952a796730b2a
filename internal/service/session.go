package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dtroode/cloudblog/internal/logger"
	"github.com/dtroode/cloudblog/internal/model"
)

// Session issues, resolves and revokes login sessions. It composes the
// TokenManager and SessionStore.
type Session struct {
	manager model.TokenManager
	store   model.SessionStore
	logger  *logger.Logger
}

func NewSession(manager model.TokenManager, store model.SessionStore, logger *logger.Logger) *Session {
	return &Session{manager: manager, store: store, logger: logger}
}

// Start opens a session for username and returns the token to hand to the
// client with its expiry.
func (s *Session) Start(ctx context.Context, username string) (string, time.Time, error) {
	token, id, expiresAt, err := s.manager.GenerateSessionToken(username)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue session token: %w", err)
	}

	err = s.store.Save(ctx, model.Session{ID: id, Username: username, ExpiresAt: expiresAt})
	if err != nil {
		s.logger.Error("Session service: failed to save session",
			"username", username,
			"error", err.Error())
		return "", time.Time{}, fmt.Errorf("persist session: %w", err)
	}

	s.logger.Debug("Session service: session started",
		"username", username,
		"session_id", id)

	return token, expiresAt, nil
}

// Resolve returns the username of a live session. Bad, expired and revoked
// tokens yield model.ErrInvalidSession.
func (s *Session) Resolve(ctx context.Context, token string) (string, error) {
	username, id, err := s.manager.ParseSessionToken(token)
	if err != nil {
		return "", fmt.Errorf("%w: %w", model.ErrInvalidSession, err)
	}

	session, err := s.store.Get(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return "", model.ErrInvalidSession
	}
	if err != nil {
		return "", fmt.Errorf("get session: %w", err)
	}

	if session.Username != username {
		return "", model.ErrInvalidSession
	}

	return username, nil
}

// End revokes the session behind token. An unparsable token has nothing to
// revoke.
func (s *Session) End(ctx context.Context, token string) error {
	_, id, err := s.manager.ParseSessionToken(token)
	if err != nil {
		return nil
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}

	s.logger.Debug("Session service: session ended",
		"session_id", id)

	return nil
}
