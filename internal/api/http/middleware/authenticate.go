package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/dtroode/cloudblog/internal/logger"
	"github.com/dtroode/cloudblog/internal/model"
)

// SessionService resolves usernames from session tokens.
type SessionService interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// Authenticate reads the session cookie and, for a live session, injects the
// username into the request context. Requests without a session pass through
// anonymously.
type Authenticate struct {
	sessionService SessionService
	contextManager model.ContextManager
	cookieName     string
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(sessionService SessionService, contextManager model.ContextManager, cookieName string, logger *logger.Logger) *Authenticate {
	return &Authenticate{
		sessionService: sessionService,
		contextManager: contextManager,
		cookieName:     cookieName,
		logger:         logger,
	}
}

func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.cookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		username, err := m.sessionService.Resolve(r.Context(), cookie.Value)
		if err != nil {
			if !errors.Is(err, model.ErrInvalidSession) {
				m.logger.Error("Authenticate middleware: failed to resolve session",
					"path", r.URL.Path,
					"error", err.Error())
			}
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(m.contextManager.SetUsernameToContext(r.Context(), username)))
	})
}
