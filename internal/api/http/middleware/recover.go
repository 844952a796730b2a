package middleware

import (
	"fmt"
	"net/http"

	"github.com/dtroode/cloudblog/internal/logger"
)

// Recover turns handler panics into the fallback response instead of
// dropping the connection.
type Recover struct {
	fallback http.Handler
	logger   *logger.Logger
}

// NewRecover creates a Recover middleware that serves fallback after a panic.
func NewRecover(fallback http.Handler, logger *logger.Logger) *Recover {
	return &Recover{fallback: fallback, logger: logger}
}

func (m *Recover) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			m.logger.Error("Recover middleware: handler panicked",
				"method", r.Method,
				"path", r.URL.Path,
				"panic", fmt.Sprint(rec))
			m.fallback.ServeHTTP(w, r)
		}()

		next.ServeHTTP(w, r)
	})
}
