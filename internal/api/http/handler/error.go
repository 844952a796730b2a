package handler

import (
	"net/http"
)

// handleError logs an unexpected fault and renders the generic error page.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("Handler: request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err.Error())

	h.InternalError(w, r)
}

// InternalError renders the generic error page with status 500.
func (h *Handler) InternalError(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "error", http.StatusInternalServerError, pageData{Title: "Error"})
}
