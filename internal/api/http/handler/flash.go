package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const flashCookie = "cloudblog_flash"

// flash queues messages for the next rendered page. Messages already queued
// on the request are kept.
func (h *Handler) flash(w http.ResponseWriter, r *http.Request, messages ...string) {
	pending := append(readFlashes(r), messages...)

	raw, err := json.Marshal(pending)
	if err != nil {
		h.logger.Error("Handler: failed to encode flash messages", "error", err.Error())
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		Secure:   h.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlashes returns the queued messages and clears the queue.
func (h *Handler) popFlashes(w http.ResponseWriter, r *http.Request) []string {
	messages := readFlashes(r)
	if len(messages) == 0 {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})

	return messages
}

func readFlashes(r *http.Request) []string {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}

	var messages []string
	if err := json.Unmarshal(raw, &messages); err != nil {
		return nil
	}
	return messages
}
