package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/dtroode/cloudblog/internal/model"
)

// RegisterForm renders the registration page.
func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "register", http.StatusOK, pageData{Title: "Register"})
}

// Register signs the user up and sends them to the confirmation page.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	email := r.PostFormValue("email")
	password := r.PostFormValue("password")

	h.logger.Debug("Handler: processing registration request",
		"username", username)

	_, err := h.identity.RegisterUser(r.Context(), username, email, password)
	if err != nil {
		var rej *model.RejectionError
		if errors.As(err, &rej) {
			h.render(w, r, "register", http.StatusOK, pageData{
				Title:   "Register",
				Flashes: []string{"Registration failed: " + rej.Message},
			})
			return
		}
		h.handleError(w, r, err)
		return
	}

	h.flash(w, r, "Registration successful! Please check your email for confirmation code.")
	h.redirect(w, r, "/confirm/"+url.PathEscape(username))
}

// ConfirmForm renders the confirmation code page.
func (h *Handler) ConfirmForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "confirm", http.StatusOK, pageData{
		Title:           "Confirm Registration",
		ConfirmUsername: r.PathValue("username"),
	})
}

// Confirm submits the confirmation code for the username in the path.
func (h *Handler) Confirm(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	code := r.PostFormValue("confirmation_code")

	err := h.identity.ConfirmUser(r.Context(), username, code)
	if err != nil {
		var rej *model.RejectionError
		if errors.As(err, &rej) {
			h.render(w, r, "confirm", http.StatusOK, pageData{
				Title:           "Confirm Registration",
				ConfirmUsername: username,
				Flashes:         []string{"Confirmation failed: " + rej.Message},
			})
			return
		}
		h.handleError(w, r, err)
		return
	}

	h.flash(w, r, "Email confirmed! You can now login.")
	h.redirect(w, r, "/login")
}

// LoginForm renders the login page.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "login", http.StatusOK, pageData{Title: "Login"})
}

// Login authenticates against the identity provider and opens a session that
// holds only the username.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	_, err := h.identity.LoginUser(r.Context(), username, password)
	if err != nil {
		var rej *model.RejectionError
		if errors.As(err, &rej) {
			h.render(w, r, "login", http.StatusOK, pageData{
				Title:   "Login",
				Flashes: []string{"Login failed: " + rej.Message},
			})
			return
		}
		h.handleError(w, r, err)
		return
	}

	token, expiresAt, err := h.sessions.Start(r.Context(), username)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.opts.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Expires:  expiresAt,
	})

	h.flash(w, r, "Login successful!")
	h.redirect(w, r, "/")
}

// Logout revokes the session and clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(h.opts.SessionCookie); err == nil && c.Value != "" {
		if err := h.sessions.End(r.Context(), c.Value); err != nil {
			h.logger.Error("Handler: failed to end session",
				"error", err.Error())
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.opts.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.opts.SecureCookies,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})

	h.flash(w, r, "You have been logged out.")
	h.redirect(w, r, "/")
}
