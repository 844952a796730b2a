package handler

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/dtroode/cloudblog/internal/logger"
	"github.com/dtroode/cloudblog/internal/model"
	"github.com/dtroode/cloudblog/web"
)

// PostService defines the post operations the pages use.
type PostService interface {
	CreatePost(ctx context.Context, params model.CreatePostParams) (string, error)
	GetPost(ctx context.Context, id string) (model.Post, bool, error)
	ListPosts(ctx context.Context) ([]model.Post, error)
}

// ImageService stores uploaded images and returns their public URL.
type ImageService interface {
	UploadImage(ctx context.Context, r io.Reader, size int64, filename string) (string, error)
}

// IdentityService defines registration and login operations.
type IdentityService interface {
	RegisterUser(ctx context.Context, username, email, password string) (model.SignUpResult, error)
	ConfirmUser(ctx context.Context, username, code string) error
	LoginUser(ctx context.Context, username, password string) (model.AuthResult, error)
}

// SessionService opens and closes login sessions.
type SessionService interface {
	Start(ctx context.Context, username string) (token string, expiresAt time.Time, err error)
	End(ctx context.Context, token string) error
}

// Options configures cookies and request limits.
type Options struct {
	SessionCookie  string
	SecureCookies  bool
	MaxUploadBytes int64
}

// Handler serves the blog pages.
type Handler struct {
	posts          PostService
	images         ImageService
	identity       IdentityService
	sessions       SessionService
	contextManager model.ContextManager
	opts           Options
	pages          map[string]*template.Template
	logger         *logger.Logger
}

var pageNames = []string{
	"index",
	"register",
	"confirm",
	"login",
	"create_post",
	"post",
	"error",
}

// New parses the page templates and creates a Handler.
func New(
	posts PostService,
	images ImageService,
	identity IdentityService,
	sessions SessionService,
	contextManager model.ContextManager,
	opts Options,
	logger *logger.Logger,
) (*Handler, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tpl, err := template.ParseFS(web.Templates, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		pages[name] = tpl
	}

	return &Handler{
		posts:          posts,
		images:         images,
		identity:       identity,
		sessions:       sessions,
		contextManager: contextManager,
		opts:           opts,
		pages:          pages,
		logger:         logger,
	}, nil
}

type pageData struct {
	Title           string
	LoggedIn        bool
	Username        string
	Flashes         []string
	Posts           []model.Post
	Post            model.Post
	ConfirmUsername string
}

// render writes page with pending flash messages followed by data.Flashes.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, page string, status int, data pageData) {
	data.Username, data.LoggedIn = h.contextManager.GetUsernameFromContext(r.Context())
	data.Flashes = append(h.popFlashes(w, r), data.Flashes...)

	tpl, ok := h.pages[page]
	if !ok {
		h.logger.Error("Handler: unknown page", "page", page)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "base", data); err != nil {
		h.logger.Error("Handler: failed to render page",
			"page", page,
			"error", err.Error())
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// RequireAuth sends anonymous visitors to the login page.
func (h *Handler) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.contextManager.GetUsernameFromContext(r.Context()); !ok {
			h.flash(w, r, "Please login to create a post.")
			h.redirect(w, r, "/login")
			return
		}
		next.ServeHTTP(w, r)
	}
}
