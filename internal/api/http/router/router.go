package router

import (
	"fmt"
	"io/fs"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/dtroode/cloudblog/internal/api/http/handler"
	"github.com/dtroode/cloudblog/internal/api/http/middleware"
	"github.com/dtroode/cloudblog/internal/logger"
	"github.com/dtroode/cloudblog/internal/model"
	"github.com/dtroode/cloudblog/web"
)

// Router wires the blog pages and middleware into one http.Handler.
type Router struct {
	handler        *handler.Handler
	sessionService middleware.SessionService
	contextManager model.ContextManager
	sessionCookie  string
	logger         *logger.Logger
}

// New creates new HTTP Router instance.
func New(
	h *handler.Handler,
	sessionService middleware.SessionService,
	contextManager model.ContextManager,
	sessionCookie string,
	logger *logger.Logger,
) *Router {
	return &Router{
		handler:        h,
		sessionService: sessionService,
		contextManager: contextManager,
		sessionCookie:  sessionCookie,
		logger:         logger,
	}
}

// Register builds the route table. Requests pass through tracing, logging,
// panic recovery and session lookup before reaching a page.
func (r *Router) Register() (http.Handler, error) {
	static, err := fs.Sub(web.Static, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static assets: %w", err)
	}

	h := r.handler
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /register", h.RegisterForm)
	mux.HandleFunc("POST /register", h.Register)
	mux.HandleFunc("GET /confirm/{username}", h.ConfirmForm)
	mux.HandleFunc("POST /confirm/{username}", h.Confirm)
	mux.HandleFunc("GET /login", h.LoginForm)
	mux.HandleFunc("POST /login", h.Login)
	mux.HandleFunc("GET /logout", h.Logout)
	mux.HandleFunc("GET /create", h.RequireAuth(h.CreatePostForm))
	mux.HandleFunc("POST /create", h.RequireAuth(h.CreatePost))
	mux.HandleFunc("GET /post/{id}", h.ViewPost)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))

	authenticate := middleware.NewAuthenticate(r.sessionService, r.contextManager, r.sessionCookie, r.logger)
	recoverer := middleware.NewRecover(http.HandlerFunc(h.InternalError), r.logger)
	logging := middleware.NewLogging(r.logger)

	var chain http.Handler = mux
	chain = authenticate.Handle(chain)
	chain = recoverer.Handle(chain)
	chain = logging.Handle(chain)

	return otelhttp.NewHandler(chain, "cloudblog.http"), nil
}
