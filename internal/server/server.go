package server

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hongminglow/finance-be/internal/config"
	"github.com/hongminglow/finance-be/internal/middleware"
)

// Registrar attaches a handler's routes to a mux.
type Registrar interface {
	Register(mux *http.ServeMux)
}

// Routes splits handlers into those open to anyone and those requiring a session.
type Routes struct {
	Public    []Registrar
	Protected []Registrar
}

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// NewHandler builds the full middleware stack around the routes.
func NewHandler(cfg config.Config, authn middleware.Authenticator, routes Routes) http.Handler {
	protected := http.NewServeMux()
	for _, r := range routes.Protected {
		r.Register(protected)
	}

	mux := http.NewServeMux()
	for _, r := range routes.Public {
		r.Register(mux)
	}
	// More specific public patterns such as /api/auth/login win over this prefix.
	mux.Handle("/api/", middleware.RequireAuth(authn, cfg.Session.CookieName)(protected))

	return middleware.Chain(mux,
		middleware.Logging(logrus.StandardLogger()),
		middleware.CORS(cfg.CORSOrigins),
	)
}

// New wraps handler in an http.Server bound to the configured address.
func New(cfg config.Config, handler http.Handler) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
