package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hongminglow/finance-be/internal/config"
	"github.com/hongminglow/finance-be/internal/middleware"
	"github.com/hongminglow/finance-be/internal/service"
)

type stubAuth struct{}

func (stubAuth) Authenticate(_ context.Context, token string) (int64, error) {
	if token == "good" {
		return 7, nil
	}
	return 0, &service.Error{Kind: service.ErrUnauthorized, Message: "invalid session"}
}

type pingRoute struct{ path string }

func (p pingRoute) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET "+p.path, func(w http.ResponseWriter, r *http.Request) {
		if id, ok := middleware.UserID(r.Context()); ok && id == 7 {
			w.Header().Set("X-User", "yes")
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestNewHandlerSplitsPublicAndProtected(t *testing.T) {
	cfg := config.Config{CORSOrigins: []string{"*"}, Session: config.Session{CookieName: "FINANCE_SESSION"}}
	h := NewHandler(cfg, stubAuth{}, Routes{
		Public:    []Registrar{pingRoute{path: "/api/auth/ping"}},
		Protected: []Registrar{pingRoute{path: "/api/things"}},
	})

	tests := []struct {
		name   string
		path   string
		token  string
		status int
		user   string
	}{
		{name: "public route needs no session", path: "/api/auth/ping", status: http.StatusOK},
		{name: "protected without token", path: "/api/things", status: http.StatusUnauthorized},
		{name: "protected with bad token", path: "/api/things", token: "bad", status: http.StatusUnauthorized},
		{name: "protected with good token", path: "/api/things", token: "good", status: http.StatusOK, user: "yes"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, tc.status, rec.Code)
			require.Equal(t, tc.user, rec.Header().Get("X-User"))
			require.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestServerShutdownStopsStart(t *testing.T) {
	srv := New(config.Config{Port: "0"}, http.NotFoundHandler())
	done := make(chan error, 1)
	go func() { done <- srv.Start() }()

	require.NoError(t, srv.Shutdown(context.Background()))
	select {
	case err := <-done:
		require.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
