package handlers

import (
	"net/http"
	"time"

	"github.com/hongminglow/finance-be/internal/http/respond"
	"github.com/hongminglow/finance-be/internal/middleware"
	"github.com/hongminglow/finance-be/internal/models/dto"
	"github.com/hongminglow/finance-be/internal/service"
)

// AuthHandler owns the register, login and logout endpoints.
type AuthHandler struct {
	users      *service.UserService
	limiter    *middleware.Limiter
	cookieName string
}

// NewAuthHandler constructs the handler. Login attempts are throttled by limiter.
func NewAuthHandler(users *service.UserService, limiter *middleware.Limiter, cookieName string) *AuthHandler {
	return &AuthHandler{users: users, limiter: limiter, cookieName: cookieName}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/register", h.handleRegister)
	mux.Handle("POST /api/auth/login", h.limiter.Middleware(http.HandlerFunc(h.handleLogin)))
	mux.HandleFunc("POST /api/auth/logout", h.handleLogout)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := h.users.Register(r.Context(), service.Registration{
		Username:    req.Username,
		Password:    req.Password,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		respondError(w, r, err, "register user")
		return
	}
	respond.JSON(w, http.StatusCreated, "User registered successfully", dto.RegisterResponse{UserID: user.ID})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, session, err := h.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		respondError(w, r, err, "log in")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	respond.JSON(w, http.StatusOK, "Login successful", dto.LoginResponse{
		UserID:    user.ID,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.SessionToken(r, h.cookieName); token != "" {
		if err := h.users.Logout(r.Context(), token); err != nil {
			respondError(w, r, err, "log out")
			return
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	respond.JSON(w, http.StatusOK, "Logged out successfully", nil)
}
