package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hongminglow/finance-be/internal/auth"
	"github.com/hongminglow/finance-be/internal/models"
	"github.com/hongminglow/finance-be/internal/storage"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9. ()-]{7,25}$`)

const minPasswordLength = 8

// Registration is the input for creating an account.
type Registration struct {
	Username    string
	Password    string
	FullName    string
	PhoneNumber string
}

// UserService handles registration and login sessions.
type UserService struct {
	users    storage.UserStore
	sessions storage.SessionStore
	tokens   *auth.TokenManager
}

// NewUserService constructs the service.
func NewUserService(users storage.UserStore, sessions storage.SessionStore, tokens *auth.TokenManager) *UserService {
	return &UserService{users: users, sessions: sessions, tokens: tokens}
}

// Register validates and stores a new user.
func (s *UserService) Register(ctx context.Context, in Registration) (models.User, error) {
	user := models.User{
		Username:    strings.TrimSpace(in.Username),
		FullName:    strings.TrimSpace(in.FullName),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
	}
	if err := validateRegistration(user, in.Password); err != nil {
		return models.User{}, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash

	created, err := s.users.CreateUser(ctx, user)
	if errors.Is(err, storage.ErrAlreadyExists) {
		return models.User{}, conflict("username %s is already taken", user.Username)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func validateRegistration(u models.User, password string) error {
	var problems []string
	if u.Username == "" {
		problems = append(problems, "username is required")
	} else if addr, err := mail.ParseAddress(u.Username); err != nil || addr.Address != u.Username {
		problems = append(problems, "username must be a valid email address")
	}
	if utf8.RuneCountInString(strings.TrimSpace(password)) < minPasswordLength {
		problems = append(problems, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if u.FullName == "" {
		problems = append(problems, "full name is required")
	}
	if !phonePattern.MatchString(u.PhoneNumber) {
		problems = append(problems, "phone number is invalid")
	}
	if len(problems) > 0 {
		return invalid("%s", strings.Join(problems, "; "))
	}
	return nil
}

// Login checks credentials and opens a session.
func (s *UserService) Login(ctx context.Context, username, password string) (models.User, auth.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return models.User{}, auth.Session{}, invalid("username and password are required")
	}
	user, err := s.users.FindUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		return models.User{}, auth.Session{}, unauthorized("invalid credentials")
	}
	if err != nil {
		return models.User{}, auth.Session{}, fmt.Errorf("find user: %w", err)
	}
	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return models.User{}, auth.Session{}, fmt.Errorf("check password: %w", err)
	}
	if !ok {
		return models.User{}, auth.Session{}, unauthorized("invalid credentials")
	}
	session, err := s.tokens.Generate(user)
	if err != nil {
		return models.User{}, auth.Session{}, err
	}
	return user, session, nil
}

// Authenticate resolves a session token to the user it was issued for.
func (s *UserService) Authenticate(ctx context.Context, token string) (int64, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return 0, unauthorized("invalid or expired session")
	}
	revoked, err := s.sessions.IsSessionRevoked(ctx, claims.ID)
	if err != nil {
		return 0, fmt.Errorf("check session: %w", err)
	}
	if revoked {
		return 0, unauthorized("session has ended")
	}
	// Parse has already checked the subject.
	userID, _ := claims.UserID()
	return userID, nil
}

// Logout revokes the session token until it would have expired. Tokens that
// are already invalid need no revocation, so logging out is idempotent.
func (s *UserService) Logout(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.RevokeSession(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
