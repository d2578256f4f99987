package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"go-checklist-api/internal/metrics"
	"go-checklist-api/internal/model"
	"go-checklist-api/internal/validation"
	"go-checklist-api/pkg/apierror"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgAuthRequired       = "Authentication required"
	msgUsernameTaken      = "Username is already in use."
	msgEmailTaken         = "Email is already in use."

	// bcrypt only looks at the first 72 bytes of a password.
	maxPasswordBytes = 72
)

// UserStore is the persistence collaborator. Insert must enforce username
// and email uniqueness atomically and report violations with
// model.ErrUserAlreadyExists or model.ErrEmailAlreadyExists.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
	Insert(ctx context.Context, user model.User) (model.User, error)
}

type passwordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext string, digest string) bool
	Equalize(plaintext string)
}

type tokenIssuer interface {
	Generate(subject int64, role model.Role) (string, error)
	Verify(token string) (model.Claims, error)
}

// AuthService orchestrates registration, login and session resolution. It
// keeps no state between calls.
type AuthService struct {
	users  UserStore
	hasher passwordHasher
	tokens tokenIssuer
}

func NewAuthService(users UserStore, hasher passwordHasher, tokens tokenIssuer) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if err := validation.Struct(req); err != nil {
		metrics.RecordAuth("register", "invalid")
		return model.User{}, err
	}
	if len(req.Password) > maxPasswordBytes {
		metrics.RecordAuth("register", "invalid")
		return model.User{}, apierror.Validation("invalid request body", map[string]string{
			"password": "must be at most 72 bytes",
		})
	}

	_, err := s.users.FindByUsername(ctx, req.Username)
	switch {
	case err == nil:
		metrics.RecordAuth("register", "conflict")
		return model.User{}, apierror.Conflict(msgUsernameTaken)
	case !errors.Is(err, model.ErrUserNotFound):
		slog.Error("register: lookup user failed", "username", req.Username, "error", err)
		return model.User{}, apierror.Internal()
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		slog.Error("register: hash password failed", "error", err)
		return model.User{}, apierror.Internal()
	}

	created, err := s.users.Insert(ctx, model.User{
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		IsAdmin:      req.IsAdmin,
	})
	if err != nil {
		switch {
		case errors.Is(err, model.ErrUserAlreadyExists):
			metrics.RecordAuth("register", "conflict")
			return model.User{}, apierror.Conflict(msgUsernameTaken)
		case errors.Is(err, model.ErrEmailAlreadyExists):
			metrics.RecordAuth("register", "conflict")
			return model.User{}, apierror.Conflict(msgEmailTaken)
		}
		slog.Error("register: insert user failed", "username", req.Username, "error", err)
		return model.User{}, apierror.Internal()
	}

	metrics.RecordAuth("register", "success")
	slog.Info("user registered", "user_id", created.ID, "is_admin", created.IsAdmin)
	return created, nil
}

// Login never reveals whether the username or the password was wrong.
func (s *AuthService) Login(ctx context.Context, username string, password string) (model.LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if !errors.Is(err, model.ErrUserNotFound) {
			slog.Error("login: lookup user failed", "error", err)
			return model.LoginResult{}, apierror.Internal()
		}
		s.hasher.Equalize(password)
		metrics.RecordAuth("login", "failure")
		return model.LoginResult{}, apierror.Unauthorized(msgInvalidCredentials)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		metrics.RecordAuth("login", "failure")
		return model.LoginResult{}, apierror.Unauthorized(msgInvalidCredentials)
	}

	token, err := s.tokens.Generate(user.ID, model.RoleFor(user.IsAdmin))
	if err != nil {
		slog.Error("login: issue token failed", "user_id", user.ID, "error", err)
		return model.LoginResult{}, apierror.Internal()
	}

	metrics.RecordAuth("login", "success")
	return model.LoginResult{Token: token, User: user}, nil
}

// CurrentUser resolves the user behind a session token. Missing, tampered
// and expired tokens all fail the same way; a deleted user is NOT_FOUND.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (model.User, error) {
	session, err := s.resolve(ctx, token)
	if err != nil {
		return model.User{}, err
	}
	return session.User, nil
}

// Authenticate is the gate's view of CurrentUser: every failure, including
// a deleted user, is reported as UNAUTHORIZED.
func (s *AuthService) Authenticate(ctx context.Context, token string) (model.Session, error) {
	session, err := s.resolve(ctx, token)
	if err != nil {
		var apiErr *apierror.APIError
		if errors.As(err, &apiErr) && apiErr.Code == apierror.CodeNotFound {
			return model.Session{}, apierror.Unauthorized(msgAuthRequired)
		}
		return model.Session{}, err
	}
	return session, nil
}

func (s *AuthService) resolve(ctx context.Context, token string) (model.Session, error) {
	if strings.TrimSpace(token) == "" {
		return model.Session{}, apierror.Unauthorized(msgAuthRequired)
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		slog.Debug("session token rejected", "error", err)
		return model.Session{}, apierror.Unauthorized(msgAuthRequired)
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return model.Session{}, apierror.NotFound("User not found")
		}
		slog.Error("resolve session: lookup user failed", "user_id", claims.Subject, "error", err)
		return model.Session{}, apierror.Internal()
	}

	return model.Session{Claims: claims, User: user}, nil
}
