package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/promptshelf/promptshelf-server/internal/auth"
	"github.com/promptshelf/promptshelf-server/internal/domain"
	domainerrors "github.com/promptshelf/promptshelf-server/internal/errors"
	"github.com/promptshelf/promptshelf-server/internal/id"
	"github.com/promptshelf/promptshelf-server/internal/store"
	"github.com/promptshelf/promptshelf-server/internal/validation"
)

// AuthService handles the single-user login and its sessions.
type AuthService struct {
	store           store.Store
	tokenService    *auth.TokenService
	passwordHash    string
	sessionDuration time.Duration
	validator       *validation.Validator
	logger          *slog.Logger
}

// NewAuthService creates a new authentication service. passwordHash is the
// argon2id hash of the configured app password.
func NewAuthService(
	store store.Store,
	tokenService *auth.TokenService,
	passwordHash string,
	sessionDuration time.Duration,
	validator *validation.Validator,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		store:           store,
		tokenService:    tokenService,
		passwordHash:    passwordHash,
		sessionDuration: sessionDuration,
		validator:       validator,
		logger:          logger,
	}
}

// LoginRequest contains the app password.
type LoginRequest struct {
	Password string `json:"password" validate:"required,max=1024"`
}

// LoginResult is a new session and its token.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}

// Login checks the password and opens a session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	ok, err := auth.VerifyPassword(s.passwordHash, req.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.logger.Warn("login failed: wrong password")
		return nil, domainerrors.InvalidCredentials("invalid password")
	}

	sessionID, err := id.Generate("ses")
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}

	now := time.Now()
	sess := &domain.Session{
		ID:        sessionID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionDuration),
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	token, err := s.tokenService.Issue(sess.ID, sess.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info("login succeeded", "session_id", sess.ID, "expires_at", sess.ExpiresAt)
	return &LoginResult{Token: token, ExpiresAt: sess.ExpiresAt}, nil
}

// Authenticate returns the live session a token belongs to.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	if token == "" {
		return nil, domainerrors.Unauthorized("not authenticated")
	}

	claims, err := s.tokenService.Verify(token)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeUnauthorized, "invalid or expired session")
	}

	sess, err := s.store.GetSession(ctx, claims.SessionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.Unauthorized("session has been revoked")
	}
	if err != nil {
		return nil, err
	}

	if sess.IsExpired(time.Now()) {
		if err := s.store.DeleteSession(ctx, sess.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("failed to delete expired session", "session_id", sess.ID, "error", err)
		}
		return nil, domainerrors.Unauthorized("session expired")
	}

	return sess, nil
}

// Logout ends the session a token belongs to. Unknown or invalid tokens are
// ignored so logout always succeeds.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := s.tokenService.Verify(token)
	if err != nil {
		return nil
	}

	if err := s.store.DeleteSession(ctx, claims.SessionID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}

	s.logger.Info("logged out", "session_id", claims.SessionID)
	return nil
}

// PruneExpiredSessions deletes sessions past their expiry.
func (s *AuthService) PruneExpiredSessions(ctx context.Context) (int, error) {
	n, err := s.store.DeleteExpiredSessions(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("expired sessions pruned", "count", n)
	}
	return n, nil
}
