package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/promptshelf/promptshelf-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	register(s, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/auth/login",
		Summary:     "Log in",
		Description: "Checks the password and starts a session. Sets the session cookie and returns the token.",
		Tags:        []string{"Auth"},
	}, s.handleLogin)

	register(s, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/api/auth/logout",
		Summary:     "Log out",
		Description: "Ends the current session and clears the session cookie",
		Tags:        []string{"Auth"},
	}, s.handleLogout)

	register(s, huma.Operation{
		OperationID: "authStatus",
		Method:      http.MethodGet,
		Path:        "/api/auth/status",
		Summary:     "Session status",
		Description: "Reports whether the request carries a live session",
		Tags:        []string{"Auth"},
	}, s.handleAuthStatus)
}

// === DTOs ===

// SessionInput carries the session token from either transport.
type SessionInput struct {
	Cookie        string `cookie:"promptshelf_session" doc:"Session cookie"`
	Authorization string `header:"Authorization" doc:"Bearer token"`
}

func (in *SessionInput) token() string {
	if in.Cookie != "" {
		return in.Cookie
	}
	return bearerToken(in.Authorization)
}

// LoginRequest is the request body for logging in.
type LoginRequest struct {
	Password string `json:"password" doc:"Application password"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body LoginRequest
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Success       bool      `json:"success"`
	Authenticated bool      `json:"authenticated"`
	Message       string    `json:"message"`
	Token         string    `json:"token" doc:"Session token for the Authorization header"`
	ExpiresAt     time.Time `json:"expires_at" doc:"Session expiry"`
}

// LoginOutput wraps the login response for Huma.
type LoginOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      LoginResponse
}

// LogoutResponse is returned after logging out.
type LogoutResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LogoutOutput wraps the logout response for Huma.
type LogoutOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      LogoutResponse
}

// AuthStatusResponse reports session state.
type AuthStatusResponse struct {
	Authenticated bool `json:"authenticated"`
}

// AuthStatusOutput wraps the status response for Huma.
type AuthStatusOutput struct {
	Body AuthStatusResponse
}

// === Handlers ===

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	result, err := s.services.Auth.Login(ctx, service.LoginRequest{Password: input.Body.Password})
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		SetCookie: s.sessionCookie(result.Token, result.ExpiresAt),
		Body: LoginResponse{
			Success:       true,
			Authenticated: true,
			Message:       "logged in",
			Token:         result.Token,
			ExpiresAt:     result.ExpiresAt,
		},
	}, nil
}

func (s *Server) handleLogout(ctx context.Context, input *SessionInput) (*LogoutOutput, error) {
	if err := s.services.Auth.Logout(ctx, input.token()); err != nil {
		return nil, err
	}

	return &LogoutOutput{
		SetCookie: s.clearedSessionCookie(),
		Body:      LogoutResponse{Success: true, Message: "logged out"},
	}, nil
}

func (s *Server) handleAuthStatus(ctx context.Context, input *SessionInput) (*AuthStatusOutput, error) {
	_, err := s.services.Auth.Authenticate(ctx, input.token())
	return &AuthStatusOutput{Body: AuthStatusResponse{Authenticated: err == nil}}, nil
}

func (s *Server) sessionCookie(token string, expiresAt time.Time) http.Cookie {
	return http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

func (s *Server) clearedSessionCookie() http.Cookie {
	return http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
