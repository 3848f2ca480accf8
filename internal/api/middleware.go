package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/promptshelf/promptshelf-server/internal/domain"
	"github.com/promptshelf/promptshelf-server/internal/http/response"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "promptshelf_session"

// loginPath is the only rate limited route.
const loginPath = "/api/auth/login"

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// sessionKey is the context key for the authenticated session.
const sessionKey ctxKey = "session"

// SessionFromContext returns the authenticated session, if any.
func SessionFromContext(ctx context.Context) (*domain.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*domain.Session)
	return sess, ok && sess != nil
}

func withSession(ctx context.Context, sess *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// requiresAuth reports whether path is behind the login gate.
// Everything under /api except the auth routes is.
func requiresAuth(path string) bool {
	return strings.HasPrefix(path, "/api/") && !strings.HasPrefix(path, "/api/auth/")
}

// requireAuth rejects gated requests without a live session and stores the
// session in the request context otherwise.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || !requiresAuth(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		sess, err := s.services.Auth.Authenticate(r.Context(), tokenFromRequest(r))
		if err != nil {
			response.HandleError(w, err, s.logger)
			return
		}

		next.ServeHTTP(w, r.WithContext(withSession(r.Context(), sess)))
	})
}

// limitLogin throttles login attempts per client IP.
func (s *Server) limitLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != loginPath {
			next.ServeHTTP(w, r)
			return
		}

		key := getClientIP(r)
		if !s.loginLimiter.Allow(key) {
			s.logger.Warn("Rate limit exceeded",
				"ip", key,
				"path", r.URL.Path,
			)
			response.TooManyRequests(w, "too many login attempts, try again later", s.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// tokenFromRequest returns the session token from the cookie, falling back
// to an Authorization bearer header.
func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return bearerToken(r.Header.Get("Authorization"))
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Strip the port.
	ip := r.RemoteAddr
	if i := strings.LastIndexByte(ip, ':'); i >= 0 {
		return ip[:i]
	}
	return ip
}
