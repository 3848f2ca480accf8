package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/promptshelf/promptshelf-server/internal/logger"
	"github.com/promptshelf/promptshelf-server/internal/ratelimit"
	"github.com/promptshelf/promptshelf-server/internal/service"
)

const (
	// sessionCleanupInterval is how often expired sessions are pruned.
	sessionCleanupInterval = time.Hour

	// Login attempts per client IP: a burst of 5, refilled one per 12 seconds.
	loginBurst    = 5
	loginInterval = time.Minute / loginBurst
)

// LoginLimiterHandle wraps the login rate limiter with shutdown capability.
type LoginLimiterHandle struct {
	*ratelimit.KeyedRateLimiter
}

// Shutdown implements do.Shutdownable.
func (h *LoginLimiterHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideLoginLimiter provides the per-IP login rate limiter.
func ProvideLoginLimiter(i do.Injector) (*LoginLimiterHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	limiter := ratelimit.New(loginInterval, loginBurst)

	log.Info("Login rate limiter started", "burst", loginBurst, "interval", loginInterval)

	return &LoginLimiterHandle{KeyedRateLimiter: limiter}, nil
}

// SessionCleanupJob runs periodic session cleanup.
type SessionCleanupJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionCleanupJob provides the periodic session cleanup job.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	authService := do.MustInvoke[*service.AuthService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(sessionCleanupInterval)
		defer ticker.Stop()

		// Initial cleanup on startup
		if _, err := authService.PruneExpiredSessions(ctx); err != nil {
			log.Warn("Initial session cleanup failed", "error", err)
		}

		for {
			select {
			case <-ticker.C:
				if _, err := authService.PruneExpiredSessions(ctx); err != nil {
					log.Warn("Session cleanup failed", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Session cleanup job started")

	return &SessionCleanupJob{cancel: cancel}, nil
}
