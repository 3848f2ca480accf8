package providers

import (
	"context"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/promptshelf/promptshelf-server/internal/api"
	"github.com/promptshelf/promptshelf-server/internal/backup"
	"github.com/promptshelf/promptshelf-server/internal/config"
	"github.com/promptshelf/promptshelf-server/internal/logger"
	"github.com/promptshelf/promptshelf-server/internal/media/attachments"
	"github.com/promptshelf/promptshelf-server/internal/service"
)

// shutdownTimeout bounds how long in-flight requests get to finish on shutdown.
const shutdownTimeout = 15 * time.Second

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storage := do.MustInvoke[*attachments.Storage](i)
	limiter := do.MustInvoke[*LoginLimiterHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Auth:       do.MustInvoke[*service.AuthService](i),
		Category:   do.MustInvoke[*service.CategoryService](i),
		Tag:        do.MustInvoke[*service.TagService](i),
		Platform:   do.MustInvoke[*service.PlatformService](i),
		Prompt:     do.MustInvoke[*service.PromptService](i),
		Response:   do.MustInvoke[*service.ResponseService](i),
		Knowledge:  do.MustInvoke[*service.KnowledgeService](i),
		Attachment: do.MustInvoke[*service.AttachmentService](i),
		Backup:     do.MustInvoke[*backup.Service](i),
	}

	handler := api.NewServer(storeHandle.Store, services, storage, limiter.KeyedRateLimiter, api.Config{
		CORSOrigins:   cfg.Server.CORSOrigins,
		SecureCookies: cfg.Auth.SecureCookies,
	}, log)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start in background
	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("HTTP server error")
		}
	}()

	log.Info("Server running", "addr", srv.Addr, "cors_origins", cfg.Server.CORSOrigins)

	return &HTTPServerHandle{Server: srv}, nil
}
