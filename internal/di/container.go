// Package di provides dependency injection configuration for the PromptShelf server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/promptshelf/promptshelf-server/internal/auth"
	"github.com/promptshelf/promptshelf-server/internal/backup"
	"github.com/promptshelf/promptshelf-server/internal/config"
	"github.com/promptshelf/promptshelf-server/internal/di/providers"
	"github.com/promptshelf/promptshelf-server/internal/logger"
	"github.com/promptshelf/promptshelf-server/internal/media/attachments"
	"github.com/promptshelf/promptshelf-server/internal/service"
	"github.com/promptshelf/promptshelf-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Storage layer
	do.Provide(injector, providers.ProvideAttachmentStorage)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvidePasswordHash)
	do.Provide(injector, providers.ProvideLoginLimiter)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideCategoryService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvidePlatformService)
	do.Provide(injector, providers.ProvidePromptService)
	do.Provide(injector, providers.ProvideResponseService)
	do.Provide(injector, providers.ProvideKnowledgeService)
	do.Provide(injector, providers.ProvideAttachmentService)
	do.Provide(injector, providers.ProvideBackupService)

	// Workers
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*attachments.Storage](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[providers.PasswordHash](injector)
	_ = do.MustInvoke[*providers.LoginLimiterHandle](injector)

	// Business services
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.CategoryService](injector)
	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*service.PlatformService](injector)
	_ = do.MustInvoke[*service.PromptService](injector)
	_ = do.MustInvoke[*service.ResponseService](injector)
	_ = do.MustInvoke[*service.KnowledgeService](injector)
	_ = do.MustInvoke[*service.AttachmentService](injector)
	_ = do.MustInvoke[*backup.Service](injector)

	// Workers
	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
