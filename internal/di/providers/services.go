package providers

import (
	"github.com/samber/do/v2"

	"github.com/promptshelf/promptshelf-server/internal/auth"
	"github.com/promptshelf/promptshelf-server/internal/backup"
	"github.com/promptshelf/promptshelf-server/internal/config"
	"github.com/promptshelf/promptshelf-server/internal/logger"
	"github.com/promptshelf/promptshelf-server/internal/media/attachments"
	"github.com/promptshelf/promptshelf-server/internal/service"
	"github.com/promptshelf/promptshelf-server/internal/validation"
)

// ProvideAuthService provides the login and session service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	hash := do.MustInvoke[PasswordHash](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(
		storeHandle.Store,
		tokenService,
		string(hash),
		cfg.Auth.SessionDuration,
		validator,
		log.Logger,
	), nil
}

// ProvideCategoryService provides the category service.
func ProvideCategoryService(i do.Injector) (*service.CategoryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCategoryService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideTagService provides the tag service.
func ProvideTagService(i do.Injector) (*service.TagService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewTagService(storeHandle.Store, validator, log.Logger), nil
}

// ProvidePlatformService provides the AI platform service.
func ProvidePlatformService(i do.Injector) (*service.PlatformService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPlatformService(storeHandle.Store, validator, log.Logger), nil
}

// ProvidePromptService provides the prompt service.
func ProvidePromptService(i do.Injector) (*service.PromptService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storage := do.MustInvoke[*attachments.Storage](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPromptService(storeHandle.Store, storage, validator, log.Logger), nil
}

// ProvideResponseService provides the AI response library service.
func ProvideResponseService(i do.Injector) (*service.ResponseService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewResponseService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideKnowledgeService provides the knowledge base service.
func ProvideKnowledgeService(i do.Injector) (*service.KnowledgeService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storage := do.MustInvoke[*attachments.Storage](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewKnowledgeService(storeHandle.Store, storage, validator, log.Logger), nil
}

// ProvideAttachmentService provides the attachment service.
func ProvideAttachmentService(i do.Injector) (*service.AttachmentService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storage := do.MustInvoke[*attachments.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAttachmentService(storeHandle.Store, storage, log.Logger), nil
}

// ProvideBackupService provides the export and import service.
func ProvideBackupService(i do.Injector) (*backup.Service, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	storage := do.MustInvoke[*attachments.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return backup.NewService(storeHandle.Store, storage, log.Logger), nil
}
