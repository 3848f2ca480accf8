package api

import (
	"github.com/promptshelf/promptshelf-server/internal/backup"
	"github.com/promptshelf/promptshelf-server/internal/service"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Auth       *service.AuthService
	Category   *service.CategoryService
	Tag        *service.TagService
	Platform   *service.PlatformService
	Prompt     *service.PromptService
	Response   *service.ResponseService
	Knowledge  *service.KnowledgeService
	Attachment *service.AttachmentService
	Backup     *backup.Service // snapshot export and import
}
