package providers

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/promptshelf/promptshelf-server/internal/config"
	"github.com/promptshelf/promptshelf-server/internal/logger"
	"github.com/promptshelf/promptshelf-server/internal/media/attachments"
)

// ProvideAttachmentStorage provides the on-disk store for uploaded files.
func ProvideAttachmentStorage(i do.Injector) (*attachments.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	storage, err := attachments.NewStorage(cfg.Storage.UploadsPath)
	if err != nil {
		return nil, fmt.Errorf("attachment storage: %w", err)
	}

	log.Info("Attachment storage initialized", "path", storage.Dir())

	return storage, nil
}
