package service

import (
	"context"
	"io"
	"log/slog"
)

// FileRemover deletes stored attachment files. A missing file is not an error.
type FileRemover interface {
	Delete(name string) error
}

// FileStore is the attachment file storage used for uploads.
type FileStore interface {
	FileRemover
	Save(ext string, r io.Reader, maxBytes int64) (string, error)
}

// removeFiles deletes files whose rows are already gone. Failures are logged and skipped.
func removeFiles(ctx context.Context, files FileRemover, names []string, logger *slog.Logger) {
	for _, name := range names {
		if err := files.Delete(name); err != nil {
			logger.WarnContext(ctx, "failed to remove attachment file", "file", name, "error", err)
		}
	}
}
