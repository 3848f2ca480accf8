package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	domainerrors "github.com/promptshelf/promptshelf-server/internal/errors"
	"github.com/promptshelf/promptshelf-server/internal/store"
)

// FileRemover deletes stored attachment files. A missing file is not an error.
type FileRemover interface {
	Delete(name string) error
}

// Service exports and imports snapshots.
type Service struct {
	store  store.Store
	files  FileRemover
	logger *slog.Logger
}

// NewService creates a snapshot service. files removes the stored files of
// attachments dropped by a replace import.
func NewService(s store.Store, files FileRemover, logger *slog.Logger) *Service {
	return &Service{
		store:  s,
		files:  files,
		logger: logger,
	}
}

// Export reads the exported tables into a snapshot.
func (s *Service) Export(ctx context.Context) (*Snapshot, error) {
	data, err := s.store.ExportSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("export snapshot: %w", err)
	}

	snap := &Snapshot{
		Version:    FormatVersion,
		ExportedAt: time.Now().UTC(),
		Data:       data,
	}

	s.logger.Info("snapshot exported",
		"categories", len(data.Categories),
		"prompts", len(data.Prompts),
		"tags", len(data.Tags),
		"knowledge", len(data.Knowledge),
	)
	return snap, nil
}

// Import writes data in one transaction. Nothing changes when it fails.
// After a replace import the files of the removed attachments are deleted.
func (s *Service) Import(ctx context.Context, data *store.SnapshotData, mode ImportMode) (*ImportResult, error) {
	if data == nil {
		return nil, ErrNoData
	}
	if !mode.Valid() {
		return nil, domainerrors.BadRequestf("unknown import mode %q", mode)
	}

	start := time.Now()
	stats, err := s.store.ImportSnapshot(ctx, data, mode.storeMode())
	if err != nil {
		s.logger.Error("snapshot import failed", "mode", mode, "error", err)
		return nil, err
	}

	removed := 0
	for _, name := range stats.RemovedFiles {
		if err := s.files.Delete(name); err != nil {
			s.logger.Warn("failed to remove attachment file after import", "file", name, "error", err)
			continue
		}
		removed++
	}

	s.logger.Info("snapshot imported",
		"mode", mode,
		"rows", stats.Rows,
		"files_removed", removed,
		"duration", time.Since(start),
	)

	return &ImportResult{
		Mode:         mode,
		Imported:     stats.Rows,
		FilesRemoved: removed,
	}, nil
}

// WriteSnapshot encodes snap as indented JSON.
func WriteSnapshot(w io.Writer, snap *Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// ReadSnapshot decodes and checks a snapshot document.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, domainerrors.Wrap(err, ErrInvalidSnapshot.Code, ErrInvalidSnapshot.Message)
	}
	if !supportedVersion(snap.Version) {
		return nil, ErrVersionMismatch.WithDetails(map[string]string{"version": snap.Version, "supported": FormatVersion})
	}
	if snap.Data == nil {
		return nil, ErrNoData
	}
	return &snap, nil
}
