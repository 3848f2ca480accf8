package service

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/promptshelf/promptshelf-server/internal/media/attachments"
	"github.com/promptshelf/promptshelf-server/internal/store/sqlite"
	"github.com/promptshelf/promptshelf-server/internal/validation"
)

// testEnv bundles a temporary store, file storage and every service.
type testEnv struct {
	store       *sqlite.Store
	storage     *attachments.Storage
	categories  *CategoryService
	tags        *TagService
	platforms   *PlatformService
	prompts     *PromptService
	responses   *ResponseService
	knowledge   *KnowledgeService
	attachments *AttachmentService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	log := slog.New(slog.DiscardHandler)

	s, err := sqlite.Open(filepath.Join(dir, "test.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	storage, err := attachments.NewStorage(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	v := validation.New()
	return &testEnv{
		store:       s,
		storage:     storage,
		categories:  NewCategoryService(s, v, log),
		tags:        NewTagService(s, v, log),
		platforms:   NewPlatformService(s, v, log),
		prompts:     NewPromptService(s, storage, v, log),
		responses:   NewResponseService(s, v, log),
		knowledge:   NewKnowledgeService(s, storage, v, log),
		attachments: NewAttachmentService(s, storage, log),
	}
}

func ptr[T any](v T) *T { return &v }
