package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/promptshelf/promptshelf-server/internal/domain"
	domainerrors "github.com/promptshelf/promptshelf-server/internal/errors"
	"github.com/promptshelf/promptshelf-server/internal/media/attachments"
	"github.com/promptshelf/promptshelf-server/internal/store"
)

// MaxUploadSize is the largest accepted attachment, in bytes.
const MaxUploadSize = 10 << 20

// sniffLen is how much of an upload is read to detect its content type.
const sniffLen = 3072

// allowedTypes are the file type tokens accepted in both the extension and
// the declared MIME type of an upload.
var allowedTypes = []string{"jpeg", "jpg", "png", "gif", "webp", "pdf", "svg"}

// allowedContent are the detected content types an upload may have.
var allowedContent = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
	"application/pdf",
	"image/svg+xml",
}

// AttachmentService manages files attached to prompts and knowledge entries.
type AttachmentService struct {
	store  store.Store
	files  FileStore
	logger *slog.Logger
}

// NewAttachmentService creates a new attachment service.
func NewAttachmentService(store store.Store, files FileStore, logger *slog.Logger) *AttachmentService {
	return &AttachmentService{
		store:  store,
		files:  files,
		logger: logger,
	}
}

// UploadRequest describes one uploaded file.
type UploadRequest struct {
	PromptID    *int64
	KnowledgeID *int64
	Filename    string    // name on the uploader's machine
	ContentType string    // declared by the client
	Size        int64     // declared size, -1 when unknown
	Description *string
	Body        io.Reader
}

// ListForPrompt returns the attachments of a prompt, oldest first.
func (s *AttachmentService) ListForPrompt(ctx context.Context, promptID int64) ([]domain.Attachment, error) {
	return s.store.ListAttachments(ctx, domain.AttachmentOwner{PromptID: &promptID})
}

// ListForKnowledge returns the attachments of a knowledge entry, oldest first.
func (s *AttachmentService) ListForKnowledge(ctx context.Context, knowledgeID int64) ([]domain.Attachment, error) {
	return s.store.ListAttachments(ctx, domain.AttachmentOwner{KnowledgeID: &knowledgeID})
}

// Upload stores a file and records it against its owner.
func (s *AttachmentService) Upload(ctx context.Context, req UploadRequest) (*domain.Attachment, error) {
	owner := domain.AttachmentOwner{PromptID: req.PromptID, KnowledgeID: req.KnowledgeID}
	if !owner.Valid() {
		return nil, domainerrors.BadRequest("exactly one of prompt_id or knowledge_id is required")
	}
	if req.Size > MaxUploadSize {
		return nil, domainerrors.PayloadTooLarge("file too large (max 10MB)")
	}

	ext := strings.ToLower(filepath.Ext(req.Filename))
	if !allowedType(strings.TrimPrefix(ext, ".")) || !allowedType(strings.ToLower(req.ContentType)) {
		return nil, domainerrors.BadRequest("only images and PDFs are allowed")
	}

	if err := s.ownerExists(ctx, owner); err != nil {
		return nil, err
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(req.Body, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, domainerrors.Wrap(err, domainerrors.CodeBadRequest, "failed to read upload")
	}
	head = head[:n]

	detected := mimetype.Detect(head)
	if !allowedDetected(detected) {
		s.logger.Warn("upload content rejected",
			"filename", req.Filename,
			"declared", req.ContentType,
			"detected", detected.String(),
		)
		return nil, domainerrors.BadRequest("file content does not match an allowed type")
	}

	stored, err := s.files.Save(ext, io.MultiReader(bytes.NewReader(head), req.Body), MaxUploadSize)
	if errors.Is(err, attachments.ErrTooLarge) {
		return nil, domainerrors.PayloadTooLarge("file too large (max 10MB)")
	}
	if err != nil {
		return nil, err
	}

	a, err := s.store.CreateAttachment(ctx, store.AttachmentInput{
		Owner:       owner,
		Filename:    req.Filename,
		Filepath:    stored,
		Type:        req.ContentType,
		Description: req.Description,
	})
	if err != nil {
		if delErr := s.files.Delete(stored); delErr != nil {
			s.logger.Warn("failed to remove orphaned upload", "file", stored, "error", delErr)
		}
		return nil, err
	}

	s.logger.Info("attachment uploaded",
		"attachment_id", a.ID,
		"prompt_id", a.PromptID,
		"knowledge_id", a.KnowledgeID,
		"type", detected.String(),
	)
	return a, nil
}

// DeleteAttachment removes the stored file, then the row. A file that is
// already gone does not fail the delete.
func (s *AttachmentService) DeleteAttachment(ctx context.Context, id int64) error {
	a, err := s.store.GetAttachment(ctx, id)
	if err != nil {
		return err
	}

	if err := s.files.Delete(a.Filepath); err != nil {
		return err
	}
	if err := s.store.DeleteAttachment(ctx, id); err != nil {
		return err
	}

	s.logger.Info("attachment deleted", "attachment_id", id, "file", a.Filepath)
	return nil
}

func (s *AttachmentService) ownerExists(ctx context.Context, owner domain.AttachmentOwner) error {
	if owner.PromptID != nil {
		_, err := s.store.GetPrompt(ctx, *owner.PromptID)
		return err
	}
	_, err := s.store.GetKnowledge(ctx, *owner.KnowledgeID)
	return err
}

// allowedType reports whether s contains one of the allowed type tokens,
// so "image/svg+xml" and "svg" both pass.
func allowedType(s string) bool {
	if s == "" {
		return false
	}
	for _, t := range allowedTypes {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func allowedDetected(m *mimetype.MIME) bool {
	for _, t := range allowedContent {
		if m.Is(t) {
			return true
		}
	}
	return false
}
