package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/promptshelf/promptshelf-server/internal/domain"
	domainerrors "github.com/promptshelf/promptshelf-server/internal/errors"
	"github.com/promptshelf/promptshelf-server/internal/http/response"
	"github.com/promptshelf/promptshelf-server/internal/service"
)

// multipartOverhead is allowed on top of MaxUploadSize for form fields and boundaries.
const multipartOverhead = 1 << 20

func (s *Server) registerAttachmentRoutes() {
	register(s, huma.Operation{
		OperationID: "listPromptAttachments",
		Method:      http.MethodGet,
		Path:        "/api/attachments/prompt/{id}",
		Summary:     "List prompt attachments",
		Description: "Returns the files attached to a prompt, oldest first",
		Tags:        []string{"Attachments"},
		Security:    bearerSecurity,
	}, s.handleListPromptAttachments)

	register(s, huma.Operation{
		OperationID: "listKnowledgeAttachments",
		Method:      http.MethodGet,
		Path:        "/api/attachments/knowledge/{id}",
		Summary:     "List knowledge attachments",
		Description: "Returns the files attached to a knowledge entry, oldest first",
		Tags:        []string{"Attachments"},
		Security:    bearerSecurity,
	}, s.handleListKnowledgeAttachments)

	register(s, huma.Operation{
		OperationID: "deleteAttachment",
		Method:      http.MethodDelete,
		Path:        "/api/attachments/{id}",
		Summary:     "Delete attachment",
		Description: "Removes the stored file and the attachment row",
		Tags:        []string{"Attachments"},
		Security:    bearerSecurity,
	}, s.handleDeleteAttachment)
}

// AttachmentsOutput wraps an attachment list for Huma.
type AttachmentsOutput struct {
	Body []domain.Attachment
}

func (s *Server) handleListPromptAttachments(ctx context.Context, input *IDInput) (*AttachmentsOutput, error) {
	items, err := s.services.Attachment.ListForPrompt(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &AttachmentsOutput{Body: nonNil(items)}, nil
}

func (s *Server) handleListKnowledgeAttachments(ctx context.Context, input *IDInput) (*AttachmentsOutput, error) {
	items, err := s.services.Attachment.ListForKnowledge(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &AttachmentsOutput{Body: nonNil(items)}, nil
}

func (s *Server) handleDeleteAttachment(ctx context.Context, input *IDInput) (*MessageOutput, error) {
	if err := s.services.Attachment.DeleteAttachment(ctx, input.ID); err != nil {
		return nil, err
	}
	return message("attachment deleted"), nil
}

// handleUploadAttachment accepts a multipart form with a file field and
// exactly one of prompt_id or knowledge_id, plus an optional description.
func (s *Server) handleUploadAttachment(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, service.MaxUploadSize+multipartOverhead)

	if err := r.ParseMultipartForm(service.MaxUploadSize + multipartOverhead); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			response.HandleError(w, tooLarge(), s.logger)
			return
		}
		response.HandleError(w, domainerrors.BadRequestf("invalid multipart form: %v", err), s.logger)
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			s.logger.Warn("failed to remove multipart temp files", "error", err)
		}
	}()

	file, header, err := r.FormFile("file")
	if err != nil {
		response.HandleError(w, domainerrors.BadRequest("no file uploaded"), s.logger)
		return
	}
	defer file.Close()

	promptID, err := parseFormID("prompt_id", r.FormValue("prompt_id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	knowledgeID, err := parseFormID("knowledge_id", r.FormValue("knowledge_id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	var description *string
	if d := strings.TrimSpace(r.FormValue("description")); d != "" {
		description = &d
	}

	att, err := s.services.Attachment.Upload(r.Context(), service.UploadRequest{
		PromptID:    promptID,
		KnowledgeID: knowledgeID,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Description: description,
		Body:        file,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, att, s.logger)
}

func tooLarge() error {
	return domainerrors.PayloadTooLarge(fmt.Sprintf("file too large (max %dMB)", service.MaxUploadSize>>20))
}
