package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/promptshelf/promptshelf-server/internal/backup"
	"github.com/promptshelf/promptshelf-server/internal/store"
)

// maxImportBytes bounds the import request body.
const maxImportBytes = 64 << 20

func (s *Server) registerBackupRoutes() {
	register(s, huma.Operation{
		OperationID: "exportSnapshot",
		Method:      http.MethodGet,
		Path:        "/api/export",
		Summary:     "Export data",
		Description: "Downloads categories, prompts, tags and knowledge entries as one snapshot document. AI platforms, AI responses and attachments are not included.",
		Tags:        []string{"Backup"},
		Security:    bearerSecurity,
	}, s.handleExport)

	register(s, huma.Operation{
		OperationID:  "importSnapshot",
		Method:       http.MethodPost,
		Path:         "/api/import",
		Summary:      "Import data",
		Description:  "Restores snapshot data in one transaction. With merge false, prompts, knowledge, tags and custom categories are wiped first.",
		Tags:         []string{"Backup"},
		Security:     bearerSecurity,
		MaxBodyBytes: maxImportBytes,
	}, s.handleImport)
}

// === DTOs ===

// ExportOutput wraps the snapshot as a file download.
type ExportOutput struct {
	ContentDisposition string `header:"Content-Disposition"`
	Body               *backup.Snapshot
}

// ImportRequest is the request body for an import.
type ImportRequest struct {
	_     struct{}            `additionalProperties:"true"`
	Data  *store.SnapshotData `json:"data,omitempty" doc:"The data object of an export document"`
	Merge bool                `json:"merge,omitempty" doc:"Keep existing rows and update colliding ids in place"`
}

// ImportInput wraps the import request for Huma.
type ImportInput struct {
	Body ImportRequest
}

// ImportResponse summarizes an import.
type ImportResponse struct {
	Message  string         `json:"message"`
	Merged   bool           `json:"merged"`
	Imported map[string]int `json:"imported" doc:"Rows written per table"`
}

// ImportOutput wraps the import response for Huma.
type ImportOutput struct {
	Body ImportResponse
}

// === Handlers ===

func (s *Server) handleExport(ctx context.Context, _ *struct{}) (*ExportOutput, error) {
	snap, err := s.services.Backup.Export(ctx)
	if err != nil {
		return nil, err
	}

	return &ExportOutput{
		ContentDisposition: "attachment; filename=" + backup.ExportFilename,
		Body:               snap,
	}, nil
}

func (s *Server) handleImport(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	result, err := s.services.Backup.Import(ctx, input.Body.Data, backup.ModeFor(input.Body.Merge))
	if err != nil {
		return nil, err
	}

	return &ImportOutput{
		Body: ImportResponse{
			Message:  "import successful",
			Merged:   result.Mode == backup.ImportModeMerge,
			Imported: result.Imported,
		},
	}, nil
}
