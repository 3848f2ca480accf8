package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/promptshelf/promptshelf-server/internal/domain"
	"github.com/promptshelf/promptshelf-server/internal/store"
)

// attachmentColumns is the ordered list of columns selected in attachment queries.
// Must match the scan order in scanAttachment.
const attachmentColumns = `id, prompt_id, knowledge_id, filename, filepath, type, description, created_at`

func scanAttachment(scanner interface{ Scan(dest ...any) error }) (*domain.Attachment, error) {
	var (
		a                     domain.Attachment
		promptID, knowledgeID sql.NullInt64
		description           sql.NullString
		createdAt             string
	)

	err := scanner.Scan(
		&a.ID, &promptID, &knowledgeID, &a.Filename, &a.Filepath,
		&a.Type, &description, &createdAt,
	)
	if err != nil {
		return nil, err
	}

	a.PromptID = int64Ptr(promptID)
	a.KnowledgeID = int64Ptr(knowledgeID)
	a.Description = stringPtr(description)
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAttachments returns the attachments of one owner, oldest first.
func (s *Store) ListAttachments(ctx context.Context, owner domain.AttachmentOwner) ([]domain.Attachment, error) {
	if !owner.Valid() {
		return nil, store.ErrInvalidInput.WithMessage("exactly one of prompt_id or knowledge_id is required")
	}

	q := newQuery(`SELECT ` + attachmentColumns + ` FROM attachments`)
	if owner.PromptID != nil {
		q.where(`prompt_id = ?`, *owner.PromptID)
	} else {
		q.where(`knowledge_id = ?`, *owner.KnowledgeID)
	}
	q.order(`created_at ASC, id ASC`)

	sqlText, args := q.build()
	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query attachments: %w", err)
	}
	defer rows.Close()

	attachments := []domain.Attachment{}
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		attachments = append(attachments, *a)
	}
	return attachments, rows.Err()
}

// GetAttachment retrieves an attachment by id.
// Returns store.ErrNotFound if the attachment does not exist.
func (s *Store) GetAttachment(ctx context.Context, id int64) (*domain.Attachment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+attachmentColumns+` FROM attachments WHERE id = ?`, id)

	a, err := scanAttachment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessagef("attachment %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// CreateAttachment records a stored file against its owner.
// Returns store.ErrNotFound when the owner does not exist.
func (s *Store) CreateAttachment(ctx context.Context, in store.AttachmentInput) (*domain.Attachment, error) {
	if !in.Owner.Valid() {
		return nil, store.ErrInvalidInput.WithMessage("exactly one of prompt_id or knowledge_id is required")
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO attachments (prompt_id, knowledge_id, filename, filepath, type, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		nullableInt64(in.Owner.PromptID),
		nullableInt64(in.Owner.KnowledgeID),
		in.Filename,
		in.Filepath,
		in.Type,
		nullableString(in.Description),
		formatTime(time.Now()),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, store.ErrNotFound.WithMessage("attachment owner not found").WithCause(err)
		}
		if isUniqueViolation(err) {
			return nil, store.ErrAlreadyExists.WithMessagef("attachment file %s already recorded", in.Filepath).WithCause(err)
		}
		return nil, fmt.Errorf("insert attachment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetAttachment(ctx, id)
}

// DeleteAttachment removes an attachment row.
func (s *Store) DeleteAttachment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM attachments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	return requireAffected(res, "attachment", id)
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryFilepaths(ctx context.Context, q querier, sqlText string, args ...any) ([]string, error) {
	rows, err := q.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query attachment files: %w", err)
	}
	defer rows.Close()

	files := []string{}
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("scan attachment file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
