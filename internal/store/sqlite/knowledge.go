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

// knowledgeColumns is the ordered list of columns selected in knowledge queries.
// Must match the scan order in scanKnowledge.
const knowledgeColumns = `k.id, k.title, k.content, k.created_at, k.updated_at`

// knowledgeListSelect adds tag names and ids, both in tag-id order.
const knowledgeListSelect = `SELECT ` + knowledgeColumns + `,
	(SELECT json_group_array(t.name ORDER BY t.id) FROM knowledge_tags kt JOIN tags t ON t.id = kt.tag_id WHERE kt.knowledge_id = k.id),
	(SELECT json_group_array(t.id ORDER BY t.id) FROM knowledge_tags kt JOIN tags t ON t.id = kt.tag_id WHERE kt.knowledge_id = k.id),
	(SELECT COUNT(*) FROM attachments x WHERE x.knowledge_id = k.id)
FROM knowledge_base k`

func scanKnowledge(scanner interface{ Scan(dest ...any) error }, extra ...any) (*domain.KnowledgeEntry, error) {
	var (
		k                    domain.KnowledgeEntry
		createdAt, updatedAt string
	)

	dest := append([]any{&k.ID, &k.Title, &k.Content, &createdAt, &updatedAt}, extra...)
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}

	var err error
	if k.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if k.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &k, nil
}

// ListKnowledge returns entries matching every set filter, newest update first.
func (s *Store) ListKnowledge(ctx context.Context, f store.KnowledgeFilter) ([]domain.KnowledgeListItem, error) {
	q := newQuery(knowledgeListSelect)
	if f.TagID != nil {
		q.where(`EXISTS (SELECT 1 FROM knowledge_tags x WHERE x.knowledge_id = k.id AND x.tag_id = ?)`, *f.TagID)
	}
	if f.Search != "" {
		pattern := containsPattern(f.Search)
		q.where(`k.title LIKE ? ESCAPE '\' OR k.content LIKE ? ESCAPE '\'`, pattern, pattern)
	}
	q.order(`k.updated_at DESC, k.id DESC`)

	sqlText, args := q.build()
	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query knowledge_base: %w", err)
	}
	defer rows.Close()

	items := []domain.KnowledgeListItem{}
	for rows.Next() {
		var (
			item             domain.KnowledgeListItem
			tagNames, tagIDs string
		)
		k, err := scanKnowledge(rows, &tagNames, &tagIDs, &item.AttachmentCount)
		if err != nil {
			return nil, fmt.Errorf("scan knowledge: %w", err)
		}
		item.KnowledgeEntry = *k
		if item.Tags, err = decodeStrings(tagNames); err != nil {
			return nil, err
		}
		if item.TagIDs, err = decodeIDs(tagIDs); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetKnowledge retrieves a knowledge entry by id.
// Returns store.ErrNotFound if the entry does not exist.
func (s *Store) GetKnowledge(ctx context.Context, id int64) (*domain.KnowledgeEntry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+knowledgeColumns+` FROM knowledge_base k WHERE k.id = ?`, id)

	k, err := scanKnowledge(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessagef("knowledge entry %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return k, nil
}

// GetKnowledgeDetail returns an entry with its tags and attachments.
func (s *Store) GetKnowledgeDetail(ctx context.Context, id int64) (*domain.KnowledgeDetail, error) {
	k, err := s.GetKnowledge(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &domain.KnowledgeDetail{KnowledgeEntry: *k}
	if detail.Tags, err = s.tagsFor(ctx, "knowledge_tags", "knowledge_id", id); err != nil {
		return nil, err
	}
	if detail.Attachments, err = s.ListAttachments(ctx, domain.AttachmentOwner{KnowledgeID: &id}); err != nil {
		return nil, err
	}
	return detail, nil
}

// CreateKnowledge inserts an entry and its tag links in one transaction.
func (s *Store) CreateKnowledge(ctx context.Context, in store.KnowledgeInput) (*domain.KnowledgeEntry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := formatTime(time.Now())
	res, err := tx.ExecContext(ctx, `
		INSERT INTO knowledge_base (title, content, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		in.Title, in.Content, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert knowledge: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := insertLinks(ctx, tx, "knowledge_tags", "knowledge_id", "tag_id", id, in.TagIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetKnowledge(ctx, id)
}

// UpdateKnowledge applies an update and an optional tag replacement in one
// transaction. Returns store.ErrNotFound if the entry does not exist.
func (s *Store) UpdateKnowledge(ctx context.Context, id int64, up store.KnowledgeUpdate) (*domain.KnowledgeEntry, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE knowledge_base SET
			title = COALESCE(?, title),
			content = COALESCE(?, content),
			updated_at = ?
		WHERE id = ?`,
		nullableString(up.Title),
		nullableString(up.Content),
		formatTime(time.Now()),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("update knowledge: %w", err)
	}
	if err := requireAffected(res, "knowledge entry", id); err != nil {
		return nil, err
	}

	if up.TagIDs != nil {
		if err := replaceLinks(ctx, tx, "knowledge_tags", "knowledge_id", "tag_id", id, *up.TagIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetKnowledge(ctx, id)
}

// DeleteKnowledge removes an entry and returns the stored names of its
// attachment files.
func (s *Store) DeleteKnowledge(ctx context.Context, id int64) ([]string, error) {
	return s.deleteWithAttachments(ctx, "knowledge_base", "knowledge_id", "knowledge entry", id)
}
