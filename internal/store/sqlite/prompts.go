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

// promptColumns is the ordered list of columns selected in prompt queries.
// Must match the scan order in scanPrompt.
const promptColumns = `p.id, p.title, p.content, p.category_id, p.parent_id,
	p.is_building_block, p.use_count, p.created_at, p.updated_at`

// promptListSelect adds category and flattened association columns to a
// prompt row. Every array of one relation is aggregated in related-id
// order, which is what pairs names, ids and colors by index.
const promptListSelect = `SELECT ` + promptColumns + `,
	c.name, c.color,
	(SELECT json_group_array(t.name ORDER BY t.id) FROM prompt_tags pt JOIN tags t ON t.id = pt.tag_id WHERE pt.prompt_id = p.id),
	(SELECT json_group_array(t.id ORDER BY t.id) FROM prompt_tags pt JOIN tags t ON t.id = pt.tag_id WHERE pt.prompt_id = p.id),
	(SELECT json_group_array(a.name ORDER BY a.id) FROM prompt_ai_platforms pa JOIN ai_platforms a ON a.id = pa.ai_platform_id WHERE pa.prompt_id = p.id),
	(SELECT json_group_array(a.id ORDER BY a.id) FROM prompt_ai_platforms pa JOIN ai_platforms a ON a.id = pa.ai_platform_id WHERE pa.prompt_id = p.id),
	(SELECT json_group_array(a.color ORDER BY a.id) FROM prompt_ai_platforms pa JOIN ai_platforms a ON a.id = pa.ai_platform_id WHERE pa.prompt_id = p.id),
	(SELECT COUNT(*) FROM prompts ch WHERE ch.parent_id = p.id)
FROM prompts p
LEFT JOIN categories c ON c.id = p.category_id`

// searchLimit caps quick-search results.
const searchLimit = 50

func scanPrompt(scanner interface{ Scan(dest ...any) error }, extra ...any) (*domain.Prompt, error) {
	var (
		p                    domain.Prompt
		categoryID, parentID sql.NullInt64
		isBuildingBlock      int
		createdAt, updatedAt string
	)

	dest := append([]any{
		&p.ID, &p.Title, &p.Content, &categoryID, &parentID,
		&isBuildingBlock, &p.UseCount, &createdAt, &updatedAt,
	}, extra...)
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}

	p.CategoryID = int64Ptr(categoryID)
	p.ParentID = int64Ptr(parentID)
	p.IsBuildingBlock = isBuildingBlock != 0

	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func scanPromptListItem(scanner interface{ Scan(dest ...any) error }) (*domain.PromptListItem, error) {
	var (
		item                             domain.PromptListItem
		categoryName, categoryColor      sql.NullString
		tagNames, tagIDs                 string
		platformNames, platformIDs, cols string
	)

	p, err := scanPrompt(scanner,
		&categoryName, &categoryColor,
		&tagNames, &tagIDs,
		&platformNames, &platformIDs, &cols,
		&item.ChildrenCount,
	)
	if err != nil {
		return nil, err
	}

	item.Prompt = *p
	item.CategoryName = stringPtr(categoryName)
	item.CategoryColor = stringPtr(categoryColor)
	if item.Tags, err = decodeStrings(tagNames); err != nil {
		return nil, err
	}
	if item.TagIDs, err = decodeIDs(tagIDs); err != nil {
		return nil, err
	}
	if item.AIPlatforms, err = decodeStrings(platformNames); err != nil {
		return nil, err
	}
	if item.AIPlatformIDs, err = decodeIDs(platformIDs); err != nil {
		return nil, err
	}
	if item.AIPlatformColors, err = decodeStrings(cols); err != nil {
		return nil, err
	}
	return &item, nil
}

// ListPrompts returns prompts matching every set filter, newest update first.
func (s *Store) ListPrompts(ctx context.Context, f store.PromptFilter) ([]domain.PromptListItem, error) {
	q := newQuery(promptListSelect)
	if f.CategoryID != nil {
		q.where(`p.category_id = ?`, *f.CategoryID)
	}
	if f.TagID != nil {
		q.where(`EXISTS (SELECT 1 FROM prompt_tags x WHERE x.prompt_id = p.id AND x.tag_id = ?)`, *f.TagID)
	}
	if f.AIPlatformID != nil {
		q.where(`EXISTS (SELECT 1 FROM prompt_ai_platforms x WHERE x.prompt_id = p.id AND x.ai_platform_id = ?)`, *f.AIPlatformID)
	}
	if f.IsBuildingBlock != nil {
		q.where(`p.is_building_block = ?`, boolToInt(*f.IsBuildingBlock))
	}
	switch f.Parent.Mode {
	case store.ParentNone:
		q.where(`p.parent_id IS NULL`)
	case store.ParentEquals:
		q.where(`p.parent_id = ?`, f.Parent.ID)
	}
	if f.Search != "" {
		pattern := containsPattern(f.Search)
		q.where(`p.title LIKE ? ESCAPE '\' OR p.content LIKE ? ESCAPE '\'`, pattern, pattern)
	}
	q.order(`p.updated_at DESC, p.id DESC`)

	sqlText, args := q.build()
	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query prompts: %w", err)
	}
	defer rows.Close()

	items := []domain.PromptListItem{}
	for rows.Next() {
		item, err := scanPromptListItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// SearchPrompts returns up to 50 prompts whose title or content contains
// term, most used first. An empty term matches nothing.
func (s *Store) SearchPrompts(ctx context.Context, term string) ([]domain.PromptSearchResult, error) {
	results := []domain.PromptSearchResult{}
	if term == "" {
		return results, nil
	}

	pattern := containsPattern(term)
	sqlText, args := newQuery(`SELECT `+promptColumns+`, c.name, c.color
		FROM prompts p
		LEFT JOIN categories c ON c.id = p.category_id`).
		where(`p.title LIKE ? ESCAPE '\' OR p.content LIKE ? ESCAPE '\'`, pattern, pattern).
		order(`p.use_count DESC, p.updated_at DESC`).
		max(searchLimit).
		build()

	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("search prompts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, color sql.NullString
		p, err := scanPrompt(rows, &name, &color)
		if err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		results = append(results, domain.PromptSearchResult{
			Prompt:        *p,
			CategoryName:  stringPtr(name),
			CategoryColor: stringPtr(color),
		})
	}
	return results, rows.Err()
}

// GetPrompt retrieves a prompt row by id.
// Returns store.ErrNotFound if the prompt does not exist.
func (s *Store) GetPrompt(ctx context.Context, id int64) (*domain.Prompt, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+promptColumns+` FROM prompts p WHERE p.id = ?`, id)

	p, err := scanPrompt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessagef("prompt %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetPromptDetail assembles a prompt with its category, tags, children,
// parent, attachments and platforms.
func (s *Store) GetPromptDetail(ctx context.Context, id int64) (*domain.PromptDetail, error) {
	var name, color sql.NullString
	row := s.db.QueryRowContext(ctx, `
		SELECT `+promptColumns+`, c.name, c.color
		FROM prompts p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = ?`, id)

	p, err := scanPrompt(row, &name, &color)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessagef("prompt %d not found", id)
	}
	if err != nil {
		return nil, err
	}

	detail := &domain.PromptDetail{
		Prompt:        *p,
		CategoryName:  stringPtr(name),
		CategoryColor: stringPtr(color),
	}

	if detail.Tags, err = s.tagsFor(ctx, "prompt_tags", "prompt_id", id); err != nil {
		return nil, err
	}
	if detail.Children, err = s.childPrompts(ctx, id); err != nil {
		return nil, err
	}
	if p.ParentID != nil {
		var ref domain.PromptRef
		err := s.db.QueryRowContext(ctx,
			`SELECT id, title FROM prompts WHERE id = ?`, *p.ParentID).Scan(&ref.ID, &ref.Title)
		switch {
		case err == nil:
			detail.Parent = &ref
		case !errors.Is(err, sql.ErrNoRows):
			return nil, fmt.Errorf("query parent: %w", err)
		}
	}
	if detail.Attachments, err = s.ListAttachments(ctx, domain.AttachmentOwner{PromptID: &id}); err != nil {
		return nil, err
	}
	if detail.AIPlatforms, err = s.platformsForPrompt(ctx, id); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *Store) childPrompts(ctx context.Context, parentID int64) ([]domain.Prompt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+promptColumns+` FROM prompts p WHERE p.parent_id = ? ORDER BY p.id ASC`, parentID)
	if err != nil {
		return nil, fmt.Errorf("query children: %w", err)
	}
	defer rows.Close()

	children := []domain.Prompt{}
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		children = append(children, *p)
	}
	return children, rows.Err()
}

// ListPromptChildren returns the direct children of a prompt with their
// category names, oldest first.
func (s *Store) ListPromptChildren(ctx context.Context, parentID int64) ([]domain.PromptChild, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+promptColumns+`, c.name
		FROM prompts p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.parent_id = ?
		ORDER BY p.created_at ASC, p.id ASC`, parentID)
	if err != nil {
		return nil, fmt.Errorf("query children: %w", err)
	}
	defer rows.Close()

	children := []domain.PromptChild{}
	for rows.Next() {
		var name sql.NullString
		p, err := scanPrompt(rows, &name)
		if err != nil {
			return nil, fmt.Errorf("scan prompt: %w", err)
		}
		children = append(children, domain.PromptChild{Prompt: *p, CategoryName: stringPtr(name)})
	}
	return children, rows.Err()
}

// CreatePrompt inserts a prompt and its tag and platform links in one transaction.
func (s *Store) CreatePrompt(ctx context.Context, in store.PromptInput) (*domain.Prompt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := formatTime(time.Now())
	res, err := tx.ExecContext(ctx, `
		INSERT INTO prompts (title, content, category_id, parent_id, is_building_block, use_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
		in.Title,
		in.Content,
		nullableInt64(in.CategoryID),
		nullableInt64(in.ParentID),
		boolToInt(in.IsBuildingBlock),
		now,
		now,
	)
	if err != nil {
		return nil, promptWriteError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := insertLinks(ctx, tx, "prompt_tags", "prompt_id", "tag_id", id, in.TagIDs); err != nil {
		return nil, err
	}
	if err := insertLinks(ctx, tx, "prompt_ai_platforms", "prompt_id", "ai_platform_id", id, in.AIPlatformIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetPrompt(ctx, id)
}

// UpdatePrompt applies an update and any association replacements in one
// transaction. Returns store.ErrNotFound if the prompt does not exist.
func (s *Store) UpdatePrompt(ctx context.Context, id int64, up store.PromptUpdate) (*domain.Prompt, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var isBuildingBlock sql.NullInt64
	if up.IsBuildingBlock != nil {
		isBuildingBlock = sql.NullInt64{Int64: int64(boolToInt(*up.IsBuildingBlock)), Valid: true}
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE prompts SET
			title = COALESCE(?, title),
			content = COALESCE(?, content),
			category_id = ?,
			parent_id = ?,
			is_building_block = COALESCE(?, is_building_block),
			updated_at = ?
		WHERE id = ?`,
		nullableString(up.Title),
		nullableString(up.Content),
		nullableInt64(up.CategoryID),
		nullableInt64(up.ParentID),
		isBuildingBlock,
		formatTime(time.Now()),
		id,
	)
	if err != nil {
		return nil, promptWriteError(err)
	}
	if err := requireAffected(res, "prompt", id); err != nil {
		return nil, err
	}

	if up.TagIDs != nil {
		if err := replaceLinks(ctx, tx, "prompt_tags", "prompt_id", "tag_id", id, *up.TagIDs); err != nil {
			return nil, err
		}
	}
	if up.AIPlatformIDs != nil {
		if err := replaceLinks(ctx, tx, "prompt_ai_platforms", "prompt_id", "ai_platform_id", id, *up.AIPlatformIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetPrompt(ctx, id)
}

// RecordPromptCopy increments use_count by one and changes nothing else.
// Returns store.ErrNotFound if the prompt does not exist.
func (s *Store) RecordPromptCopy(ctx context.Context, id int64) (*domain.Prompt, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE prompts SET use_count = use_count + 1 WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("record copy: %w", err)
	}
	if err := requireAffected(res, "prompt", id); err != nil {
		return nil, err
	}
	return s.GetPrompt(ctx, id)
}

// RecordPromptCopies increments use_count once per listed id, all or nothing.
// Returns store.ErrNotFound naming the first unknown id.
func (s *Store) RecordPromptCopies(ctx context.Context, ids []int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, id := range ids {
		res, err := tx.ExecContext(ctx,
			`UPDATE prompts SET use_count = use_count + 1 WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("record copy: %w", err)
		}
		if err := requireAffected(res, "prompt", id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeletePrompt removes a prompt. Links and attachment rows cascade and
// children lose their parent. It returns the stored names of the removed
// attachment files so the caller can delete them.
func (s *Store) DeletePrompt(ctx context.Context, id int64) ([]string, error) {
	return s.deleteWithAttachments(ctx, "prompts", "prompt_id", "prompt", id)
}

// deleteWithAttachments deletes the owner row and returns the file names of
// attachments removed by the cascade.
func (s *Store) deleteWithAttachments(ctx context.Context, table, ownerColumn, entity string, id int64) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	files, err := queryFilepaths(ctx, tx, `SELECT filepath FROM attachments WHERE `+ownerColumn+` = ?`, id)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("delete %s: %w", entity, err)
	}
	if err := requireAffected(res, entity, id); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return files, nil
}

// promptWriteError maps a dangling category or parent reference to invalid input.
func promptWriteError(err error) error {
	if isForeignKeyViolation(err) {
		return store.ErrInvalidInput.WithMessage("category or parent prompt does not exist").WithCause(err)
	}
	return fmt.Errorf("write prompt: %w", err)
}
