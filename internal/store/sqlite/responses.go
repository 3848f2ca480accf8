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

// responseColumns is the ordered list of columns selected in response queries.
// Must match the scan order in scanResponse.
const responseColumns = `r.id, r.title, r.content, r.ai_platform_id, r.prompt_id,
	r.topic, r.notes, r.is_favorite, r.created_at, r.updated_at`

// responseListSelect adds platform, prompt and tag columns. Tag names and
// ids are both aggregated in tag-id order so they pair by index.
const responseListSelect = `SELECT ` + responseColumns + `,
	a.name, a.color, p.title,
	(SELECT json_group_array(t.name ORDER BY t.id) FROM ai_response_tags rt JOIN tags t ON t.id = rt.tag_id WHERE rt.ai_response_id = r.id),
	(SELECT json_group_array(t.id ORDER BY t.id) FROM ai_response_tags rt JOIN tags t ON t.id = rt.tag_id WHERE rt.ai_response_id = r.id)
FROM ai_responses r
LEFT JOIN ai_platforms a ON a.id = r.ai_platform_id
LEFT JOIN prompts p ON p.id = r.prompt_id`

func scanResponse(scanner interface{ Scan(dest ...any) error }, extra ...any) (*domain.AIResponse, error) {
	var (
		r                    domain.AIResponse
		platformID, promptID sql.NullInt64
		topic, notes         sql.NullString
		isFavorite           int
		createdAt, updatedAt string
	)

	dest := append([]any{
		&r.ID, &r.Title, &r.Content, &platformID, &promptID,
		&topic, &notes, &isFavorite, &createdAt, &updatedAt,
	}, extra...)
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}

	r.AIPlatformID = int64Ptr(platformID)
	r.PromptID = int64Ptr(promptID)
	r.Topic = stringPtr(topic)
	r.Notes = stringPtr(notes)
	r.IsFavorite = isFavorite != 0

	var err error
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

// ListResponses returns responses matching every set filter, newest update first.
func (s *Store) ListResponses(ctx context.Context, f store.ResponseFilter) ([]domain.AIResponseListItem, error) {
	q := newQuery(responseListSelect)
	if f.AIPlatformID != nil {
		q.where(`r.ai_platform_id = ?`, *f.AIPlatformID)
	}
	if f.TagID != nil {
		q.where(`EXISTS (SELECT 1 FROM ai_response_tags x WHERE x.ai_response_id = r.id AND x.tag_id = ?)`, *f.TagID)
	}
	if f.Topic != nil {
		q.where(`r.topic = ?`, *f.Topic)
	}
	q.whereIf(f.FavoritesOnly, `r.is_favorite = 1`)
	if f.Search != "" {
		pattern := containsPattern(f.Search)
		q.where(`r.title LIKE ? ESCAPE '\' OR r.content LIKE ? ESCAPE '\' OR r.topic LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern)
	}
	q.order(`r.updated_at DESC, r.id DESC`)

	sqlText, args := q.build()
	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query ai_responses: %w", err)
	}
	defer rows.Close()

	items := []domain.AIResponseListItem{}
	for rows.Next() {
		var (
			name, color, title sql.NullString
			tagNames, tagIDs   string
		)
		r, err := scanResponse(rows, &name, &color, &title, &tagNames, &tagIDs)
		if err != nil {
			return nil, fmt.Errorf("scan ai_response: %w", err)
		}
		item := domain.AIResponseListItem{
			AIResponse:      *r,
			AIPlatformName:  stringPtr(name),
			AIPlatformColor: stringPtr(color),
			PromptTitle:     stringPtr(title),
		}
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

// ListTopics returns the distinct non-empty response topics in ascending order.
func (s *Store) ListTopics(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT topic FROM ai_responses
		WHERE topic IS NOT NULL AND topic != ''
		ORDER BY topic ASC`)
	if err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}
	defer rows.Close()

	topics := []string{}
	for rows.Next() {
		var topic string
		if err := rows.Scan(&topic); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, topic)
	}
	return topics, rows.Err()
}

// GetResponse retrieves a response row by id.
// Returns store.ErrNotFound if the response does not exist.
func (s *Store) GetResponse(ctx context.Context, id int64) (*domain.AIResponse, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+responseColumns+` FROM ai_responses r WHERE r.id = ?`, id)

	r, err := scanResponse(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessagef("ai response %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// GetResponseDetail returns a response with platform, source prompt and tags.
func (s *Store) GetResponseDetail(ctx context.Context, id int64) (*domain.AIResponseDetail, error) {
	var name, color, title, content sql.NullString
	row := s.db.QueryRowContext(ctx, `
		SELECT `+responseColumns+`, a.name, a.color, p.title, p.content
		FROM ai_responses r
		LEFT JOIN ai_platforms a ON a.id = r.ai_platform_id
		LEFT JOIN prompts p ON p.id = r.prompt_id
		WHERE r.id = ?`, id)

	r, err := scanResponse(row, &name, &color, &title, &content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessagef("ai response %d not found", id)
	}
	if err != nil {
		return nil, err
	}

	detail := &domain.AIResponseDetail{
		AIResponse:      *r,
		AIPlatformName:  stringPtr(name),
		AIPlatformColor: stringPtr(color),
		PromptTitle:     stringPtr(title),
		PromptContent:   stringPtr(content),
	}
	if detail.Tags, err = s.tagsFor(ctx, "ai_response_tags", "ai_response_id", id); err != nil {
		return nil, err
	}
	return detail, nil
}

// CreateResponse inserts a response and its tag links in one transaction.
func (s *Store) CreateResponse(ctx context.Context, in store.ResponseInput) (*domain.AIResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := formatTime(time.Now())
	res, err := tx.ExecContext(ctx, `
		INSERT INTO ai_responses (title, content, ai_platform_id, prompt_id, topic, notes, is_favorite, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Title,
		in.Content,
		nullableInt64(in.AIPlatformID),
		nullableInt64(in.PromptID),
		nullableString(in.Topic),
		nullableString(in.Notes),
		boolToInt(in.IsFavorite),
		now,
		now,
	)
	if err != nil {
		return nil, responseWriteError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	if err := insertLinks(ctx, tx, "ai_response_tags", "ai_response_id", "tag_id", id, in.TagIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetResponse(ctx, id)
}

// UpdateResponse applies an update and an optional tag replacement in one
// transaction. Returns store.ErrNotFound if the response does not exist.
func (s *Store) UpdateResponse(ctx context.Context, id int64, up store.ResponseUpdate) (*domain.AIResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var isFavorite sql.NullInt64
	if up.IsFavorite != nil {
		isFavorite = sql.NullInt64{Int64: int64(boolToInt(*up.IsFavorite)), Valid: true}
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE ai_responses SET
			title = COALESCE(?, title),
			content = COALESCE(?, content),
			ai_platform_id = ?,
			prompt_id = ?,
			topic = ?,
			notes = ?,
			is_favorite = COALESCE(?, is_favorite),
			updated_at = ?
		WHERE id = ?`,
		nullableString(up.Title),
		nullableString(up.Content),
		nullableInt64(up.AIPlatformID),
		nullableInt64(up.PromptID),
		nullableString(up.Topic),
		nullableString(up.Notes),
		isFavorite,
		formatTime(time.Now()),
		id,
	)
	if err != nil {
		return nil, responseWriteError(err)
	}
	if err := requireAffected(res, "ai response", id); err != nil {
		return nil, err
	}

	if up.TagIDs != nil {
		if err := replaceLinks(ctx, tx, "ai_response_tags", "ai_response_id", "tag_id", id, *up.TagIDs); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetResponse(ctx, id)
}

// ToggleResponseFavorite flips is_favorite in a single statement and returns
// the updated row.
func (s *Store) ToggleResponseFavorite(ctx context.Context, id int64) (*domain.AIResponse, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE ai_responses SET is_favorite = NOT is_favorite WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("toggle favorite: %w", err)
	}
	if err := requireAffected(res, "ai response", id); err != nil {
		return nil, err
	}
	return s.GetResponse(ctx, id)
}

// DeleteResponse removes a response and its tag links.
func (s *Store) DeleteResponse(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ai_responses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete ai_response: %w", err)
	}
	return requireAffected(res, "ai response", id)
}

func responseWriteError(err error) error {
	if isForeignKeyViolation(err) {
		return store.ErrInvalidInput.WithMessage("ai platform or prompt does not exist").WithCause(err)
	}
	return fmt.Errorf("write ai_response: %w", err)
}
