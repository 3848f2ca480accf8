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

// tagColumns is the ordered list of columns selected in tag queries.
// Must match the scan order in scanTag.
const tagColumns = `t.id, t.name, t.color, t.created_at`

func scanTag(scanner interface{ Scan(dest ...any) error }, extra ...any) (*domain.Tag, error) {
	var (
		t         domain.Tag
		createdAt string
	)

	dest := append([]any{&t.ID, &t.Name, &t.Color, &createdAt}, extra...)
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}

	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTags returns all tags with their prompt usage counts, ordered by name.
func (s *Store) ListTags(ctx context.Context) ([]domain.TagListItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tagColumns+`,
			(SELECT COUNT(*) FROM prompt_tags pt WHERE pt.tag_id = t.id)
		FROM tags t
		ORDER BY t.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	items := []domain.TagListItem{}
	for rows.Next() {
		var count int
		t, err := scanTag(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, domain.TagListItem{Tag: *t, UsageCount: count})
	}
	return items, rows.Err()
}

// GetTag retrieves a tag by id.
// Returns store.ErrNotFound if the tag does not exist.
func (s *Store) GetTag(ctx context.Context, id int64) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags t WHERE t.id = ?`, id)

	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessagef("tag %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTagByName retrieves a tag by its exact name.
// Returns store.ErrNotFound if no tag has that name.
func (s *Store) GetTagByName(ctx context.Context, name string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+tagColumns+` FROM tags t WHERE t.name = ?`, name)

	t, err := scanTag(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessagef("tag %q not found", name)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// FindOrCreateTag returns the tag with the given name, creating it when absent.
// created reports whether a new row was inserted. An empty color takes the default.
func (s *Store) FindOrCreateTag(ctx context.Context, name, color string) (t *domain.Tag, created bool, err error) {
	existing, err := s.GetTagByName(ctx, name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (name, color, created_at) VALUES (?, ?, ?)`,
		name, orDefault(color, domain.DefaultTagColor), formatTime(time.Now()))
	if err != nil {
		if isUniqueViolation(err) {
			// Lost a race with a concurrent create.
			existing, err := s.GetTagByName(ctx, name)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("insert tag: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, false, err
	}
	t, err = s.GetTag(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return t, true, nil
}

// UpdateTag changes the provided fields of a tag.
// Returns store.ErrNotFound for a missing tag and store.ErrAlreadyExists when
// the new name belongs to another tag.
func (s *Store) UpdateTag(ctx context.Context, id int64, up store.TagUpdate) (*domain.Tag, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tags SET
			name = COALESCE(?, name),
			color = COALESCE(?, color)
		WHERE id = ?`,
		nullableString(up.Name),
		nullableString(up.Color),
		id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrAlreadyExists.WithMessagef("tag %q already exists", *up.Name).WithCause(err)
		}
		return nil, fmt.Errorf("update tag: %w", err)
	}
	if err := requireAffected(res, "tag", id); err != nil {
		return nil, err
	}
	return s.GetTag(ctx, id)
}

// DeleteTag removes a tag and all of its associations.
// Returns store.ErrNotFound if the tag does not exist.
func (s *Store) DeleteTag(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return requireAffected(res, "tag", id)
}

// tagsFor returns the full tags linked through a join table, ordered by id.
func (s *Store) tagsFor(ctx context.Context, joinTable, ownerColumn string, ownerID int64) ([]domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+tagColumns+`
		FROM tags t
		JOIN `+joinTable+` j ON j.tag_id = t.id
		WHERE j.`+ownerColumn+` = ?
		ORDER BY t.id ASC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", joinTable, err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, *t)
	}
	return tags, rows.Err()
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// replaceLinks deletes every link row of the owner and inserts ids, ignoring
// duplicates. joinTable, ownerColumn and targetColumn are package constants.
func replaceLinks(ctx context.Context, ex execer, joinTable, ownerColumn, targetColumn string, ownerID int64, ids []int64) error {
	if _, err := ex.ExecContext(ctx,
		`DELETE FROM `+joinTable+` WHERE `+ownerColumn+` = ?`, ownerID); err != nil {
		return fmt.Errorf("clear %s: %w", joinTable, err)
	}
	return insertLinks(ctx, ex, joinTable, ownerColumn, targetColumn, ownerID, ids)
}

// insertLinks adds link rows, ignoring ones that already exist.
func insertLinks(ctx context.Context, ex execer, joinTable, ownerColumn, targetColumn string, ownerID int64, ids []int64) error {
	for _, id := range ids {
		_, err := ex.ExecContext(ctx,
			`INSERT OR IGNORE INTO `+joinTable+` (`+ownerColumn+`, `+targetColumn+`) VALUES (?, ?)`,
			ownerID, id)
		if err != nil {
			if isForeignKeyViolation(err) {
				return store.ErrInvalidInput.WithMessagef("%s %d does not exist", targetColumn, id).WithCause(err)
			}
			return fmt.Errorf("insert %s: %w", joinTable, err)
		}
	}
	return nil
}
