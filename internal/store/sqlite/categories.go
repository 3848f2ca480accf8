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

// categoryColumns is the ordered list of columns selected in category queries.
// Must match the scan order in scanCategory.
const categoryColumns = `c.id, c.name, c.color, c.icon, c.sort_order, c.created_at`

func scanCategory(scanner interface{ Scan(dest ...any) error }, extra ...any) (*domain.Category, error) {
	var (
		c         domain.Category
		createdAt string
	)

	dest := append([]any{&c.ID, &c.Name, &c.Color, &c.Icon, &c.SortOrder, &createdAt}, extra...)
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}

	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCategories returns all categories with their prompt counts, ordered by
// sort order then id.
func (s *Store) ListCategories(ctx context.Context) ([]domain.CategoryListItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+categoryColumns+`,
			(SELECT COUNT(*) FROM prompts p WHERE p.category_id = c.id)
		FROM categories c
		ORDER BY c.sort_order ASC, c.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	items := []domain.CategoryListItem{}
	for rows.Next() {
		var count int
		c, err := scanCategory(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, domain.CategoryListItem{Category: *c, PromptCount: count})
	}
	return items, rows.Err()
}

// GetCategory retrieves a category by id.
// Returns store.ErrNotFound if the category does not exist.
func (s *Store) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories c WHERE c.id = ?`, id)

	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessagef("category %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CreateCategory inserts a category. A nil SortOrder places it after the
// current maximum.
func (s *Store) CreateCategory(ctx context.Context, in store.CategoryInput) (*domain.Category, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (name, color, icon, sort_order, created_at)
		VALUES (?, ?, ?, COALESCE(?, (SELECT COALESCE(MAX(sort_order), 0) + 1 FROM categories)), ?)`,
		in.Name,
		orDefault(in.Color, domain.DefaultCategoryColor),
		orDefault(in.Icon, domain.DefaultCategoryIcon),
		nullableInt(in.SortOrder),
		formatTime(time.Now()),
	)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.GetCategory(ctx, id)
}

// UpdateCategory changes the provided fields of a category.
// Returns store.ErrNotFound if the category does not exist.
func (s *Store) UpdateCategory(ctx context.Context, id int64, up store.CategoryUpdate) (*domain.Category, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET
			name = COALESCE(?, name),
			color = COALESCE(?, color),
			icon = COALESCE(?, icon),
			sort_order = COALESCE(?, sort_order)
		WHERE id = ?`,
		nullableString(up.Name),
		nullableString(up.Color),
		nullableString(up.Icon),
		nullableInt(up.SortOrder),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	if err := requireAffected(res, "category", id); err != nil {
		return nil, err
	}
	return s.GetCategory(ctx, id)
}

// DeleteCategory removes a category. Its prompts become uncategorized.
// Returns store.ErrNotFound if the category does not exist.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return requireAffected(res, "category", id)
}

// requireAffected maps a zero-row write to store.ErrNotFound.
func requireAffected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessagef("%s %d not found", entity, id)
	}
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
