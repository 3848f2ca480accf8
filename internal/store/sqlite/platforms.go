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

// platformColumns is the ordered list of columns selected in platform queries.
// Must match the scan order in scanPlatform.
const platformColumns = `a.id, a.name, a.color, a.icon, a.sort_order, a.created_at`

func scanPlatform(scanner interface{ Scan(dest ...any) error }, extra ...any) (*domain.AIPlatform, error) {
	var (
		p         domain.AIPlatform
		createdAt string
	)

	dest := append([]any{&p.ID, &p.Name, &p.Color, &p.Icon, &p.SortOrder, &createdAt}, extra...)
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}

	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListAIPlatforms returns all platforms with the number of prompts linked to
// each, ordered by sort order then id.
func (s *Store) ListAIPlatforms(ctx context.Context) ([]domain.AIPlatformListItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+platformColumns+`,
			(SELECT COUNT(*) FROM prompt_ai_platforms pa WHERE pa.ai_platform_id = a.id)
		FROM ai_platforms a
		ORDER BY a.sort_order ASC, a.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query ai_platforms: %w", err)
	}
	defer rows.Close()

	items := []domain.AIPlatformListItem{}
	for rows.Next() {
		var count int
		p, err := scanPlatform(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("scan ai_platform: %w", err)
		}
		items = append(items, domain.AIPlatformListItem{AIPlatform: *p, UsageCount: count})
	}
	return items, rows.Err()
}

// GetAIPlatform retrieves a platform by id.
// Returns store.ErrNotFound if the platform does not exist.
func (s *Store) GetAIPlatform(ctx context.Context, id int64) (*domain.AIPlatform, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+platformColumns+` FROM ai_platforms a WHERE a.id = ?`, id)

	p, err := scanPlatform(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessagef("ai platform %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetAIPlatformByName retrieves a platform by its exact name.
func (s *Store) GetAIPlatformByName(ctx context.Context, name string) (*domain.AIPlatform, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+platformColumns+` FROM ai_platforms a WHERE a.name = ?`, name)

	p, err := scanPlatform(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessagef("ai platform %q not found", name)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindOrCreateAIPlatform returns the platform with the given name, creating
// it when absent. created reports whether a new row was inserted.
func (s *Store) FindOrCreateAIPlatform(ctx context.Context, in store.AIPlatformInput) (p *domain.AIPlatform, created bool, err error) {
	existing, err := s.GetAIPlatformByName(ctx, in.Name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO ai_platforms (name, color, icon, sort_order, created_at)
		VALUES (?, ?, ?, COALESCE(?, (SELECT COALESCE(MAX(sort_order), 0) + 1 FROM ai_platforms)), ?)`,
		in.Name,
		orDefault(in.Color, domain.DefaultPlatformColor),
		orDefault(in.Icon, domain.DefaultPlatformIcon),
		nullableInt(in.SortOrder),
		formatTime(time.Now()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			existing, err := s.GetAIPlatformByName(ctx, in.Name)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("insert ai_platform: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, false, err
	}
	p, err = s.GetAIPlatform(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// UpdateAIPlatform changes the provided fields of a platform.
// Returns store.ErrNotFound for a missing platform and store.ErrAlreadyExists
// when the new name is taken.
func (s *Store) UpdateAIPlatform(ctx context.Context, id int64, up store.AIPlatformUpdate) (*domain.AIPlatform, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE ai_platforms SET
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
		if isUniqueViolation(err) {
			return nil, store.ErrAlreadyExists.WithMessagef("ai platform %q already exists", *up.Name).WithCause(err)
		}
		return nil, fmt.Errorf("update ai_platform: %w", err)
	}
	if err := requireAffected(res, "ai platform", id); err != nil {
		return nil, err
	}
	return s.GetAIPlatform(ctx, id)
}

// DeleteAIPlatform removes a platform. Prompt links cascade and responses
// keep their row with ai_platform_id cleared.
func (s *Store) DeleteAIPlatform(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ai_platforms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete ai_platform: %w", err)
	}
	return requireAffected(res, "ai platform", id)
}

func (s *Store) platformsForPrompt(ctx context.Context, promptID int64) ([]domain.AIPlatform, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+platformColumns+`
		FROM ai_platforms a
		JOIN prompt_ai_platforms pa ON pa.ai_platform_id = a.id
		WHERE pa.prompt_id = ?
		ORDER BY a.id ASC`, promptID)
	if err != nil {
		return nil, fmt.Errorf("query prompt platforms: %w", err)
	}
	defer rows.Close()

	platforms := []domain.AIPlatform{}
	for rows.Next() {
		p, err := scanPlatform(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ai_platform: %w", err)
		}
		platforms = append(platforms, *p)
	}
	return platforms, rows.Err()
}
