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

// ExportSnapshot reads the exported tables verbatim, ordered by key.
func (s *Store) ExportSnapshot(ctx context.Context) (*store.SnapshotData, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	data := &store.SnapshotData{
		Categories:    []store.CategoryRow{},
		Prompts:       []store.PromptRow{},
		Tags:          []store.TagRow{},
		PromptTags:    []store.PromptTagRow{},
		Knowledge:     []store.KnowledgeRow{},
		KnowledgeTags: []store.KnowledgeTagRow{},
	}

	err = eachRow(ctx, tx, `SELECT id, name, color, icon, sort_order, created_at FROM categories ORDER BY id`,
		func(rows *sql.Rows) error {
			var r store.CategoryRow
			if err := rows.Scan(&r.ID, &r.Name, &r.Color, &r.Icon, &r.SortOrder, &r.CreatedAt); err != nil {
				return err
			}
			data.Categories = append(data.Categories, r)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("export categories: %w", err)
	}

	err = eachRow(ctx, tx, `SELECT id, title, content, category_id, parent_id, is_building_block, use_count, created_at, updated_at FROM prompts ORDER BY id`,
		func(rows *sql.Rows) error {
			var (
				r                    store.PromptRow
				categoryID, parentID sql.NullInt64
			)
			if err := rows.Scan(&r.ID, &r.Title, &r.Content, &categoryID, &parentID,
				&r.IsBuildingBlock, &r.UseCount, &r.CreatedAt, &r.UpdatedAt); err != nil {
				return err
			}
			r.CategoryID = int64Ptr(categoryID)
			r.ParentID = int64Ptr(parentID)
			data.Prompts = append(data.Prompts, r)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("export prompts: %w", err)
	}

	err = eachRow(ctx, tx, `SELECT id, name, color, created_at FROM tags ORDER BY id`,
		func(rows *sql.Rows) error {
			var r store.TagRow
			if err := rows.Scan(&r.ID, &r.Name, &r.Color, &r.CreatedAt); err != nil {
				return err
			}
			data.Tags = append(data.Tags, r)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("export tags: %w", err)
	}

	err = eachRow(ctx, tx, `SELECT prompt_id, tag_id FROM prompt_tags ORDER BY prompt_id, tag_id`,
		func(rows *sql.Rows) error {
			var r store.PromptTagRow
			if err := rows.Scan(&r.PromptID, &r.TagID); err != nil {
				return err
			}
			data.PromptTags = append(data.PromptTags, r)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("export prompt_tags: %w", err)
	}

	err = eachRow(ctx, tx, `SELECT id, title, content, created_at, updated_at FROM knowledge_base ORDER BY id`,
		func(rows *sql.Rows) error {
			var r store.KnowledgeRow
			if err := rows.Scan(&r.ID, &r.Title, &r.Content, &r.CreatedAt, &r.UpdatedAt); err != nil {
				return err
			}
			data.Knowledge = append(data.Knowledge, r)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("export knowledge_base: %w", err)
	}

	err = eachRow(ctx, tx, `SELECT knowledge_id, tag_id FROM knowledge_tags ORDER BY knowledge_id, tag_id`,
		func(rows *sql.Rows) error {
			var r store.KnowledgeTagRow
			if err := rows.Scan(&r.KnowledgeID, &r.TagID); err != nil {
				return err
			}
			data.KnowledgeTags = append(data.KnowledgeTags, r)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("export knowledge_tags: %w", err)
	}

	return data, nil
}

func eachRow(ctx context.Context, q querier, sqlText string, fn func(*sql.Rows) error) error {
	rows, err := q.QueryContext(ctx, sqlText)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// replaceDeletes runs in order before a replace import. Built-in categories survive.
var replaceDeletes = []string{
	`DELETE FROM prompt_tags`,
	`DELETE FROM knowledge_tags`,
	`DELETE FROM attachments`,
	`DELETE FROM prompts`,
	`DELETE FROM knowledge_base`,
	`DELETE FROM tags`,
	fmt.Sprintf(`DELETE FROM categories WHERE id > %d`, SeedCategoryMaxID),
}

// ImportSnapshot writes data in a single transaction with foreign key checks
// deferred to commit. Replace mode clears user data first; both modes then
// upsert rows by id. Any failure rolls everything back.
func (s *Store) ImportSnapshot(ctx context.Context, data *store.SnapshotData, mode store.ImportMode) (*store.ImportStats, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `PRAGMA defer_foreign_keys = ON`); err != nil {
		return nil, fmt.Errorf("defer foreign keys: %w", err)
	}

	stats := &store.ImportStats{Rows: map[string]int{}, RemovedFiles: []string{}}

	if mode == store.ImportReplace {
		if stats.RemovedFiles, err = queryFilepaths(ctx, tx, `SELECT filepath FROM attachments`); err != nil {
			return nil, err
		}
		for _, stmt := range replaceDeletes {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				return nil, fmt.Errorf("%s: %w", stmt, err)
			}
		}
	}

	now := formatTime(time.Now())

	for _, r := range data.Categories {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO categories (id, name, color, icon, sort_order, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				color = excluded.color,
				icon = excluded.icon,
				sort_order = excluded.sort_order,
				created_at = excluded.created_at`,
			r.ID, r.Name,
			orDefault(r.Color, domain.DefaultCategoryColor),
			orDefault(r.Icon, domain.DefaultCategoryIcon),
			r.SortOrder, orDefault(r.CreatedAt, now))
		if err != nil {
			return nil, fmt.Errorf("import category %d: %w", r.ID, err)
		}
	}
	stats.Rows["categories"] = len(data.Categories)

	for _, r := range data.Tags {
		// Names are unique: an existing tag with this name under another id
		// gives way to the imported one, after handing its links over.
		if err := retireTagByName(ctx, tx, r.Name, r.ID); err != nil {
			return nil, fmt.Errorf("import tag %d: %w", r.ID, err)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tags (id, name, color, created_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				name = excluded.name,
				color = excluded.color,
				created_at = excluded.created_at`,
			r.ID, r.Name, orDefault(r.Color, domain.DefaultTagColor), orDefault(r.CreatedAt, now))
		if err != nil {
			return nil, fmt.Errorf("import tag %d: %w", r.ID, err)
		}
	}
	stats.Rows["tags"] = len(data.Tags)

	for _, r := range data.Prompts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO prompts (id, title, content, category_id, parent_id, is_building_block, use_count, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title,
				content = excluded.content,
				category_id = excluded.category_id,
				parent_id = excluded.parent_id,
				is_building_block = excluded.is_building_block,
				use_count = excluded.use_count,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at`,
			r.ID, r.Title, r.Content,
			nullableInt64(r.CategoryID), nullableInt64(r.ParentID),
			r.IsBuildingBlock, r.UseCount,
			orDefault(r.CreatedAt, now), orDefault(r.UpdatedAt, now))
		if err != nil {
			return nil, fmt.Errorf("import prompt %d: %w", r.ID, err)
		}
	}
	stats.Rows["prompts"] = len(data.Prompts)

	for _, r := range data.PromptTags {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO prompt_tags (prompt_id, tag_id) VALUES (?, ?)`, r.PromptID, r.TagID); err != nil {
			return nil, fmt.Errorf("import prompt_tag %d/%d: %w", r.PromptID, r.TagID, err)
		}
	}
	stats.Rows["prompt_tags"] = len(data.PromptTags)

	for _, r := range data.Knowledge {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO knowledge_base (id, title, content, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				title = excluded.title,
				content = excluded.content,
				created_at = excluded.created_at,
				updated_at = excluded.updated_at`,
			r.ID, r.Title, r.Content, orDefault(r.CreatedAt, now), orDefault(r.UpdatedAt, now))
		if err != nil {
			return nil, fmt.Errorf("import knowledge %d: %w", r.ID, err)
		}
	}
	stats.Rows["knowledge"] = len(data.Knowledge)

	for _, r := range data.KnowledgeTags {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO knowledge_tags (knowledge_id, tag_id) VALUES (?, ?)`, r.KnowledgeID, r.TagID); err != nil {
			return nil, fmt.Errorf("import knowledge_tag %d/%d: %w", r.KnowledgeID, r.TagID, err)
		}
	}
	stats.Rows["knowledge_tags"] = len(data.KnowledgeTags)

	// A failed COMMIT leaves SQLite's transaction open on the pooled
	// connection, so dangling references are detected before committing.
	if err := checkForeignKeys(ctx, tx); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	s.logger.Info("snapshot imported",
		"replace", mode == store.ImportReplace,
		"categories", stats.Rows["categories"],
		"prompts", stats.Rows["prompts"],
		"knowledge", stats.Rows["knowledge"],
	)
	return stats, nil
}

// checkForeignKeys reports the first row whose reference does not resolve.
func checkForeignKeys(ctx context.Context, tx *sql.Tx) error {
	rows, err := tx.QueryContext(ctx, `PRAGMA foreign_key_check`)
	if err != nil {
		return fmt.Errorf("foreign key check: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		var (
			table, parent string
			rowID         sql.NullInt64
			fkID          int
		)
		if err := rows.Scan(&table, &rowID, &parent, &fkID); err != nil {
			return fmt.Errorf("scan foreign key check: %w", err)
		}
		return fmt.Errorf("FOREIGN KEY constraint failed: %s row %d references missing %s", table, rowID.Int64, parent)
	}
	return rows.Err()
}

// tagJoinTables hold every tag association.
var tagJoinTables = []string{"prompt_tags", "knowledge_tags", "ai_response_tags"}

// retireTagByName removes the tag called name unless its id is keepID. Its
// associations move to keepID first; links the owner already has are dropped.
// keepID may not exist yet; foreign keys are checked at commit.
func retireTagByName(ctx context.Context, tx *sql.Tx, name string, keepID int64) error {
	var oldID int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM tags WHERE name = ? AND id != ?`, name, keepID).Scan(&oldID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	for _, table := range tagJoinTables {
		if _, err := tx.ExecContext(ctx,
			`UPDATE OR IGNORE `+table+` SET tag_id = ? WHERE tag_id = ?`, keepID, oldID); err != nil {
			return fmt.Errorf("relink %s: %w", table, err)
		}
	}
	_, err = tx.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, oldID)
	return err
}
