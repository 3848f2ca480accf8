package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/promptshelf/promptshelf-server/internal/store"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is written to PRAGMA user_version once seed data exists.
const schemaVersion = 1

// SeedCategoryMaxID is the highest id of the built-in categories. A replace
// import keeps categories with ids up to and including it.
const SeedCategoryMaxID = 7

var seedCategories = []struct {
	name  string
	color string
	icon  string
}{
	{"General", "#6366f1", "folder"},
	{"Writing", "#ec4899", "pen"},
	{"Coding", "#10b981", "code"},
	{"Analysis", "#f59e0b", "chart"},
	{"Creative", "#8b5cf6", "sparkles"},
	{"Business", "#0ea5e9", "briefcase"},
	{"Learning", "#ef4444", "book"},
}

var seedPlatforms = []struct {
	name  string
	color string
	icon  string
}{
	{"ChatGPT", "#10a37f", "bot"},
	{"Claude", "#d97706", "bot"},
	{"Gemini", "#4285f4", "bot"},
	{"Copilot", "#0078d4", "bot"},
	{"Perplexity", "#20808d", "bot"},
}

// pragmas are applied by the driver to every pooled connection.
var pragmas = []string{
	"foreign_keys(1)",
	"busy_timeout(5000)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
}

// Store provides SQLite-backed persistence for prompts, knowledge and responses.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ store.Store = (*Store)(nil)

// Open creates or opens the SQLite database at path, applies the schema and
// seeds the built-in categories and platforms on first use.
func Open(path string, logger *slog.Logger) (*Store, error) {
	params := make([]string, 0, len(pragmas))
	for _, p := range pragmas {
		params = append(params, "_pragma="+p)
	}

	db, err := sql.Open("sqlite", path+"?"+strings.Join(params, "&"))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("exec schema: %w", err)
	}

	s := &Store{db: db, logger: logger}

	if err := s.seed(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// seed inserts the built-in rows once, guarded by PRAGMA user_version.
func (s *Store) seed(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var version int
	if err := tx.QueryRowContext(ctx, `PRAGMA user_version`).Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}
	if version >= schemaVersion {
		return nil
	}

	now := formatTime(time.Now())
	for i, c := range seedCategories {
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO categories (id, name, color, icon, sort_order, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			i+1, c.name, c.color, c.icon, i+1, now)
		if err != nil {
			return fmt.Errorf("insert category %s: %w", c.name, err)
		}
	}
	for i, p := range seedPlatforms {
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO ai_platforms (name, color, icon, sort_order, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			p.name, p.color, p.icon, i+1, now)
		if err != nil {
			return fmt.Errorf("insert platform %s: %w", p.name, err)
		}
	}

	// PRAGMA does not accept bound parameters.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`PRAGMA user_version = %d`, schemaVersion)); err != nil {
		return fmt.Errorf("write user_version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("seeded database",
		"categories", len(seedCategories),
		"ai_platforms", len(seedPlatforms),
	)
	return nil
}

// legacyTimeLayout is SQLite's CURRENT_TIMESTAMP format, found in older snapshots.
const legacyTimeLayout = "2006-01-02 15:04:05"

// timeLayout is RFC3339 with fixed-width nanoseconds, so stored timestamps
// sort correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// formatTime formats a time.Time in UTC for storage.
func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseTime parses a stored timestamp, accepting RFC3339 and the legacy layout.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(legacyTimeLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}

// nullableString returns a sql.NullString from a *string.
func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// nullableInt64 returns a sql.NullInt64 from a *int64.
func nullableInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func int64Ptr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	v := ni.Int64
	return &v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
