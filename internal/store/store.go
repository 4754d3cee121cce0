// Package store persists snippets in a local SQLite database.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/typely/typely/internal/snippet"
)

// CurrentSchemaVersion is the latest schema version. Bump when adding
// migrations.
const CurrentSchemaVersion = 1

// ErrDuplicateTrigger is returned when a create or update collides
// with an existing trigger.
var ErrDuplicateTrigger = errors.New("trigger already exists")

// Store is a snippet repository over SQLite. Safe for concurrent use;
// database/sql pools connections and WAL handles readers alongside the
// writer.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and migrates it
// to the current schema.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	_ = os.Chmod(dir, 0700)

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := verifyWALMode(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(path, 0600)

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func verifyWALMode(db *sql.DB) error {
	var mode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&mode); err != nil {
		return fmt.Errorf("verify journal mode: %w", err)
	}
	if mode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", mode)
	}
	return nil
}

func migrate(db *sql.DB) error {
	version, err := userVersion(db)
	if err != nil {
		return err
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS snippets (
		  id           TEXT PRIMARY KEY,
		  "trigger"    TEXT NOT NULL UNIQUE,
		  replacement  TEXT NOT NULL,
		  kind         TEXT NOT NULL DEFAULT 'text',
		  is_active    INTEGER NOT NULL DEFAULT 1,
		  usage_count  INTEGER NOT NULL DEFAULT 0,
		  tags_json    TEXT,
		  created_at   INTEGER NOT NULL,
		  updated_at   INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_snippets_updated
		ON snippets(updated_at DESC);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := setUserVersion(db, 1); err != nil {
			return err
		}
	}

	// Future migrations go here:
	// if version < 2 { ... }

	return nil
}

func userVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("get user_version: %w", err)
	}
	return version, nil
}

func setUserVersion(db *sql.DB, version int) error {
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

const snippetColumns = `id, "trigger", replacement, kind, is_active, usage_count, tags_json, created_at, updated_at`

// Create inserts a new snippet.
func (s *Store) Create(sn *snippet.Snippet) error {
	tagsJSON, err := marshalTags(sn.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO snippets (` + snippetColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.Exec(query,
		sn.ID.String(), sn.Trigger, sn.Replacement, string(sn.Kind),
		boolToInt(sn.Active), sn.UsageCount, tagsJSON,
		sn.CreatedAt.Unix(), sn.UpdatedAt.Unix(),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: %q", ErrDuplicateTrigger, sn.Trigger)
		}
		return fmt.Errorf("insert snippet: %w", err)
	}
	return nil
}

// Get retrieves a snippet by ID, or snippet.ErrNotFound.
func (s *Store) Get(id uuid.UUID) (*snippet.Snippet, error) {
	row := s.db.QueryRow(
		`SELECT `+snippetColumns+` FROM snippets WHERE id = ?`, id.String())
	return scanSnippet(row)
}

// GetByTrigger retrieves the snippet with the exact trigger, or
// snippet.ErrNotFound.
func (s *Store) GetByTrigger(trigger string) (*snippet.Snippet, error) {
	row := s.db.QueryRow(
		`SELECT `+snippetColumns+` FROM snippets WHERE "trigger" = ?`, trigger)
	return scanSnippet(row)
}

// GetByTriggerFold is GetByTrigger with ASCII case folding. Triggers
// are ASCII by validation, so NOCASE covers the full charset.
func (s *Store) GetByTriggerFold(trigger string) (*snippet.Snippet, error) {
	row := s.db.QueryRow(
		`SELECT `+snippetColumns+` FROM snippets WHERE "trigger" = ? COLLATE NOCASE`, trigger)
	return scanSnippet(row)
}

// Update rewrites every mutable column of an existing snippet.
func (s *Store) Update(sn *snippet.Snippet) error {
	tagsJSON, err := marshalTags(sn.Tags)
	if err != nil {
		return err
	}

	query := `
		UPDATE snippets
		SET "trigger" = ?, replacement = ?, kind = ?, is_active = ?,
		    usage_count = ?, tags_json = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := s.db.Exec(query,
		sn.Trigger, sn.Replacement, string(sn.Kind), boolToInt(sn.Active),
		sn.UsageCount, tagsJSON, sn.UpdatedAt.Unix(), sn.ID.String(),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return fmt.Errorf("%w: %q", ErrDuplicateTrigger, sn.Trigger)
		}
		return fmt.Errorf("update snippet: %w", err)
	}
	return requireRow(res)
}

// Delete removes a snippet by ID, or snippet.ErrNotFound.
func (s *Store) Delete(id uuid.UUID) error {
	res, err := s.db.Exec(`DELETE FROM snippets WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("delete snippet: %w", err)
	}
	return requireRow(res)
}

// IncrementUsage bumps the usage counter and touches updated_at.
func (s *Store) IncrementUsage(id uuid.UUID) error {
	res, err := s.db.Exec(
		`UPDATE snippets SET usage_count = usage_count + 1, updated_at = ? WHERE id = ?`,
		time.Now().Unix(), id.String(),
	)
	if err != nil {
		return fmt.Errorf("increment usage: %w", err)
	}
	return requireRow(res)
}

// List returns snippets matching the query, ordered and paged.
func (s *Store) List(q snippet.Query) ([]*snippet.Snippet, error) {
	var (
		where []string
		args  []any
	)

	if q.Search != "" {
		where = append(where, `("trigger" LIKE ? OR replacement LIKE ?)`)
		pat := "%" + q.Search + "%"
		args = append(args, pat, pat)
	}
	if q.Active != nil {
		where = append(where, `is_active = ?`)
		args = append(args, boolToInt(*q.Active))
	}

	query := `SELECT ` + snippetColumns + ` FROM snippets`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY ` + orderClause(q)
	if q.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, q.Limit, q.Offset)
	} else if q.Offset > 0 {
		query += ` LIMIT -1 OFFSET ?`
		args = append(args, q.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list snippets: %w", err)
	}
	defer rows.Close()

	var out []*snippet.Snippet
	for rows.Next() {
		sn, err := scanSnippet(rows)
		if err != nil {
			return nil, err
		}
		// Tag filtering happens here; tags live in a JSON column the
		// query cannot index.
		if !hasAllTags(sn, q.Tags) {
			continue
		}
		out = append(out, sn)
	}
	return out, rows.Err()
}

// Stats summarizes the stored collection.
func (s *Store) Stats() (snippet.Stats, error) {
	var st snippet.Stats
	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COALESCE(SUM(is_active), 0),
		       COALESCE(SUM(usage_count), 0)
		FROM snippets
	`).Scan(&st.Total, &st.Active, &st.TotalUsage)
	if err != nil {
		return snippet.Stats{}, fmt.Errorf("snippet stats: %w", err)
	}
	st.Inactive = st.Total - st.Active
	return st, nil
}

// orderClause maps the query sort to a column. Unknown values fall
// back to the default ordering; the whitelist keeps user input out of
// the SQL text.
func orderClause(q snippet.Query) string {
	col := "updated_at"
	switch q.SortBy {
	case snippet.SortByTrigger:
		col = `"trigger"`
	case snippet.SortByCreatedAt:
		col = "created_at"
	case snippet.SortByUsage:
		col = "usage_count"
	}

	dir := "DESC"
	if q.SortOrder == snippet.SortAsc {
		dir = "ASC"
	}
	return col + " " + dir
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnippet(row rowScanner) (*snippet.Snippet, error) {
	var (
		id, trigger, replacement, kind string
		active                         int
		usage                          uint64
		tagsJSON                       sql.NullString
		createdAt, updatedAt           int64
	)
	err := row.Scan(&id, &trigger, &replacement, &kind, &active, &usage,
		&tagsJSON, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, snippet.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan snippet: %w", err)
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("corrupt snippet id %q: %w", id, err)
	}

	sn := &snippet.Snippet{
		ID:          parsedID,
		Trigger:     trigger,
		Replacement: replacement,
		Kind:        snippet.Kind(kind),
		Active:      active != 0,
		UsageCount:  usage,
		CreatedAt:   time.Unix(createdAt, 0).UTC(),
		UpdatedAt:   time.Unix(updatedAt, 0).UTC(),
	}
	if tagsJSON.Valid && tagsJSON.String != "" {
		if err := json.Unmarshal([]byte(tagsJSON.String), &sn.Tags); err != nil {
			return nil, fmt.Errorf("corrupt tags for %q: %w", trigger, err)
		}
	}
	return sn, nil
}

func marshalTags(tags []string) (sql.NullString, error) {
	if len(tags) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("marshal tags: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func hasAllTags(sn *snippet.Snippet, want []string) bool {
	for _, w := range want {
		found := false
		for _, t := range sn.Tags {
			if t == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return snippet.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
