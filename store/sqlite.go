// store/sqlite.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aiblog/blog-server/domain"
)

// Historical databases created by the migration script use createdAt for the
// creation-timestamp column; newer ones use created_at. The actual name is
// detected once when the store is opened and held in createdCol, never
// re-detected per query.
const (
	createdColModern = "created_at"
	createdColLegacy = "createdAt"
)

// SQLiteStore holds the collection in a single SQLite database file. Mutations
// are written straight to the file by the driver, so the on-disk image is in
// sync after every call without an explicit export step.
type SQLiteStore struct {
	db         *sql.DB
	createdCol string
}

// OpenSQLite creates or opens the database at the given path, creating the
// schema if absent and backfilling the tags column on tables that predate it.
// Safe to call multiple times against the same file.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY under interleaved requests.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragma: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) ensureSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			tags TEXT,
			created_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	cols, err := s.tableColumns("posts")
	if err != nil {
		return err
	}

	if !cols["tags"] {
		if _, err := s.db.Exec("ALTER TABLE posts ADD COLUMN tags TEXT"); err != nil {
			return fmt.Errorf("add tags column: %w", err)
		}
	}

	switch {
	case cols[createdColModern]:
		s.createdCol = createdColModern
	case cols[createdColLegacy]:
		s.createdCol = createdColLegacy
	default:
		s.createdCol = createdColModern
	}
	return nil
}

func (s *SQLiteStore) tableColumns(table string) (map[string]bool, error) {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return nil, fmt.Errorf("inspect table %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan table info: %w", err)
		}
		cols[name] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table info: %w", err)
	}
	return cols, nil
}

func encodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	data, _ := json.Marshal(tags)
	return string(data)
}

func decodeTags(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw.String), &tags); err != nil {
		return nil, fmt.Errorf("parse tags %q: %w", raw.String, err)
	}
	if tags == nil {
		tags = []string{}
	}
	return tags, nil
}

func (s *SQLiteStore) ListAll(ctx context.Context) ([]domain.Post, error) {
	query := fmt.Sprintf(
		"SELECT id, title, content, tags, %s FROM posts ORDER BY id DESC", s.createdCol)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	posts := []domain.Post{}
	for rows.Next() {
		var (
			p    domain.Post
			tags sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &tags, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		if p.Tags, err = decodeTags(tags); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate posts: %w", err)
	}
	return posts, nil
}

func (s *SQLiteStore) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	query := fmt.Sprintf(
		"SELECT id, title, content, tags, %s FROM posts WHERE id = ?", s.createdCol)

	var (
		p    domain.Post
		tags sql.NullString
	)
	err := s.db.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &p.Title, &p.Content, &tags, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query post %d: %w", id, err)
	}
	if p.Tags, err = decodeTags(tags); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *SQLiteStore) Create(ctx context.Context, fields domain.Fields) (*domain.Post, error) {
	created := domain.NowISO()
	query := fmt.Sprintf(
		"INSERT INTO posts (title, content, tags, %s) VALUES (?, ?, ?, ?)", s.createdCol)

	res, err := s.db.ExecContext(ctx, query,
		fields.Title, fields.Content, encodeTags(fields.Tags), created)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read inserted id: %w", err)
	}

	post := domain.Post{
		ID:        id,
		Title:     fields.Title,
		Content:   fields.Content,
		Tags:      fields.Tags,
		CreatedAt: created,
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	return &post, nil
}

func (s *SQLiteStore) Update(ctx context.Context, id int64, fields domain.Fields) (*domain.Post, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE posts SET title = ?, content = ?, tags = ? WHERE id = ?",
		fields.Title, fields.Content, encodeTags(fields.Tags), id)
	if err != nil {
		return nil, fmt.Errorf("update post %d: %w", id, err)
	}

	changed, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("read rows affected: %w", err)
	}
	if changed == 0 {
		return nil, nil
	}
	return s.FindByID(ctx, id)
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("delete post %d: %w", id, err)
	}
	changed, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read rows affected: %w", err)
	}
	return changed > 0, nil
}

func (s *SQLiteStore) SeedIfEmpty(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&count); err != nil {
		return fmt.Errorf("count posts: %w", err)
	}
	if count > 0 {
		return nil
	}

	query := fmt.Sprintf(
		"INSERT INTO posts (title, content, tags, %s) VALUES (?, ?, ?, ?)", s.createdCol)
	for _, p := range seedPosts() {
		if _, err := s.db.ExecContext(ctx, query,
			p.Title, p.Content, encodeTags(p.Tags), p.CreatedAt); err != nil {
			return fmt.Errorf("seed post %q: %w", p.Title, err)
		}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
