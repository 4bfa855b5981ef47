// store/migrate.go
package store

import (
	"context"
	"fmt"
	"os"

	"github.com/aiblog/blog-server/domain"
)

// MigrateJSONToSQLite copies every post from the flat-file collection into the
// SQLite database, preserving ids and creation timestamps. Existing rows are
// cleared first so the database ends up mirroring the JSON file exactly.
// Returns the number of posts migrated; a missing JSON file migrates nothing.
func MigrateJSONToSQLite(ctx context.Context, jsonPath, dbPath string) (int, error) {
	if _, err := os.Stat(jsonPath); os.IsNotExist(err) {
		return 0, nil
	}

	src, err := NewJSONStore(jsonPath)
	if err != nil {
		return 0, err
	}
	posts, err := src.load()
	if err != nil {
		return 0, err
	}

	dst, err := OpenSQLite(dbPath)
	if err != nil {
		return 0, err
	}
	defer dst.Close()

	if _, err := dst.db.ExecContext(ctx, "DELETE FROM posts"); err != nil {
		return 0, fmt.Errorf("clear posts: %w", err)
	}

	query := fmt.Sprintf(
		"INSERT INTO posts (id, title, content, tags, %s) VALUES (?, ?, ?, ?, ?)",
		dst.createdCol)
	for _, p := range posts {
		created := p.CreatedAt
		if created == "" {
			created = domain.NowISO()
		}
		if _, err := dst.db.ExecContext(ctx, query,
			p.ID, p.Title, p.Content, encodeTags(p.Tags), created); err != nil {
			return 0, fmt.Errorf("migrate post %d: %w", p.ID, err)
		}
	}
	return len(posts), nil
}
