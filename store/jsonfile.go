// store/jsonfile.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aiblog/blog-server/domain"
)

// JSONStore keeps the whole collection in a single JSON file. Every mutation
// reads the full file, applies the change in memory, and rewrites the file in
// full. Writes are O(collection size) and not atomic across a crash mid-write;
// there is no partial-file recovery.
type JSONStore struct {
	path string
}

// NewJSONStore creates a flat-file store backed by the given path. The parent
// directory is created if missing; the file itself is created on first write.
func NewJSONStore(path string) (*JSONStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &JSONStore{path: path}, nil
}

func (s *JSONStore) load() ([]domain.Post, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Post{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var posts []domain.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return posts, nil
}

func (s *JSONStore) saveAll(posts []domain.Post) error {
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode posts: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// nextID is the maximum existing id plus one, or 1 for an empty collection.
// Gaps left by deletes are not reused unless the deleted id was the maximum.
func nextID(posts []domain.Post) int64 {
	var maxID int64
	for _, p := range posts {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	return maxID + 1
}

func (s *JSONStore) ListAll(ctx context.Context) ([]domain.Post, error) {
	return s.load()
}

func (s *JSONStore) FindByID(ctx context.Context, id int64) (*domain.Post, error) {
	posts, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].ID == id {
			return &posts[i], nil
		}
	}
	return nil, nil
}

func (s *JSONStore) Create(ctx context.Context, fields domain.Fields) (*domain.Post, error) {
	posts, err := s.load()
	if err != nil {
		return nil, err
	}

	post := domain.Post{
		ID:        nextID(posts),
		Title:     fields.Title,
		Content:   fields.Content,
		Tags:      fields.Tags,
		CreatedAt: domain.NowISO(),
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}

	posts = append(posts, post)
	if err := s.saveAll(posts); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *JSONStore) Update(ctx context.Context, id int64, fields domain.Fields) (*domain.Post, error) {
	posts, err := s.load()
	if err != nil {
		return nil, err
	}

	for i := range posts {
		if posts[i].ID != id {
			continue
		}
		posts[i].Title = fields.Title
		posts[i].Content = fields.Content
		posts[i].Tags = fields.Tags
		if posts[i].Tags == nil {
			posts[i].Tags = []string{}
		}
		if err := s.saveAll(posts); err != nil {
			return nil, err
		}
		return &posts[i], nil
	}
	return nil, nil
}

func (s *JSONStore) Delete(ctx context.Context, id int64) (bool, error) {
	posts, err := s.load()
	if err != nil {
		return false, err
	}

	for i := range posts {
		if posts[i].ID != id {
			continue
		}
		posts = append(posts[:i], posts[i+1:]...)
		if err := s.saveAll(posts); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

func (s *JSONStore) SeedIfEmpty(ctx context.Context) error {
	posts, err := s.load()
	if err != nil {
		return err
	}
	if len(posts) > 0 {
		return nil
	}
	return s.saveAll(seedPosts())
}

func (s *JSONStore) Close() error {
	return nil
}
