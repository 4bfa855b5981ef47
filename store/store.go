// store/store.go
package store

import (
	"context"

	"github.com/aiblog/blog-server/domain"
)

// Store is the persistence contract shared by both backends. Implementations
// assign ids (max existing id plus one, never reused within a session) and
// stamp created_at exactly once at creation; updates replace the mutable
// fields wholesale and leave id and created_at untouched.
//
// Lookup misses are reported as a nil post (or false for Delete), never as an
// error, so the HTTP layer can map them to 404 uniformly. I/O failures
// propagate as errors and are never retried.
type Store interface {
	// ListAll returns every post. The SQLite backend orders newest-first by
	// id; the flat-file backend preserves file order.
	ListAll(ctx context.Context) ([]domain.Post, error)

	// FindByID returns the post with the given id, or nil if absent.
	FindByID(ctx context.Context, id int64) (*domain.Post, error)

	// Create assigns an id and creation timestamp, persists the post, and
	// returns it fully populated.
	Create(ctx context.Context, fields domain.Fields) (*domain.Post, error)

	// Update replaces title, content and tags of an existing post and
	// returns the updated post, or nil if no post has the given id.
	Update(ctx context.Context, id int64, fields domain.Fields) (*domain.Post, error)

	// Delete removes a post and reports whether one was actually removed.
	Delete(ctx context.Context, id int64) (bool, error)

	// SeedIfEmpty populates an empty store with the demonstration posts so
	// the API is never empty on first run. Called once by the composition
	// root; a no-op when any post exists.
	SeedIfEmpty(ctx context.Context) error

	Close() error
}
