// Package catalog owns durable CRUD for videos, tags and the join table
// between them.
package catalog

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrDuplicatePath = errors.New("a video with this file path already exists")
	ErrDuplicateName = errors.New("a tag with this name already exists")
)

// Store wraps an explicitly passed gorm handle. No ambient globals,
// every method goes through s.db.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for callers that need to compose
// queries (the retrieval engine shares the same connection).
func (s *Store) DB() *gorm.DB {
	return s.db
}
