package database

import (
	"context"
	"errors"
	"sync"

	"github.com/AnshRaj112/codinglearn-backend/internal/models"
)

// ErrCorruptStore is returned when persisted content exists but cannot be
// decoded as a Database document.
var ErrCorruptStore = errors.New("store content is corrupt")

// Store loads and saves the whole Database document. Implementations do
// not coordinate concurrent callers; wrap them in Serialized for that.
type Store interface {
	// Load returns the stored document, or an empty one if nothing has been
	// saved yet.
	Load(ctx context.Context) (*models.Database, error)
	// Save replaces the stored document. A subsequent Load never observes a
	// partially written document.
	Save(ctx context.Context, db *models.Database) error
}

// Serialized runs read-modify-write sequences against a Store one at a time.
type Serialized struct {
	mu    sync.RWMutex
	store Store
}

func NewSerialized(store Store) *Serialized {
	return &Serialized{store: store}
}

// View loads the document for reading. Changes made to it are discarded.
func (s *Serialized) View(ctx context.Context, fn func(db *models.Database) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	db, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	return fn(db)
}

// Update loads the document, applies fn and saves the result while holding
// the write lock. If fn returns an error nothing is saved.
func (s *Serialized) Update(ctx context.Context, fn func(db *models.Database) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(db); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.store.Save(ctx, db)
}
