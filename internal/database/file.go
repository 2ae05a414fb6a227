package database

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnshRaj112/codinglearn-backend/internal/models"
)

// FileStore keeps the document as indented JSON in a single file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the location of the backing file.
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load(ctx context.Context) (*models.Database, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.NewDatabase(), nil
		}
		return nil, fmt.Errorf("reading %s: %w", f.path, err)
	}

	return decodeDatabase(data)
}

// Save writes the document to a temp file in the same directory and renames
// it over the target, so readers see either the old or the new document.
func (f *FileStore) Save(ctx context.Context, db *models.Database) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encodeDatabase(db)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "db-*.json.tmp")
	if err != nil {
		return fmt.Errorf("creating temp database file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing database: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("syncing database: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp database file: %w", err)
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		return fmt.Errorf("renaming database to %s: %w", f.path, err)
	}

	success = true
	return nil
}

func decodeDatabase(data []byte) (*models.Database, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrCorruptStore)
	}

	var db models.Database
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptStore, err)
	}
	db.Normalize()
	return &db, nil
}

func encodeDatabase(db *models.Database) ([]byte, error) {
	db.Normalize()
	data, err := json.MarshalIndent(db, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding database: %w", err)
	}
	return data, nil
}
