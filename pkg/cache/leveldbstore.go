package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	lerrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDBStore is an embedded durable tier backed by LevelDB. It trades the
// file store's human-inspectable documents for a single keyed database, which
// suits larger caches where a directory of JSON files gets unwieldy.
type LevelDBStore struct {
	db *leveldb.DB
}

// NewLevelDBStore opens (or creates) a LevelDB database at path.
func NewLevelDBStore(path string) (*LevelDBStore, error) {
	if path == "" {
		return nil, fmt.Errorf("leveldb path is required")
	}
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb: %w", err)
	}
	return &LevelDBStore{db: db}, nil
}

// Get returns the entry for key, or ErrNotFound.
func (s *LevelDBStore) Get(_ context.Context, key string) (*Entry, error) {
	data, err := s.db.Get([]byte(key), nil)
	if err != nil {
		if err == lerrors.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("leveldb get: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	return &entry, nil
}

// Set stores the entry under key.
func (s *LevelDBStore) Set(_ context.Context, key string, entry *Entry) error {
	if entry == nil {
		return ErrInvalidEntry
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	if err := s.db.Put([]byte(key), data, nil); err != nil {
		return fmt.Errorf("leveldb put: %w", err)
	}
	return nil
}

// Delete removes the entry for key. Missing keys are a no-op.
func (s *LevelDBStore) Delete(_ context.Context, key string) error {
	if err := s.db.Delete([]byte(key), nil); err != nil {
		return fmt.Errorf("leveldb delete: %w", err)
	}
	return nil
}

// Clear removes all entries.
func (s *LevelDBStore) Clear(_ context.Context) error {
	iter := s.db.NewIterator(&util.Range{}, nil)
	defer iter.Release()

	batch := new(leveldb.Batch)
	for iter.Next() {
		batch.Delete(append([]byte(nil), iter.Key()...))
	}
	if err := iter.Error(); err != nil {
		return fmt.Errorf("leveldb iterate: %w", err)
	}
	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("leveldb clear: %w", err)
	}
	return nil
}

// Stats returns entry count and total serialized size.
func (s *LevelDBStore) Stats(_ context.Context) (Stats, error) {
	iter := s.db.NewIterator(&util.Range{}, nil)
	defer iter.Release()

	var stats Stats
	for iter.Next() {
		stats.Entries++
		stats.SizeBytes += int64(len(iter.Value()))
	}
	if err := iter.Error(); err != nil {
		return Stats{}, fmt.Errorf("leveldb iterate: %w", err)
	}
	return stats, nil
}

// Close closes the database.
func (s *LevelDBStore) Close() error {
	return s.db.Close()
}
