package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const fileSuffix = ".json"

// FileStore is the default durable tier: one human-inspectable JSON document
// per cache key, stored under a single directory. Concurrent writers from
// other processes are not coordinated.
type FileStore struct {
	dir string
}

// NewFileStore creates a file store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the cache directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, fileSafe(key)+fileSuffix)
}

// Get returns the entry for key, ErrNotFound for a missing file, or an
// ErrInvalidEntry wrap for a corrupt document. The manager treats both as a
// tier-local miss.
func (s *FileStore) Get(_ context.Context, key string) (*Entry, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read cache file: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEntry, err)
	}
	return &entry, nil
}

// Set writes the entry as a JSON document. The write goes to a temp file in
// the same directory and is renamed into place, so a crash mid-write cannot
// leave a truncated document under the real name.
func (s *FileStore) Set(_ context.Context, key string, entry *Entry) error {
	if entry == nil {
		return ErrInvalidEntry
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close cache file: %w", err)
	}

	if err := os.Rename(tmpName, s.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename cache file: %w", err)
	}
	return nil
}

// Delete removes the file for key. Missing files are a no-op.
func (s *FileStore) Delete(_ context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove cache file: %w", err)
	}
	return nil
}

// Clear removes every cache document in the directory.
func (s *FileStore) Clear(_ context.Context) error {
	names, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read cache directory: %w", err)
	}
	for _, info := range names {
		if info.IsDir() || !strings.HasSuffix(info.Name(), fileSuffix) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, info.Name())); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove cache file: %w", err)
		}
	}
	return nil
}

// Stats returns the document count and total size of the cache directory.
func (s *FileStore) Stats(_ context.Context) (Stats, error) {
	names, err := os.ReadDir(s.dir)
	if err != nil {
		return Stats{}, fmt.Errorf("read cache directory: %w", err)
	}

	var stats Stats
	for _, info := range names {
		if info.IsDir() || !strings.HasSuffix(info.Name(), fileSuffix) {
			continue
		}
		stats.Entries++
		if fi, err := info.Info(); err == nil {
			stats.SizeBytes += fi.Size()
		}
	}
	return stats, nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}
