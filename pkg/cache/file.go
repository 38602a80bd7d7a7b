package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

const fileExt = ".json"

// FileCache keeps one file per key in a flat directory. Locks are in
// process only.
type FileCache struct {
	dir   string
	locks *lockTable
}

// NewFileCache creates dir if it does not exist.
func NewFileCache(dir string) (*FileCache, error) {
	if dir == "" {
		return nil, errors.New("file cache: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file cache: %w", err)
	}
	return &FileCache{dir: dir, locks: newLockTable()}, nil
}

func (fc *FileCache) Dir() string { return fc.dir }

func (fc *FileCache) path(key string) string {
	return filepath.Join(fc.dir, FileName(key)+fileExt)
}

// Set writes value to a temporary file and renames it over the entry, so
// readers never see a partial entry.
func (fc *FileCache) Set(_ context.Context, key string, value []byte) error {
	tmp, err := os.CreateTemp(fc.dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), fc.path(key))
}

func (fc *FileCache) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(fc.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return data, nil
}

func (fc *FileCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		if err := os.Remove(fc.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func (fc *FileCache) Exists(_ context.Context, key string) (bool, error) {
	_, err := os.Stat(fc.path(key))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

func (fc *FileCache) TryLock(_ context.Context, key string, ttl time.Duration) (string, bool, error) {
	token, ok := fc.locks.tryLock(key, ttl)
	return token, ok, nil
}

func (fc *FileCache) Unlock(_ context.Context, key, token string) error {
	return fc.locks.unlock(key, token)
}

func (fc *FileCache) Close() error { return nil }
