// Package cache is a read-through store of raw grid responses, one file
// per time bucket, so an interrupted run resumes without re-fetching.
package cache

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// FetchFunc retrieves the payload for a cache miss.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Store maps bucket keys to raw payload bytes under a single directory.
// Entries are written once and never rewritten for the life of the bucket.
type Store struct {
	fs    afero.Fs
	dir   string
	delay time.Duration
	log   *zap.SugaredLogger
}

// New initializes the store directory at root/postalCode, creating it if
// needed. delay is how long GetOrFetch waits after a genuine fetch to
// rate-limit the upstream service.
func New(fs afero.Fs, root, postalCode string, delay time.Duration, log *zap.SugaredLogger) (*Store, error) {
	dir := path.Join(root, postalCode)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory at '%s' with %w", dir, err)
	}
	return &Store{fs: fs, dir: dir, delay: delay, log: log}, nil
}

// Dir returns the directory entries are stored under.
func (s *Store) Dir() string {
	return s.dir
}

// GetOrFetch returns the cached bytes for key, or calls fetch, persists
// its result and returns it. Only a genuine fetch incurs the rate-limit
// delay; a hit returns immediately. Filesystem errors are not recovered.
func (s *Store) GetOrFetch(ctx context.Context, key string, fetch FetchFunc) ([]byte, error) {
	entry := path.Join(s.dir, key)

	exists, err := afero.Exists(s.fs, entry)
	if err != nil {
		return nil, fmt.Errorf("failed to probe cache entry '%s' with %w", entry, err)
	}
	if exists {
		data, err := afero.ReadFile(s.fs, entry)
		if err != nil {
			return nil, fmt.Errorf("failed to read cache entry '%s' with %w", entry, err)
		}
		s.log.Debugw("cache hit", "key", key)
		return data, nil
	}

	data, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if err := afero.WriteFile(s.fs, entry, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write cache entry '%s' with %w", entry, err)
	}
	s.log.Debugw("cache entry written", "key", key, "bytes", len(data))

	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return data, nil
}

// EvictStale removes every entry whose name parses as an integer smaller
// than firstBucket. Names that are not integers are left alone so that
// unrelated files are never destroyed.
func (s *Store) EvictStale(firstBucket int64) error {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return fmt.Errorf("failed to list cache directory '%s' with %w", s.dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		bucket, err := strconv.ParseInt(entry.Name(), 10, 64)
		if err != nil || bucket >= firstBucket {
			continue
		}
		if err := s.fs.Remove(path.Join(s.dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove stale cache entry '%s' with %w", entry.Name(), err)
		}
		s.log.Debugw("removed stale cache entry", "key", entry.Name())
	}
	return nil
}

// Clear removes every entry in the store's directory.
func (s *Store) Clear() error {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return fmt.Errorf("failed to list cache directory '%s' with %w", s.dir, err)
	}
	for _, entry := range entries {
		if err := s.fs.RemoveAll(path.Join(s.dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to remove cache entry '%s' with %w", entry.Name(), err)
		}
	}
	return nil
}

func (s *Store) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
