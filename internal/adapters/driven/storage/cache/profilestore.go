// Package cache decorates a profile store with an in-memory cache that is
// invalidated when the profile directories change.
package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/metaval/internal/core/domain"
	"github.com/custodia-labs/metaval/internal/core/ports/driven"
	"github.com/custodia-labs/metaval/internal/logger"
)

// Ensure ProfileStore implements the interface.
var _ driven.ProfileStore = (*ProfileStore)(nil)

// ProfileStore caches listings, schemas and marginality lists of another
// store. It is safe for concurrent use.
type ProfileStore struct {
	next driven.ProfileStore

	mu          sync.RWMutex
	profiles    []string
	versions    map[string][]string
	schemas     map[string]*domain.Schema
	lists       map[string]domain.MarginalityList
	missing     map[string]bool
	invalidated []func()

	// generation is bumped by Invalidate. Loads that started under an older
	// generation are not stored.
	generation uint64

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewProfileStore wraps next.
func NewProfileStore(next driven.ProfileStore) *ProfileStore {
	s := &ProfileStore{next: next}
	s.reset()
	return s
}

func (s *ProfileStore) reset() {
	s.profiles = nil
	s.versions = make(map[string][]string)
	s.schemas = make(map[string]*domain.Schema)
	s.lists = make(map[string]domain.MarginalityList)
	s.missing = make(map[string]bool)
}

func key(name, version string) string {
	return name + "/" + version
}

// ListProfiles returns the cached profile names.
func (s *ProfileStore) ListProfiles(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	profiles, gen := s.profiles, s.generation
	s.mu.RUnlock()
	if profiles != nil {
		return append([]string{}, profiles...), nil
	}

	profiles, err := s.next.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	s.store(gen, func() { s.profiles = append([]string{}, profiles...) })
	return profiles, nil
}

// ListVersions returns the cached versions of a profile.
func (s *ProfileStore) ListVersions(ctx context.Context, name string) ([]string, error) {
	s.mu.RLock()
	versions, ok := s.versions[name]
	gen := s.generation
	s.mu.RUnlock()
	if ok {
		return append([]string{}, versions...), nil
	}

	versions, err := s.next.ListVersions(ctx, name)
	if err != nil {
		return nil, err
	}
	s.store(gen, func() { s.versions[name] = append([]string{}, versions...) })
	return versions, nil
}

// Exists answers from the cached version listing.
func (s *ProfileStore) Exists(ctx context.Context, name, version string) (bool, error) {
	versions, err := s.ListVersions(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	for _, v := range versions {
		if v == version {
			return true, nil
		}
	}
	return false, nil
}

// LoadSchema returns the cached schema. Callers must not modify Raw.
func (s *ProfileStore) LoadSchema(ctx context.Context, name, version string) (*domain.Schema, error) {
	k := key(name, version)
	s.mu.RLock()
	schema, ok := s.schemas[k]
	gen := s.generation
	s.mu.RUnlock()
	if ok {
		return schema, nil
	}

	schema, err := s.next.LoadSchema(ctx, name, version)
	if err != nil {
		return nil, err
	}
	s.store(gen, func() { s.schemas[k] = schema })
	return schema, nil
}

// LoadSchemaFile is not cached; explicit paths may live anywhere.
func (s *ProfileStore) LoadSchemaFile(ctx context.Context, path string) (*domain.Schema, error) {
	return s.next.LoadSchemaFile(ctx, path)
}

// LoadMarginality returns the cached list. Absent lists are cached too.
func (s *ProfileStore) LoadMarginality(ctx context.Context, name, version string) (domain.MarginalityList, error) {
	k := key(name, version)
	s.mu.RLock()
	list, ok := s.lists[k]
	missing := s.missing[k]
	gen := s.generation
	s.mu.RUnlock()
	if missing {
		return nil, domain.ErrMarginalityNotFound
	}
	if ok {
		return list, nil
	}

	list, err := s.next.LoadMarginality(ctx, name, version)
	switch {
	case errors.Is(err, domain.ErrMarginalityNotFound):
		s.store(gen, func() { s.missing[k] = true })
		return nil, err
	case err != nil:
		return nil, err
	}
	s.store(gen, func() { s.lists[k] = list })
	return list, nil
}

// store runs write under the lock unless the cache was invalidated after
// gen was read.
func (s *ProfileStore) store(gen uint64, write func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		return
	}
	write()
}

// OnInvalidate registers fn to run after every invalidation.
func (s *ProfileStore) OnInvalidate(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidated = append(s.invalidated, fn)
}

// Invalidate drops every cached entry.
func (s *ProfileStore) Invalidate() {
	s.mu.Lock()
	s.reset()
	s.generation++
	hooks := append([]func(){}, s.invalidated...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// Watch invalidates the cache whenever a file under dirs changes. Each dir
// and its immediate profile subdirectories are watched; new subdirectories
// are added as they appear. Missing dirs are skipped. Watching stops when
// ctx is done or Close is called.
func (s *ProfileStore) Watch(ctx context.Context, dirs ...string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	for _, dir := range dirs {
		if err := addTree(watcher, dir); err != nil {
			_ = watcher.Close()
			return err
		}
	}

	s.mu.Lock()
	if s.watcher != nil {
		s.mu.Unlock()
		_ = watcher.Close()
		return errors.New("already watching")
	}
	s.watcher = watcher
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go s.loop(ctx, watcher, done)
	return nil
}

func (s *ProfileStore) loop(ctx context.Context, watcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			_ = watcher.Close()
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watcher.Add(event.Name)
				}
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			logger.Debug("Profile store changed (%s), invalidating cache", event)
			s.Invalidate()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Profile watcher: %v", err)
		}
	}
}

// Close stops watching.
func (s *ProfileStore) Close() error {
	s.mu.Lock()
	watcher, done := s.watcher, s.done
	s.watcher, s.done = nil, nil
	s.mu.Unlock()
	if watcher == nil {
		return nil
	}
	err := watcher.Close()
	<-done
	return err
}

func addTree(watcher *fsnotify.Watcher, dir string) error {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug("Not watching missing directory %s", dir)
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", dir, err)
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			if err := watcher.Add(filepath.Join(dir, e.Name())); err != nil {
				return fmt.Errorf("watching %s: %w", e.Name(), err)
			}
		}
	}
	return nil
}
