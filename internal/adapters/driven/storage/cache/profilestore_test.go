package cache

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/metaval/internal/adapters/driven/storage/filesystem"
	"github.com/custodia-labs/metaval/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/metaval/internal/core/domain"
	"github.com/custodia-labs/metaval/internal/core/ports/driven"
)

// countingStore counts calls reaching the wrapped store.
type countingStore struct {
	driven.ProfileStore
	calls atomic.Int32
}

func (c *countingStore) ListProfiles(ctx context.Context) ([]string, error) {
	c.calls.Add(1)
	return c.ProfileStore.ListProfiles(ctx)
}

func (c *countingStore) ListVersions(ctx context.Context, name string) ([]string, error) {
	c.calls.Add(1)
	return c.ProfileStore.ListVersions(ctx, name)
}

func (c *countingStore) LoadSchema(ctx context.Context, name, version string) (*domain.Schema, error) {
	c.calls.Add(1)
	return c.ProfileStore.LoadSchema(ctx, name, version)
}

func (c *countingStore) LoadMarginality(ctx context.Context, name, version string) (domain.MarginalityList, error) {
	c.calls.Add(1)
	return c.ProfileStore.LoadMarginality(ctx, name, version)
}

func newCounting() *countingStore {
	mem := memory.NewProfileStore()
	mem.Add("Dataset", "1.0-RELEASE", map[string]any{"type": "object"},
		domain.MarginalityList{domain.LevelMinimum: {"name"}})
	mem.Add("Dataset", "0.1-DRAFT", map[string]any{"type": "object"}, nil)
	return &countingStore{ProfileStore: mem}
}

func TestProfileStore_CachesReads(t *testing.T) {
	next := newCounting()
	store := NewProfileStore(next)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.ListProfiles(ctx)
		require.NoError(t, err)
		_, err = store.ListVersions(ctx, "Dataset")
		require.NoError(t, err)
		_, err = store.LoadSchema(ctx, "Dataset", "1.0-RELEASE")
		require.NoError(t, err)
		_, err = store.LoadMarginality(ctx, "Dataset", "1.0-RELEASE")
		require.NoError(t, err)
		_, err = store.LoadMarginality(ctx, "Dataset", "0.1-DRAFT")
		require.ErrorIs(t, err, domain.ErrMarginalityNotFound)
	}
	assert.Equal(t, int32(5), next.calls.Load())

	ok, err := store.Exists(ctx, "Dataset", "0.1-DRAFT")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = store.Exists(ctx, "Gene", "1.0")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProfileStore_ReturnsCopiesOfListings(t *testing.T) {
	store := NewProfileStore(newCounting())
	ctx := context.Background()

	versions, err := store.ListVersions(ctx, "Dataset")
	require.NoError(t, err)
	versions[0] = "mutated"

	again, err := store.ListVersions(ctx, "Dataset")
	require.NoError(t, err)
	assert.NotContains(t, again, "mutated")
}

func TestProfileStore_DoesNotCacheErrors(t *testing.T) {
	next := newCounting()
	store := NewProfileStore(next)
	ctx := context.Background()

	_, err := store.LoadSchema(ctx, "Gene", "1.0")
	assert.Error(t, err)
	_, err = store.LoadSchema(ctx, "Gene", "1.0")
	assert.Error(t, err)
	assert.Equal(t, int32(2), next.calls.Load())
}

// slowStore holds LoadSchema open until release is closed.
type slowStore struct {
	*countingStore
	started chan struct{}
	release chan struct{}
}

func (s *slowStore) LoadSchema(ctx context.Context, name, version string) (*domain.Schema, error) {
	if s.countingStore.calls.Load() == 0 {
		close(s.started)
		<-s.release
	}
	return s.countingStore.LoadSchema(ctx, name, version)
}

func TestProfileStore_LoadSpanningInvalidateIsNotCached(t *testing.T) {
	next := &slowStore{
		countingStore: newCounting(),
		started:       make(chan struct{}),
		release:       make(chan struct{}),
	}
	store := NewProfileStore(next)
	ctx := context.Background()

	loaded := make(chan error, 1)
	go func() {
		_, err := store.LoadSchema(ctx, "Dataset", "1.0-RELEASE")
		loaded <- err
	}()

	<-next.started
	store.Invalidate()
	close(next.release)
	require.NoError(t, <-loaded)

	_, err := store.LoadSchema(ctx, "Dataset", "1.0-RELEASE")
	require.NoError(t, err)
	assert.Equal(t, int32(2), next.calls.Load())

	_, err = store.LoadSchema(ctx, "Dataset", "1.0-RELEASE")
	require.NoError(t, err)
	assert.Equal(t, int32(2), next.calls.Load())
}

func TestProfileStore_InvalidateRunsHooks(t *testing.T) {
	next := newCounting()
	store := NewProfileStore(next)
	ctx := context.Background()
	var hooked atomic.Int32
	store.OnInvalidate(func() { hooked.Add(1) })

	_, err := store.ListProfiles(ctx)
	require.NoError(t, err)
	store.Invalidate()
	_, err = store.ListProfiles(ctx)
	require.NoError(t, err)

	assert.Equal(t, int32(2), next.calls.Load())
	assert.Equal(t, int32(1), hooked.Load())
}

func TestProfileStore_WatchInvalidatesOnChange(t *testing.T) {
	root := t.TempDir()
	schemaDir := filepath.Join(root, "json")
	require.NoError(t, os.MkdirAll(filepath.Join(schemaDir, "Dataset"), 0700))
	require.NoError(t, os.WriteFile(filepath.Join(schemaDir, "Dataset", "1.0.json"), []byte(`{}`), 0600))

	store := NewProfileStore(filesystem.NewProfileStore(domain.ProfileSettings{
		SchemaDir:      schemaDir,
		MarginalityDir: filepath.Join(root, "marginality"),
		SchemaExt:      ".json",
		MarginalityExt: ".json",
	}))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, store.Watch(ctx, schemaDir, filepath.Join(root, "marginality")))
	defer func() { _ = store.Close() }()

	versions, err := store.ListVersions(ctx, "Dataset")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.0"}, versions)

	require.NoError(t, os.WriteFile(filepath.Join(schemaDir, "Dataset", "2.0.json"), []byte(`{}`), 0600))

	assert.Eventually(t, func() bool {
		versions, err := store.ListVersions(ctx, "Dataset")
		return err == nil && len(versions) == 2
	}, 5*time.Second, 20*time.Millisecond)
}

func TestProfileStore_WatchTwiceFails(t *testing.T) {
	store := NewProfileStore(newCounting())
	ctx := context.Background()
	dir := t.TempDir()

	require.NoError(t, store.Watch(ctx, dir))
	assert.Error(t, store.Watch(ctx, dir))
	require.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
