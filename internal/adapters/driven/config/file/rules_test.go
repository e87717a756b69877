package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/metaval/internal/core/domain"
)

func TestNewRuleStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	store, err := NewRuleStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".metaval", "rules"), store.Dir())
}

func TestRuleStore_CreatesDefaultFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "rules")
	store, err := NewRuleStore(dir)
	require.NoError(t, err)

	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "constructor must not touch the filesystem")

	pairs, err := store.DatePairs()
	require.NoError(t, err)
	assert.Contains(t, pairs, domain.DatePairRule{Start: "startDate", End: "endDate"})

	for _, name := range []string{domain.RuleFileDatePairs, domain.RuleFileStructuralProperties} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "expected %s to exist", name)
	}
}

func TestRuleStore_CustomContent(t *testing.T) {
	dir := t.TempDir()
	custom := "# custom\n\nopens closes\nbroken line here\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.RuleFileDatePairs), []byte(custom), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.RuleFileStructuralProperties), []byte("@type\n  @id  \n"), 0600))

	store, err := NewRuleStore(dir)
	require.NoError(t, err)

	pairs, err := store.DatePairs()
	require.NoError(t, err)
	assert.Equal(t, []domain.DatePairRule{{Start: "opens", End: "closes"}}, pairs)

	props, err := store.StructuralProperties()
	require.NoError(t, err)
	assert.Equal(t, []string{"@id", "@type"}, props.Sorted())
}

func TestRuleStore_DoesNotOverwriteExistingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, domain.RuleFileDatePairs)
	require.NoError(t, os.WriteFile(path, []byte("a b\n"), 0600))

	store, err := NewRuleStore(dir)
	require.NoError(t, err)
	_, err = store.DatePairs()
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a b\n", string(data))
}

func TestRuleStore_CachesUntilReload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewRuleStore(dir)
	require.NoError(t, err)

	_, err = store.DatePairs()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, domain.RuleFileDatePairs), []byte("x y\n"), 0600))
	pairs, err := store.DatePairs()
	require.NoError(t, err)
	assert.NotEqual(t, []domain.DatePairRule{{Start: "x", End: "y"}}, pairs)

	store.Reload()
	pairs, err = store.DatePairs()
	require.NoError(t, err)
	assert.Equal(t, []domain.DatePairRule{{Start: "x", End: "y"}}, pairs)
}

func TestRuleStore_FallsBackToEmbedded(t *testing.T) {
	store, err := NewRuleStore("/dev/null/rules")
	require.NoError(t, err)

	props, err := store.StructuralProperties()
	require.NoError(t, err)
	assert.True(t, props.Has("@context"))
}

func TestRuleStore_DeletedFileFallsBack(t *testing.T) {
	dir := t.TempDir()
	store, err := NewRuleStore(dir)
	require.NoError(t, err)
	_, err = store.DatePairs()
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, domain.RuleFileStructuralProperties)))
	props, err := store.StructuralProperties()
	require.NoError(t, err)
	assert.True(t, props.Has("@type"))
}

func TestRuleStore_ConcurrentAccess(t *testing.T) {
	store, err := NewRuleStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.DatePairs()
			_, _ = store.StructuralProperties()
			store.Reload()
		}()
	}
	wg.Wait()
}
