package toml

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/bnema/spaceo-chat/internal/domain"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (f fixedClock) Now() time.Time {
	return f.now
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "nested", "storage.toml")
	cfg := viper.New()
	cfg.Set(StoragePathKey, path)

	store, err := NewStore(cfg, fixedClock{now: time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	return store, path
}

func TestStoreSetGetRoundTrip(t *testing.T) {
	t.Parallel()

	store, path := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "availableAccountIds", `["account_id_1"]`))
	require.NoError(t, store.Set(ctx, "theme", "dark"))
	require.NoError(t, store.Set(ctx, "availableAccountIds", `[]`))

	got, err := store.Get(ctx, "availableAccountIds")
	require.NoError(t, err)
	assert.Equal(t, `[]`, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "version = 1")
	assert.Contains(t, string(data), "2026-10-18T09:00:00Z")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(storageFileMode), info.Mode().Perm())
}

func TestStoreGetMissingKey(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestStoreDelete(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "a", "1"))
	require.NoError(t, store.Set(ctx, "b", "2"))
	require.NoError(t, store.Delete(ctx, "a"))
	require.NoError(t, store.Delete(ctx, "a"))

	_, err := store.Get(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	got, err := store.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
}

func TestStoreRejectsFutureSchemaVersion(t *testing.T) {
	t.Parallel()

	store, path := newTestStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte("version = 9\n"), 0o600))

	_, err := store.Get(context.Background(), "a")
	require.Error(t, err)
	assert.ErrorContains(t, err, "unsupported storage schema version 9")
}

func TestStoreRespectsCanceledContext(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Set(ctx, "a", "1"), context.Canceled)
	_, err := store.Get(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStoreConcurrentWritesShareLock(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "storage.toml")
	cfg := viper.New()
	cfg.Set(StoragePathKey, path)

	first, err := NewStore(cfg, nil)
	require.NoError(t, err)
	second, err := NewStore(cfg, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, first.Set(context.Background(), "first", "v"))
		}(i)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, second.Set(context.Background(), "second", "v"))
		}(i)
	}
	wg.Wait()

	for _, key := range []string{"first", "second"} {
		got, err := first.Get(context.Background(), key)
		require.NoError(t, err)
		assert.Equal(t, "v", got)
	}
}
