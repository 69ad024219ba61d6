package persistence

import (
	"context"
	"path/filepath"
	"testing"

	"drift/internal/persistence/interfaces"
	"drift/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runStoreContract(t *testing.T, store interfaces.KeyValueStoreInterface) {
	t.Helper()
	ctx := context.Background()

	_, found, err := store.Get(ctx, "drift_xp")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "drift_xp", "120"))
	val, found, err := store.Get(ctx, "drift_xp")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "120", val)

	require.NoError(t, store.Set(ctx, "drift_xp", "130"))
	val, _, _ = store.Get(ctx, "drift_xp")
	assert.Equal(t, "130", val)

	history := `[{"id":"a","content":"héllo \"sea\"","replies":[]}]`
	require.NoError(t, store.Set(ctx, "drift_sent_history", history))
	val, _, _ = store.Get(ctx, "drift_sent_history")
	assert.Equal(t, history, val)

	require.NoError(t, store.Delete(ctx, "drift_xp"))
	_, found, err = store.Get(ctx, "drift_xp")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Delete(ctx, "never_set"))
}

func TestMemoryStore_Contract(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}

func TestFileStore_Contract(t *testing.T) {
	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	store, err := NewFileStore(filepath.Join(t.TempDir(), "drift.dat"), comp, &testutil.MockLogger{})
	require.NoError(t, err)
	defer store.Close()

	runStoreContract(t, store)
}

func TestSQLiteStore_Contract(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "nested", "drift.db"))
	require.NoError(t, err)
	defer store.Close()

	runStoreContract(t, store)
}

func TestRedisStore_Contract(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, "test")
	defer store.Close()

	runStoreContract(t, store)
}

func TestCachedStore_Contract(t *testing.T) {
	runStoreContract(t, NewCachedStore(NewMemoryStore(), testutil.NewMockCache()))
}

func TestInstrumentedStore_Contract(t *testing.T) {
	runStoreContract(t, NewInstrumentedStore(NewMemoryStore(), testutil.NewMockMetrics()))
}
