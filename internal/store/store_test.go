package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pocketnotes/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testStoreContract exercises the behaviour every driver must share.
func testStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("get absent key", func(t *testing.T) {
		v, found, err := s.Get(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "users", `[{"id":"1"}]`))

		v, found, err := s.Get(ctx, "users")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, `[{"id":"1"}]`, v)
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "currentUser", "old"))
		require.NoError(t, s.Set(ctx, "currentUser", "new"))

		v, found, err := s.Get(ctx, "currentUser")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "new", v)
	})

	t.Run("empty value is stored", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "empty", ""))

		v, found, err := s.Get(ctx, "empty")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "", v)
	})

	t.Run("remove is idempotent", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "notes_u1", "[]"))
		require.NoError(t, s.Remove(ctx, "notes_u1"))
		require.NoError(t, s.Remove(ctx, "notes_u1"))

		_, found, err := s.Get(ctx, "notes_u1")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("keys are independent", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "notes_a", "A"))
		require.NoError(t, s.Set(ctx, "notes_b", "B"))
		require.NoError(t, s.Remove(ctx, "notes_a"))

		v, found, err := s.Get(ctx, "notes_b")
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "B", v)
	})
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	t.Cleanup(func() { _ = s.Close() })

	testStoreContract(t, s)
}

func TestMemoryStore_Keys(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", "1"))
	require.NoError(t, s.Set(ctx, "b", "2"))

	assert.ElementsMatch(t, []string{"a", "b"}, s.Keys())
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	testStoreContract(t, s)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "users", "[]"))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	v, found, err := reopened.Get(ctx, "users")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "[]", v)
}

func TestSQLiteStore_ClosedDatabaseReturnsErrors(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, _, err = s.Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, s.Set(ctx, "k", "v"))
	assert.Error(t, s.Remove(ctx, "k"))
}

func TestCouchStore(t *testing.T) {
	url := os.Getenv("POCKETNOTES_TEST_COUCHDB_URL")
	if url == "" {
		t.Skip("POCKETNOTES_TEST_COUCHDB_URL not set")
	}

	s, err := OpenCouch(context.Background(), url, "pocketnotes_test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	testStoreContract(t, s)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("POCKETNOTES_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("POCKETNOTES_TEST_REDIS_ADDR not set")
	}

	s, err := OpenRedis(context.Background(), addr, "", 0, "pocketnotes_test:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	testStoreContract(t, s)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("POCKETNOTES_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("POCKETNOTES_TEST_POSTGRES_DSN not set")
	}

	s, err := OpenPostgres(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	testStoreContract(t, s)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		s, err := Open(ctx, config.StoreConfig{Driver: "memory"})
		require.NoError(t, err)
		assert.IsType(t, &MemoryStore{}, s)
	})

	t.Run("sqlite", func(t *testing.T) {
		s, err := Open(ctx, config.StoreConfig{
			Driver: "SQLite",
			SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "open.db")},
		})
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		assert.IsType(t, &SQLiteStore{}, s)
	})

	t.Run("unknown driver", func(t *testing.T) {
		s, err := Open(ctx, config.StoreConfig{Driver: "etcd"})
		assert.Nil(t, s)
		assert.True(t, errors.Is(err, ErrUnknownDriver))
	})
}
