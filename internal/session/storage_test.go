package session

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSQLite(t *testing.T) *SQLiteStorage {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	s, err := NewSQLiteStorage(context.Background(), db)
	require.NoError(t, err)
	return s
}

func storages(t *testing.T) map[string]Storage {
	t.Helper()

	return map[string]Storage{
		"memory": NewMemoryStorage(),
		"file":   NewFileStorage(filepath.Join(t.TempDir(), "nested")),
		"sqlite": setupSQLite(t),
	}
}

func TestStorageContract(t *testing.T) {
	for name, storage := range storages(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			v, err := storage.Get(ctx, StorageKey)
			require.NoError(t, err)
			require.Nil(t, v)

			require.NoError(t, storage.Set(ctx, StorageKey, []byte(`{"id":1}`)))
			require.NoError(t, storage.Set(ctx, StorageKey, []byte(`{"id":2}`)))

			v, err = storage.Get(ctx, StorageKey)
			require.NoError(t, err)
			assert.Equal(t, []byte(`{"id":2}`), v)

			require.NoError(t, storage.Remove(ctx, StorageKey))
			require.NoError(t, storage.Remove(ctx, StorageKey))

			v, err = storage.Get(ctx, StorageKey)
			require.NoError(t, err)
			assert.Nil(t, v)
		})
	}
}

func TestStoreRoundTripOverStorages(t *testing.T) {
	for name, storage := range storages(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			first := NewStore(storage)
			first.Login(ctx, jane())
			first.Close()

			second := NewStore(storage)
			defer second.Close()
			second.Restore(ctx)

			require.True(t, second.IsAuthenticated())
			assert.Equal(t, jane(), *second.User())
		})
	}
}

func TestFileStorageIsPrivate(t *testing.T) {
	dir := t.TempDir()
	storage := NewFileStorage(dir)

	require.NoError(t, storage.Set(context.Background(), StorageKey, []byte("{}")))

	info, err := os.Stat(filepath.Join(dir, "skanjo_user.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestMemoryStorageCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStorage()

	value := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", value))
	value[0] = 'x'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)
}

func TestOpenSQLiteFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, StorageKey, []byte("v")))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	v, err := s.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)
}

func TestSQLiteStorageErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("database is locked")

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS session_storage").WillReturnResult(sqlmock.NewResult(0, 0))
	s, err := NewSQLiteStorage(ctx, db)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT value FROM session_storage").WithArgs(StorageKey).WillReturnError(boom)
	_, err = s.Get(ctx, StorageKey)
	require.ErrorIs(t, err, boom)

	mock.ExpectExec("INSERT INTO session_storage").WithArgs(StorageKey, []byte("v")).WillReturnError(boom)
	require.ErrorIs(t, s.Set(ctx, StorageKey, []byte("v")), boom)

	mock.ExpectExec("DELETE FROM session_storage").WithArgs(StorageKey).WillReturnError(boom)
	require.ErrorIs(t, s.Remove(ctx, StorageKey), boom)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNewSQLiteStorageFailsWithoutTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("read-only file system"))

	_, err = NewSQLiteStorage(context.Background(), db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create session table")
}

func TestRedisStorage(t *testing.T) {
	url := os.Getenv("SKANJO_TEST_REDIS_URL")
	if url == "" {
		t.Skip("SKANJO_TEST_REDIS_URL is not set")
	}

	ctx := context.Background()
	s, err := OpenRedis(ctx, url, time.Minute)
	require.NoError(t, err)
	defer s.Close()

	key := "test-" + time.Now().Format("150405.000000")
	t.Cleanup(func() { _ = s.Remove(ctx, key) })

	v, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, v)

	require.NoError(t, s.Set(ctx, key, []byte("v")))
	v, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), v)

	ttl, err := s.client.TTL(ctx, redisKeyPrefix+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestOpenRedisRejectsBadURL(t *testing.T) {
	_, err := OpenRedis(context.Background(), "postgres://nope", time.Minute)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis: invalid URL")
}
