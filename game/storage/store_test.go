package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the shared contract against any backend
func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	t.Run("missing key", func(t *testing.T) {
		v, ok, err := s.Get("absent")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, v)
	})

	t.Run("set and get", func(t *testing.T) {
		require.NoError(t, s.Set(KeyGames, `[{"id":"quiz"}]`))
		v, ok, err := s.Get(KeyGames)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, `[{"id":"quiz"}]`, v)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, s.Set(KeyGames, `[]`))
		v, _, err := s.Get(KeyGames)
		require.NoError(t, err)
		assert.Equal(t, `[]`, v)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, s.Remove(KeyGames))
		_, ok, err := s.Get(KeyGames)
		require.NoError(t, err)
		assert.False(t, ok)

		// removing twice is fine
		assert.NoError(t, s.Remove(KeyGames))
	})

	t.Run("invalid key", func(t *testing.T) {
		assert.ErrorIs(t, s.Set("../escape", "x"), ErrInvalidKey)
		assert.ErrorIs(t, s.Set("", "x"), ErrInvalidKey)
	})
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	require.NoError(t, err)

	exerciseStore(t, fs)

	t.Run("keys", func(t *testing.T) {
		require.NoError(t, fs.Set(KeyMemoryHighScore, `{}`))
		keys, err := fs.Keys()
		require.NoError(t, err)
		assert.Equal(t, []string{KeyMemoryHighScore}, keys)

		_, err = os.Stat(filepath.Join(dir, KeyMemoryHighScore+".json"))
		assert.NoError(t, err)
	})
}

func TestFileStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	_, err := NewFileStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")

	s, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	require.NoError(t, s.Set(KeyMemoryHighScore, `{"easy":{"score":100}}`))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	defer s.Close()

	v, ok, err := s.Get(KeyMemoryHighScore)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"easy":{"score":100}}`, v)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	s, err = Open(ctx, Options{Driver: DriverFile, Path: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	s, err = Open(ctx, Options{Driver: DriverSQLite, Path: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, s)
	s.Close()

	_, err = Open(ctx, Options{Driver: "redis"})
	assert.ErrorIs(t, err, ErrUnknownDriver)

	_, err = Open(ctx, Options{Driver: DriverPostgres})
	assert.Error(t, err)
}

func TestJSONHelpers(t *testing.T) {
	s := NewMemoryStore()

	type doc struct {
		Name  string `json:"name"`
		Votes int    `json:"votes"`
	}

	var out doc
	found, err := LoadJSON(s, "doc", &out)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SaveJSON(s, "doc", doc{Name: "quiz", Votes: 2}))
	found, err = LoadJSON(s, "doc", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, doc{Name: "quiz", Votes: 2}, out)

	require.NoError(t, s.Set("doc", "{not json"))
	found, err = LoadJSON(s, "doc", &out)
	assert.True(t, found)
	assert.Error(t, err)
}
