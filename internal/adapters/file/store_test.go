package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/healthcalc/calcchain/internal/adapters/file"
	"github.com/healthcalc/calcchain/pkg/domain"
	"github.com/healthcalc/calcchain/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Store implements KeyValueStore and Lister.
var (
	_ ports.KeyValueStore = (*file.Store)(nil)
	_ ports.Lister        = (*file.Store)(nil)
)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunKeyValueStoreContract(t, store)
}

func TestFileStore_KeysAreEscaped(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	key := "session:../../etc/passwd"
	require.NoError(t, store.Set(ctx, key, []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0].Name(), "/")

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{key}, keys)

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), got)
}

func TestFileStore_ListIgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store := file.New(dir)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0755))
	require.NoError(t, store.Set(ctx, "a", []byte("1")))

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, keys)
}

func TestFileStore_MissingDirectory(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "does-not-exist"))
	ctx := context.Background()

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)

	_, err = store.Get(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestFileStore_EmptyKey(t *testing.T) {
	store := file.New(t.TempDir())
	assert.Error(t, store.Set(context.Background(), "", []byte("x")))
}
