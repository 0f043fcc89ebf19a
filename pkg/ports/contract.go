package ports

import (
	"context"
	"testing"
	"time"

	"github.com/healthcalc/calcchain/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunKeyValueStoreContract runs a suite of tests to verify that a KeyValueStore
// implementation adheres to the defined interface contract.
func RunKeyValueStoreContract(t *testing.T, store KeyValueStore) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	t.Run("Set and Get", func(t *testing.T) {
		value := []byte(`{"chainId":"fitness-baseline"}`)

		err := store.Set(ctx, key, value)
		require.NoError(t, err, "Set should not return error")

		loaded, err := store.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, value, loaded)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, []byte("first")))
		require.NoError(t, store.Set(ctx, key, []byte("second")))

		loaded, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("second"), loaded)
	})

	t.Run("Returned value is a copy", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, []byte("stable")))

		loaded, err := store.Get(ctx, key)
		require.NoError(t, err)
		loaded[0] = 'X'

		again, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte("stable"), again)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, key, []byte("doomed")))

		err := store.Remove(ctx, key)
		require.NoError(t, err, "Remove should not return error")

		_, err = store.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrKeyNotFound, "Get after Remove should return ErrKeyNotFound")

		assert.NoError(t, store.Remove(ctx, key), "Removing a missing key should not fail")
	})

	lister, ok := store.(Lister)
	if !ok {
		return
	}

	t.Run("List", func(t *testing.T) {
		k1 := key + "-1"
		k2 := key + "-2"
		_ = store.Set(ctx, k1, []byte("1"))
		_ = store.Set(ctx, k2, []byte("2"))

		defer func() {
			_ = store.Remove(ctx, k1)
			_ = store.Remove(ctx, k2)
		}()

		keys, err := lister.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, keys, k1)
		assert.Contains(t, keys, k2)
	})
}
