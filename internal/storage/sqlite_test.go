package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "secrets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	// Absent secret reads as empty, not an error.
	value, err := store.Get(ctx, KeyGeminiAPIKey)
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, store.Set(ctx, KeyGeminiAPIKey, "sk-first"))

	value, err = store.Get(ctx, KeyGeminiAPIKey)
	require.NoError(t, err)
	assert.Equal(t, "sk-first", value)

	// Replacement overwrites in place.
	require.NoError(t, store.Set(ctx, KeyGeminiAPIKey, "sk-second"))

	value, err = store.Get(ctx, KeyGeminiAPIKey)
	require.NoError(t, err)
	assert.Equal(t, "sk-second", value)
}

func TestSQLiteStoreRemove(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Set(ctx, KeyGeminiAPIKey, "sk-test"))
	require.NoError(t, store.Remove(ctx, KeyGeminiAPIKey))

	value, err := store.Get(ctx, KeyGeminiAPIKey)
	require.NoError(t, err)
	assert.Empty(t, value)

	// Removing an absent name is not an error.
	require.NoError(t, store.Remove(ctx, KeyGeminiAPIKey))
}

func TestNewSQLiteStoreValidation(t *testing.T) {
	_, err := NewSQLiteStore("")
	require.Error(t, err)
}
