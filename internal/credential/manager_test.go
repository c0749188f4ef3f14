package credential

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FormulaOfDalal/ai-chart-analyzer/internal/common"
	"github.com/FormulaOfDalal/ai-chart-analyzer/internal/storage"
)

type fakeRemote struct {
	closed    int
	responses []string
	calls     int
}

func (f *fakeRemote) GenerateAnalysis(_ context.Context, _ string, _ []byte, _ string) (string, error) {
	f.calls++
	if len(f.responses) == 0 {
		return "", nil
	}
	return f.responses[0], nil
}

func (f *fakeRemote) Close() error {
	f.closed++
	return nil
}

func acceptingConnector(built *[]*fakeRemote) Connector {
	return func(_ context.Context, secret string) (RemoteModel, error) {
		remote := &fakeRemote{}
		if built != nil {
			*built = append(*built, remote)
		}
		return remote, nil
	}
}

func rejectingConnector(msg string) Connector {
	return func(_ context.Context, _ string) (RemoteModel, error) {
		return nil, fmt.Errorf("%s", msg)
	}
}

func TestSetCredentialSuccess(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	mgr := NewManager(store, acceptingConnector(nil), nil)

	require.NoError(t, mgr.SetCredential(ctx, "sk-valid"))

	assert.True(t, mgr.IsReady())

	persisted, err := mgr.PersistedCredential(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sk-valid", persisted)
}

func TestSetCredentialTrimsWhitespace(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	mgr := NewManager(store, acceptingConnector(nil), nil)

	require.NoError(t, mgr.SetCredential(ctx, "  sk-valid\n"))

	persisted, err := mgr.PersistedCredential(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sk-valid", persisted)
}

func TestSetCredentialEmpty(t *testing.T) {
	tests := []struct {
		name   string
		secret string
	}{
		{"empty string", ""},
		{"whitespace only", "   \t\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := storage.NewMemoryStore()
			mgr := NewManager(store, acceptingConnector(nil), nil)

			// Start from a ready state so the clearing side effect is visible.
			require.NoError(t, mgr.SetCredential(ctx, "sk-old"))
			require.True(t, mgr.IsReady())

			err := mgr.SetCredential(ctx, tt.secret)
			require.ErrorIs(t, err, common.ErrInvalidInput)

			assert.False(t, mgr.IsReady())

			persisted, err := mgr.PersistedCredential(ctx)
			require.NoError(t, err)
			assert.Empty(t, persisted, "persisted value should be removed on invalid input")
		})
	}
}

func TestSetCredentialConstructionFailure(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()

	mgr := NewManager(store, acceptingConnector(nil), nil)
	require.NoError(t, mgr.SetCredential(ctx, "sk-old"))

	// Swap in a connector that rejects everything.
	mgr.connect = rejectingConnector("malformed key")

	err := mgr.SetCredential(ctx, "sk-broken")
	require.ErrorIs(t, err, common.ErrClientConstruction)
	assert.Contains(t, err.Error(), "malformed key")

	assert.False(t, mgr.IsReady())

	// The previously persisted secret survives so the user can retry.
	persisted, perr := mgr.PersistedCredential(ctx)
	require.NoError(t, perr)
	assert.Equal(t, "sk-old", persisted)
}

func TestLoadFromStorage(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, storage.KeyGeminiAPIKey, "sk-stored"))

	mgr := NewManager(store, acceptingConnector(nil), nil)

	secret, err := mgr.LoadFromStorage(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sk-stored", secret)
	assert.True(t, mgr.IsReady())
}

func TestLoadFromStorageEmpty(t *testing.T) {
	ctx := context.Background()
	mgr := NewManager(storage.NewMemoryStore(), acceptingConnector(nil), nil)

	secret, err := mgr.LoadFromStorage(ctx)
	require.NoError(t, err)
	assert.Empty(t, secret)
	assert.False(t, mgr.IsReady())
}

func TestLoadFromStorageConstructionFailure(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, storage.KeyGeminiAPIKey, "sk-stored"))

	mgr := NewManager(store, rejectingConnector("service unreachable"), nil)

	secret, err := mgr.LoadFromStorage(ctx)
	require.ErrorIs(t, err, common.ErrClientConstruction)

	// The secret still comes back for pre-filling, the handle stays absent,
	// and the persisted value is untouched.
	assert.Equal(t, "sk-stored", secret)
	assert.False(t, mgr.IsReady())

	persisted, perr := mgr.PersistedCredential(ctx)
	require.NoError(t, perr)
	assert.Equal(t, "sk-stored", persisted)
}

func TestClearCredentialIdempotent(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	mgr := NewManager(store, acceptingConnector(nil), nil)

	require.NoError(t, mgr.SetCredential(ctx, "sk-valid"))
	require.True(t, mgr.IsReady())

	mgr.ClearCredential(ctx)
	mgr.ClearCredential(ctx)

	assert.False(t, mgr.IsReady())

	persisted, err := mgr.PersistedCredential(ctx)
	require.NoError(t, err)
	assert.Empty(t, persisted)
}

func TestInvalidateKeepsPersistedSecret(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	mgr := NewManager(store, acceptingConnector(nil), nil)

	require.NoError(t, mgr.SetCredential(ctx, "sk-valid"))

	mgr.Invalidate()

	assert.False(t, mgr.IsReady())

	persisted, err := mgr.PersistedCredential(ctx)
	require.NoError(t, err)
	assert.Equal(t, "sk-valid", persisted)
}

func TestReplacingCredentialClosesOldHandle(t *testing.T) {
	ctx := context.Background()
	var built []*fakeRemote
	mgr := NewManager(storage.NewMemoryStore(), acceptingConnector(&built), nil)

	require.NoError(t, mgr.SetCredential(ctx, "sk-one"))
	require.NoError(t, mgr.SetCredential(ctx, "sk-two"))

	require.Len(t, built, 2)
	assert.Equal(t, 1, built[0].closed)
	assert.Equal(t, 0, built[1].closed)
}

func TestErrorsAreClassified(t *testing.T) {
	err := fmt.Errorf("%w: detail", common.ErrClientConstruction)
	assert.True(t, errors.Is(err, common.ErrClientConstruction))
}
