package profile

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidelith/side/internal/apikey"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "side", "profiles.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCreateAndGet(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	p := &Profile{Email: "dev@example.com", Tier: apikey.TierPro}
	require.NoError(t, store.Create(ctx, p))
	require.NotEmpty(t, p.ID)

	got, err := store.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", got.Email)
	assert.Equal(t, apikey.TierPro, got.Tier)
	assert.Empty(t, got.APIKeyStored)
	assert.EqualValues(t, 0, got.Revision)
}

func TestGetMissing(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateRejectsUnknownTier(t *testing.T) {
	store := openTestStore(t)
	err := store.Create(context.Background(), &Profile{Tier: apikey.Tier("mega")})
	assert.ErrorIs(t, err, apikey.ErrUnknownTier)
}

func TestSetStoredKey(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	p := &Profile{Tier: apikey.TierHobby}
	require.NoError(t, store.Create(ctx, p))

	require.NoError(t, store.SetStoredKey(ctx, p.ID, "v1:hint:digest", 0))

	got, err := store.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "v1:hint:digest", got.APIKeyStored)
	assert.EqualValues(t, 1, got.Revision)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt) || got.UpdatedAt.Equal(got.CreatedAt))
}

func TestSetStoredKeyRevisionConflict(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	p := &Profile{Tier: apikey.TierHobby}
	require.NoError(t, store.Create(ctx, p))
	require.NoError(t, store.SetStoredKey(ctx, p.ID, "v1:a:aa", 0))

	// Second writer still holds revision 0.
	err := store.SetStoredKey(ctx, p.ID, "v1:b:bb", 0)
	assert.ErrorIs(t, err, ErrRevisionConflict)

	got, err := store.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "v1:a:aa", got.APIKeyStored)
}

func TestSetStoredKeyMissingProfile(t *testing.T) {
	store := openTestStore(t)
	err := store.SetStoredKey(context.Background(), "nope", "v1:a:aa", 0)
	assert.ErrorIs(t, err, ErrNotFound)
}
