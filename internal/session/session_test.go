package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCreateAndResolve(t *testing.T) {
	store := NewMemoryStore(time.Hour)

	sessionID, err := store.Create(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotEmpty(t, sessionID)

	userID, err := store.Resolve(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestMemoryStoreResolveUnknown(t *testing.T) {
	store := NewMemoryStore(time.Hour)

	_, err := store.Resolve(context.Background(), "nonexistent")
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestMemoryStoreDestroy(t *testing.T) {
	store := NewMemoryStore(time.Hour)

	sessionID, err := store.Create(context.Background(), "user-1")
	require.NoError(t, err)

	require.NoError(t, store.Destroy(context.Background(), sessionID))

	_, err = store.Resolve(context.Background(), sessionID)
	assert.ErrorIs(t, err, ErrNoSession)

	// destroying twice is fine
	require.NoError(t, store.Destroy(context.Background(), sessionID))
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)

	current := time.Now()
	store.now = func() time.Time { return current }

	sessionID, err := store.Create(context.Background(), "user-1")
	require.NoError(t, err)

	userID, err := store.Resolve(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	current = current.Add(2 * time.Minute)

	_, err = store.Resolve(context.Background(), sessionID)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestMemoryStoreIsolatesUsers(t *testing.T) {
	store := NewMemoryStore(time.Hour)

	aliceSession, err := store.Create(context.Background(), "alice-id")
	require.NoError(t, err)
	bobSession, err := store.Create(context.Background(), "bob-id")
	require.NoError(t, err)

	require.NotEqual(t, aliceSession, bobSession)

	aliceUser, err := store.Resolve(context.Background(), aliceSession)
	require.NoError(t, err)
	bobUser, err := store.Resolve(context.Background(), bobSession)
	require.NoError(t, err)

	assert.Equal(t, "alice-id", aliceUser)
	assert.Equal(t, "bob-id", bobUser)
}
