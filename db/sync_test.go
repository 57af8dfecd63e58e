// ABOUTME: Tests for sync state and sync log bookkeeping
// ABOUTME: Verifies status transitions, tokens, and import tracking
package db

import (
	"testing"

	"github.com/google/uuid"
	"github.com/harperreed/cleancontacts/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncStateLifecycle(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	state, err := GetSyncState(db, "contacts")
	require.NoError(t, err)
	assert.Nil(t, state)

	require.NoError(t, UpdateSyncStatus(db, "contacts", models.SyncStatusSyncing, nil))

	state, err = GetSyncState(db, "contacts")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, models.SyncStatusSyncing, state.Status)
	assert.Nil(t, state.ErrorMessage)

	errMsg := "quota exceeded"
	require.NoError(t, UpdateSyncStatus(db, "contacts", models.SyncStatusError, &errMsg))

	state, err = GetSyncState(db, "contacts")
	require.NoError(t, err)
	require.NotNil(t, state.ErrorMessage)
	assert.Equal(t, errMsg, *state.ErrorMessage)

	require.NoError(t, UpdateSyncToken(db, "contacts", "token-1"))

	state, err = GetSyncState(db, "contacts")
	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusIdle, state.Status)
	assert.Nil(t, state.ErrorMessage)
	require.NotNil(t, state.LastSyncToken)
	assert.Equal(t, "token-1", *state.LastSyncToken)
	assert.NotNil(t, state.LastSyncTime)

	states, err := GetAllSyncStates(db)
	require.NoError(t, err)
	assert.Len(t, states, 1)
}

func TestSyncLog(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	exists, err := CheckSyncLogExists(db, "contacts", "people/1")
	require.NoError(t, err)
	assert.False(t, exists)

	entityID := uuid.New()
	require.NoError(t, CreateSyncLog(db, "contacts", "people/1", "contact", entityID))
	// Duplicate imports are ignored.
	require.NoError(t, CreateSyncLog(db, "contacts", "people/1", "contact", entityID))

	exists, err = CheckSyncLogExists(db, "contacts", "people/1")
	require.NoError(t, err)
	assert.True(t, exists)
}
