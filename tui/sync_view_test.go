// ABOUTME: Tests for sync view functionality
// ABOUTME: Verifies sync state display and import handling
package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/cleancontacts/db"
	"github.com/harperreed/cleancontacts/models"
	"github.com/harperreed/cleancontacts/sync"
)

func TestSyncViewWithoutImporter(t *testing.T) {
	database := setupTestDB(t)

	m := press(t, start(t, database), "s")
	require.Equal(t, ViewSync, m.viewMode)

	output := m.View()
	assert.Contains(t, output, "Google Sync")
	assert.Contains(t, output, "Not synced yet")
	assert.Contains(t, output, "sync init")

	m = press(t, m, "enter")
	require.Len(t, m.syncMessages, 1)
	assert.Contains(t, m.syncMessages[0], "not configured")
}

func TestSyncViewWithStates(t *testing.T) {
	database := setupTestDB(t)

	errMsg := "token expired"
	require.NoError(t, db.UpdateSyncStatus(database, sync.ContactsService, models.SyncStatusError, &errMsg))

	m := press(t, start(t, database), "s")

	output := m.View()
	assert.Contains(t, output, "Error")
	assert.Contains(t, output, "token expired")
}

func TestSyncImportRescans(t *testing.T) {
	database := setupTestDB(t)

	importer := func(ctx context.Context) (*sync.ImportStats, error) {
		seed(t, database,
			models.Contact{GivenName: "Ann", Emails: []string{"ann@x.com"}},
			models.Contact{GivenName: "Annie", Emails: []string{"ANN@x.com"}},
		)
		require.NoError(t, db.UpdateSyncToken(database, sync.ContactsService, ""))
		return &sync.ImportStats{Fetched: 2, Imported: 2}, nil
	}

	m := NewModel(database, importer)
	m = drive(t, m, m.Init())
	require.Empty(t, m.groups)

	m = press(t, m, "s")
	m = press(t, m, "enter")

	assert.False(t, m.syncInProgress)
	require.Len(t, m.syncMessages, 2)
	assert.Contains(t, m.syncMessages[1], "2 imported")
	assert.Len(t, m.groups, 1)
	assert.Contains(t, m.View(), "Idle")
}

func TestSyncImportError(t *testing.T) {
	database := setupTestDB(t)

	importer := func(ctx context.Context) (*sync.ImportStats, error) {
		return nil, errors.New("quota exceeded")
	}

	m := NewModel(database, importer)
	m = press(t, drive(t, m, m.Init()), "s")
	m = press(t, m, "enter")

	assert.False(t, m.syncInProgress)
	assert.Contains(t, m.syncMessages[len(m.syncMessages)-1], "quota exceeded")
}

func TestFormatTimeSince(t *testing.T) {
	tests := []struct {
		name     string
		ago      time.Duration
		expected string
	}{
		{"just now", 10 * time.Second, "just now"},
		{"one minute", 90 * time.Second, "1 minute ago"},
		{"minutes", 5 * time.Minute, "5 minutes ago"},
		{"one hour", 61 * time.Minute, "1 hour ago"},
		{"hours", 3 * time.Hour, "3 hours ago"},
		{"one day", 25 * time.Hour, "1 day ago"},
		{"days", 72 * time.Hour, "3 days ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatTimeSince(time.Now().Add(-tt.ago)))
		})
	}
}
