// ABOUTME: Tests for the duplicate review TUI
// ABOUTME: Drives the model with key messages against an in-memory store
package tui

import (
	"database/sql"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/cleancontacts/db"
	"github.com/harperreed/cleancontacts/models"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	database.SetMaxOpenConns(1)
	require.NoError(t, db.InitSchema(database))

	t.Cleanup(func() { _ = database.Close() })
	return database
}

func seed(t *testing.T, database *sql.DB, contacts ...models.Contact) []models.Contact {
	t.Helper()
	for i := range contacts {
		require.NoError(t, db.CreateContact(database, &contacts[i]))
	}
	return contacts
}

func seedDuplicates(t *testing.T, database *sql.DB) []models.Contact {
	return seed(t, database,
		models.Contact{GivenName: "Ann", FamilyName: "Lee", Phones: []string{"(555) 123-4567"}},
		models.Contact{GivenName: "Bo", Emails: []string{"bo@x.com"}},
		models.Contact{GivenName: "Annie", Phones: []string{"555.123.4567"}, Emails: []string{"ann@x.com"}},
	)
}

// drive runs cmd and feeds every resulting message back into the model.
func drive(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				m = drive(t, m, c)
			}
			return m
		}
		next, nextCmd := m.Update(msg)
		m = next.(Model)
		cmd = nextCmd
	}
	return m
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and drives any command it produces.
func press(t *testing.T, m Model, s string) Model {
	t.Helper()
	next, cmd := m.Update(key(s))
	return drive(t, next.(Model), cmd)
}

func start(t *testing.T, database *sql.DB) Model {
	t.Helper()
	m := NewModel(database, nil)
	return drive(t, m, m.Init())
}

func TestInitScansGroups(t *testing.T) {
	database := setupTestDB(t)
	seedDuplicates(t, database)

	m := start(t, database)

	require.Len(t, m.groups, 1)
	assert.Len(t, m.groups[0].Members, 2)

	view := m.View()
	assert.Contains(t, view, "1 duplicate groups")
	assert.Contains(t, view, "Ann Lee")
}

func TestInitNoDuplicates(t *testing.T) {
	database := setupTestDB(t)
	seed(t, database, models.Contact{GivenName: "Solo"})

	m := start(t, database)

	assert.Empty(t, m.groups)
	assert.Contains(t, m.View(), "No duplicates found in 1 contacts")

	// Enter on an empty list stays put.
	m = press(t, m, "enter")
	assert.Equal(t, ViewList, m.viewMode)
}

func TestDetailShowsMergedPreview(t *testing.T) {
	database := setupTestDB(t)
	seedDuplicates(t, database)

	m := press(t, start(t, database), "enter")

	require.Equal(t, ViewDetail, m.viewMode)
	require.NotNil(t, m.plan)
	assert.Equal(t, []string{"(555) 123-4567"}, m.plan.Merged.Phones)
	assert.Equal(t, []string{"ann@x.com"}, m.plan.Merged.Emails)

	view := m.View()
	assert.Contains(t, view, "Merged result")
	assert.Contains(t, view, "ann@x.com")
}

func TestMergeFlow(t *testing.T) {
	database := setupTestDB(t)
	seedDuplicates(t, database)

	m := start(t, database)
	m = press(t, m, "enter")
	m = press(t, m, "m")
	require.Equal(t, ViewConfirmMerge, m.viewMode)
	assert.Contains(t, m.View(), "MERGE CONFIRMATION")

	m = press(t, m, "y")

	assert.Equal(t, ViewList, m.viewMode)
	assert.False(t, m.merging)
	assert.True(t, strings.HasPrefix(m.message, "✓ Merged group 1"), m.message)
	assert.Empty(t, m.groups)

	contacts, err := db.ListContacts(database)
	require.NoError(t, err)
	assert.Len(t, contacts, 2)
}

func TestMergeCancel(t *testing.T) {
	database := setupTestDB(t)
	seedDuplicates(t, database)

	m := start(t, database)
	m = press(t, m, "enter")
	m = press(t, m, "m")
	m = press(t, m, "n")
	assert.Equal(t, ViewDetail, m.viewMode)

	m = press(t, m, "esc")
	assert.Equal(t, ViewList, m.viewMode)
	assert.Len(t, m.groups, 1)

	contacts, err := db.ListContacts(database)
	require.NoError(t, err)
	assert.Len(t, contacts, 3)
}

func TestMergeFailureLeavesGroups(t *testing.T) {
	database := setupTestDB(t)
	seeded := seedDuplicates(t, database)

	m := start(t, database)
	m = press(t, m, "enter")
	m = press(t, m, "m")

	// Another writer removes a member after the preview.
	require.NoError(t, db.DeleteContact(database, seeded[2].ID))

	m = press(t, m, "y")

	assert.Equal(t, ViewList, m.viewMode)
	assert.True(t, strings.HasPrefix(m.message, "✗"), m.message)
	assert.Len(t, m.groups, 1)

	contacts, err := db.ListContacts(database)
	require.NoError(t, err)
	assert.Len(t, contacts, 2)
}

func TestHistoryUndo(t *testing.T) {
	database := setupTestDB(t)
	seedDuplicates(t, database)

	m := start(t, database)
	m = press(t, m, "enter")
	m = press(t, m, "m")
	m = press(t, m, "y")
	require.Empty(t, m.groups)

	m = press(t, m, "h")
	require.Equal(t, ViewHistory, m.viewMode)
	require.Len(t, m.merges, 1)
	assert.Contains(t, m.View(), "MERGE HISTORY")

	m = press(t, m, "u")

	assert.Equal(t, "✓ Restored 2 contacts", m.message)
	assert.Empty(t, m.merges)
	assert.Len(t, m.groups, 1)

	contacts, err := db.ListContacts(database)
	require.NoError(t, err)
	assert.Len(t, contacts, 3)
}

func TestGraphView(t *testing.T) {
	database := setupTestDB(t)
	seedDuplicates(t, database)

	m := press(t, start(t, database), "g")

	require.Equal(t, ViewGraph, m.viewMode)
	require.NoError(t, m.graphErr)
	assert.Contains(t, m.graphDOT, "phone:5551234567")

	m = press(t, m, "esc")
	assert.Equal(t, ViewList, m.viewMode)
}

func TestNavigationClamps(t *testing.T) {
	database := setupTestDB(t)
	seed(t, database,
		models.Contact{GivenName: "A", Emails: []string{"a@x.com"}},
		models.Contact{GivenName: "B", Emails: []string{"a@x.com"}},
		models.Contact{GivenName: "C", Emails: []string{"c@x.com"}},
		models.Contact{GivenName: "D", Emails: []string{"c@x.com"}},
	)

	m := start(t, database)
	require.Len(t, m.groups, 2)

	m = press(t, m, "up")
	assert.Equal(t, 0, m.selectedRow)
	m = press(t, m, "down")
	m = press(t, m, "down")
	assert.Equal(t, 1, m.selectedRow)
}
