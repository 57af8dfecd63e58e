// ABOUTME: Tests for contact MCP tool handlers
// ABOUTME: Validates tool input/output and error handling
package handlers

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/harperreed/cleancontacts/db"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestAddContactHandler(t *testing.T) {
	database := setupTestDB(t)
	handler := NewContactHandlers(database)

	_, out, err := handler.AddContact(context.Background(), nil, AddContactInput{
		GivenName:  "John",
		FamilyName: "Doe",
		Phones:     []string{"555-1234", "  "},
		Emails:     []string{"john@example.com"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "John Doe", out.Name)
	assert.Equal(t, []string{"555-1234"}, out.Phones)
	assert.Equal(t, []string{"john@example.com"}, out.Emails)

	id, err := uuid.Parse(out.ID)
	require.NoError(t, err)
	stored, err := db.GetContact(database, id)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "John", stored.GivenName)
}

func TestAddContactRequiresSomething(t *testing.T) {
	handler := NewContactHandlers(setupTestDB(t))

	_, _, err := handler.AddContact(context.Background(), nil, AddContactInput{Phones: []string{" "}})
	assert.Error(t, err)
}

func TestFindContactsHandler(t *testing.T) {
	database := setupTestDB(t)
	handler := NewContactHandlers(database)
	ctx := context.Background()

	_, _, err := handler.AddContact(ctx, nil, AddContactInput{GivenName: "Alice", Emails: []string{"alice@example.com"}})
	require.NoError(t, err)
	_, _, err = handler.AddContact(ctx, nil, AddContactInput{GivenName: "Bob", Phones: []string{"555-0000"}})
	require.NoError(t, err)

	_, out, err := handler.FindContacts(ctx, nil, FindContactsInput{Query: "alice"})
	require.NoError(t, err)
	require.Len(t, out.Contacts, 1)
	assert.Equal(t, "Alice", out.Contacts[0].Name)

	_, out, err = handler.FindContacts(ctx, nil, FindContactsInput{Query: "555-0000"})
	require.NoError(t, err)
	require.Len(t, out.Contacts, 1)
	assert.Equal(t, "Bob", out.Contacts[0].Name)

	_, out, err = handler.FindContacts(ctx, nil, FindContactsInput{})
	require.NoError(t, err)
	assert.Len(t, out.Contacts, 2)
}

func TestDeleteContactHandler(t *testing.T) {
	database := setupTestDB(t)
	handler := NewContactHandlers(database)
	ctx := context.Background()

	_, added, err := handler.AddContact(ctx, nil, AddContactInput{GivenName: "Gone"})
	require.NoError(t, err)

	_, out, err := handler.DeleteContact(ctx, nil, DeleteContactInput{ID: added.ID})
	require.NoError(t, err)
	assert.True(t, out.Deleted)

	_, _, err = handler.DeleteContact(ctx, nil, DeleteContactInput{ID: added.ID})
	assert.Error(t, err)

	_, _, err = handler.DeleteContact(ctx, nil, DeleteContactInput{ID: "not-a-uuid"})
	assert.Error(t, err)
}
