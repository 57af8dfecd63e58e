// ABOUTME: Tests for contact database operations
// ABOUTME: Verifies ordered phone/email storage, listing order, search, and deletion
package db

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/cleancontacts/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetContact(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	contact := &models.Contact{
		GivenName:  "Jo",
		FamilyName: "Lee",
		Phones:     []string{"(555) 123-4567", "555.000.1111"},
		Emails:     []string{"Jo@Lee.com"},
	}
	require.NoError(t, CreateContact(db, contact))
	assert.NotEqual(t, uuid.Nil, contact.ID)
	assert.False(t, contact.CreatedAt.IsZero())

	got, err := GetContact(db, contact.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, contact.ID, got.ID)
	assert.Equal(t, "Jo", got.GivenName)
	assert.Equal(t, "Lee", got.FamilyName)
	assert.Equal(t, []string{"(555) 123-4567", "555.000.1111"}, got.Phones)
	assert.Equal(t, []string{"Jo@Lee.com"}, got.Emails)
}

func TestGetContactNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	got, err := GetContact(db, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListContactsCreationOrder(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	names := []string{"Zed", "Amy", "Mo"}
	for _, name := range names {
		require.NoError(t, CreateContact(db, &models.Contact{GivenName: name, Phones: []string{name + "-1"}}))
		time.Sleep(2 * time.Millisecond)
	}

	contacts, err := ListContacts(db)
	require.NoError(t, err)
	require.Len(t, contacts, 3)

	for i, name := range names {
		assert.Equal(t, name, contacts[i].GivenName)
		assert.Equal(t, []string{name + "-1"}, contacts[i].Phones)
		assert.Empty(t, contacts[i].Emails)
	}
}

func TestListContactsEmpty(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	contacts, err := ListContacts(db)
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestFindContacts(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	require.NoError(t, CreateContact(db, &models.Contact{GivenName: "Alice", FamilyName: "Smith", Emails: []string{"alice@example.com"}}))
	require.NoError(t, CreateContact(db, &models.Contact{GivenName: "Bob", Phones: []string{"555-9999"}}))
	require.NoError(t, CreateContact(db, &models.Contact{GivenName: "Carol", Emails: []string{"carol@other.org"}}))

	byName, err := FindContacts(db, "alice smith", 10)
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, []string{"alice@example.com"}, byName[0].Emails)

	byEmail, err := FindContacts(db, "OTHER.ORG", 10)
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, "Carol", byEmail[0].GivenName)

	byPhone, err := FindContacts(db, "9999", 10)
	require.NoError(t, err)
	require.Len(t, byPhone, 1)
	assert.Equal(t, "Bob", byPhone[0].GivenName)

	all, err := FindContacts(db, "", 2)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFindContactsListsAlphabetically(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	for _, c := range []models.Contact{
		{GivenName: "carol"},
		{GivenName: "Bob", FamilyName: "Zed"},
		{GivenName: "Bob", FamilyName: "adams"},
		{Emails: []string{"nameless@x.com"}},
		{GivenName: "Alice"},
	} {
		c := c
		require.NoError(t, CreateContact(db, &c))
	}

	all, err := FindContacts(db, "", 10)
	require.NoError(t, err)

	names := make([]string, len(all))
	for i := range all {
		names[i] = all[i].DisplayName()
	}
	assert.Equal(t, []string{"nameless@x.com", "Alice", "Bob adams", "Bob Zed", "carol"}, names)
}

func TestDeleteContact(t *testing.T) {
	db := setupTestDB(t)
	defer func() { _ = db.Close() }()

	contact := &models.Contact{GivenName: "Gone", Phones: []string{"1"}, Emails: []string{"g@x.com"}}
	require.NoError(t, CreateContact(db, contact))

	require.NoError(t, DeleteContact(db, contact.ID))

	got, err := GetContact(db, contact.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM contact_phones").Scan(&count))
	assert.Zero(t, count)

	assert.Error(t, DeleteContact(db, contact.ID))
}
