// ABOUTME: Tests for applying merge plans from the merge command
// ABOUTME: Covers partial progress reporting when a later group fails
package cli

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/harperreed/cleancontacts/db"
	"github.com/harperreed/cleancontacts/dedupe"
	"github.com/harperreed/cleancontacts/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPlansReportsPartialProgress(t *testing.T) {
	database, err := db.OpenDatabase(filepath.Join(t.TempDir(), "contacts.db"))
	require.NoError(t, err)
	defer database.Close()

	for _, c := range []models.Contact{
		{GivenName: "Ann", Emails: []string{"ann@x.com"}},
		{GivenName: "Annie", Emails: []string{"ANN@x.com"}},
		{GivenName: "Bob", Phones: []string{"555-0100"}},
		{GivenName: "Robert", Phones: []string{"(555) 0100"}},
	} {
		c := c
		require.NoError(t, db.CreateContact(database, &c))
	}

	records, groups, err := loadScan(database)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	plans, err := dedupe.PlanAll(groups, records)
	require.NoError(t, err)

	// The second group goes stale after planning.
	require.NoError(t, db.DeleteContact(database, groups[1].Members[1]))

	a := &app{logger: log.New(io.Discard)}
	var out bytes.Buffer
	err = a.applyPlans(&out, database, []int{1, 2}, plans)

	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrStaleMerge)
	assert.Contains(t, err.Error(), "merged 1 of 2 groups; group 2 failed")
	assert.Contains(t, out.String(), "Merged group 1 into Ann")

	contacts, err := db.ListContacts(database)
	require.NoError(t, err)
	require.Len(t, contacts, 2)
	assert.Equal(t, "Bob", contacts[0].GivenName)
	assert.Equal(t, "Ann", contacts[1].GivenName)

	merges, err := db.ListMerges(database, 10)
	require.NoError(t, err)
	assert.Len(t, merges, 1)
}
