// ABOUTME: Google Contacts importer
// ABOUTME: Pages through People API connections and stores each person as a contact
package sync

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harperreed/cleancontacts/db"
	"github.com/harperreed/cleancontacts/models"
	"google.golang.org/api/people/v1"
)

// ContactsService is the sync_state / sync_log key for Google Contacts.
const ContactsService = "contacts"

// ImportStats summarizes one import run.
type ImportStats struct {
	Fetched  int
	Imported int
	Skipped  int
	Failed   int
}

// ImportContacts fetches every connection and stores the ones not seen before.
// Duplicates are stored as-is; finding them is the scan's job.
func ImportContacts(ctx context.Context, database *sql.DB, lister ConnectionLister, logger *log.Logger) (*ImportStats, error) {
	if logger == nil {
		logger = log.Default()
	}

	if err := db.UpdateSyncStatus(database, ContactsService, models.SyncStatusSyncing, nil); err != nil {
		return nil, fmt.Errorf("failed to update sync status: %w", err)
	}

	stats := &ImportStats{}
	pageToken := ""

	for {
		response, err := lister.ListConnections(ctx, pageToken)
		if err != nil {
			errMsg := fmt.Sprintf("failed to fetch contacts: %v", err)
			_ = db.UpdateSyncStatus(database, ContactsService, models.SyncStatusError, &errMsg)
			return stats, fmt.Errorf("failed to fetch contacts: %w", err)
		}

		if response == nil {
			break
		}

		stats.Fetched += len(response.Connections)

		for _, person := range response.Connections {
			if person == nil {
				continue
			}
			if err := importPerson(database, person, stats); err != nil {
				stats.Failed++
				logger.Warn("failed to import contact", "resource", person.ResourceName, "err", err)
			}
		}

		pageToken = response.NextPageToken
		if pageToken == "" {
			break
		}

		logger.Debug("fetched page", "fetched", stats.Fetched, "imported", stats.Imported)
	}

	if err := db.UpdateSyncToken(database, ContactsService, ""); err != nil {
		return stats, fmt.Errorf("failed to update sync status: %w", err)
	}

	logger.Info("contacts import finished",
		"fetched", stats.Fetched, "imported", stats.Imported, "skipped", stats.Skipped, "failed", stats.Failed)

	return stats, nil
}

func importPerson(database *sql.DB, person *people.Person, stats *ImportStats) error {
	contact := convertPerson(person)
	if isInert(contact) {
		stats.Skipped++
		return nil
	}

	if person.ResourceName != "" {
		exists, err := db.CheckSyncLogExists(database, ContactsService, person.ResourceName)
		if err != nil {
			return err
		}
		if exists {
			stats.Skipped++
			return nil
		}
	}

	if err := db.CreateContact(database, contact); err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	if person.ResourceName != "" {
		if err := db.CreateSyncLog(database, ContactsService, person.ResourceName, "contact", contact.ID); err != nil {
			return err
		}
	}

	stats.Imported++
	return nil
}

// convertPerson converts a People API Person to a Contact, keeping every
// non-blank phone number and email address in the order Google returns them.
func convertPerson(person *people.Person) *models.Contact {
	contact := &models.Contact{}

	if len(person.Names) > 0 && person.Names[0] != nil {
		name := person.Names[0]
		contact.GivenName = strings.TrimSpace(name.GivenName)
		contact.FamilyName = strings.TrimSpace(name.FamilyName)
		if contact.GivenName == "" && contact.FamilyName == "" {
			contact.GivenName = strings.TrimSpace(name.DisplayName)
		}
	}

	for _, phone := range person.PhoneNumbers {
		if phone != nil && strings.TrimSpace(phone.Value) != "" {
			contact.Phones = append(contact.Phones, phone.Value)
		}
	}

	for _, email := range person.EmailAddresses {
		if email != nil && strings.TrimSpace(email.Value) != "" {
			contact.Emails = append(contact.Emails, email.Value)
		}
	}

	return contact
}

func isInert(c *models.Contact) bool {
	return c.GivenName == "" && c.FamilyName == "" && len(c.Phones) == 0 && len(c.Emails) == 0
}
