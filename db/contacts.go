// ABOUTME: Contact database operations
// ABOUTME: Handles CRUD operations and ordered phone/email child rows
package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/cleancontacts/models"
)

const (
	phonesTable = "contact_phones"
	emailsTable = "contact_emails"
)

func CreateContact(db *sql.DB, contact *models.Contact) error {
	contact.ID = uuid.New()
	now := time.Now()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	if err := insertContact(tx, contact); err != nil {
		return err
	}

	return tx.Commit()
}

// insertContact writes a contact row and its ordered phones and emails as-is,
// including the ID and timestamps already set on it.
func insertContact(q queryer, contact *models.Contact) error {
	_, err := q.Exec(`
		INSERT INTO contacts (id, given_name, family_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, contact.ID.String(), contact.GivenName, contact.FamilyName, contact.CreatedAt, contact.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert contact: %w", err)
	}

	if err := insertValues(q, phonesTable, contact.ID, contact.Phones); err != nil {
		return err
	}
	return insertValues(q, emailsTable, contact.ID, contact.Emails)
}

func insertValues(q queryer, table string, contactID uuid.UUID, values []string) error {
	for i, value := range values {
		_, err := q.Exec(`INSERT INTO `+table+` (contact_id, position, value) VALUES (?, ?, ?)`,
			contactID.String(), i, value)
		if err != nil {
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
	}
	return nil
}

func GetContact(db *sql.DB, id uuid.UUID) (*models.Contact, error) {
	return getContact(db, id)
}

func getContact(q queryer, id uuid.UUID) (*models.Contact, error) {
	contact := &models.Contact{}

	err := q.QueryRow(`
		SELECT id, given_name, family_name, created_at, updated_at
		FROM contacts WHERE id = ?
	`, id.String()).Scan(
		&contact.ID,
		&contact.GivenName,
		&contact.FamilyName,
		&contact.CreatedAt,
		&contact.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	contacts := []models.Contact{*contact}
	if err := attachValues(q, contacts, id.String()); err != nil {
		return nil, err
	}

	return &contacts[0], nil
}

// ListContacts returns every contact in creation order. This is the input
// order the duplicate scan relies on for choosing representatives.
func ListContacts(db *sql.DB) ([]models.Contact, error) {
	rows, err := db.Query(`
		SELECT id, given_name, family_name, created_at, updated_at
		FROM contacts
		ORDER BY created_at, rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}

	contacts, err := scanContacts(rows)
	if err != nil {
		return nil, err
	}

	if err := attachValues(db, contacts, ""); err != nil {
		return nil, err
	}

	return contacts, nil
}

// FindContacts searches names, emails, and phone numbers, newest first. With
// no query it lists contacts alphabetically by given then family name.
func FindContacts(db *sql.DB, query string, limit int) ([]models.Contact, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows *sql.Rows
	var err error

	if query != "" {
		searchPattern := "%" + strings.ToLower(query) + "%"
		rows, err = db.Query(`
			SELECT id, given_name, family_name, created_at, updated_at
			FROM contacts c
			WHERE LOWER(c.given_name || ' ' || c.family_name) LIKE ?
				OR EXISTS (SELECT 1 FROM contact_emails e WHERE e.contact_id = c.id AND LOWER(e.value) LIKE ?)
				OR EXISTS (SELECT 1 FROM contact_phones p WHERE p.contact_id = c.id AND p.value LIKE ?)
			ORDER BY created_at DESC
			LIMIT ?
		`, searchPattern, searchPattern, searchPattern, limit)
	} else {
		rows, err = db.Query(`
			SELECT id, given_name, family_name, created_at, updated_at
			FROM contacts
			ORDER BY LOWER(given_name || family_name), created_at, rowid
			LIMIT ?
		`, limit)
	}

	if err != nil {
		return nil, err
	}

	contacts, err := scanContacts(rows)
	if err != nil {
		return nil, err
	}

	for i := range contacts {
		if err := attachValues(db, contacts[i:i+1], contacts[i].ID.String()); err != nil {
			return nil, err
		}
	}

	return contacts, nil
}

func scanContacts(rows *sql.Rows) ([]models.Contact, error) {
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.GivenName, &c.FamilyName, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}

	return contacts, rows.Err()
}

// attachValues fills Phones and Emails for contacts. When contactID is set
// only that contact's rows are read.
func attachValues(q queryer, contacts []models.Contact, contactID string) error {
	phones, err := loadValues(q, phonesTable, contactID)
	if err != nil {
		return err
	}
	emails, err := loadValues(q, emailsTable, contactID)
	if err != nil {
		return err
	}

	for i := range contacts {
		id := contacts[i].ID.String()
		contacts[i].Phones = phones[id]
		contacts[i].Emails = emails[id]
	}
	return nil
}

func loadValues(q queryer, table, contactID string) (map[string][]string, error) {
	var rows *sql.Rows
	var err error

	if contactID != "" {
		rows, err = q.Query(`SELECT contact_id, value FROM `+table+` WHERE contact_id = ? ORDER BY position`, contactID)
	} else {
		rows, err = q.Query(`SELECT contact_id, value FROM ` + table + ` ORDER BY contact_id, position`)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", table, err)
	}
	defer rows.Close()

	values := make(map[string][]string)
	for rows.Next() {
		var id, value string
		if err := rows.Scan(&id, &value); err != nil {
			return nil, err
		}
		values[id] = append(values[id], value)
	}

	return values, rows.Err()
}

func DeleteContact(db *sql.DB, id uuid.UUID) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	deleted, err := deleteContact(tx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("contact not found: %s", id)
	}

	return tx.Commit()
}

// deleteContact removes a contact and its child rows, reporting whether it existed.
func deleteContact(q queryer, id uuid.UUID) (bool, error) {
	for _, table := range []string{phonesTable, emailsTable} {
		if _, err := q.Exec(`DELETE FROM `+table+` WHERE contact_id = ?`, id.String()); err != nil {
			return false, fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}

	result, err := q.Exec(`DELETE FROM contacts WHERE id = ?`, id.String())
	if err != nil {
		return false, fmt.Errorf("failed to delete contact: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete contact: %w", err)
	}

	return n > 0, nil
}
