// ABOUTME: Applies merge plans against the contact store and keeps merge history
// ABOUTME: Insert-then-delete in one transaction, with snapshot-based undo
package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/cleancontacts/models"
	"github.com/oklog/ulid/v2"
)

// ErrStaleMerge is returned when the store no longer matches what a merge or
// undo expects. Nothing is written in that case.
var ErrStaleMerge = errors.New("contacts changed since the merge was planned")

// ApplyMergePlan inserts the merged contact and retires the originals in a
// single transaction. The insert always precedes the deletes, and if any
// original is already gone the whole transaction is rolled back.
func ApplyMergePlan(db *sql.DB, plan models.MergePlan) (*models.Contact, *models.MergeRecord, error) {
	if len(plan.Delete) == 0 {
		return nil, nil, fmt.Errorf("merge plan has no contacts to retire")
	}

	tx, err := db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	now := time.Now()
	merged := plan.Merged
	merged.ID = uuid.New()
	merged.CreatedAt = now
	merged.UpdatedAt = now
	merged.Phones = append([]string(nil), plan.Merged.Phones...)
	merged.Emails = append([]string(nil), plan.Merged.Emails...)

	if err := insertContact(tx, &merged); err != nil {
		return nil, nil, fmt.Errorf("failed to insert merged contact: %w", err)
	}

	originals := make([]models.Contact, 0, len(plan.Delete))
	for _, id := range plan.Delete {
		original, err := getContact(tx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load contact %s: %w", id, err)
		}
		if original == nil {
			return nil, nil, fmt.Errorf("%w: contact %s no longer exists", ErrStaleMerge, id)
		}
		originals = append(originals, *original)

		if _, err := deleteContact(tx, id); err != nil {
			return nil, nil, err
		}
	}

	record := &models.MergeRecord{
		ID:        ulid.Make().String(),
		MergedID:  merged.ID,
		Originals: originals,
		AppliedAt: now,
	}

	snapshot, err := json.Marshal(record.Originals)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode merge snapshot: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO merge_log (id, merged_id, originals, applied_at)
		VALUES (?, ?, ?, ?)
	`, record.ID, record.MergedID.String(), string(snapshot), record.AppliedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to record merge: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit merge: %w", err)
	}

	return &merged, record, nil
}

// ListMerges returns the most recent merges first.
func ListMerges(db *sql.DB, limit int) ([]models.MergeRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT id, merged_id, originals, applied_at
		FROM merge_log
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list merges: %w", err)
	}
	defer rows.Close()

	var records []models.MergeRecord
	for rows.Next() {
		record, err := scanMergeRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	return records, rows.Err()
}

// GetMerge returns a merge record, or nil when no such merge exists.
func GetMerge(db *sql.DB, id string) (*models.MergeRecord, error) {
	return getMerge(db, id)
}

func getMerge(q queryer, id string) (*models.MergeRecord, error) {
	record, err := scanMergeRecord(q.QueryRow(`
		SELECT id, merged_id, originals, applied_at
		FROM merge_log WHERE id = ?
	`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return record, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMergeRecord(row rowScanner) (*models.MergeRecord, error) {
	var record models.MergeRecord
	var snapshot string

	if err := row.Scan(&record.ID, &record.MergedID, &snapshot, &record.AppliedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(snapshot), &record.Originals); err != nil {
		return nil, fmt.Errorf("failed to decode merge snapshot %s: %w", record.ID, err)
	}

	return &record, nil
}

// UndoMerge restores the originals of a merge under their old IDs and removes
// the merged contact. It fails with ErrStaleMerge if the merged contact is
// gone or an original ID has been reused.
func UndoMerge(db *sql.DB, id string) (*models.MergeRecord, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	record, err := getMerge(tx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load merge: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("merge not found: %s", id)
	}

	for i := range record.Originals {
		existing, err := getContact(tx, record.Originals[i].ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check contact %s: %w", record.Originals[i].ID, err)
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: contact %s already exists", ErrStaleMerge, record.Originals[i].ID)
		}
		if err := insertContact(tx, &record.Originals[i]); err != nil {
			return nil, fmt.Errorf("failed to restore contact: %w", err)
		}
	}

	deleted, err := deleteContact(tx, record.MergedID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, fmt.Errorf("%w: merged contact %s no longer exists", ErrStaleMerge, record.MergedID)
	}

	if _, err := tx.Exec(`DELETE FROM merge_log WHERE id = ?`, record.ID); err != nil {
		return nil, fmt.Errorf("failed to remove merge record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit undo: %w", err)
	}

	return record, nil
}
