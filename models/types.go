// ABOUTME: Data models for contacts and duplicate cleanup
// ABOUTME: Defines Contact, CanonicalKey, DuplicateGroup, MergePlan, and sync bookkeeping structs
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Contact is a read-only snapshot of one record in the contact store.
type Contact struct {
	ID         uuid.UUID `json:"id"`
	GivenName  string    `json:"given_name,omitempty"`
	FamilyName string    `json:"family_name,omitempty"`
	Phones     []string  `json:"phones,omitempty"`
	Emails     []string  `json:"emails,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DisplayName joins given and family name for presentation.
func (c *Contact) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(c.GivenName) + " " + strings.TrimSpace(c.FamilyName))
	if name == "" {
		if len(c.Emails) > 0 {
			return c.Emails[0]
		}
		if len(c.Phones) > 0 {
			return c.Phones[0]
		}
		return "(no name)"
	}
	return name
}

// KeyKind identifies which contact field a canonical key was derived from.
type KeyKind string

const (
	KeyName  KeyKind = "name"
	KeyPhone KeyKind = "phone"
	KeyEmail KeyKind = "email"
)

// CanonicalKey is a tagged comparison key such as "phone:5551234567".
type CanonicalKey string

// NewCanonicalKey builds a key from its kind and normalized value.
func NewCanonicalKey(kind KeyKind, value string) CanonicalKey {
	return CanonicalKey(string(kind) + ":" + value)
}

// Kind returns the field the key was derived from.
func (k CanonicalKey) Kind() KeyKind {
	kind, _, _ := strings.Cut(string(k), ":")
	return KeyKind(kind)
}

// Value returns the normalized value without its tag.
func (k CanonicalKey) Value() string {
	_, value, _ := strings.Cut(string(k), ":")
	return value
}

// DuplicateGroup is a set of contacts transitively connected by shared keys.
// Members are ordered by input position, so Members[0] is the representative.
type DuplicateGroup struct {
	Members []uuid.UUID    `json:"members"`
	Keys    []CanonicalKey `json:"keys"`
	Shared  []CanonicalKey `json:"shared"`
}

// Representative returns the member whose names survive a merge.
func (g *DuplicateGroup) Representative() uuid.UUID {
	if len(g.Members) == 0 {
		return uuid.Nil
	}
	return g.Members[0]
}

// MergePlan is the consolidated record for a group plus the originals it retires.
// Merged has no ID; the store assigns one on insert.
type MergePlan struct {
	Merged         Contact     `json:"merged"`
	Delete         []uuid.UUID `json:"delete"`
	Representative uuid.UUID   `json:"representative"`
}

// MergeRecord is the history entry written when a merge plan is applied.
type MergeRecord struct {
	ID        string    `json:"id"`
	MergedID  uuid.UUID `json:"merged_id"`
	Originals []Contact `json:"originals"`
	AppliedAt time.Time `json:"applied_at"`
}

// Sync status constants.
const (
	SyncStatusIdle    = "idle"
	SyncStatusSyncing = "syncing"
	SyncStatusError   = "error"
)

type SyncState struct {
	Service       string     `json:"service"`
	LastSyncTime  *time.Time `json:"last_sync_time,omitempty"`
	LastSyncToken *string    `json:"last_sync_token,omitempty"`
	Status        string     `json:"status"`
	ErrorMessage  *string    `json:"error_message,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
