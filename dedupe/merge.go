// ABOUTME: Merge planning for duplicate groups
// ABOUTME: Builds one consolidated contact plus the list of originals to retire
package dedupe

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/cleancontacts/models"
)

// ErrGroupTooSmall is returned when a group has fewer than two distinct members.
var ErrGroupTooSmall = errors.New("duplicate group needs at least two members")

// ConsistencyError reports group members that are absent from the supplied
// records, typically because the store changed after the scan.
type ConsistencyError struct {
	Missing []uuid.UUID
}

func (e *ConsistencyError) Error() string {
	ids := make([]string, len(e.Missing))
	for i, id := range e.Missing {
		ids[i] = id.String()
	}
	return fmt.Sprintf("merge references %d contact(s) not in the record set: %s",
		len(e.Missing), strings.Join(ids, ", "))
}

// PlanMerge synthesizes the merged contact for a group. The representative is
// the member appearing first in records; its names are copied verbatim.
// Phones and emails are the deduplicated union of all members, representative
// first, keeping the formatting of the first occurrence. Every member,
// representative included, is scheduled for deletion.
func PlanMerge(group models.DuplicateGroup, records []models.Contact) (models.MergePlan, error) {
	position := make(map[uuid.UUID]int, len(records))
	for i := range records {
		if _, ok := position[records[i].ID]; !ok {
			position[records[i].ID] = i
		}
	}

	members := make([]uuid.UUID, 0, len(group.Members))
	seen := make(map[uuid.UUID]struct{}, len(group.Members))
	var missing []uuid.UUID
	for _, id := range group.Members {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := position[id]; !ok {
			missing = append(missing, id)
			continue
		}
		members = append(members, id)
	}

	if len(missing) > 0 {
		return models.MergePlan{}, &ConsistencyError{Missing: missing}
	}
	if len(members) < 2 {
		return models.MergePlan{}, ErrGroupTooSmall
	}

	rep := members[0]
	for _, id := range members[1:] {
		if position[id] < position[rep] {
			rep = id
		}
	}

	// Representative first, then the rest in group order.
	ordered := make([]models.Contact, 0, len(members))
	ordered = append(ordered, records[position[rep]])
	for _, id := range members {
		if id != rep {
			ordered = append(ordered, records[position[id]])
		}
	}

	representative := records[position[rep]]
	merged := models.Contact{
		GivenName:  representative.GivenName,
		FamilyName: representative.FamilyName,
	}

	phones := newUnion(func(phone string) string {
		if digits := PhoneDigits(phone); digits != "" {
			return digits
		}
		if raw := strings.TrimSpace(phone); raw != "" {
			return "raw:" + raw
		}
		return ""
	})
	emails := newUnion(EmailKey)
	for _, c := range ordered {
		for _, phone := range c.Phones {
			phones.add(phone)
		}
		for _, email := range c.Emails {
			emails.add(email)
		}
	}
	merged.Phones = phones.values
	merged.Emails = emails.values

	return models.MergePlan{
		Merged:         merged,
		Delete:         members,
		Representative: rep,
	}, nil
}

// union collects values in first-seen order, deduplicated by a comparison key.
// Values whose key is empty are dropped.
type union struct {
	keyOf  func(string) string
	seen   map[string]struct{}
	values []string
}

func newUnion(keyOf func(string) string) *union {
	return &union{keyOf: keyOf, seen: make(map[string]struct{})}
}

func (u *union) add(value string) {
	key := u.keyOf(value)
	if key == "" {
		return
	}
	if _, ok := u.seen[key]; ok {
		return
	}
	u.seen[key] = struct{}{}
	u.values = append(u.values, value)
}
