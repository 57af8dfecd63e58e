// ABOUTME: Canonical key derivation for duplicate detection
// ABOUTME: Normalizes names, phone numbers, and email addresses into comparison keys
package dedupe

import (
	"strings"

	"github.com/harperreed/cleancontacts/models"
)

// NameKey returns the normalized full name: given and family concatenated,
// trimmed, lowercased. Empty means the contact has no usable name.
func NameKey(given, family string) string {
	return strings.ToLower(strings.TrimSpace(given + family))
}

// PhoneDigits strips every non-digit character from a phone number.
func PhoneDigits(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// EmailKey converts an email address to lowercase for comparison.
// Nothing else is folded: whitespace, aliases, and plus-addresses stay as-is.
func EmailKey(email string) string {
	return strings.ToLower(email)
}

// CanonicalKeys derives the comparison keys for a contact: at most one name
// key, then phone keys and email keys in field order, without repeats.
// A contact with no keys is inert and never grouped.
func CanonicalKeys(c models.Contact) []models.CanonicalKey {
	var keys []models.CanonicalKey
	seen := make(map[models.CanonicalKey]struct{})

	add := func(kind models.KeyKind, value string) {
		if value == "" {
			return
		}
		key := models.NewCanonicalKey(kind, value)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	add(models.KeyName, NameKey(c.GivenName, c.FamilyName))
	for _, phone := range c.Phones {
		add(models.KeyPhone, PhoneDigits(phone))
	}
	for _, email := range c.Emails {
		add(models.KeyEmail, EmailKey(email))
	}

	return keys
}
