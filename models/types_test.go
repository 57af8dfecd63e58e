// ABOUTME: Tests for contact data models
// ABOUTME: Validates canonical key helpers, display names, and group representatives
package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestCanonicalKeyParts(t *testing.T) {
	tests := []struct {
		key   CanonicalKey
		kind  KeyKind
		value string
	}{
		{NewCanonicalKey(KeyName, "jo lee"), KeyName, "jo lee"},
		{NewCanonicalKey(KeyPhone, "5551234567"), KeyPhone, "5551234567"},
		{NewCanonicalKey(KeyEmail, "a:b@x.com"), KeyEmail, "a:b@x.com"},
	}

	for _, tt := range tests {
		if tt.key.Kind() != tt.kind {
			t.Errorf("%q.Kind() = %q, want %q", tt.key, tt.key.Kind(), tt.kind)
		}
		if tt.key.Value() != tt.value {
			t.Errorf("%q.Value() = %q, want %q", tt.key, tt.key.Value(), tt.value)
		}
	}
}

func TestContactDisplayName(t *testing.T) {
	tests := []struct {
		contact  Contact
		expected string
	}{
		{Contact{GivenName: "Jo", FamilyName: "Lee"}, "Jo Lee"},
		{Contact{GivenName: " Jo "}, "Jo"},
		{Contact{FamilyName: "Lee"}, "Lee"},
		{Contact{Emails: []string{"jo@example.com"}}, "jo@example.com"},
		{Contact{Phones: []string{"555-1234"}}, "555-1234"},
		{Contact{}, "(no name)"},
	}

	for _, tt := range tests {
		if got := tt.contact.DisplayName(); got != tt.expected {
			t.Errorf("DisplayName() = %q, want %q", got, tt.expected)
		}
	}
}

func TestDuplicateGroupRepresentative(t *testing.T) {
	first := uuid.New()
	group := DuplicateGroup{Members: []uuid.UUID{first, uuid.New()}}

	if group.Representative() != first {
		t.Errorf("expected representative %s, got %s", first, group.Representative())
	}

	empty := DuplicateGroup{}
	if empty.Representative() != uuid.Nil {
		t.Errorf("expected nil representative for empty group, got %s", empty.Representative())
	}
}
