// ABOUTME: Contact MCP tool handlers
// ABOUTME: Implements add_contact, find_contacts, and delete_contact tools
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/cleancontacts/db"
	"github.com/harperreed/cleancontacts/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ContactHandlers struct {
	db *sql.DB
}

func NewContactHandlers(database *sql.DB) *ContactHandlers {
	return &ContactHandlers{db: database}
}

type AddContactInput struct {
	GivenName  string   `json:"given_name,omitempty" jsonschema:"Given (first) name"`
	FamilyName string   `json:"family_name,omitempty" jsonschema:"Family (last) name"`
	Phones     []string `json:"phones,omitempty" jsonschema:"Phone numbers in any format"`
	Emails     []string `json:"emails,omitempty" jsonschema:"Email addresses"`
}

type ContactOutput struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	GivenName  string   `json:"given_name,omitempty"`
	FamilyName string   `json:"family_name,omitempty"`
	Phones     []string `json:"phones,omitempty"`
	Emails     []string `json:"emails,omitempty"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
}

func (h *ContactHandlers) AddContact(_ context.Context, request *mcp.CallToolRequest, input AddContactInput) (*mcp.CallToolResult, ContactOutput, error) {
	contact := &models.Contact{
		GivenName:  strings.TrimSpace(input.GivenName),
		FamilyName: strings.TrimSpace(input.FamilyName),
		Phones:     nonBlank(input.Phones),
		Emails:     nonBlank(input.Emails),
	}

	if contact.GivenName == "" && contact.FamilyName == "" && len(contact.Phones) == 0 && len(contact.Emails) == 0 {
		return nil, ContactOutput{}, fmt.Errorf("a contact needs a name, phone, or email")
	}

	if err := db.CreateContact(h.db, contact); err != nil {
		return nil, ContactOutput{}, fmt.Errorf("failed to create contact: %w", err)
	}

	return nil, contactToOutput(contact), nil
}

type FindContactsInput struct {
	Query string `json:"query,omitempty" jsonschema:"Search query (searches name, email, and phone)"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of results (default 10)"`
}

type FindContactsOutput struct {
	Contacts []ContactOutput `json:"contacts"`
}

func (h *ContactHandlers) FindContacts(_ context.Context, request *mcp.CallToolRequest, input FindContactsInput) (*mcp.CallToolResult, FindContactsOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = 10
	}

	contacts, err := db.FindContacts(h.db, input.Query, limit)
	if err != nil {
		return nil, FindContactsOutput{}, fmt.Errorf("failed to find contacts: %w", err)
	}

	result := make([]ContactOutput, len(contacts))
	for i := range contacts {
		result[i] = contactToOutput(&contacts[i])
	}

	return nil, FindContactsOutput{Contacts: result}, nil
}

type DeleteContactInput struct {
	ID string `json:"id" jsonschema:"Contact ID (required)"`
}

type DeleteContactOutput struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

func (h *ContactHandlers) DeleteContact(_ context.Context, request *mcp.CallToolRequest, input DeleteContactInput) (*mcp.CallToolResult, DeleteContactOutput, error) {
	if input.ID == "" {
		return nil, DeleteContactOutput{}, fmt.Errorf("id is required")
	}

	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, DeleteContactOutput{}, fmt.Errorf("invalid id: %w", err)
	}

	if err := db.DeleteContact(h.db, id); err != nil {
		return nil, DeleteContactOutput{}, fmt.Errorf("failed to delete contact: %w", err)
	}

	return nil, DeleteContactOutput{ID: id.String(), Deleted: true}, nil
}

func contactToOutput(contact *models.Contact) ContactOutput {
	return ContactOutput{
		ID:         contact.ID.String(),
		Name:       contact.DisplayName(),
		GivenName:  contact.GivenName,
		FamilyName: contact.FamilyName,
		Phones:     contact.Phones,
		Emails:     contact.Emails,
		CreatedAt:  contact.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  contact.UpdatedAt.Format(time.RFC3339),
	}
}

func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("invalid contact id %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
