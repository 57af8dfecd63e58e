// ABOUTME: MCP resource handlers for exposing contact data
// ABOUTME: Provides read-only access to contacts, duplicate groups, and merge history via URI
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/harperreed/cleancontacts/db"
	"github.com/harperreed/cleancontacts/dedupe"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const resourceScheme = "cleancontacts://"

type ResourceHandlers struct {
	db *sql.DB
}

func NewResourceHandlers(database *sql.DB) *ResourceHandlers {
	return &ResourceHandlers{db: database}
}

// ReadResource handles resource read requests
func (h *ResourceHandlers) ReadResource(ctx context.Context, request *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := request.Params.URI
	if !strings.HasPrefix(uri, resourceScheme) {
		return nil, fmt.Errorf("invalid URI scheme: expected %s", resourceScheme)
	}

	path := strings.TrimPrefix(uri, resourceScheme)
	parts := strings.Split(path, "/")

	switch parts[0] {
	case "contacts":
		if len(parts) == 1 {
			return h.readAllContacts(uri)
		}
		return h.readContact(uri, parts[1])

	case "duplicates":
		return h.readDuplicates(uri)

	case "merges":
		return h.readMerges(uri)

	default:
		return nil, fmt.Errorf("unknown resource: %s", parts[0])
	}
}

func (h *ResourceHandlers) readAllContacts(uri string) (*mcp.ReadResourceResult, error) {
	contacts, err := db.ListContacts(h.db)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}

	return jsonResource(uri, contacts)
}

func (h *ResourceHandlers) readContact(uri, idStr string) (*mcp.ReadResourceResult, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid contact ID: %w", err)
	}

	contact, err := db.GetContact(h.db, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contact: %w", err)
	}
	if contact == nil {
		return nil, fmt.Errorf("contact not found: %s", idStr)
	}

	return jsonResource(uri, contact)
}

func (h *ResourceHandlers) readDuplicates(uri string) (*mcp.ReadResourceResult, error) {
	records, err := db.ListContacts(h.db)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}

	return jsonResource(uri, dedupe.Scan(records))
}

func (h *ResourceHandlers) readMerges(uri string) (*mcp.ReadResourceResult, error) {
	merges, err := db.ListMerges(h.db, 100)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch merges: %w", err)
	}

	return jsonResource(uri, merges)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}

	return &mcp.ReadResourceResult{Contents: []*mcp.ResourceContents{
		{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}}, nil
}
