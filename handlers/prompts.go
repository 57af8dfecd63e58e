// ABOUTME: MCP prompt handlers for duplicate review workflows
// ABOUTME: Builds prompts that walk an agent through reviewing and merging duplicates
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/harperreed/cleancontacts/db"
	"github.com/harperreed/cleancontacts/dedupe"
	"github.com/harperreed/cleancontacts/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type PromptHandlers struct {
	db *sql.DB
}

func NewPromptHandlers(database *sql.DB) *PromptHandlers {
	return &PromptHandlers{db: database}
}

// GetPrompt generates the prompt message based on the template
func (h *PromptHandlers) GetPrompt(ctx context.Context, request *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	switch request.Params.Name {
	case "review-duplicates":
		return h.getReviewDuplicatesPrompt()
	default:
		return nil, fmt.Errorf("unknown prompt: %s", request.Params.Name)
	}
}

func (h *PromptHandlers) getReviewDuplicatesPrompt() (*mcp.GetPromptResult, error) {
	records, err := db.ListContacts(h.db)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}
	groups := dedupe.Scan(records)

	byID := make(map[string]*models.Contact, len(records))
	for i := range records {
		byID[records[i].ID.String()] = &records[i]
	}

	var promptText strings.Builder
	if len(groups) == 0 {
		promptText.WriteString(fmt.Sprintf("The address book has %d contacts and no duplicates were found. Confirm this to the user.\n", len(records)))
	} else {
		promptText.WriteString("Please review these duplicate contact groups.\n\n")
		promptText.WriteString("Contacts were grouped because they share a name, phone number, or email address, ")
		promptText.WriteString("directly or through another member. For each group, decide whether the members are ")
		promptText.WriteString("really the same person. Be careful with groups that only share a name. ")
		promptText.WriteString("Merge confirmed groups with merge_contacts, passing the member IDs.\n\n")

		for i := range groups {
			g := &groups[i]
			promptText.WriteString(fmt.Sprintf("## Group %d (shared: %s)\n", i+1, strings.Join(keyStrings(g.Shared), ", ")))
			for _, id := range g.Members {
				c := byID[id.String()]
				promptText.WriteString(fmt.Sprintf("- %s [%s]", c.DisplayName(), id))
				if len(c.Phones) > 0 {
					promptText.WriteString(fmt.Sprintf(" phones: %s", strings.Join(c.Phones, ", ")))
				}
				if len(c.Emails) > 0 {
					promptText.WriteString(fmt.Sprintf(" emails: %s", strings.Join(c.Emails, ", ")))
				}
				promptText.WriteString("\n")
			}
			promptText.WriteString("\n")
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Review %d duplicate groups", len(groups)),
		Messages: []*mcp.PromptMessage{
			{
				Role: "user",
				Content: &mcp.TextContent{
					Text: promptText.String(),
				},
			},
		},
	}, nil
}
