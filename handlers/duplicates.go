// ABOUTME: Duplicate detection and merge MCP tool handlers
// ABOUTME: Implements scan_duplicates, preview_merge, merge_contacts, merge_history, and undo_merge
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/cleancontacts/db"
	"github.com/harperreed/cleancontacts/dedupe"
	"github.com/harperreed/cleancontacts/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type DuplicateHandlers struct {
	db *sql.DB
}

func NewDuplicateHandlers(database *sql.DB) *DuplicateHandlers {
	return &DuplicateHandlers{db: database}
}

type ScanDuplicatesInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of groups to return (default all)"`
}

type GroupOutput struct {
	Number  int             `json:"number"`
	Members []ContactOutput `json:"members"`
	Shared  []string        `json:"shared"`
}

type ScanDuplicatesOutput struct {
	Summary dedupe.Summary `json:"summary"`
	Groups  []GroupOutput  `json:"groups"`
}

func (h *DuplicateHandlers) ScanDuplicates(_ context.Context, request *mcp.CallToolRequest, input ScanDuplicatesInput) (*mcp.CallToolResult, ScanDuplicatesOutput, error) {
	records, err := db.ListContacts(h.db)
	if err != nil {
		return nil, ScanDuplicatesOutput{}, fmt.Errorf("failed to read contacts: %w", err)
	}

	groups := dedupe.Scan(records)
	output := ScanDuplicatesOutput{
		Summary: dedupe.Summarize(groups),
		Groups:  []GroupOutput{},
	}

	byID := make(map[string]*models.Contact, len(records))
	for i := range records {
		byID[records[i].ID.String()] = &records[i]
	}

	for i := range groups {
		if input.Limit > 0 && i >= input.Limit {
			break
		}
		group := GroupOutput{Number: i + 1, Shared: keyStrings(groups[i].Shared)}
		for _, id := range groups[i].Members {
			group.Members = append(group.Members, contactToOutput(byID[id.String()]))
		}
		output.Groups = append(output.Groups, group)
	}

	return nil, output, nil
}

type MergeInput struct {
	ContactIDs []string `json:"contact_ids" jsonschema:"IDs of the contacts to merge (at least two)"`
}

type PreviewMergeOutput struct {
	Merged         ContactOutput `json:"merged"`
	Representative string        `json:"representative"`
	Delete         []string      `json:"delete"`
}

func (h *DuplicateHandlers) PreviewMerge(_ context.Context, request *mcp.CallToolRequest, input MergeInput) (*mcp.CallToolResult, PreviewMergeOutput, error) {
	plan, err := h.plan(input)
	if err != nil {
		return nil, PreviewMergeOutput{}, err
	}

	return nil, planToOutput(plan), nil
}

type MergeContactsOutput struct {
	MergeID string        `json:"merge_id"`
	Merged  ContactOutput `json:"merged"`
	Deleted []string      `json:"deleted"`
}

func (h *DuplicateHandlers) MergeContacts(_ context.Context, request *mcp.CallToolRequest, input MergeInput) (*mcp.CallToolResult, MergeContactsOutput, error) {
	plan, err := h.plan(input)
	if err != nil {
		return nil, MergeContactsOutput{}, err
	}

	merged, record, err := db.ApplyMergePlan(h.db, plan)
	if err != nil {
		return nil, MergeContactsOutput{}, fmt.Errorf("failed to apply merge: %w", err)
	}

	return nil, MergeContactsOutput{
		MergeID: record.ID,
		Merged:  contactToOutput(merged),
		Deleted: idStrings(plan.Delete),
	}, nil
}

// plan reads the store fresh so ids deleted since the last scan surface as a
// consistency error instead of a partial merge.
func (h *DuplicateHandlers) plan(input MergeInput) (models.MergePlan, error) {
	if len(input.ContactIDs) < 2 {
		return models.MergePlan{}, fmt.Errorf("contact_ids needs at least two ids")
	}

	ids, err := parseIDs(input.ContactIDs)
	if err != nil {
		return models.MergePlan{}, err
	}

	records, err := db.ListContacts(h.db)
	if err != nil {
		return models.MergePlan{}, fmt.Errorf("failed to read contacts: %w", err)
	}

	group, err := connectedGroup(ids, records)
	if err != nil {
		return models.MergePlan{}, err
	}

	return dedupe.PlanMerge(group, records)
}

// connectedGroup regroups the requested contacts on their own and accepts them
// only if they form a single duplicate group. Members come back in store order.
func connectedGroup(ids []uuid.UUID, records []models.Contact) (models.DuplicateGroup, error) {
	wanted := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}

	var subset []models.Contact
	for i := range records {
		if wanted[records[i].ID] {
			subset = append(subset, records[i])
			delete(wanted, records[i].ID)
		}
	}

	if len(wanted) > 0 {
		var missing []uuid.UUID
		for _, id := range ids {
			if wanted[id] {
				missing = append(missing, id)
				delete(wanted, id)
			}
		}
		return models.DuplicateGroup{}, &dedupe.ConsistencyError{Missing: missing}
	}
	if len(subset) < 2 {
		return models.DuplicateGroup{}, dedupe.ErrGroupTooSmall
	}

	groups := dedupe.GroupDuplicates(subset)
	if len(groups) != 1 || len(groups[0].Members) != len(subset) {
		return models.DuplicateGroup{}, fmt.Errorf("contacts do not form one duplicate group: each must share a name, phone, or email with another")
	}

	return groups[0], nil
}

type MergeHistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of merges (default 20)"`
}

type MergeRecordOutput struct {
	ID        string          `json:"id"`
	MergedID  string          `json:"merged_id"`
	AppliedAt string          `json:"applied_at"`
	Originals []ContactOutput `json:"originals"`
}

type MergeHistoryOutput struct {
	Merges []MergeRecordOutput `json:"merges"`
}

func (h *DuplicateHandlers) MergeHistory(_ context.Context, request *mcp.CallToolRequest, input MergeHistoryInput) (*mcp.CallToolResult, MergeHistoryOutput, error) {
	records, err := db.ListMerges(h.db, input.Limit)
	if err != nil {
		return nil, MergeHistoryOutput{}, err
	}

	output := MergeHistoryOutput{Merges: make([]MergeRecordOutput, 0, len(records))}
	for i := range records {
		output.Merges = append(output.Merges, recordToOutput(&records[i]))
	}

	return nil, output, nil
}

type UndoMergeInput struct {
	MergeID string `json:"merge_id" jsonschema:"Merge ID from merge_contacts or merge_history (required)"`
}

func (h *DuplicateHandlers) UndoMerge(_ context.Context, request *mcp.CallToolRequest, input UndoMergeInput) (*mcp.CallToolResult, MergeRecordOutput, error) {
	if input.MergeID == "" {
		return nil, MergeRecordOutput{}, fmt.Errorf("merge_id is required")
	}

	record, err := db.UndoMerge(h.db, input.MergeID)
	if err != nil {
		return nil, MergeRecordOutput{}, fmt.Errorf("failed to undo merge: %w", err)
	}

	return nil, recordToOutput(record), nil
}

func planToOutput(plan models.MergePlan) PreviewMergeOutput {
	return PreviewMergeOutput{
		Merged: ContactOutput{
			Name:       plan.Merged.DisplayName(),
			GivenName:  plan.Merged.GivenName,
			FamilyName: plan.Merged.FamilyName,
			Phones:     plan.Merged.Phones,
			Emails:     plan.Merged.Emails,
		},
		Representative: plan.Representative.String(),
		Delete:         idStrings(plan.Delete),
	}
}

func recordToOutput(record *models.MergeRecord) MergeRecordOutput {
	out := MergeRecordOutput{
		ID:        record.ID,
		MergedID:  record.MergedID.String(),
		AppliedAt: record.AppliedAt.Format(time.RFC3339),
		Originals: make([]ContactOutput, 0, len(record.Originals)),
	}
	for i := range record.Originals {
		out.Originals = append(out.Originals, contactToOutput(&record.Originals[i]))
	}
	return out
}

func keyStrings(keys []models.CanonicalKey) []string {
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
