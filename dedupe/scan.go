// ABOUTME: Scan orchestration over the normalizer and grouping engine
// ABOUTME: Pure entry points used by the CLI, TUI, and MCP layers
package dedupe

import (
	"github.com/harperreed/cleancontacts/models"
)

// Summary holds the counts shown after a scan.
type Summary struct {
	Groups    int `json:"groups"`
	Contacts  int `json:"contacts"`
	Redundant int `json:"redundant"`
}

// Scan finds duplicate groups in records. It performs no I/O and is
// idempotent for identical input.
func Scan(records []models.Contact) []models.DuplicateGroup {
	return GroupDuplicates(records)
}

// PlanAll plans a merge for every group. It stops at the first failure so
// callers never act on a partial batch.
func PlanAll(groups []models.DuplicateGroup, records []models.Contact) ([]models.MergePlan, error) {
	plans := make([]models.MergePlan, 0, len(groups))
	for i := range groups {
		plan, err := PlanMerge(groups[i], records)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// Summarize counts groups, grouped contacts, and contacts a full merge would remove.
func Summarize(groups []models.DuplicateGroup) Summary {
	var s Summary
	for i := range groups {
		s.Groups++
		s.Contacts += len(groups[i].Members)
	}
	s.Redundant = s.Contacts - s.Groups
	return s
}
