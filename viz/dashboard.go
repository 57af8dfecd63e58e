// ABOUTME: Terminal dashboard statistics and rendering
// ABOUTME: Summarizes store size, duplicate evidence, and recent merges
package viz

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/harperreed/cleancontacts/db"
	"github.com/harperreed/cleancontacts/dedupe"
	"github.com/harperreed/cleancontacts/models"
)

type DashboardStats struct {
	TotalContacts int
	Summary       dedupe.Summary

	// Shared keys per kind across all groups
	SharedByKind map[models.KeyKind]int

	// Largest groups first
	LargestGroups []GroupStat

	// Groups held together only by a name match
	NameOnlyGroups int

	RecentMerges []models.MergeRecord
}

type GroupStat struct {
	Number         int
	Representative string
	Size           int
}

const largestGroupCount = 5

// GenerateDashboardStats scans the store and collects dashboard figures.
func GenerateDashboardStats(database *sql.DB) (*DashboardStats, error) {
	records, err := db.ListContacts(database)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}

	merges, err := db.ListMerges(database, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch merges: %w", err)
	}

	stats := BuildDashboardStats(records, dedupe.Scan(records))
	stats.RecentMerges = merges
	return stats, nil
}

// BuildDashboardStats computes the figures that depend only on a scan.
func BuildDashboardStats(records []models.Contact, groups []models.DuplicateGroup) *DashboardStats {
	stats := &DashboardStats{
		TotalContacts: len(records),
		Summary:       dedupe.Summarize(groups),
		SharedByKind:  make(map[models.KeyKind]int),
	}

	names := make(map[string]string, len(records))
	for i := range records {
		names[records[i].ID.String()] = records[i].DisplayName()
	}

	for i := range groups {
		g := &groups[i]

		nameOnly := len(g.Shared) > 0
		for _, k := range g.Shared {
			stats.SharedByKind[k.Kind()]++
			if k.Kind() != models.KeyName {
				nameOnly = false
			}
		}
		if nameOnly {
			stats.NameOnlyGroups++
		}

		stats.LargestGroups = append(stats.LargestGroups, GroupStat{
			Number:         i + 1,
			Representative: names[g.Representative().String()],
			Size:           len(g.Members),
		})
	}

	sort.SliceStable(stats.LargestGroups, func(a, b int) bool {
		return stats.LargestGroups[a].Size > stats.LargestGroups[b].Size
	})
	if len(stats.LargestGroups) > largestGroupCount {
		stats.LargestGroups = stats.LargestGroups[:largestGroupCount]
	}

	return stats
}

func RenderDashboard(stats *DashboardStats) string {
	var out strings.Builder

	// Header
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n")
	out.WriteString("  CLEANCONTACTS DASHBOARD\n")
	out.WriteString("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")

	out.WriteString("STATS\n")
	out.WriteString(fmt.Sprintf("  📇 %d contacts  🔗 %d duplicate groups  🗑  %d redundant\n\n",
		stats.TotalContacts, stats.Summary.Groups, stats.Summary.Redundant))

	if stats.Summary.Groups > 0 {
		out.WriteString("SHARED EVIDENCE\n")
		renderEvidence(&out, stats.SharedByKind)
		out.WriteString("\n")

		out.WriteString("LARGEST GROUPS\n")
		for _, g := range stats.LargestGroups {
			out.WriteString(fmt.Sprintf("  #%-4d %-30s %d contacts\n", g.Number, g.Representative, g.Size))
		}
		out.WriteString("\n")
	}

	if stats.NameOnlyGroups > 0 {
		out.WriteString("NEEDS ATTENTION\n")
		out.WriteString(fmt.Sprintf("  ⚠️  %d groups matched on name alone - review before merging\n\n", stats.NameOnlyGroups))
	}

	if len(stats.RecentMerges) > 0 {
		out.WriteString("RECENT MERGES\n")
		for _, m := range stats.RecentMerges {
			out.WriteString(fmt.Sprintf("  %s  %s  %d contacts\n",
				m.AppliedAt.Local().Format(time.DateTime), m.ID, len(m.Originals)))
		}
	}

	return out.String()
}

func renderEvidence(out *strings.Builder, byKind map[models.KeyKind]int) {
	kinds := []models.KeyKind{models.KeyName, models.KeyPhone, models.KeyEmail}

	maxCount := 0
	for _, n := range byKind {
		if n > maxCount {
			maxCount = n
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, kind := range kinds {
		count := byKind[kind]

		// Calculate bar length (0-10 blocks)
		barLength := (count * 10) / maxCount
		bar := strings.Repeat("█", barLength) + strings.Repeat("░", 10-barLength)

		out.WriteString(fmt.Sprintf("  %-6s %s  %d\n", kind, bar, count))
	}
}
