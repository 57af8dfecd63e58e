// ABOUTME: Merge confirmation view for TUI
// ABOUTME: Applies a previewed merge plan after an explicit yes
package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/cleancontacts/db"
	"github.com/harperreed/cleancontacts/models"
)

var (
	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("11")).
			Padding(1, 2).
			Width(60).
			Align(lipgloss.Center)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true)

	confirmButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("2")).
				Padding(0, 2).
				MarginRight(2)

	cancelButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("8")).
				Padding(0, 2)
)

func (m Model) renderConfirmMergeView() string {
	if m.plan == nil {
		return "Nothing to merge"
	}

	title := warningStyle.Render("MERGE CONFIRMATION")
	message := fmt.Sprintf("Merge %d contacts into one?", len(m.plan.Delete))
	entityInfo := fmt.Sprintf("\nResult: %s\n%d phones • %d emails\n",
		m.plan.Merged.DisplayName(), len(m.plan.Merged.Phones), len(m.plan.Merged.Emails))
	note := "\nThe originals are deleted. 'cleancontacts undo' can restore them."

	if m.merging {
		note = "\nMerging..."
	}

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		confirmButtonStyle.Render("Yes, Merge (y)"),
		cancelButtonStyle.Render("Cancel (n/esc)"),
	)

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		title,
		"",
		message,
		entityInfo,
		note,
		"",
		buttons,
	)

	box := confirmBoxStyle.Render(content)

	// Center the box on screen
	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box,
	)
}

func (m Model) handleConfirmMergeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.merging {
		return m, nil
	}

	switch msg.String() {
	case "y", "Y":
		if m.plan == nil {
			m.viewMode = ViewList
			return m, nil
		}
		m.merging = true
		return m, m.applyMerge(m.selectedRow+1, *m.plan)
	case "n", "N", "esc":
		m.viewMode = ViewDetail
	}

	return m, nil
}

// applyMerge runs the store transaction off the render loop.
func (m Model) applyMerge(group int, plan models.MergePlan) tea.Cmd {
	database := m.db
	return func() tea.Msg {
		merged, record, err := db.ApplyMergePlan(database, plan)
		return mergeDoneMsg{group: group, merged: merged, record: record, err: err}
	}
}

// handleMergeDone returns to the list. Success triggers a rescan; failure
// leaves the current groups untouched.
func (m Model) handleMergeDone(msg mergeDoneMsg) (tea.Model, tea.Cmd) {
	m.merging = false
	m.viewMode = ViewList
	m.plan = nil
	m.planErr = nil

	if msg.err != nil {
		m.message = fmt.Sprintf("✗ Merge of group %d failed: %v", msg.group, msg.err)
		return m, nil
	}

	m.message = fmt.Sprintf("✓ Merged group %d into %s (merge %s)", msg.group, msg.merged.DisplayName(), msg.record.ID)
	return m, m.scan()
}
