// ABOUTME: TUI view for merge history
// ABOUTME: Lists recent merges and undoes the selected one
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/cleancontacts/db"
	"github.com/harperreed/cleancontacts/models"
)

const historyLimit = 50

type historyMsg struct {
	merges []models.MergeRecord
	err    error
}

type undoDoneMsg struct {
	record *models.MergeRecord
	err    error
}

func (m Model) renderHistoryView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("MERGE HISTORY"))
	s.WriteString("\n\n")

	switch {
	case m.historyErr != nil:
		s.WriteString(errorStyle.Render("Error: " + m.historyErr.Error()))
		s.WriteString("\n")
	case len(m.merges) == 0:
		s.WriteString("No merges yet\n")
	default:
		s.WriteString(m.renderHistoryTable())
		s.WriteString("\n")
	}

	if m.message != "" {
		s.WriteString(m.renderMessage())
		s.WriteString("\n")
	}

	help := []string{
		"↑/↓: Navigate",
		"u: Undo merge",
		"Esc: Back",
		"q: Quit",
	}
	s.WriteString(helpStyle.Render(strings.Join(help, " • ")))

	return s.String()
}

func (m Model) renderHistoryTable() string {
	columns := []table.Column{
		{Title: "Applied", Width: 17},
		{Title: "Merge", Width: 26},
		{Title: "Originals", Width: 40},
	}

	rows := make([]table.Row, 0, len(m.merges))
	for _, r := range m.merges {
		names := make([]string, 0, len(r.Originals))
		for i := range r.Originals {
			names = append(names, r.Originals[i].DisplayName())
		}
		rows = append(rows, table.Row{
			r.AppliedAt.Local().Format("2006-01-02 15:04"),
			r.ID,
			strings.Join(names, ", "),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)
	if m.selectedMerge < len(rows) {
		t.SetCursor(m.selectedMerge)
	}

	return t.View()
}

func (m Model) handleHistoryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.undoing {
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.selectedMerge > 0 {
			m.selectedMerge--
		}
	case "down", "j":
		if m.selectedMerge < len(m.merges)-1 {
			m.selectedMerge++
		}
	case "u":
		if m.selectedMerge < len(m.merges) {
			m.undoing = true
			m.message = ""
			return m, m.undoMerge(m.merges[m.selectedMerge].ID)
		}
	case "esc":
		m.viewMode = ViewList
		m.message = ""
	}

	return m, nil
}

func (m Model) loadHistory() tea.Cmd {
	database := m.db
	return func() tea.Msg {
		merges, err := db.ListMerges(database, historyLimit)
		return historyMsg{merges: merges, err: err}
	}
}

func (m Model) undoMerge(id string) tea.Cmd {
	database := m.db
	return func() tea.Msg {
		record, err := db.UndoMerge(database, id)
		return undoDoneMsg{record: record, err: err}
	}
}

func (m Model) handleUndoDone(msg undoDoneMsg) (tea.Model, tea.Cmd) {
	m.undoing = false

	if msg.err != nil {
		m.message = fmt.Sprintf("✗ Undo failed: %v", msg.err)
		return m, nil
	}

	m.message = fmt.Sprintf("✓ Restored %d contacts", len(msg.record.Originals))
	return m, tea.Batch(m.loadHistory(), m.scan())
}
