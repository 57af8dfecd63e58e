package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harperreed/cleancontacts/dedupe"
)

func (m Model) renderListView() string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("CLEANCONTACTS"))
	s.WriteString("\n\n")

	switch {
	case m.err != nil:
		s.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		s.WriteString("\n\n")
	case !m.scanned:
		s.WriteString("Scanning contacts...\n\n")
	case len(m.groups) == 0:
		s.WriteString(messageStyle.Render(fmt.Sprintf("✓ No duplicates found in %d contacts", len(m.records))))
		s.WriteString("\n\n")
	default:
		summary := dedupe.Summarize(m.groups)
		s.WriteString(fmt.Sprintf("%d duplicate groups • %d contacts • %d redundant\n\n",
			summary.Groups, summary.Contacts, summary.Redundant))
		s.WriteString(m.renderGroupsTable())
		s.WriteString("\n")
	}

	if m.message != "" {
		s.WriteString(m.renderMessage())
		s.WriteString("\n")
	}

	// Help
	s.WriteString(m.renderListHelp())

	return s.String()
}

func (m Model) renderGroupsTable() string {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Representative", Width: 28},
		{Title: "Size", Width: 5},
		{Title: "Shared", Width: 40},
	}

	rows := make([]table.Row, 0, len(m.groups))
	for i := range m.groups {
		g := &m.groups[i]
		shared := make([]string, 0, len(g.Shared))
		for _, k := range g.Shared {
			shared = append(shared, string(k))
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			m.contactName(g.Representative()),
			fmt.Sprintf("%d", len(g.Members)),
			strings.Join(shared, ", "),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)

	// Set selected row
	if m.selectedRow < len(rows) {
		t.SetCursor(m.selectedRow)
	}

	return t.View()
}

func (m Model) renderMessage() string {
	if strings.HasPrefix(m.message, "✗") {
		return errorStyle.Render(m.message)
	}
	return messageStyle.Render(m.message)
}

func (m Model) renderListHelp() string {
	help := []string{
		"↑/↓: Navigate",
		"Enter: Review group",
		"r: Rescan",
		"g: Graph",
		"h: History",
		"s: Sync",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.selectedRow > 0 {
			m.selectedRow--
		}
	case "down", "j":
		if m.selectedRow < len(m.groups)-1 {
			m.selectedRow++
		}
	case "enter":
		group := m.selectedGroup()
		if group == nil {
			return m, nil
		}
		m.message = ""
		m.viewMode = ViewDetail
		plan, err := dedupe.PlanMerge(*group, m.records)
		if err != nil {
			m.plan = nil
			m.planErr = err
		} else {
			m.plan = &plan
			m.planErr = nil
		}
	case "r":
		m.message = ""
		return m, m.scan()
	case "g":
		m.graphReturn = ViewList
		m.viewMode = ViewGraph
		m.graphDOT = ""
		return m, m.generateGraph(m.groups)
	case "h":
		m.viewMode = ViewHistory
		m.selectedMerge = 0
		return m, m.loadHistory()
	case "s":
		m.viewMode = ViewSync
		m.loadSyncStates()
	}

	return m, nil
}
