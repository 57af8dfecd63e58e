package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/cleancontacts/models"
	"github.com/harperreed/cleancontacts/viz"
)

type graphMsg struct {
	dot string
	err error
}

func (m Model) renderGraphView() string {
	var s strings.Builder

	// Title
	s.WriteString(titleStyle.Render("GRAPH VIEW"))
	s.WriteString("\n\n")

	switch {
	case m.graphErr != nil:
		s.WriteString(errorStyle.Render("Error: " + m.graphErr.Error()))
	case m.graphDOT == "":
		s.WriteString("Generating graph...\n")
	default:
		s.WriteString(lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Render(m.graphDOT))
	}

	s.WriteString("\n\n")

	// Help
	s.WriteString(m.renderGraphHelp())

	return s.String()
}

func (m Model) renderGraphHelp() string {
	help := []string{
		"Esc: Back",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleGraphKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = m.graphReturn
		m.graphDOT = ""
		m.graphErr = nil
	}

	return m, nil
}

func (m Model) generateGraph(groups []models.DuplicateGroup) tea.Cmd {
	records := m.records
	return func() tea.Msg {
		dot, err := viz.GenerateDuplicateGraph(context.Background(), records, groups)
		return graphMsg{dot: dot, err: err}
	}
}
