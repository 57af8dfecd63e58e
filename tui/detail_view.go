package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/cleancontacts/models"
)

var (
	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	memberStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			PaddingLeft(1)

	previewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("10")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(8)
)

func (m Model) renderDetailView() string {
	group := m.selectedGroup()
	if group == nil {
		return "No group selected"
	}

	var s strings.Builder

	s.WriteString(titleStyle.Render(fmt.Sprintf("GROUP %d", m.selectedRow+1)))
	s.WriteString("\n\n")

	shared := make([]string, 0, len(group.Shared))
	for _, k := range group.Shared {
		shared = append(shared, string(k))
	}
	s.WriteString(fmt.Sprintf("Shared: %s\n\n", strings.Join(shared, ", ")))

	s.WriteString(sectionStyle.Render(fmt.Sprintf("Members (%d)", len(group.Members))))
	s.WriteString("\n")
	for i, id := range group.Members {
		c, ok := m.byID[id]
		if !ok {
			s.WriteString(errorStyle.Render(fmt.Sprintf("  missing contact %s", id)))
			s.WriteString("\n")
			continue
		}
		header := c.DisplayName()
		if i == 0 {
			header += " (keeps name)"
		}
		s.WriteString(memberStyle.Render(renderContact(header, c)))
		s.WriteString("\n")
	}
	s.WriteString("\n")

	s.WriteString(sectionStyle.Render("Merged result"))
	s.WriteString("\n")
	if m.planErr != nil {
		s.WriteString(errorStyle.Render(fmt.Sprintf("Cannot merge: %v", m.planErr)))
	} else if m.plan != nil {
		s.WriteString(previewStyle.Render(renderContact(m.plan.Merged.DisplayName(), &m.plan.Merged)))
	}
	s.WriteString("\n")

	s.WriteString(m.renderDetailHelp())

	return s.String()
}

func renderContact(header string, c *models.Contact) string {
	lines := []string{lipgloss.NewStyle().Bold(true).Render(header)}
	if c.GivenName != "" || c.FamilyName != "" {
		lines = append(lines, labelStyle.Render("Name")+strings.TrimSpace(c.GivenName+" "+c.FamilyName))
	}
	for _, p := range c.Phones {
		lines = append(lines, labelStyle.Render("Phone")+p)
	}
	for _, e := range c.Emails {
		lines = append(lines, labelStyle.Render("Email")+e)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderDetailHelp() string {
	help := []string{
		"m: Merge",
		"g: Graph",
		"Esc: Back",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m Model) handleDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.viewMode = ViewList
		m.plan = nil
		m.planErr = nil
	case "m":
		if m.plan != nil {
			m.viewMode = ViewConfirmMerge
		}
	case "g":
		if group := m.selectedGroup(); group != nil {
			m.graphReturn = ViewDetail
			m.viewMode = ViewGraph
			m.graphDOT = ""
			return m, m.generateGraph([]models.DuplicateGroup{*group})
		}
	}

	return m, nil
}
