// ABOUTME: TUI view for Google sync status and controls
// ABOUTME: Displays contacts sync state and triggers an import followed by a rescan
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harperreed/cleancontacts/db"
	"github.com/harperreed/cleancontacts/models"
	"github.com/harperreed/cleancontacts/sync"
)

var (
	syncHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Underline(true)

	syncServiceStyle = lipgloss.NewStyle().
				Bold(true).
				Width(12)

	syncIdleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	syncSyncingStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)

	syncErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	syncMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Italic(true)
)

// SyncStateDisplay is a sync_state row prepared for rendering.
type SyncStateDisplay struct {
	Service      string
	Status       string
	LastSyncTime string
	ErrorMessage string
}

// SyncCompleteMsg is sent when an import completes.
type SyncCompleteMsg struct {
	Stats *sync.ImportStats
	Error error
}

func (m Model) renderSyncView() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("Google Sync"))
	s.WriteString("\n\n")

	s.WriteString(syncHeaderStyle.Render("Service Status"))
	s.WriteString("\n\n")

	var state *SyncStateDisplay
	for i := range m.syncStates {
		if m.syncStates[i].Service == sync.ContactsService {
			state = &m.syncStates[i]
			break
		}
	}

	var row strings.Builder
	row.WriteString("▶ ")
	row.WriteString(syncServiceStyle.Render("Contacts"))

	switch {
	case m.syncInProgress:
		row.WriteString(syncSyncingStyle.Render("  ⟳ Syncing..."))
	case state == nil:
		row.WriteString(syncMessageStyle.Render("  Not synced yet"))
	case state.Status == models.SyncStatusError:
		row.WriteString(syncErrorStyle.Render("  ✗ Error"))
		if state.ErrorMessage != "" {
			row.WriteString(syncErrorStyle.Render(": " + state.ErrorMessage))
		}
	default:
		row.WriteString(syncIdleStyle.Render("  ✓ Idle"))
		if state.LastSyncTime != "" {
			row.WriteString(syncMessageStyle.Render(" • Last synced " + state.LastSyncTime))
		}
	}

	s.WriteString(row.String())
	s.WriteString("\n\n")

	if m.importer == nil {
		s.WriteString(syncMessageStyle.Render("Google is not configured. Run 'cleancontacts sync init' first."))
		s.WriteString("\n\n")
	}

	// Recent messages
	if len(m.syncMessages) > 0 {
		s.WriteString(syncHeaderStyle.Render("Recent Activity"))
		s.WriteString("\n\n")
		start := max(len(m.syncMessages)-5, 0)
		for _, msg := range m.syncMessages[start:] {
			s.WriteString(syncMessageStyle.Render("  " + msg))
			s.WriteString("\n")
		}
		s.WriteString("\n")
	}

	s.WriteString(m.renderSyncHelp())

	return s.String()
}

func (m Model) renderSyncHelp() string {
	help := []string{
		"Enter: Import contacts",
		"r: Refresh status",
		"Esc: Back",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(help, " • "))
}

func (m *Model) loadSyncStates() {
	states, err := db.GetAllSyncStates(m.db)
	m.syncStates = []SyncStateDisplay{}
	if err != nil {
		return
	}

	for _, state := range states {
		display := SyncStateDisplay{
			Service: state.Service,
			Status:  state.Status,
		}

		if state.LastSyncTime != nil {
			display.LastSyncTime = formatTimeSince(*state.LastSyncTime)
		}

		if state.ErrorMessage != nil {
			display.ErrorMessage = *state.ErrorMessage
		}

		m.syncStates = append(m.syncStates, display)
	}
}

func (m Model) handleSyncKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if m.syncInProgress {
			return m, nil
		}
		if m.importer == nil {
			m.addSyncMessage("✗ Google is not configured")
			return m, nil
		}
		m.syncInProgress = true
		m.addSyncMessage("Starting contacts import...")
		return m, m.runImport()
	case "r":
		m.loadSyncStates()
	case "esc":
		m.viewMode = ViewList
	}

	return m, nil
}

func (m Model) runImport() tea.Cmd {
	importer := m.importer
	return func() tea.Msg {
		stats, err := importer(context.Background())
		return SyncCompleteMsg{Stats: stats, Error: err}
	}
}

// handleSyncComplete records the outcome and rescans when anything was imported.
func (m Model) handleSyncComplete(msg SyncCompleteMsg) (tea.Model, tea.Cmd) {
	m.syncInProgress = false
	m.loadSyncStates()

	if msg.Error != nil {
		m.addSyncMessage(fmt.Sprintf("✗ contacts sync failed: %v", msg.Error))
		return m, nil
	}

	imported := 0
	if msg.Stats != nil {
		imported = msg.Stats.Imported
	}
	m.addSyncMessage(fmt.Sprintf("✓ contacts sync completed: %d imported", imported))

	if imported > 0 {
		return m, m.scan()
	}
	return m, nil
}

func (m *Model) addSyncMessage(msg string) {
	timestamp := time.Now().Format("15:04:05")
	m.syncMessages = append(m.syncMessages, fmt.Sprintf("[%s] %s", timestamp, msg))
}

// formatTimeSince formats a time duration in a human-readable way.
func formatTimeSince(t time.Time) string {
	duration := time.Since(t)

	if duration < time.Minute {
		return "just now"
	} else if duration < time.Hour {
		minutes := int(duration.Minutes())
		if minutes == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", minutes)
	} else if duration < 24*time.Hour {
		hours := int(duration.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	} else {
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}
