// ABOUTME: Terminal User Interface using bubbletea framework
// ABOUTME: Full-screen duplicate review with merge confirmation, history, and sync
package tui

import (
	"context"
	"database/sql"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/harperreed/cleancontacts/db"
	"github.com/harperreed/cleancontacts/dedupe"
	"github.com/harperreed/cleancontacts/models"
	"github.com/harperreed/cleancontacts/sync"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewList ViewMode = iota
	ViewDetail
	ViewConfirmMerge
	ViewGraph
	ViewHistory
	ViewSync
)

// Importer pulls contacts from an external source into the store.
type Importer func(ctx context.Context) (*sync.ImportStats, error)

// Model is the main bubbletea model
type Model struct {
	db       *sql.DB
	importer Importer
	viewMode ViewMode

	// Latest scan
	records     []models.Contact
	groups      []models.DuplicateGroup
	byID        map[uuid.UUID]*models.Contact
	scanned     bool
	selectedRow int

	// Detail view state
	plan    *models.MergePlan
	planErr error
	merging bool

	// Graph view state
	graphDOT    string
	graphErr    error
	graphReturn ViewMode

	// History view state
	merges        []models.MergeRecord
	historyErr    error
	selectedMerge int
	undoing       bool

	// Sync view state
	syncStates     []SyncStateDisplay
	syncInProgress bool
	syncMessages   []string

	// UI state
	message string
	width   int
	height  int
	err     error
}

// NewModel creates a new TUI model. importer may be nil, in which case the
// sync view only reports status.
func NewModel(database *sql.DB, importer Importer) Model {
	return Model{
		db:       database,
		importer: importer,
		viewMode: ViewList,
		width:    80,
		height:   24,
	}
}

type scanMsg struct {
	records []models.Contact
	groups  []models.DuplicateGroup
	err     error
}

type mergeDoneMsg struct {
	group  int
	merged *models.Contact
	record *models.MergeRecord
	err    error
}

func (m Model) Init() tea.Cmd {
	return m.scan()
}

// scan reads the store and groups duplicates off the render loop.
func (m Model) scan() tea.Cmd {
	database := m.db
	return func() tea.Msg {
		records, err := db.ListContacts(database)
		if err != nil {
			return scanMsg{err: err}
		}
		return scanMsg{records: records, groups: dedupe.Scan(records)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case scanMsg:
		return m.handleScan(msg), nil
	case graphMsg:
		m.graphDOT = msg.dot
		m.graphErr = msg.err
		return m, nil
	case historyMsg:
		m.merges = msg.merges
		m.historyErr = msg.err
		if m.selectedMerge >= len(m.merges) {
			m.selectedMerge = max(len(m.merges)-1, 0)
		}
		return m, nil
	case mergeDoneMsg:
		return m.handleMergeDone(msg)
	case undoDoneMsg:
		return m.handleUndoDone(msg)
	case SyncCompleteMsg:
		return m.handleSyncComplete(msg)
	}
	return m, nil
}

func (m Model) handleScan(msg scanMsg) Model {
	if msg.err != nil {
		m.err = msg.err
		return m
	}

	m.err = nil
	m.scanned = true
	m.records = msg.records
	m.groups = msg.groups
	m.byID = make(map[uuid.UUID]*models.Contact, len(m.records))
	for i := range m.records {
		m.byID[m.records[i].ID] = &m.records[i]
	}

	if m.selectedRow >= len(m.groups) {
		m.selectedRow = max(len(m.groups)-1, 0)
	}

	return m
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewList:
		return m.renderListView()
	case ViewDetail:
		return m.renderDetailView()
	case ViewConfirmMerge:
		return m.renderConfirmMergeView()
	case ViewGraph:
		return m.renderGraphView()
	case ViewHistory:
		return m.renderHistoryView()
	case ViewSync:
		return m.renderSyncView()
	}
	return ""
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if !m.merging {
			return m, tea.Quit
		}
	}

	// Delegate to view-specific handlers
	switch m.viewMode {
	case ViewList:
		return m.handleListKeys(msg)
	case ViewDetail:
		return m.handleDetailKeys(msg)
	case ViewConfirmMerge:
		return m.handleConfirmMergeKeys(msg)
	case ViewGraph:
		return m.handleGraphKeys(msg)
	case ViewHistory:
		return m.handleHistoryKeys(msg)
	case ViewSync:
		return m.handleSyncKeys(msg)
	}

	return m, nil
}

// selectedGroup returns the highlighted group, or nil when there are none.
func (m Model) selectedGroup() *models.DuplicateGroup {
	if m.selectedRow < 0 || m.selectedRow >= len(m.groups) {
		return nil
	}
	return &m.groups[m.selectedRow]
}

func (m Model) contactName(id uuid.UUID) string {
	if c, ok := m.byID[id]; ok {
		return c.DisplayName()
	}
	return id.String()[:8]
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			MarginBottom(1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)

	messageStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
)
