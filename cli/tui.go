// ABOUTME: TUI subcommand
// ABOUTME: Launches the interactive duplicate review screen
package cli

import (
	"context"
	"database/sql"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harperreed/cleancontacts/sync"
	"github.com/harperreed/cleancontacts/tui"
	"github.com/spf13/cobra"
)

func newTUICommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Review duplicates interactively",
		Args:  cobra.NoArgs,
		RunE: a.withDB(func(cmd *cobra.Command, args []string, database *sql.DB) error {
			p := tea.NewProgram(tui.NewModel(database, a.importer(database)), tea.WithAltScreen())
			_, err := p.Run()
			return err
		}),
	}
}

// importer returns a Google Contacts import bound to the store, or nil when
// credentials or a saved token are missing.
func (a *app) importer(database *sql.DB) tui.Importer {
	if sync.CheckCredentials(a.cfg.Google) != nil {
		return nil
	}
	token, err := sync.LoadToken("")
	if err != nil {
		return nil
	}

	oauthConfig := sync.NewOAuthConfig(a.cfg.Google)
	return func(ctx context.Context) (*sync.ImportStats, error) {
		client, err := sync.NewPeopleClient(ctx, oauthConfig, token)
		if err != nil {
			return nil, err
		}
		// The TUI owns the terminal, so import logs are discarded.
		return sync.ImportContacts(ctx, database, client, a.quietLogger())
	}
}
