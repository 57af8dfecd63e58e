// ABOUTME: Root cobra command and shared CLI state
// ABOUTME: Loads config, builds the logger, and opens the contact store on demand
package cli

import (
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harperreed/cleancontacts/config"
	"github.com/harperreed/cleancontacts/db"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs. It is built once per invocation.
type app struct {
	configPath string
	dbPath     string
	logLevel   string

	cfg      *config.Config
	logger   *log.Logger
	database *sql.DB
}

// NewRootCommand builds the cleancontacts command tree.
func NewRootCommand(version string) *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:     "cleancontacts",
		Version: version,
		Short:   "Find and merge duplicate contacts",
		Long: `cleancontacts finds contacts that share a name, phone number, or email
address, groups them transitively, and merges each group into one record.

Examples:
  # Show duplicate groups
  cleancontacts scan

  # Merge groups 1 and 3 from the scan output
  cleancontacts merge 1 3

  # Review groups interactively
  cleancontacts tui`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default: ~/.config/cleancontacts/config.yaml)")
	root.PersistentFlags().StringVar(&a.dbPath, "db-path", "", "Database path (default: ~/.local/share/cleancontacts/contacts.db)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		newAddCommand(a),
		newListCommand(a),
		newDeleteCommand(a),
		newScanCommand(a),
		newMergeCommand(a),
		newHistoryCommand(a),
		newUndoCommand(a),
		newSyncCommand(a),
		newTUICommand(a),
		newMCPCommand(a),
		newVizCommand(a),
		newVersionCommand(version),
	)

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	a.cfg = cfg

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	// Logs go to stderr so stdout stays clean for --json and MCP stdio.
	a.logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:  level,
		Prefix: "cleancontacts",
	})

	return nil
}

func (a *app) quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// open returns the contact store, opening it on first use.
func (a *app) open() (*sql.DB, error) {
	if a.database != nil {
		return a.database, nil
	}

	database, err := db.OpenDatabase(a.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.logger.Debug("opened database", "path", a.cfg.DBPath)

	a.database = database
	return database, nil
}

// withDB wraps a RunE that needs the store, closing it when the command ends.
func (a *app) withDB(fn func(cmd *cobra.Command, args []string, database *sql.DB) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		database, err := a.open()
		if err != nil {
			return err
		}
		defer a.close()

		return fn(cmd, args, database)
	}
}

func (a *app) close() {
	if a.database != nil {
		_ = a.database.Close()
		a.database = nil
	}
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cleancontacts version %s\n", version)
		},
	}
}
