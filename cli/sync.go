// ABOUTME: Google sync CLI commands
// ABOUTME: Handles OAuth setup and importing Google Contacts into the store
package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os/exec"
	"runtime"

	"github.com/fatih/color"
	"github.com/harperreed/cleancontacts/sync"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
)

func newSyncCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Import contacts from Google",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Authenticate with Google",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.syncInit(cmd)
			},
		},
		&cobra.Command{
			Use:   "contacts",
			Short: "Import Google Contacts",
			Long: `Import Google Contacts into the local store.

People already imported are skipped. Duplicates are imported as-is;
run 'cleancontacts scan' afterwards to find them.`,
			Args: cobra.NoArgs,
			RunE: a.withDB(func(cmd *cobra.Command, args []string, database *sql.DB) error {
				return a.syncContacts(cmd, database)
			}),
		},
	)

	return cmd
}

func (a *app) syncInit(cmd *cobra.Command) error {
	if err := sync.CheckCredentials(a.cfg.Google); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	oauthConfig := sync.NewOAuthConfig(a.cfg.Google)
	redirect, err := url.Parse(oauthConfig.RedirectURL)
	if err != nil {
		return fmt.Errorf("invalid redirect URL: %w", err)
	}

	// Start local server for OAuth callback
	callbackChan := make(chan *oauth2.Token, 1)
	errChan := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(redirect.Path, func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			errChan <- fmt.Errorf("no authorization code received")
			return
		}

		token, err := oauthConfig.Exchange(ctx, code)
		if err != nil {
			errChan <- fmt.Errorf("failed to exchange code: %w", err)
			return
		}

		callbackChan <- token
		_, _ = fmt.Fprintf(w, "Authorization successful! You can close this window.")
	})

	server := &http.Server{Addr: redirect.Host, Handler: mux}
	go func() {
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()
	defer func() { _ = server.Shutdown(context.Background()) }()

	authURL := oauthConfig.AuthCodeURL("state", oauth2.AccessTypeOffline)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Opening browser for Google OAuth...")
	fmt.Fprintf(out, "\nIf browser doesn't open, visit this URL:\n%s\n\n", authURL)

	if err := openBrowser(authURL); err != nil {
		a.logger.Debug("could not open browser", "err", err)
	}

	select {
	case token := <-callbackChan:
		if err := sync.SaveToken("", token); err != nil {
			return fmt.Errorf("failed to save token: %w", err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(out, "\n%s Authenticated successfully\n", green("✓"))
		fmt.Fprintf(out, "%s Tokens saved to %s\n\n", green("✓"), sync.TokenPath())
		fmt.Fprintln(out, "Ready to sync! Run 'cleancontacts sync contacts' to import contacts.")
		return nil

	case err := <-errChan:
		return fmt.Errorf("OAuth flow failed: %w", err)

	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *app) syncContacts(cmd *cobra.Command, database *sql.DB) error {
	if err := sync.CheckCredentials(a.cfg.Google); err != nil {
		return err
	}

	token, err := sync.LoadToken("")
	if err != nil {
		return fmt.Errorf("no authentication token found. Run 'cleancontacts sync init' first: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client, err := sync.NewPeopleClient(ctx, sync.NewOAuthConfig(a.cfg.Google), token)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Syncing Google Contacts...")

	stats, err := sync.ImportContacts(ctx, database, client, a.logger)
	if err != nil {
		return fmt.Errorf("contacts sync failed: %w", err)
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(out, "\n%s Fetched %d contacts from Google\n", green("✓"), stats.Fetched)
	if stats.Imported == 0 {
		fmt.Fprintf(out, "  %s No new contacts to import (all up to date)\n", green("✓"))
	} else {
		fmt.Fprintf(out, "  %s Imported %d new contacts\n", green("✓"), stats.Imported)
		fmt.Fprintln(out, "\nRun 'cleancontacts scan' to look for duplicates.")
	}
	if stats.Failed > 0 {
		red := color.New(color.FgRed).SprintFunc()
		fmt.Fprintf(out, "  %s %d contacts failed to import\n", red("✗"), stats.Failed)
	}

	return nil
}

// openBrowser attempts to open URL in default browser
func openBrowser(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		cmd = "xdg-open"
		args = []string{url}
	}

	return exec.Command(cmd, args...).Start()
}
