// ABOUTME: OAuth configuration and token management for the Google People API
// ABOUTME: Handles OAuth config, token storage at XDG paths, and credential checks
package sync

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/harperreed/cleancontacts/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// ContactsScope is the only scope the importer needs.
const ContactsScope = "https://www.googleapis.com/auth/contacts.readonly"

// NewOAuthConfig creates OAuth2 config for the People API.
func NewOAuthConfig(cfg config.GoogleConfig) *oauth2.Config {
	redirect := cfg.RedirectURL
	if redirect == "" {
		redirect = config.DefaultRedirectURL
	}

	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  redirect,
		Scopes:       []string{ContactsScope},
		Endpoint:     google.Endpoint,
	}
}

// CheckCredentials reports whether an OAuth client has been configured.
func CheckCredentials(cfg config.GoogleConfig) error {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return fmt.Errorf("google OAuth credentials not configured. Set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET or add them to %s", config.DefaultPath())
	}
	return nil
}

// TokenPath returns XDG-compliant path for storing OAuth tokens.
func TokenPath() string {
	return filepath.Join(xdg.DataHome, config.AppName, "google-credentials.json")
}

// SaveToken saves an OAuth token to path (TokenPath when empty).
func SaveToken(path string, token *oauth2.Token) error {
	if path == "" {
		path = TokenPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}

	// Write token file with restricted permissions
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewEncoder(f).Encode(token); err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	return nil
}

// LoadToken loads an OAuth token from path (TokenPath when empty).
func LoadToken(path string) (*oauth2.Token, error) {
	if path == "" {
		path = TokenPath()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open token file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var token oauth2.Token
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}

	return &token, nil
}
