// ABOUTME: Contact CLI commands
// ABOUTME: Human-friendly commands for adding, listing, and deleting contacts
package cli

import (
	"database/sql"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/harperreed/cleancontacts/db"
	"github.com/harperreed/cleancontacts/models"
	"github.com/spf13/cobra"
)

func newAddCommand(a *app) *cobra.Command {
	var given, family string
	var phones, emails []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Long: `Add a contact with any number of phone numbers and email addresses.

Examples:
  cleancontacts add --given Ann --family Lee --phone "(555) 123-4567" --email ann@example.com
  cleancontacts add --email a@x.com --email ann@work.com`,
		Args: cobra.NoArgs,
		RunE: a.withDB(func(cmd *cobra.Command, args []string, database *sql.DB) error {
			contact := &models.Contact{
				GivenName:  strings.TrimSpace(given),
				FamilyName: strings.TrimSpace(family),
				Phones:     nonBlank(phones),
				Emails:     nonBlank(emails),
			}

			if contact.GivenName == "" && contact.FamilyName == "" && len(contact.Phones) == 0 && len(contact.Emails) == 0 {
				return fmt.Errorf("a contact needs a name, phone, or email")
			}

			if err := db.CreateContact(database, contact); err != nil {
				return fmt.Errorf("failed to create contact: %w", err)
			}

			green := color.New(color.FgGreen).SprintFunc()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Contact created: %s (ID: %s)\n", green("✓"), contact.DisplayName(), contact.ID)
			printValues(out, contact)
			return nil
		}),
	}

	cmd.Flags().StringVar(&given, "given", "", "Given name")
	cmd.Flags().StringVar(&family, "family", "", "Family name")
	cmd.Flags().StringArrayVar(&phones, "phone", nil, "Phone number (repeatable)")
	cmd.Flags().StringArrayVar(&emails, "email", nil, "Email address (repeatable)")

	return cmd
}

func newListCommand(a *app) *cobra.Command {
	var query string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		Args:  cobra.NoArgs,
		RunE: a.withDB(func(cmd *cobra.Command, args []string, database *sql.DB) error {
			contacts, err := db.FindContacts(database, query, limit)
			if err != nil {
				return fmt.Errorf("failed to list contacts: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(contacts) == 0 {
				fmt.Fprintln(out, "No contacts found")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPHONES\tEMAILS")
			fmt.Fprintln(w, "--\t----\t------\t------")
			for i := range contacts {
				c := &contacts[i]
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					c.ID.String()[:8],
					c.DisplayName(),
					strings.Join(c.Phones, ", "),
					strings.Join(c.Emails, ", "),
				)
			}
			_ = w.Flush()

			fmt.Fprintf(out, "\nShowing %d contacts\n", len(contacts))
			return nil
		}),
	}

	cmd.Flags().StringVar(&query, "query", "", "Search by name, email, or phone")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum results")

	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		RunE: a.withDB(func(cmd *cobra.Command, args []string, database *sql.DB) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid contact ID: %w", err)
			}

			if err := db.DeleteContact(database, id); err != nil {
				return fmt.Errorf("failed to delete contact: %w", err)
			}

			green := color.New(color.FgGreen).SprintFunc()
			fmt.Fprintf(cmd.OutOrStdout(), "%s Contact deleted: %s\n", green("✓"), id)
			return nil
		}),
	}
}

func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, strings.TrimSpace(v))
		}
	}
	return out
}
