// ABOUTME: Duplicate scan and merge CLI commands
// ABOUTME: Scans the store, previews merge plans, applies them, and manages merge history
package cli

import (
	"bufio"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/harperreed/cleancontacts/db"
	"github.com/harperreed/cleancontacts/dedupe"
	"github.com/harperreed/cleancontacts/models"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// scanResult is the --json shape of a scan.
type scanResult struct {
	Summary dedupe.Summary `json:"summary"`
	Groups  []groupView    `json:"groups"`
}

type groupView struct {
	Number  int                   `json:"number"`
	Members []models.Contact      `json:"members"`
	Keys    []models.CanonicalKey `json:"keys"`
	Shared  []models.CanonicalKey `json:"shared"`
}

// loadScan reads every contact and groups duplicates.
func loadScan(database *sql.DB) ([]models.Contact, []models.DuplicateGroup, error) {
	records, err := db.ListContacts(database)
	if err != nil {
		return nil, nil, err
	}
	return records, dedupe.Scan(records), nil
}

func newScanCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Find duplicate contacts",
		Long: `Find contacts that share a name, phone number, or email address.

Groups are numbered; pass those numbers to 'cleancontacts merge'.`,
		Args: cobra.NoArgs,
		RunE: a.withDB(func(cmd *cobra.Command, args []string, database *sql.DB) error {
			records, groups, err := loadScan(database)
			if err != nil {
				return fmt.Errorf("failed to scan contacts: %w", err)
			}
			a.logger.Debug("scan complete", "contacts", len(records), "groups", len(groups))

			out := cmd.OutOrStdout()
			if asJSON {
				return writeScanJSON(out, records, groups)
			}

			if len(groups) == 0 {
				green := color.New(color.FgGreen).SprintFunc()
				fmt.Fprintf(out, "%s No duplicates found in %d contacts\n", green("✓"), len(records))
				return nil
			}

			summary := dedupe.Summarize(groups)
			yellow := color.New(color.FgYellow).SprintFunc()
			fmt.Fprintf(out, "%s Found %d duplicate group(s) covering %d contacts (%d redundant)\n\n",
				yellow("⚠"), summary.Groups, summary.Contacts, summary.Redundant)

			byID := indexContacts(records)
			for i := range groups {
				printGroup(out, i+1, &groups[i], byID)
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print groups as JSON")

	return cmd
}

func writeScanJSON(out io.Writer, records []models.Contact, groups []models.DuplicateGroup) error {
	byID := indexContacts(records)
	result := scanResult{
		Summary: dedupe.Summarize(groups),
		Groups:  make([]groupView, 0, len(groups)),
	}
	for i, g := range groups {
		view := groupView{Number: i + 1, Keys: g.Keys, Shared: g.Shared}
		for _, id := range g.Members {
			view.Members = append(view.Members, *byID[id.String()])
		}
		result.Groups = append(result.Groups, view)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func newMergeCommand(a *app) *cobra.Command {
	var all, yes bool

	cmd := &cobra.Command{
		Use:   "merge [group-number...]",
		Short: "Merge duplicate groups",
		Long: `Merge duplicate groups by the numbers shown in 'cleancontacts scan'.

The merged contact keeps the names of the group's first contact and the union
of every member's phone numbers and emails. The originals are deleted after
the merged contact is saved. Use 'cleancontacts undo' to reverse a merge.

Examples:
  cleancontacts merge 1 3
  cleancontacts merge --all --yes`,
		RunE: a.withDB(func(cmd *cobra.Command, args []string, database *sql.DB) error {
			records, groups, err := loadScan(database)
			if err != nil {
				return fmt.Errorf("failed to scan contacts: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(groups) == 0 {
				fmt.Fprintln(out, "No duplicates found")
				return nil
			}

			numbers, err := selectGroups(len(groups), args, all)
			if err != nil {
				return err
			}

			plans := make([]models.MergePlan, 0, len(numbers))
			for _, n := range numbers {
				plan, err := dedupe.PlanMerge(groups[n-1], records)
				if err != nil {
					return fmt.Errorf("failed to plan group %d: %w", n, err)
				}
				plans = append(plans, plan)
			}

			for i, plan := range plans {
				printPlan(out, numbers[i], plan)
			}

			if !yes && isTerminal(cmd.InOrStdin()) {
				ok, err := confirm(cmd.InOrStdin(), out, fmt.Sprintf("Apply %d merge(s)? [y/N] ", len(plans)))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Merge cancelled")
					return nil
				}
			}

			return a.applyPlans(out, database, numbers, plans)
		}),
	}

	cmd.Flags().BoolVar(&all, "all", false, "Merge every group")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")

	return cmd
}

// applyPlans commits each plan in its own transaction. Groups applied before a
// failure stay merged, so the error says how far it got.
func (a *app) applyPlans(out io.Writer, database *sql.DB, numbers []int, plans []models.MergePlan) error {
	green := color.New(color.FgGreen).SprintFunc()
	for i, plan := range plans {
		merged, record, err := db.ApplyMergePlan(database, plan)
		if err != nil {
			a.logger.Error("merge failed", "group", numbers[i], "applied", i, "total", len(plans), "err", err)
			return fmt.Errorf("merged %d of %d groups; group %d failed: %w", i, len(plans), numbers[i], err)
		}
		a.logger.Info("merged group", "group", numbers[i], "merged", merged.ID, "retired", len(plan.Delete), "merge", record.ID)
		fmt.Fprintf(out, "%s Merged group %d into %s (ID: %s, merge: %s)\n",
			green("✓"), numbers[i], merged.DisplayName(), merged.ID, record.ID)
	}
	return nil
}

// selectGroups validates 1-based group numbers, dropping repeats.
func selectGroups(count int, args []string, all bool) ([]int, error) {
	if all && len(args) > 0 {
		return nil, fmt.Errorf("pass group numbers or --all, not both")
	}

	if all {
		numbers := make([]int, count)
		for i := range numbers {
			numbers[i] = i + 1
		}
		return numbers, nil
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("specify group numbers from 'cleancontacts scan' or use --all")
	}

	seen := make(map[int]bool)
	var numbers []int
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid group number %q", arg)
		}
		if n < 1 || n > count {
			return nil, fmt.Errorf("group %d does not exist (found %d groups)", n, count)
		}
		if !seen[n] {
			seen[n] = true
			numbers = append(numbers, n)
		}
	}
	return numbers, nil
}

func newHistoryCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent merges",
		Args:  cobra.NoArgs,
		RunE: a.withDB(func(cmd *cobra.Command, args []string, database *sql.DB) error {
			records, err := db.ListMerges(database, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No merges yet")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MERGE\tAPPLIED\tMERGED INTO\tORIGINALS")
			fmt.Fprintln(w, "-----\t-------\t-----------\t---------")
			for _, r := range records {
				names := make([]string, 0, len(r.Originals))
				for i := range r.Originals {
					names = append(names, r.Originals[i].DisplayName())
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					r.ID,
					r.AppliedAt.Local().Format("2006-01-02 15:04"),
					r.MergedID.String()[:8],
					strings.Join(names, ", "),
				)
			}
			return w.Flush()
		}),
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum results")

	return cmd
}

func newUndoCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "undo <merge-id>",
		Short: "Reverse a merge",
		Args:  cobra.ExactArgs(1),
		RunE: a.withDB(func(cmd *cobra.Command, args []string, database *sql.DB) error {
			record, err := db.UndoMerge(database, args[0])
			if err != nil {
				return fmt.Errorf("failed to undo merge: %w", err)
			}

			green := color.New(color.FgGreen).SprintFunc()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s Restored %d contacts\n", green("✓"), len(record.Originals))
			for i := range record.Originals {
				fmt.Fprintf(out, "  %s (ID: %s)\n", record.Originals[i].DisplayName(), record.Originals[i].ID)
			}
			return nil
		}),
	}
}

func indexContacts(records []models.Contact) map[string]*models.Contact {
	byID := make(map[string]*models.Contact, len(records))
	for i := range records {
		byID[records[i].ID.String()] = &records[i]
	}
	return byID
}

func printGroup(out io.Writer, number int, g *models.DuplicateGroup, byID map[string]*models.Contact) {
	cyan := color.New(color.FgCyan).SprintFunc()

	shared := make([]string, 0, len(g.Shared))
	for _, k := range g.Shared {
		shared = append(shared, string(k))
	}

	fmt.Fprintf(out, "%s (%d contacts)\n", cyan(fmt.Sprintf("Group %d", number)), len(g.Members))
	if len(shared) > 0 {
		fmt.Fprintf(out, "  Shared: %s\n", strings.Join(shared, ", "))
	}
	for i, id := range g.Members {
		marker := " "
		if i == 0 {
			marker = "*"
		}
		c := byID[id.String()]
		fmt.Fprintf(out, "  %s %s (%s)\n", marker, c.DisplayName(), id.String()[:8])
		printValues(out, c)
	}
	fmt.Fprintln(out)
}

func printPlan(out io.Writer, number int, plan models.MergePlan) {
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(out, "%s merges %d contacts into:\n", cyan(fmt.Sprintf("Group %d", number)), len(plan.Delete))
	fmt.Fprintf(out, "  %s\n", plan.Merged.DisplayName())
	printValues(out, &plan.Merged)
	fmt.Fprintln(out)
}

func printValues(out io.Writer, c *models.Contact) {
	if len(c.Phones) > 0 {
		fmt.Fprintf(out, "      Phones: %s\n", strings.Join(c.Phones, ", "))
	}
	if len(c.Emails) > 0 {
		fmt.Fprintf(out, "      Emails: %s\n", strings.Join(c.Emails, ", "))
	}
}

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
