// ABOUTME: Visualization CLI commands
// ABOUTME: Renders duplicate groups with graphviz and prints the dashboard
package cli

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/goccy/go-graphviz"
	"github.com/harperreed/cleancontacts/viz"
	"github.com/spf13/cobra"
)

func newVizCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viz",
		Short: "Visualize duplicates",
	}

	cmd.AddCommand(newVizGraphCommand(a), newVizDashboardCommand(a))

	return cmd
}

func newVizGraphCommand(a *app) *cobra.Command {
	var output, format string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render duplicate groups as a graph",
		Long: `Render duplicate groups as a graph. Each contact is a node and edges
are labelled with the key the two contacts share.

Examples:
  cleancontacts viz graph > dupes.dot
  cleancontacts viz graph --format svg --output dupes.svg`,
		Args: cobra.NoArgs,
		RunE: a.withDB(func(cmd *cobra.Command, args []string, database *sql.DB) error {
			gvFormat, err := parseGraphFormat(format)
			if err != nil {
				return err
			}

			records, groups, err := loadScan(database)
			if err != nil {
				return fmt.Errorf("failed to scan contacts: %w", err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			var buf bytes.Buffer
			if err := viz.RenderDuplicateGraph(ctx, records, groups, gvFormat, &buf); err != nil {
				return err
			}

			if output != "" {
				return os.WriteFile(output, buf.Bytes(), 0644)
			}

			_, err = cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}),
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "dot", "Output format: dot, svg, png")

	return cmd
}

func parseGraphFormat(format string) (graphviz.Format, error) {
	switch format {
	case "dot":
		return graphviz.XDOT, nil
	case "svg":
		return graphviz.SVG, nil
	case "png":
		return graphviz.PNG, nil
	default:
		return "", fmt.Errorf("unknown format %q (valid formats: dot, svg, png)", format)
	}
}

func newVizDashboardCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show a duplicate overview",
		Args:  cobra.NoArgs,
		RunE: a.withDB(func(cmd *cobra.Command, args []string, database *sql.DB) error {
			stats, err := viz.GenerateDashboardStats(database)
			if err != nil {
				return fmt.Errorf("failed to generate dashboard stats: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), viz.RenderDashboard(stats))
			return nil
		}),
	}
}
