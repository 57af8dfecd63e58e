// ABOUTME: GraphViz visualization MCP handlers
// ABOUTME: Provides the generate_duplicate_graph tool for agents
package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/harperreed/cleancontacts/db"
	"github.com/harperreed/cleancontacts/dedupe"
	"github.com/harperreed/cleancontacts/viz"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type VizHandlers struct {
	db *sql.DB
}

func NewVizHandlers(database *sql.DB) *VizHandlers {
	return &VizHandlers{db: database}
}

type GenerateGraphInput struct{}

type GenerateGraphOutput struct {
	DOTSource  string `json:"dot_source"`
	GroupCount int    `json:"group_count"`
	NodeCount  int    `json:"node_count"`
	EdgeCount  int    `json:"edge_count"`
}

func (h *VizHandlers) GenerateGraph(ctx context.Context, request *mcp.CallToolRequest, input GenerateGraphInput) (*mcp.CallToolResult, GenerateGraphOutput, error) {
	records, err := db.ListContacts(h.db)
	if err != nil {
		return nil, GenerateGraphOutput{}, fmt.Errorf("failed to read contacts: %w", err)
	}

	groups := dedupe.Scan(records)
	dot, err := viz.GenerateDuplicateGraph(ctx, records, groups)
	if err != nil {
		return nil, GenerateGraphOutput{}, fmt.Errorf("failed to generate graph: %w", err)
	}

	summary := dedupe.Summarize(groups)

	return nil, GenerateGraphOutput{
		DOTSource:  dot,
		GroupCount: summary.Groups,
		NodeCount:  summary.Contacts,
		EdgeCount:  strings.Count(dot, "->"),
	}, nil
}
