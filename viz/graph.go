// ABOUTME: Graphviz rendering of duplicate groups
// ABOUTME: Draws each group's contacts joined by the keys they share
package viz

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/harperreed/cleancontacts/dedupe"
	"github.com/harperreed/cleancontacts/models"
)

// GenerateDuplicateGraph returns DOT source for the given groups.
func GenerateDuplicateGraph(ctx context.Context, records []models.Contact, groups []models.DuplicateGroup) (string, error) {
	var buf bytes.Buffer
	if err := RenderDuplicateGraph(ctx, records, groups, graphviz.XDOT, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderDuplicateGraph writes the groups in the requested format. Each contact is
// a node; an edge joins consecutive members that carry the same shared key.
// Representatives are drawn as boxes.
func RenderDuplicateGraph(ctx context.Context, records []models.Contact, groups []models.DuplicateGroup, format graphviz.Format, w io.Writer) error {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer func() { _ = gv.Close() }()

	graph, err := gv.Graph()
	if err != nil {
		return fmt.Errorf("failed to create graph: %w", err)
	}
	defer func() { _ = graph.Close() }()

	graph.SetLabel(fmt.Sprintf("Duplicate groups (%d)", len(groups)))
	graph.SetRankDir(cgraph.LRRank)

	byID := make(map[string]*models.Contact, len(records))
	for i := range records {
		byID[records[i].ID.String()] = &records[i]
	}

	for gi := range groups {
		if err := addGroup(graph, gi+1, &groups[gi], byID); err != nil {
			return err
		}
	}

	if err := gv.Render(ctx, graph, format, w); err != nil {
		return fmt.Errorf("failed to render graph: %w", err)
	}

	return nil
}

func addGroup(graph *cgraph.Graph, number int, group *models.DuplicateGroup, byID map[string]*models.Contact) error {
	nodes := make([]*cgraph.Node, len(group.Members))
	keysOf := make([]map[models.CanonicalKey]bool, len(group.Members))

	for i, id := range group.Members {
		contact, ok := byID[id.String()]
		if !ok {
			return fmt.Errorf("group %d references unknown contact %s", number, id)
		}

		node, err := graph.CreateNodeByName(id.String())
		if err != nil {
			return fmt.Errorf("failed to create node: %w", err)
		}
		node.SetLabel(nodeLabel(number, contact))
		node.SetStyle("filled")
		if i == 0 {
			node.SetShape("box")
			node.SetFillColor("lightyellow")
		} else {
			node.SetShape("ellipse")
			node.SetFillColor("lightblue")
		}
		nodes[i] = node

		keysOf[i] = make(map[models.CanonicalKey]bool)
		for _, k := range dedupe.CanonicalKeys(*contact) {
			keysOf[i][k] = true
		}
	}

	for _, key := range group.Shared {
		prev := -1
		for i := range group.Members {
			if !keysOf[i][key] {
				continue
			}
			if prev >= 0 {
				edge, err := graph.CreateEdgeByName("", nodes[prev], nodes[i])
				if err != nil {
					return fmt.Errorf("failed to create edge: %w", err)
				}
				edge.SetLabel(string(key))
				if key.Kind() == models.KeyName {
					edge.SetStyle("dashed")
				}
			}
			prev = i
		}
	}

	return nil
}

func nodeLabel(group int, c *models.Contact) string {
	lines := []string{fmt.Sprintf("#%d %s", group, c.DisplayName())}
	lines = append(lines, c.Phones...)
	lines = append(lines, c.Emails...)
	return strings.Join(lines, "\n")
}
