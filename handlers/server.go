// ABOUTME: MCP server assembly
// ABOUTME: Registers every tool, resource, and prompt against one contact store
package handlers

import (
	"database/sql"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds the MCP server. The caller picks the transport.
func NewServer(database *sql.DB, version string) *mcp.Server {
	contactHandlers := NewContactHandlers(database)
	duplicateHandlers := NewDuplicateHandlers(database)
	vizHandlers := NewVizHandlers(database)
	resourceHandlers := NewResourceHandlers(database)
	promptHandlers := NewPromptHandlers(database)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "cleancontacts",
		Version: version,
	}, nil)

	// Register tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "add_contact",
		Description: "Add a new contact with any number of phone numbers and email addresses",
	}, contactHandlers.AddContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "find_contacts",
		Description: "Search for contacts by name, email, or phone",
	}, contactHandlers.FindContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "delete_contact",
		Description: "Delete a single contact by ID",
	}, contactHandlers.DeleteContact)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "scan_duplicates",
		Description: "Find groups of contacts that share a name, phone number, or email address",
	}, duplicateHandlers.ScanDuplicates)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "preview_merge",
		Description: "Show the merged contact that merging the given contact IDs would produce, without changing anything",
	}, duplicateHandlers.PreviewMerge)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "merge_contacts",
		Description: "Merge the given contact IDs into one contact and delete the originals. The IDs must form one duplicate group",
	}, duplicateHandlers.MergeContacts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "merge_history",
		Description: "List recent merges, newest first",
	}, duplicateHandlers.MergeHistory)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "undo_merge",
		Description: "Restore the original contacts of a merge and remove the merged contact",
	}, duplicateHandlers.UndoMerge)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_duplicate_graph",
		Description: "Render duplicate groups as GraphViz DOT source",
	}, vizHandlers.GenerateGraph)

	// Register resources
	server.AddResource(&mcp.Resource{
		URI:         resourceScheme + "contacts",
		Name:        "contacts",
		Description: "Every contact in creation order",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         resourceScheme + "duplicates",
		Name:        "duplicates",
		Description: "Current duplicate groups",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResource(&mcp.Resource{
		URI:         resourceScheme + "merges",
		Name:        "merges",
		Description: "Merge history, newest first",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: resourceScheme + "contacts/{id}",
		Name:        "contact",
		Description: "A single contact by ID",
		MIMEType:    "application/json",
	}, resourceHandlers.ReadResource)

	// Register prompts
	server.AddPrompt(&mcp.Prompt{
		Name:        "review-duplicates",
		Description: "Walk through the current duplicate groups and merge the real ones",
	}, promptHandlers.GetPrompt)

	return server
}
