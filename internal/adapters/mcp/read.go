package mcp

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"meshbridge/internal/application"
	"meshbridge/internal/application/commands"
	"meshbridge/internal/domain"
	"meshbridge/internal/ports"
)

// Deps holds what the tools need. Catalog, Rebuild and Artifacts may be nil.
type Deps struct {
	Cache       *application.MappingCache
	Catalog     ports.MaterialCatalog
	Rebuild     *commands.BuildIndexCommand
	Artifacts   ports.ArtifactStore
	NodeOptions domain.NodeOptions
}

// Tools serves material tools over a shared mapping cache
type Tools struct {
	Deps
	rebuildMu sync.Mutex
}

// NewTools creates the tool set
func NewTools(d Deps) *Tools {
	return &Tools{Deps: d}
}

// RegisterReadTools adds the material lookup tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, t *Tools) {
	s.AddTool(lookupTool(), t.lookupHandler)
	s.AddTool(searchTool(), t.searchHandler)
}

// --- lookup_material ---

func lookupTool() mcp.Tool {
	return mcp.NewTool("lookup_material",
		mcp.WithDescription("Resolve material names to engine GUIDs. Unknown names resolve to "+domain.DefaultGUID+"."),
		mcp.WithArray("names",
			mcp.Description("Material names, as used for DCC object names"),
			mcp.Items(map[string]any{"type": "string"}),
			mcp.Required(),
		),
	)
}

func (t *Tools) lookupHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := req.GetStringSlice("names", nil)
	if len(names) == 0 {
		return toolError(fmt.Errorf("names is required"))
	}

	lookup := commands.NewLookupCommand(t.Cache.Get(), names)
	lookup.Catalog = t.Catalog
	results, err := lookup.Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return formatEntities(results, formatLookup)
}

// --- search_materials ---

func searchTool() mcp.Tool {
	return mcp.NewTool("search_materials",
		mcp.WithDescription("Fuzzy search indexed materials by name, GUID or source path."),
		mcp.WithString("query",
			mcp.Description("Search query (at least 2 characters)"),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default 20)"),
		),
	)
}

func (t *Tools) searchHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if query == "" {
		return toolError(fmt.Errorf("query is required"))
	}
	limit := req.GetInt("limit", 20)

	var results []commands.SearchResult
	if t.Catalog != nil {
		var err error
		results, err = commands.NewSearchCommand(t.Catalog, query).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
	} else {
		results = commands.FuzzySort(mappingEntries(t.Cache.Get()), query)
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No results found."), nil
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return formatEntities(results, formatSearchResult)
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatLookup(r commands.LookupResult) string {
	if !r.Found {
		return fmt.Sprintf("%s  %s  (not indexed)", r.Name, r.GUID)
	}
	if r.SourcePath != "" {
		return fmt.Sprintf("%s  %s  %s", r.Name, r.GUID, r.SourcePath)
	}
	return fmt.Sprintf("%s  %s", r.Name, r.GUID)
}

func formatSearchResult(r commands.SearchResult) string {
	if r.SourcePath == "" {
		return fmt.Sprintf("%s  %s", r.Name, r.GUID)
	}
	return fmt.Sprintf("%s  %s  %s", r.Name, r.GUID, r.SourcePath)
}

func mappingEntries(m *domain.GuidMapping) []domain.CatalogEntry {
	records := m.Records()
	entries := make([]domain.CatalogEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, domain.CatalogEntry{Name: r.Name, GUID: r.GUID, SourcePath: r.SourcePath})
	}
	return entries
}
