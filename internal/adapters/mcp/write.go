package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"meshbridge/internal/application/commands"
	"meshbridge/internal/domain"
)

// RegisterWriteTools adds the node and index tools to the MCP server.
func RegisterWriteTools(s *server.MCPServer, t *Tools) {
	s.AddTool(synthesizeTool(), t.synthesizeHandler)
	if t.Rebuild != nil {
		s.AddTool(rebuildTool(), t.rebuildHandler)
	}
}

// --- synthesize_node ---

func synthesizeTool() mcp.Tool {
	return mcp.NewTool("synthesize_node",
		mcp.WithDescription("Generate an engine scene-node document for a converted mesh, binding each surface to its material GUID."),
		mcp.WithString("node_name",
			mcp.Description("Name of the scene node"),
			mcp.Required(),
		),
		mcp.WithString("mesh_path",
			mcp.Description("Absolute path of the mesh file; rewritten relative to the worlds folder"),
			mcp.Required(),
		),
		mcp.WithArray("surfaces",
			mcp.Description("Surface object names, in mesh order"),
			mcp.Items(map[string]any{"type": "string"}),
		),
		mcp.WithString("output_path",
			mcp.Description("Write the document here instead of returning it"),
		),
		mcp.WithBoolean("strict",
			mcp.Description("Fail when a surface has no indexed material"),
		),
	)
}

func (t *Tools) synthesizeHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cmd := commands.NewSynthesizeNodeCommand(
		t.Cache.Get(),
		t.Artifacts,
		req.GetString("node_name", ""),
		req.GetString("mesh_path", ""),
		req.GetStringSlice("surfaces", nil),
		t.NodeOptions,
	)
	cmd.OutputPath = req.GetString("output_path", "")
	cmd.Strict = req.GetBool("strict", false)

	result, err := cmd.Execute(ctx)
	if err != nil {
		return toolError(err)
	}

	var sb strings.Builder
	if result.OutputPath != "" {
		sb.WriteString(result.Message)
		sb.WriteByte('\n')
	} else {
		sb.WriteString(result.Document)
	}
	if len(result.Missing) > 0 {
		fmt.Fprintf(&sb, "Unresolved surfaces (using %s): %s\n", domain.DefaultGUID, strings.Join(result.Missing, ", "))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// --- rebuild_index ---

func rebuildTool() mcp.Tool {
	return mcp.NewTool("rebuild_index",
		mcp.WithDescription("Rescan the materials tree, rewrite the mapping file and refresh the lookup cache."),
	)
}

func (t *Tools) rebuildHandler(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.rebuildMu.Lock()
	defer t.rebuildMu.Unlock()

	result, err := t.Rebuild.Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	t.Cache.Swap(result.Mapping)
	return mcp.NewToolResultText(result.Message), nil
}
