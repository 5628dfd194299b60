package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"envoyou/core/registry"
	. "envoyou/core/types"
)

// ToolBridge adapts an external MCP tool to the local Tool interface.
// Bridged tools always require confirmation: state behind an external
// server is outside the safety classifier's reach.
type ToolBridge struct {
	client     *Client
	serverName string
	tool       MCPTool
}

// NewToolBridge creates a new bridge for an MCP tool
func NewToolBridge(client *Client, serverName string, tool MCPTool) *ToolBridge {
	return &ToolBridge{
		client:     client,
		serverName: serverName,
		tool:       tool,
	}
}

// RegisterAll bridges every discovered MCP tool into the tool registry
func RegisterAll(client *Client) {
	for _, tool := range client.ListTools() {
		registry.Register(NewToolBridge(client, tool.ServerName, tool))
	}
}

func (b *ToolBridge) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:            fmt.Sprintf("mcp_%s_%s", b.serverName, b.tool.Name),
		Description:     fmt.Sprintf("[MCP:%s] %s", b.serverName, b.tool.Description),
		Category:        CategoryMCP,
		RiskLevel:       RiskModerate,
		RequiresConfirm: true,
		Enabled:         true,
		Parameters: []Parameter{
			{
				Name:        "arguments",
				Type:        "object",
				Required:    false,
				Description: "Tool-specific arguments (see MCP server documentation)",
			},
		},
		Examples: []string{
			fmt.Sprintf(`{"tool": "mcp_%s_%s", "arguments": {...}}`, b.serverName, b.tool.Name),
		},
	}
}

// Validate is a no-op: MCP servers validate their own arguments
func (b *ToolBridge) Validate(_ map[string]interface{}) error {
	return nil
}

func (b *ToolBridge) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	result, err := b.client.CallTool(ctx, b.serverName, b.tool.Name, args)
	if err != nil {
		return "", fmt.Errorf("MCP tool execution failed: %w", err)
	}

	// Pretty-print JSON results when possible
	var jsonResult interface{}
	if err := json.Unmarshal([]byte(result), &jsonResult); err == nil {
		if formatted, err := json.MarshalIndent(jsonResult, "", "  "); err == nil {
			return string(formatted), nil
		}
	}

	return result, nil
}
