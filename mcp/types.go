package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// MCPTool represents a tool exposed by an external MCP server
type MCPTool struct {
	ServerName  string
	Name        string
	Description string
	InputSchema mcp.ToolInputSchema
}
