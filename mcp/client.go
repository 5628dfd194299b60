package mcp

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"envoyou/config"
)

// Client manages connections to external MCP servers
type Client struct {
	servers map[string]*client.Client
	tools   []MCPTool
	config  config.MCPConfig
}

// NewClient creates a new MCP client
func NewClient(cfg config.MCPConfig) *Client {
	return &Client{
		servers: make(map[string]*client.Client),
		tools:   []MCPTool{},
		config:  cfg,
	}
}

// Initialize connects to all configured MCP servers. Connection failures
// are logged and skipped so one broken server does not block startup.
func (c *Client) Initialize(ctx context.Context) error {
	if !c.config.Enabled {
		return nil
	}

	for name, serverCfg := range c.config.Servers {
		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := c.connectServer(connectCtx, name, serverCfg)
		cancel()

		if err != nil {
			log.Printf("[mcp] failed to connect to '%s': %v", name, err)
		}
	}

	return nil
}

func (c *Client) connectServer(ctx context.Context, name string, cfg config.MCPServerConfig) error {
	envVars := make([]string, 0, len(cfg.Env))
	for key, value := range cfg.Env {
		envVars = append(envVars, fmt.Sprintf("%s=%s", key, os.ExpandEnv(value)))
	}

	mcpClient, err := client.NewStdioMCPClient(cfg.Command, envVars, cfg.Args...)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	initReq := mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			ClientInfo: mcp.Implementation{
				Name:    "envoyou",
				Version: "1.0.0",
			},
			Capabilities: mcp.ClientCapabilities{},
		},
	}

	if _, err := mcpClient.Initialize(ctx, initReq); err != nil {
		mcpClient.Close()
		return fmt.Errorf("failed to initialize: %w", err)
	}

	result, err := mcpClient.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		mcpClient.Close()
		return fmt.Errorf("failed to list tools: %w", err)
	}

	c.servers[name] = mcpClient

	for _, tool := range result.Tools {
		c.tools = append(c.tools, MCPTool{
			ServerName:  name,
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		})
	}

	log.Printf("[mcp] connected to '%s': %d tools", name, len(result.Tools))
	return nil
}

// ListTools returns all tools discovered across connected servers
func (c *Client) ListTools() []MCPTool {
	return c.tools
}

// CallTool executes a tool on the appropriate MCP server
func (c *Client) CallTool(ctx context.Context, serverName, toolName string, arguments map[string]interface{}) (string, error) {
	server, exists := c.servers[serverName]
	if !exists {
		return "", fmt.Errorf("server '%s' not connected", serverName)
	}

	result, err := server.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	})
	if err != nil {
		return "", fmt.Errorf("tool call failed: %w", err)
	}

	var output string
	for _, content := range result.Content {
		output += fmt.Sprintf("%v\n", content)
	}
	return output, nil
}

// GetServerNames returns list of connected server names
func (c *Client) GetServerNames() []string {
	names := make([]string, 0, len(c.servers))
	for name := range c.servers {
		names = append(names, name)
	}
	return names
}

// Close closes all MCP server connections
func (c *Client) Close() {
	for name, server := range c.servers {
		log.Printf("[mcp] closing connection to server '%s'", name)
		server.Close()
	}
	c.servers = make(map[string]*client.Client)
	c.tools = []MCPTool{}
}
