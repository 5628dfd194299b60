package config

import (
	"time"
)

// Config represents the application configuration
type Config struct {
	Workspace WorkspaceConfig      `yaml:"workspace"`
	LLMs      map[string]LLMConfig `yaml:"llms"`
	Agents    AgentsConfig         `yaml:"agents"`
	Tools     ToolsConfig          `yaml:"tools"`
	Audit     AuditConfig          `yaml:"audit"`
	Approval  ApprovalConfig       `yaml:"approval"`
	State     StateConfig          `yaml:"state"`
	MCP       MCPConfig            `yaml:"mcp"`
}

// WorkspaceConfig defines the safe workspace directory
type WorkspaceConfig struct {
	Path string `yaml:"path"`
}

// LLMConfig defines settings for a specific LLM instance
type LLMConfig struct {
	Provider    string         `yaml:"provider"`
	Model       string         `yaml:"model"`
	Temperature float64        `yaml:"temperature"`
	BaseURL     string         `yaml:"base_url,omitempty"`
	APIKey      string         `yaml:"api_key,omitempty"`
	Fallback    string         `yaml:"fallback,omitempty"`
	Options     map[string]any `yaml:"options,omitempty"`
}

// AgentsConfig points at the YAML agent-tree definitions
type AgentsConfig struct {
	RootConfig string `yaml:"root_config"` // path to the root agent YAML
}

// ToolsConfig contains settings for all tools
type ToolsConfig struct {
	Tools map[string]ToolConfig `yaml:"tools"`
}

// ToolConfig represents configuration for a single tool
type ToolConfig struct {
	Enabled         bool              `yaml:"enabled"`
	RequiresConfirm *bool             `yaml:"requires_confirm,omitempty"` // Override default
	MaxFileSize     *int              `yaml:"max_file_size,omitempty"`
	MaxResults      *int              `yaml:"max_results,omitempty"`
	Timeout         *time.Duration    `yaml:"timeout,omitempty"`
	BlockedPatterns []string          `yaml:"blocked_patterns,omitempty"`
	Extra           map[string]string `yaml:"extra,omitempty"` // Tool-specific settings
}

// AuditConfig defines audit logging settings
type AuditConfig struct {
	Enabled  bool   `yaml:"enabled"`
	LogPath  string `yaml:"log_path"`
	LogLevel string `yaml:"log_level"` // info, warning, error
}

// ApprovalConfig defines confirmation gate settings
type ApprovalConfig struct {
	Interactive    bool `yaml:"interactive"`     // wire the terminal approval surface
	TimeoutSeconds int  `yaml:"timeout_seconds"` // per-request wait before deny (0 = gate default)
	TTLSeconds     int  `yaml:"ttl_seconds"`     // sweep age for abandoned requests (0 = no sweep)
}

// StateConfig defines session state store settings
type StateConfig struct {
	Enabled bool   `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

// MCPServerConfig represents configuration for one external MCP server
type MCPServerConfig struct {
	Command string            `yaml:"command"`
	Args    []string          `yaml:"args"`
	Env     map[string]string `yaml:"env,omitempty"`
	Enabled bool              `yaml:"enabled"`
}

// MCPConfig represents the MCP bridge configuration section
type MCPConfig struct {
	Enabled bool                       `yaml:"enabled"`
	Servers map[string]MCPServerConfig `yaml:"servers"`
}
