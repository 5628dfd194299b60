package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

var globalConfig *Config

// Load reads the configuration file
func Load(configPath string) (*Config, error) {
	// If path is empty, use default
	if configPath == "" {
		configPath = "config/envoyou.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)

	globalConfig = &cfg
	return &cfg, nil
}

// Get returns the global configuration
func Get() *Config {
	if globalConfig == nil {
		cfg := &Config{}
		applyDefaults(cfg)
		return cfg
	}
	return globalConfig
}

// Set replaces the global configuration (used by tests)
func Set(cfg *Config) {
	if cfg != nil {
		applyDefaults(cfg)
	}
	globalConfig = cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Workspace.Path == "" {
		cfg.Workspace.Path = getDefaultWorkspacePath()
	} else {
		cfg.Workspace.Path = expandHomePath(cfg.Workspace.Path)
	}

	if cfg.Agents.RootConfig == "" {
		cfg.Agents.RootConfig = "config/agents/root_agent.yaml"
	}

	if cfg.Audit.LogPath == "" {
		cfg.Audit.LogPath = ".envoyou/audit.log"
	}
	if cfg.Audit.LogLevel == "" {
		cfg.Audit.LogLevel = "info"
	}

	if cfg.Approval.TimeoutSeconds < 0 {
		cfg.Approval.TimeoutSeconds = 0
	}

	if cfg.State.DBPath == "" {
		cfg.State.DBPath = ".envoyou/state.db"
	}
}

// GetToolConfig returns configuration for a specific tool
func GetToolConfig(toolName string) *ToolConfig {
	cfg := Get()

	if toolCfg, exists := cfg.Tools.Tools[toolName]; exists {
		return &toolCfg
	}

	// Return default config
	return &ToolConfig{
		Enabled: true,
	}
}

// IsToolEnabled checks if a tool is enabled in config
func IsToolEnabled(toolName string) bool {
	return GetToolConfig(toolName).Enabled
}

// ShouldConfirm checks if a tool requires confirmation
// Returns nil if config doesn't override, otherwise returns the configured value
func ShouldConfirm(toolName string) *bool {
	return GetToolConfig(toolName).RequiresConfirm
}

// GetWorkspacePath returns the configured workspace path
func GetWorkspacePath() string {
	return Get().Workspace.Path
}

// GetAuditLogPath returns the full path to audit log
func GetAuditLogPath() string {
	cfg := Get()
	logPath := cfg.Audit.LogPath

	// If relative path, make it relative to workspace
	if !filepath.IsAbs(logPath) {
		logPath = filepath.Join(cfg.Workspace.Path, logPath)
	}

	return logPath
}

// IsAuditEnabled checks if audit logging is enabled
func IsAuditEnabled() bool {
	return Get().Audit.Enabled
}

// GetStateDBPath returns the full path to the state database
func GetStateDBPath() string {
	cfg := Get()
	dbPath := cfg.State.DBPath

	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(cfg.Workspace.Path, dbPath)
	}

	return dbPath
}

// ApprovalTimeout returns the configured confirmation timeout
func ApprovalTimeout() time.Duration {
	return time.Duration(Get().Approval.TimeoutSeconds) * time.Second
}

// ApprovalTTL returns the configured pending-request sweep age
func ApprovalTTL() time.Duration {
	return time.Duration(Get().Approval.TTLSeconds) * time.Second
}

// getDefaultWorkspacePath returns the default workspace path
// Priority: ENVOYOU_WORKSPACE env var > current working directory
func getDefaultWorkspacePath() string {
	if workspacePath := os.Getenv("ENVOYOU_WORKSPACE"); workspacePath != "" {
		return expandHomePath(workspacePath)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return cwd
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if len(path) == 0 {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path // Return unchanged if we can't get home dir
		}

		if len(path) == 1 {
			return homeDir
		}

		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}
	}

	return path
}
