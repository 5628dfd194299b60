package types

import (
	"context"
)

// ToolCategory represents the category of a tool
type ToolCategory string

const (
	CategoryFileSystem ToolCategory = "filesystem"
	CategoryGit        ToolCategory = "git"
	CategoryDocker     ToolCategory = "docker"
	CategorySystem     ToolCategory = "system"
	CategoryPackages   ToolCategory = "packages"
	CategoryMCP        ToolCategory = "mcp"
)

// RiskLevel indicates how dangerous a tool operation is
type RiskLevel string

const (
	RiskSafe      RiskLevel = "safe"      // Read-only, no side effects
	RiskModerate  RiskLevel = "moderate"  // Can modify files, needs confirmation
	RiskDangerous RiskLevel = "dangerous" // System commands, always confirm
)

// Parameter defines a tool parameter with validation rules
type Parameter struct {
	Name        string
	Type        string // string, int, bool, array
	Required    bool
	Description string
	Default     interface{}
	Example     string
}

// ToolMetadata contains information about a tool
type ToolMetadata struct {
	Name            string
	Description     string
	Category        ToolCategory
	RiskLevel       RiskLevel
	RequiresConfirm bool
	Parameters      []Parameter
	Examples        []string
	Enabled         bool
}

// Tool interface that all tools must implement
type Tool interface {
	Metadata() ToolMetadata
	Execute(ctx context.Context, args map[string]interface{}) (string, error)
	Validate(args map[string]interface{}) error
}

// ToolCall represents a request to execute a tool
type ToolCall struct {
	Tool      string                 `json:"tool"`
	Arguments map[string]interface{} `json:"arguments"`
}

// ToolHooks are the before/after callbacks invoked around every tool
// execution. BeforeTool may veto the call or replace its result entirely;
// AfterTool may rewrite the result before it reaches the agent.
type ToolHooks struct {
	// BeforeTool runs after validation and before confirmation.
	// A non-empty override skips execution and is used as the tool result.
	// An error cancels the call.
	BeforeTool func(ctx context.Context, call ToolCall) (override string, err error)

	// AfterTool runs with the tool result (or execution error).
	// A non-empty replacement substitutes the result.
	AfterTool func(ctx context.Context, call ToolCall, result string, execErr error) (replacement string)
}
