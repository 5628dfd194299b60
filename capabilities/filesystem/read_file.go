package filesystem

import (
	"context"
	"fmt"
	"os"

	"envoyou/core/registry"
	. "envoyou/core/types"
)

type ReadFileTool struct{}

func (t *ReadFileTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:            "read_file",
		Description:     "Read the contents of a file (relative to workspace)",
		Category:        CategoryFileSystem,
		RiskLevel:       RiskSafe,
		RequiresConfirm: false,
		Enabled:         true,
		Parameters: []Parameter{
			{
				Name:        "path",
				Type:        "string",
				Required:    true,
				Description: "relative file path from workspace root",
				Example:     "src/main.go",
			},
		},
		Examples: []string{
			`{"tool": "read_file", "arguments": {"path": "src/main.go"}}`,
		},
	}
}

func (t *ReadFileTool) Validate(args map[string]interface{}) error {
	_, err := requireStringArg(args, "path")
	return err
}

func (t *ReadFileTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	pathArg, err := requireStringArg(args, "path")
	if err != nil {
		return "", err
	}

	fullPath, err := resolveInWorkspace(pathArg)
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		return "", fmt.Errorf("error reading file: %w", err)
	}

	// Limit file size to prevent overwhelming the model
	if len(content) > 10000 {
		return string(content[:10000]) + "\n... (file truncated, showing first 10KB)", nil
	}

	return string(content), nil
}

func init() {
	registry.Register(&ReadFileTool{})
}
