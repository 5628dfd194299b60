package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"envoyou/core/approval"
	"envoyou/core/registry"
	. "envoyou/core/types"
)

type WriteFileTool struct{}

func (t *WriteFileTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:            "write_file",
		Description:     "Write content to a file, creating it if needed (overwrites existing content)",
		Category:        CategoryFileSystem,
		RiskLevel:       RiskModerate,
		RequiresConfirm: false,
		Enabled:         true,
		Parameters: []Parameter{
			{
				Name:        "path",
				Type:        "string",
				Required:    true,
				Description: "relative file path from workspace root",
				Example:     "notes.md",
			},
			{
				Name:        "content",
				Type:        "string",
				Required:    true,
				Description: "full file content to write",
			},
		},
		Examples: []string{
			`{"tool": "write_file", "arguments": {"path": "notes.md", "content": "# Notes"}}`,
		},
	}
}

func (t *WriteFileTool) Validate(args map[string]interface{}) error {
	if _, err := requireStringArg(args, "path"); err != nil {
		return err
	}
	if _, ok := args["content"].(string); !ok {
		return fmt.Errorf("content parameter is required")
	}
	return nil
}

func (t *WriteFileTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	pathArg, err := requireStringArg(args, "path")
	if err != nil {
		return "", err
	}
	content, _ := args["content"].(string)

	fullPath, err := resolveInWorkspace(pathArg)
	if err != nil {
		return "", err
	}

	// Overwriting an existing file is a destructive operation
	if _, statErr := os.Stat(fullPath); statErr == nil {
		if approval.ShouldRequireConfirmation("overwrite", args) {
			approved := approval.RequestDestructive(ctx, gateToolName, "overwrite",
				fmt.Sprintf("Overwrite existing file %s", pathArg),
				map[string]interface{}{"path": fullPath})
			if !approved {
				return fmt.Sprintf(`{"success": false, "cancelled": true, "path": %q}`, pathArg), nil
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("error creating directory: %w", err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("error writing file: %w", err)
	}

	return fmt.Sprintf("Successfully wrote %d bytes to %s", len(content), pathArg), nil
}

func init() {
	registry.Register(&WriteFileTool{})
}
