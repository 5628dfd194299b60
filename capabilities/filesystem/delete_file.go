package filesystem

import (
	"context"
	"fmt"
	"os"

	"envoyou/core/approval"
	"envoyou/core/registry"
	. "envoyou/core/types"
)

type DeleteFileTool struct{}

func (t *DeleteFileTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:            "delete_file",
		Description:     "Delete a file (requires approval unless the path is in a scratch directory)",
		Category:        CategoryFileSystem,
		RiskLevel:       RiskDangerous,
		RequiresConfirm: false, // the tool asks the gate per path
		Enabled:         true,
		Parameters: []Parameter{
			{
				Name:        "path",
				Type:        "string",
				Required:    true,
				Description: "file path to delete",
				Example:     "/tmp/scratch.txt",
			},
		},
		Examples: []string{
			`{"tool": "delete_file", "arguments": {"path": "/tmp/scratch.txt"}}`,
		},
	}
}

func (t *DeleteFileTool) Validate(args map[string]interface{}) error {
	_, err := requireStringArg(args, "path")
	return err
}

func (t *DeleteFileTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	pathArg, err := requireStringArg(args, "path")
	if err != nil {
		return "", err
	}

	fullPath, err := resolveInWorkspace(pathArg)
	if err != nil {
		return "", err
	}

	approved := approval.RequestDestructive(ctx, gateToolName, "delete",
		fmt.Sprintf("Delete file %s", pathArg),
		map[string]interface{}{"path": pathArg})
	if !approved {
		return fmt.Sprintf(`{"success": false, "cancelled": true, "path": %q}`, pathArg), nil
	}

	if err := os.Remove(fullPath); err != nil {
		return "", fmt.Errorf("error deleting file: %w", err)
	}

	return fmt.Sprintf("Deleted %s", pathArg), nil
}

func init() {
	registry.Register(&DeleteFileTool{})
}
