package filesystem

import (
	"context"
	"fmt"
	"os"

	"envoyou/core/registry"
	. "envoyou/core/types"
)

type MakeDirectoryTool struct{}

func (t *MakeDirectoryTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:            "make_directory",
		Description:     "Create a directory (and parents) relative to workspace",
		Category:        CategoryFileSystem,
		RiskLevel:       RiskModerate,
		RequiresConfirm: false,
		Enabled:         true,
		Parameters: []Parameter{
			{
				Name:        "path",
				Type:        "string",
				Required:    true,
				Description: "directory path to create",
				Example:     "src/handlers",
			},
		},
		Examples: []string{
			`{"tool": "make_directory", "arguments": {"path": "src/handlers"}}`,
		},
	}
}

func (t *MakeDirectoryTool) Validate(args map[string]interface{}) error {
	_, err := requireStringArg(args, "path")
	return err
}

func (t *MakeDirectoryTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	pathArg, err := requireStringArg(args, "path")
	if err != nil {
		return "", err
	}

	fullPath, err := resolveInWorkspace(pathArg)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(fullPath, 0755); err != nil {
		return "", fmt.Errorf("error creating directory: %w", err)
	}

	return fmt.Sprintf("Created directory %s", pathArg), nil
}

func init() {
	registry.Register(&MakeDirectoryTool{})
}
