package filesystem

import (
	"context"
	"fmt"
	"os"
	"time"

	"envoyou/core/registry"
	. "envoyou/core/types"
)

type FileInfoTool struct{}

func (t *FileInfoTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:            "file_info",
		Description:     "Show size, type and modification time of a file or directory",
		Category:        CategoryFileSystem,
		RiskLevel:       RiskSafe,
		RequiresConfirm: false,
		Enabled:         true,
		Parameters: []Parameter{
			{
				Name:        "path",
				Type:        "string",
				Required:    true,
				Description: "path to inspect",
				Example:     "go.mod",
			},
		},
		Examples: []string{
			`{"tool": "file_info", "arguments": {"path": "go.mod"}}`,
		},
	}
}

func (t *FileInfoTool) Validate(args map[string]interface{}) error {
	_, err := requireStringArg(args, "path")
	return err
}

func (t *FileInfoTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	pathArg, err := requireStringArg(args, "path")
	if err != nil {
		return "", err
	}

	fullPath, err := resolveInWorkspace(pathArg)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return "", fmt.Errorf("error reading file info: %w", err)
	}

	kind := "file"
	if info.IsDir() {
		kind = "directory"
	}

	return fmt.Sprintf("%s: %s, %d bytes, modified %s",
		pathArg, kind, info.Size(), info.ModTime().Format(time.RFC3339)), nil
}

func init() {
	registry.Register(&FileInfoTool{})
}
