package filesystem

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"envoyou/core/registry"
	. "envoyou/core/types"
)

type ListFilesTool struct{}

func (t *ListFilesTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:            "list_files",
		Description:     "List files and directories at a path (relative to workspace)",
		Category:        CategoryFileSystem,
		RiskLevel:       RiskSafe,
		RequiresConfirm: false,
		Enabled:         true,
		Parameters: []Parameter{
			{
				Name:        "path",
				Type:        "string",
				Required:    false,
				Description: "directory to list, defaults to workspace root",
				Default:     ".",
			},
		},
		Examples: []string{
			`{"tool": "list_files", "arguments": {"path": "src"}}`,
		},
	}
}

func (t *ListFilesTool) Validate(args map[string]interface{}) error {
	return nil
}

func (t *ListFilesTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	pathArg, _ := args["path"].(string)
	if pathArg == "" {
		pathArg = "."
	}

	fullPath, err := resolveInWorkspace(pathArg)
	if err != nil {
		return "", err
	}

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return "", fmt.Errorf("error listing directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	sort.Strings(names)

	if len(names) == 0 {
		return fmt.Sprintf("Directory %s is empty", pathArg), nil
	}

	return strings.Join(names, "\n"), nil
}

func init() {
	registry.Register(&ListFilesTool{})
}
