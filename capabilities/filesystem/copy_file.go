package filesystem

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"envoyou/core/approval"
	"envoyou/core/registry"
	. "envoyou/core/types"
)

type CopyFileTool struct{}

func (t *CopyFileTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:            "copy_file",
		Description:     "Copy a file to a new location (requires approval unless both paths are in scratch directories)",
		Category:        CategoryFileSystem,
		RiskLevel:       RiskModerate,
		RequiresConfirm: false, // the tool asks the gate per path pair
		Enabled:         true,
		Parameters: []Parameter{
			{
				Name:        "source_path",
				Type:        "string",
				Required:    true,
				Description: "file to copy",
				Example:     "/tmp/a.txt",
			},
			{
				Name:        "dest_path",
				Type:        "string",
				Required:    true,
				Description: "destination path",
				Example:     "/tmp/b.txt",
			},
		},
		Examples: []string{
			`{"tool": "copy_file", "arguments": {"source_path": "/tmp/a.txt", "dest_path": "/tmp/b.txt"}}`,
		},
	}
}

func (t *CopyFileTool) Validate(args map[string]interface{}) error {
	if _, err := requireStringArg(args, "source_path"); err != nil {
		return err
	}
	_, err := requireStringArg(args, "dest_path")
	return err
}

func (t *CopyFileTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	sourceArg, err := requireStringArg(args, "source_path")
	if err != nil {
		return "", err
	}
	destArg, err := requireStringArg(args, "dest_path")
	if err != nil {
		return "", err
	}

	source, err := resolveInWorkspace(sourceArg)
	if err != nil {
		return "", err
	}
	dest, err := resolveInWorkspace(destArg)
	if err != nil {
		return "", err
	}

	// Clobbering an existing destination escalates the operation
	operation := "copy"
	if _, statErr := os.Stat(dest); statErr == nil {
		operation = "copy_overwrite"
	}

	approved := approval.RequestDestructive(ctx, gateToolName, operation,
		fmt.Sprintf("Copy %s to %s", sourceArg, destArg),
		map[string]interface{}{"source_path": sourceArg, "dest_path": destArg})
	if !approved {
		return fmt.Sprintf(`{"success": false, "cancelled": true, "source": %q, "dest": %q}`, sourceArg, destArg), nil
	}

	in, err := os.Open(source)
	if err != nil {
		return "", fmt.Errorf("error opening source: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return "", fmt.Errorf("error creating destination directory: %w", err)
	}

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("error creating destination: %w", err)
	}
	defer out.Close()

	written, err := io.Copy(out, in)
	if err != nil {
		return "", fmt.Errorf("error copying file: %w", err)
	}

	return fmt.Sprintf("Copied %d bytes from %s to %s", written, sourceArg, destArg), nil
}

func init() {
	registry.Register(&CopyFileTool{})
}
