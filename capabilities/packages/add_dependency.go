package packages

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"envoyou/config"
	"envoyou/core/registry"
	. "envoyou/core/types"
)

type AddDependencyTool struct{}

func (t *AddDependencyTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:            "add_dependency",
		Description:     "Add a dependency to a project (npm or yarn)",
		Category:        CategoryPackages,
		RiskLevel:       RiskModerate,
		RequiresConfirm: true,
		Enabled:         true,
		Parameters: []Parameter{
			{
				Name:        "project_path",
				Type:        "string",
				Required:    true,
				Description: "project directory relative to workspace",
			},
			{
				Name:        "dependency",
				Type:        "string",
				Required:    true,
				Description: "package name, optionally with version",
				Example:     "express@4",
			},
			{
				Name:        "dev",
				Type:        "bool",
				Required:    false,
				Description: "install as a dev dependency",
				Default:     false,
			},
		},
		Examples: []string{
			`{"tool": "add_dependency", "arguments": {"project_path": "myapp", "dependency": "express"}}`,
		},
	}
}

func (t *AddDependencyTool) Validate(args map[string]interface{}) error {
	if path, ok := args["project_path"].(string); !ok || path == "" {
		return fmt.Errorf("project_path parameter is required")
	}
	dep, ok := args["dependency"].(string)
	if !ok || dep == "" {
		return fmt.Errorf("dependency parameter is required")
	}
	if strings.ContainsAny(dep, " ;&|$`") {
		return fmt.Errorf("invalid dependency name %q", dep)
	}
	return nil
}

func (t *AddDependencyTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	if err := t.Validate(args); err != nil {
		return "", err
	}
	projectPath, _ := args["project_path"].(string)
	dependency, _ := args["dependency"].(string)
	dev, _ := args["dev"].(bool)

	workspace := config.GetWorkspacePath()
	dir := projectPath
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(workspace, projectPath)
	}
	if !strings.HasPrefix(filepath.Clean(dir), workspace) {
		return "", fmt.Errorf("access denied: path outside workspace")
	}

	cmdArgs := []string{"install", dependency}
	if dev {
		cmdArgs = append(cmdArgs, "--save-dev")
	}

	cmd := exec.CommandContext(ctx, "npm", cmdArgs...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("adding dependency failed: %w", err)
	}

	return fmt.Sprintf("Added %s\n%s", dependency, output), nil
}

func init() {
	registry.Register(&AddDependencyTool{})
}
