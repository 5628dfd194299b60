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

// installCommands maps a package manager to its install invocation.
var installCommands = map[string][]string{
	"npm":  {"npm", "install"},
	"yarn": {"yarn", "install"},
	"pip":  {"pip", "install", "-r", "requirements.txt"},
	"go":   {"go", "mod", "download"},
}

type InstallDependenciesTool struct{}

func (t *InstallDependenciesTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:            "install_dependencies",
		Description:     "Install project dependencies (npm, yarn, pip, go)",
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
				Name:        "package_manager",
				Type:        "string",
				Required:    false,
				Description: "npm, yarn, pip, or go",
				Default:     "npm",
			},
		},
		Examples: []string{
			`{"tool": "install_dependencies", "arguments": {"project_path": "myapp", "package_manager": "npm"}}`,
		},
	}
}

func (t *InstallDependenciesTool) Validate(args map[string]interface{}) error {
	path, ok := args["project_path"].(string)
	if !ok || path == "" {
		return fmt.Errorf("project_path parameter is required")
	}
	if pm, ok := args["package_manager"].(string); ok && pm != "" {
		if _, known := installCommands[pm]; !known {
			return fmt.Errorf("unsupported package manager %q", pm)
		}
	}
	return nil
}

func (t *InstallDependenciesTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	projectPath, _ := args["project_path"].(string)
	pm, _ := args["package_manager"].(string)
	if pm == "" {
		pm = "npm"
	}
	cmdArgs, ok := installCommands[pm]
	if !ok {
		return "", fmt.Errorf("unsupported package manager %q", pm)
	}

	workspace := config.GetWorkspacePath()
	dir := projectPath
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(workspace, projectPath)
	}
	if !strings.HasPrefix(filepath.Clean(dir), workspace) {
		return "", fmt.Errorf("access denied: path outside workspace")
	}

	cmd := exec.CommandContext(ctx, cmdArgs[0], cmdArgs[1:]...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("%s install failed: %w", pm, err)
	}

	return fmt.Sprintf("Installed dependencies with %s\n%s", pm, output), nil
}

func init() {
	registry.Register(&InstallDependenciesTool{})
}
