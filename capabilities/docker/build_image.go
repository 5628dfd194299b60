package docker

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"envoyou/config"
	"envoyou/core/approval"
	"envoyou/core/registry"
	. "envoyou/core/types"
)

type BuildImageTool struct{}

func (t *BuildImageTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:            "build_image",
		Description:     "Build a docker image from a project directory containing a Dockerfile",
		Category:        CategoryDocker,
		RiskLevel:       RiskModerate,
		RequiresConfirm: false, // build is in the classifier's safe set
		Enabled:         true,
		Parameters: []Parameter{
			{
				Name:        "project_path",
				Type:        "string",
				Required:    true,
				Description: "project directory relative to workspace",
			},
			{
				Name:        "image_name",
				Type:        "string",
				Required:    false,
				Description: "tag for the built image",
				Default:     "generated-app",
			},
		},
		Examples: []string{
			`{"tool": "build_image", "arguments": {"project_path": "myapp", "image_name": "myapp:latest"}}`,
		},
	}
}

func (t *BuildImageTool) Validate(args map[string]interface{}) error {
	path, ok := args["project_path"].(string)
	if !ok || path == "" {
		return fmt.Errorf("project_path parameter is required")
	}
	return nil
}

func (t *BuildImageTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	projectPath, _ := args["project_path"].(string)
	imageName, _ := args["image_name"].(string)
	if imageName == "" {
		imageName = "generated-app"
	}

	workspace := config.GetWorkspacePath()
	dir := projectPath
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(workspace, projectPath)
	}
	if !strings.HasPrefix(filepath.Clean(dir), workspace) {
		return "", fmt.Errorf("access denied: path outside workspace")
	}

	approved := approval.RequestDestructive(ctx, gateToolName, "build",
		fmt.Sprintf("Build docker image %s from %s", imageName, projectPath),
		map[string]interface{}{"operation": "build", "image_name": imageName})
	if !approved {
		return fmt.Sprintf(`{"success": false, "cancelled": true, "image": %q}`, imageName), nil
	}

	cmd := exec.CommandContext(ctx, "docker", "build", "-t", imageName, dir)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("docker build failed: %w\n%s", err, output)
	}

	return fmt.Sprintf("Built image %s\n%s", imageName, tail(string(output), 2000)), nil
}

// tail returns the last n bytes of s, breaking at a line boundary.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[len(s)-n:]
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[idx+1:]
	}
	return "... (output truncated)\n" + s
}

func init() {
	registry.Register(&BuildImageTool{})
}
