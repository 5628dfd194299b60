package git

import (
	"context"
	"fmt"
	"strings"

	"envoyou/core/approval"
	"envoyou/core/registry"
	. "envoyou/core/types"
)

type GitPushTool struct{}

func (t *GitPushTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:            "git_push",
		Description:     "Push the current branch to a remote (requires approval)",
		Category:        CategoryGit,
		RiskLevel:       RiskDangerous,
		RequiresConfirm: false, // the tool asks the gate itself
		Enabled:         true,
		Parameters: []Parameter{
			{
				Name:        "remote",
				Type:        "string",
				Required:    false,
				Description: "Remote name",
				Default:     "origin",
			},
			{
				Name:        "path",
				Type:        "string",
				Required:    false,
				Description: "Working directory (defaults to current)",
			},
		},
		Examples: []string{
			`{"tool": "git_push", "arguments": {"remote": "origin"}}`,
		},
	}
}

func (t *GitPushTool) Validate(args map[string]interface{}) error {
	return nil
}

func (t *GitPushTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	remote, _ := args["remote"].(string)
	if remote == "" {
		remote = "origin"
	}
	workDir := workDirFromArgs(args)

	gitRoot, err := FindGitRoot(workDir)
	if err != nil {
		return "", err
	}

	branchOut, err := RunGitCommandInDir(gitRoot, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", fmt.Errorf("cannot determine current branch: %w", err)
	}
	branch := strings.TrimSpace(branchOut)

	approved := approval.RequestDestructive(ctx, gateToolName, "push",
		fmt.Sprintf("Push %s to %s", branch, remote),
		map[string]interface{}{"operation": "push", "remote": remote, "branch": branch})
	if !approved {
		return fmt.Sprintf(`{"success": false, "cancelled": true, "remote": %q}`, remote), nil
	}

	output, err := RunGitCommandInDir(gitRoot, "push", remote, branch)
	if err != nil {
		return "", fmt.Errorf("git push failed: %w", err)
	}

	return output, nil
}

func init() {
	registry.Register(&GitPushTool{})
}
