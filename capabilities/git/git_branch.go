package git

import (
	"context"
	"fmt"

	"envoyou/core/approval"
	"envoyou/core/registry"
	. "envoyou/core/types"
)

type GitBranchTool struct{}

func (t *GitBranchTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:            "git_branch",
		Description:     "List, create, or delete branches (deleting main requires approval)",
		Category:        CategoryGit,
		RiskLevel:       RiskModerate,
		RequiresConfirm: false, // the tool asks the gate for deletions
		Enabled:         true,
		Parameters: []Parameter{
			{
				Name:        "action",
				Type:        "string",
				Required:    false,
				Description: "list, create, or delete",
				Default:     "list",
			},
			{
				Name:        "branch",
				Type:        "string",
				Required:    false,
				Description: "Branch name for create/delete",
			},
			{
				Name:        "path",
				Type:        "string",
				Required:    false,
				Description: "Working directory (defaults to current)",
			},
		},
		Examples: []string{
			`{"tool": "git_branch", "arguments": {"action": "create", "branch": "feature/login"}}`,
			`{"tool": "git_branch", "arguments": {"action": "delete", "branch": "feature/login"}}`,
		},
	}
}

func (t *GitBranchTool) Validate(args map[string]interface{}) error {
	action, _ := args["action"].(string)
	switch action {
	case "", "list":
		return nil
	case "create", "delete":
		branch, _ := args["branch"].(string)
		if branch == "" {
			return fmt.Errorf("branch parameter is required for %s", action)
		}
		return nil
	default:
		return fmt.Errorf("unknown action %q (expected list, create, or delete)", action)
	}
}

func (t *GitBranchTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	action, _ := args["action"].(string)
	branch, _ := args["branch"].(string)
	workDir := workDirFromArgs(args)

	gitRoot, err := FindGitRoot(workDir)
	if err != nil {
		return "", err
	}

	switch action {
	case "", "list":
		output, err := RunGitCommandInDir(gitRoot, "branch", "--list")
		if err != nil {
			return "", fmt.Errorf("git branch failed: %w", err)
		}
		return output, nil

	case "create":
		output, err := RunGitCommandInDir(gitRoot, "checkout", "-b", branch)
		if err != nil {
			return "", fmt.Errorf("branch creation failed: %w", err)
		}
		return output, nil

	case "delete":
		params := map[string]interface{}{"branch": branch, "operation": "delete_branch"}
		if approval.ShouldRequireConfirmation("delete_branch", params) {
			approved := approval.RequestDestructive(ctx, gateToolName, "delete_branch",
				fmt.Sprintf("Delete branch %s", branch), params)
			if !approved {
				return fmt.Sprintf(`{"success": false, "cancelled": true, "branch": %q}`, branch), nil
			}
		}

		output, err := RunGitCommandInDir(gitRoot, "branch", "-D", branch)
		if err != nil {
			return "", fmt.Errorf("branch deletion failed: %w", err)
		}
		return output, nil
	}

	return "", fmt.Errorf("unknown action %q", action)
}

func init() {
	registry.Register(&GitBranchTool{})
}
