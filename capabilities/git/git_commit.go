package git

import (
	"context"
	"fmt"
	"strings"

	"envoyou/core/registry"
	. "envoyou/core/types"
)

type GitCommitTool struct{}

func (t *GitCommitTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:            "git_commit",
		Description:     "Stage all changes and create a commit",
		Category:        CategoryGit,
		RiskLevel:       RiskModerate,
		RequiresConfirm: false,
		Enabled:         true,
		Parameters: []Parameter{
			{
				Name:        "message",
				Type:        "string",
				Required:    true,
				Description: "Commit message",
				Example:     "Add login handler",
			},
			{
				Name:        "path",
				Type:        "string",
				Required:    false,
				Description: "Working directory (defaults to current)",
			},
		},
		Examples: []string{
			`{"tool": "git_commit", "arguments": {"message": "Add login handler"}}`,
		},
	}
}

func (t *GitCommitTool) Validate(args map[string]interface{}) error {
	message, ok := args["message"].(string)
	if !ok || strings.TrimSpace(message) == "" {
		return fmt.Errorf("message parameter is required")
	}
	return nil
}

func (t *GitCommitTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	message, _ := args["message"].(string)
	workDir := workDirFromArgs(args)

	gitRoot, err := FindGitRoot(workDir)
	if err != nil {
		return "", err
	}

	if _, err := RunGitCommandInDir(gitRoot, "add", "-A"); err != nil {
		return "", fmt.Errorf("git add failed: %w", err)
	}

	output, err := RunGitCommandInDir(gitRoot, "commit", "-m", message)
	if err != nil {
		if strings.Contains(output, "nothing to commit") {
			return "Nothing to commit, working tree clean", nil
		}
		return "", fmt.Errorf("git commit failed: %w", err)
	}

	return output, nil
}

func init() {
	registry.Register(&GitCommitTool{})
}
