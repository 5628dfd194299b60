package git

import (
	"context"
	"fmt"

	"envoyou/core/registry"
	. "envoyou/core/types"
)

type GitLogTool struct{}

func (t *GitLogTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:            "git_log",
		Description:     "Show recent commit history",
		Category:        CategoryGit,
		RiskLevel:       RiskSafe,
		RequiresConfirm: false,
		Enabled:         true,
		Parameters: []Parameter{
			{
				Name:        "path",
				Type:        "string",
				Required:    false,
				Description: "Working directory (defaults to current)",
			},
			{
				Name:        "limit",
				Type:        "int",
				Required:    false,
				Description: "Number of commits to show",
				Default:     10,
			},
		},
		Examples: []string{
			`{"tool": "git_log", "arguments": {"limit": 5}}`,
		},
	}
}

func (t *GitLogTool) Validate(args map[string]interface{}) error {
	return nil
}

func (t *GitLogTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	workDir := workDirFromArgs(args)

	limit := 10
	if raw, ok := args["limit"].(float64); ok && raw > 0 {
		limit = int(raw)
	}
	if limit > 100 {
		limit = 100
	}

	gitRoot, err := FindGitRoot(workDir)
	if err != nil {
		return "", err
	}

	output, err := RunGitCommandInDir(gitRoot, "log",
		fmt.Sprintf("-%d", limit), "--oneline", "--decorate")
	if err != nil {
		return "", fmt.Errorf("git log failed: %w", err)
	}

	if output == "" {
		return "No commits yet", nil
	}
	return output, nil
}

func init() {
	registry.Register(&GitLogTool{})
}
