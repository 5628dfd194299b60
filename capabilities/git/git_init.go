package git

import (
	"context"
	"fmt"

	"envoyou/core/registry"
	. "envoyou/core/types"
)

type GitInitTool struct{}

func (t *GitInitTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:            "git_init",
		Description:     "Initialize a new git repository",
		Category:        CategoryGit,
		RiskLevel:       RiskModerate,
		RequiresConfirm: false,
		Enabled:         true,
		Parameters: []Parameter{
			{
				Name:        "path",
				Type:        "string",
				Required:    false,
				Description: "Directory to initialize (defaults to current)",
			},
		},
		Examples: []string{
			`{"tool": "git_init", "arguments": {"path": "myproject"}}`,
		},
	}
}

func (t *GitInitTool) Validate(args map[string]interface{}) error {
	return nil
}

func (t *GitInitTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	workDir := workDirFromArgs(args)

	if IsGitRepo(workDir) {
		return "", fmt.Errorf("already a git repository")
	}

	output, err := RunGitCommandInDir(workDir, "init")
	if err != nil {
		return "", fmt.Errorf("git init failed: %w", err)
	}

	return output, nil
}

func init() {
	registry.Register(&GitInitTool{})
}
