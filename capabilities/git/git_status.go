package git

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"envoyou/core/registry"
	. "envoyou/core/types"
)

type GitStatusTool struct{}

func (t *GitStatusTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:            "git_status",
		Description:     "Show git status: modified, staged, and untracked files",
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
				Example:     "/path/to/repo",
			},
		},
		Examples: []string{
			`{"tool": "git_status", "arguments": {}}`,
		},
	}
}

func (t *GitStatusTool) Validate(args map[string]interface{}) error {
	return nil
}

func (t *GitStatusTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	workDir := workDirFromArgs(args)

	gitRoot, err := FindGitRoot(workDir)
	if err != nil {
		return "", err
	}

	output, err := RunGitCommandInDir(gitRoot, "status", "--porcelain=v1", "--branch")
	if err != nil {
		return "", fmt.Errorf("git status failed: %w", err)
	}

	result := parseGitStatus(output)
	result["git_root"] = gitRoot

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	return string(jsonBytes), nil
}

// parseGitStatus parses git status --porcelain=v1 --branch output.
// Lines are "XY filename"; the "## ..." line carries branch info.
func parseGitStatus(output string) map[string]interface{} {
	modified := []string{}
	staged := []string{}
	untracked := []string{}
	branch := "unknown"

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if len(line) < 3 {
			continue
		}
		switch {
		case strings.HasPrefix(line, "## "):
			branch = strings.SplitN(strings.TrimPrefix(line, "## "), "...", 2)[0]
		case strings.HasPrefix(line, "??"):
			untracked = append(untracked, line[3:])
		default:
			if line[0] != ' ' && line[0] != '?' {
				staged = append(staged, line[3:])
			}
			if line[1] != ' ' {
				modified = append(modified, line[3:])
			}
		}
	}

	return map[string]interface{}{
		"branch":    branch,
		"modified":  modified,
		"staged":    staged,
		"untracked": untracked,
		"clean":     len(modified) == 0 && len(staged) == 0 && len(untracked) == 0,
	}
}

func init() {
	registry.Register(&GitStatusTool{})
}
