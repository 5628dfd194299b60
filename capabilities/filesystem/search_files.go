package filesystem

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"envoyou/core/registry"
	. "envoyou/core/types"
)

type SearchFilesTool struct{}

const maxSearchResults = 50

func (t *SearchFilesTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:            "search_files",
		Description:     "Search file contents for a text pattern (case-insensitive substring)",
		Category:        CategoryFileSystem,
		RiskLevel:       RiskSafe,
		RequiresConfirm: false,
		Enabled:         true,
		Parameters: []Parameter{
			{
				Name:        "pattern",
				Type:        "string",
				Required:    true,
				Description: "text to search for",
				Example:     "func main",
			},
			{
				Name:        "path",
				Type:        "string",
				Required:    false,
				Description: "directory to search in, defaults to workspace root",
				Default:     ".",
			},
		},
		Examples: []string{
			`{"tool": "search_files", "arguments": {"pattern": "TODO", "path": "src"}}`,
		},
	}
}

func (t *SearchFilesTool) Validate(args map[string]interface{}) error {
	_, err := requireStringArg(args, "pattern")
	return err
}

func (t *SearchFilesTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	pattern, err := requireStringArg(args, "pattern")
	if err != nil {
		return "", err
	}
	pathArg, _ := args["path"].(string)
	if pathArg == "" {
		pathArg = "."
	}

	root, err := resolveInWorkspace(pathArg)
	if err != nil {
		return "", err
	}

	patternLower := strings.ToLower(pattern)
	var results []string

	walkErr := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip unreadable entries
		}
		if d.IsDir() {
			name := d.Name()
			if name == ".git" || name == "node_modules" || name == "vendor" {
				return filepath.SkipDir
			}
			return nil
		}
		if len(results) >= maxSearchResults {
			return filepath.SkipAll
		}

		file, err := os.Open(path)
		if err != nil {
			return nil
		}
		defer file.Close()

		relPath, _ := filepath.Rel(root, path)
		scanner := bufio.NewScanner(file)
		lineNum := 0
		for scanner.Scan() {
			lineNum++
			line := scanner.Text()
			if strings.Contains(strings.ToLower(line), patternLower) {
				results = append(results, fmt.Sprintf("%s:%d: %s", relPath, lineNum, strings.TrimSpace(line)))
				if len(results) >= maxSearchResults {
					break
				}
			}
		}
		return nil
	})
	if walkErr != nil {
		return "", fmt.Errorf("error searching files: %w", walkErr)
	}

	if len(results) == 0 {
		return fmt.Sprintf("No matches for %q", pattern), nil
	}

	out := strings.Join(results, "\n")
	if len(results) >= maxSearchResults {
		out += fmt.Sprintf("\n... (stopped at %d matches)", maxSearchResults)
	}
	return out, nil
}

func init() {
	registry.Register(&SearchFilesTool{})
}
