package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"envoyou/config"
)

// gateToolName is the identifier file operations present to the
// confirmation gate. The safety classifier keys on it.
const gateToolName = "FileSystemTool"

// GetSafeWorkspace returns the configured safe workspace directory
func GetSafeWorkspace() string {
	return config.GetWorkspacePath()
}

// ResolvePath resolves a path relative to workspace, handling tilde and absolute paths
func ResolvePath(pathArg string, workspace string) string {
	if strings.HasPrefix(pathArg, "~") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if pathArg == "~" {
				pathArg = homeDir
			} else if strings.HasPrefix(pathArg, "~/") {
				pathArg = filepath.Join(homeDir, pathArg[2:])
			}
		}
	}

	var fullPath string
	if filepath.IsAbs(pathArg) {
		fullPath = pathArg
	} else {
		fullPath = filepath.Join(workspace, pathArg)
	}

	return filepath.Clean(fullPath)
}

// resolveInWorkspace resolves a path and rejects anything that escapes the
// workspace root.
func resolveInWorkspace(pathArg string) (string, error) {
	workspace := GetSafeWorkspace()
	fullPath := ResolvePath(pathArg, workspace)

	if !strings.HasPrefix(fullPath, workspace) {
		return "", fmt.Errorf("access denied: path outside workspace")
	}
	return fullPath, nil
}

func requireStringArg(args map[string]interface{}, name string) (string, error) {
	value, ok := args[name].(string)
	if !ok || value == "" {
		return "", fmt.Errorf("%s parameter is required", name)
	}
	return value, nil
}
