package system

import "envoyou/config"

// gateToolName is the identifier code execution presents to the
// confirmation gate. The safety classifier keys on it.
const gateToolName = "CodeExecutorTool"

// GetSafeWorkspace returns the configured safe workspace directory
func GetSafeWorkspace() string {
	return config.GetWorkspacePath()
}
