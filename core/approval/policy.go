package approval

import "strings"

// complexCodeThreshold is the raw character count above which code
// execution needs a human. Character count, not tokens.
const complexCodeThreshold = 200

// destructiveOperations always require confirmation (case-insensitive).
var destructiveOperations = []string{
	"delete", "remove", "rm",
	"copy_overwrite", "overwrite", "replace",
	"run",
}

// safeOperations never require confirmation (case-insensitive).
var safeOperations = []string{"read", "list", "get", "view", "show", "status", "info"}

// ShouldRequireConfirmation decides whether an operation needs a
// confirmation round-trip at all, from its type and parameters alone.
// Pure and total: malformed parameters fall back to zero values.
// First matching rule wins; unknown operations fail closed.
func ShouldRequireConfirmation(operationType string, parameters map[string]interface{}) bool {
	// Specific thresholds first
	if operationType == "delete_files" {
		return true // File deletions always go to a human
	}

	if operationType == "execute_code" || operationType == "execute" {
		code, _ := parameters["code"].(string)
		return len(code) > complexCodeThreshold
	}

	if operationType == "deploy" {
		env, _ := parameters["environment"].(string)
		return env == "production"
	}

	if operationType == "delete_branch" {
		branch, _ := parameters["branch"].(string)
		return branch == "main"
	}

	lower := strings.ToLower(operationType)

	for _, op := range destructiveOperations {
		if lower == op {
			return true
		}
	}

	for _, op := range safeOperations {
		if lower == op {
			return false
		}
	}

	// Unknown operation: be cautious
	return true
}
