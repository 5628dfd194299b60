package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"envoyou/core/types"
)

// Security and policy constants
var forbiddenKeywords = []string{
	"hack", "exploit", "malware", "virus", "trojan",
	"password", "credential", "secret", "token",
	"admin", "root", "sudo", "privilege",
}

const (
	maxRequestLength  = 10000
	maxToolArgsLength = 5000
)

// CheckRequest validates a user request before any agent sees it
func CheckRequest(input string) error {
	if len(input) > maxRequestLength {
		return fmt.Errorf("input too long (max %d characters)", maxRequestLength)
	}

	if keyword := findForbiddenKeyword(input); keyword != "" {
		return fmt.Errorf("request contains forbidden keyword: %s", keyword)
	}
	return nil
}

// CheckToolArgs validates tool arguments before execution
func CheckToolArgs(args map[string]interface{}) error {
	encoded, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("arguments are not serializable: %w", err)
	}
	if len(encoded) > maxToolArgsLength {
		return fmt.Errorf("tool arguments too large (max %d bytes)", maxToolArgsLength)
	}
	return nil
}

// ValidateModelResponse rejects empty model output so the run loop never
// feeds a blank observation back into the conversation
func ValidateModelResponse(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("empty response from language model")
	}
	return nil
}

func findForbiddenKeyword(text string) string {
	lower := strings.ToLower(text)
	for _, keyword := range forbiddenKeywords {
		if strings.Contains(lower, keyword) {
			return keyword
		}
	}
	return ""
}

// PolicyHooks builds the before/after tool callbacks enforcing the
// argument policy around every tool call.
func PolicyHooks() types.ToolHooks {
	return types.ToolHooks{
		BeforeTool: func(ctx context.Context, call types.ToolCall) (string, error) {
			if err := CheckToolArgs(call.Arguments); err != nil {
				log.Printf("[policy] blocked %s: %v", call.Tool, err)
				return "", err
			}
			return "", nil
		},
		AfterTool: func(ctx context.Context, call types.ToolCall, result string, execErr error) string {
			// Cap runaway tool output before it reaches the model
			const maxResultLength = 20000
			if len(result) > maxResultLength {
				return result[:maxResultLength] + "\n... (result truncated)"
			}
			return ""
		},
	}
}
