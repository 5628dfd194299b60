package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"envoyou/config"
	"envoyou/core/approval"
	"envoyou/core/audit"

	. "envoyou/core/types"
)

// Executor runs tools with validation, callback dispatch, and confirmation.
// It is the before/after boundary around every tool call: hooks run first,
// then the confirmation gate, then the tool itself, then the after hooks
// and the audit record.
type Executor struct {
	gate  *approval.Gate
	hooks ToolHooks

	AutoConfirm   bool                                // If true, skip confirmation (useful for testing)
	AgentName     string                              // Which agent is driving this executor
	StatusHandler func(toolName string, phase string) // Optional callback for status updates
}

// NewExecutor creates a tool executor bound to a confirmation gate.
func NewExecutor(gate *approval.Gate) *Executor {
	return &Executor{gate: gate}
}

// SetHooks installs the before/after tool callbacks.
func (e *Executor) SetHooks(hooks ToolHooks) {
	e.hooks = hooks
}

// Execute runs a tool with proper validation, hooks, and confirmation
func (e *Executor) Execute(ctx context.Context, call ToolCall) (string, error) {
	startTime := time.Now()

	// Get the tool from registry
	tool, err := GetTool(call.Tool)
	if err != nil {
		// Check if tool name looks similar to existing tools
		suggestions := e.findSimilarTools(call.Tool)
		if len(suggestions) > 0 {
			return "", fmt.Errorf("tool '%s' not found. Did you mean: %s?", call.Tool, strings.Join(suggestions, ", "))
		}
		return "", err
	}

	metadata := tool.Metadata()

	// Validate arguments
	if err := tool.Validate(call.Arguments); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}

	// Tools consult the gate themselves for fine-grained operations
	if e.gate != nil {
		ctx = approval.NewContext(ctx, e.gate)
	}

	// Before-tool callback: may veto or short-circuit the call
	if e.hooks.BeforeTool != nil {
		override, hookErr := e.hooks.BeforeTool(ctx, call)
		if hookErr != nil {
			return "", fmt.Errorf("tool call rejected: %w", hookErr)
		}
		if override != "" {
			return override, nil
		}
	}

	// Check if confirmation is required (config can override)
	requiresConfirm := metadata.RequiresConfirm
	if configConfirm := config.ShouldConfirm(metadata.Name); configConfirm != nil {
		requiresConfirm = *configConfirm
	}

	operationID := ""
	autoApproved := false

	if requiresConfirm && !e.AutoConfirm && e.gate != nil {
		operationID = approval.GenerateOperationID(metadata.Name, "run")

		decision := e.gate.RequestConfirmation(ctx, approval.Request{
			OperationID:          operationID,
			ToolName:             metadata.Name,
			OperationType:        "run",
			Description:          metadata.Description,
			Parameters:           call.Arguments,
			ConfirmationType:     approval.Boolean,
			RequiresConfirmation: true,
		})
		autoApproved = decision.AutoApproved

		if !decision.Approved {
			duration := time.Since(startTime)

			// Log declined execution
			audit.LogExecution(audit.AuditLog{
				Timestamp:    startTime,
				ToolName:     metadata.Name,
				Category:     metadata.Category,
				Arguments:    call.Arguments,
				Duration:     duration,
				Confirmed:    false,
				UserDeclined: true,
				OperationID:  operationID,
				AgentName:    e.AgentName,
			})

			return "", fmt.Errorf("operation not approved: '%s' (%s)", metadata.Name, decision.Reason)
		}
	}

	// Show execution status (after confirmation)
	if e.StatusHandler != nil {
		e.StatusHandler(metadata.Name, "executing")
	}

	result, execErr := tool.Execute(ctx, call.Arguments)

	// After-tool callback: may rewrite the result
	if e.hooks.AfterTool != nil {
		if replacement := e.hooks.AfterTool(ctx, call, result, execErr); replacement != "" {
			result = replacement
		}
	}

	duration := time.Since(startTime)

	// Notify completion
	if e.StatusHandler != nil {
		if execErr != nil {
			e.StatusHandler(metadata.Name, "error")
		} else {
			e.StatusHandler(metadata.Name, "completed")
		}
	}

	// Log execution
	auditLog := audit.AuditLog{
		Timestamp:    startTime,
		ToolName:     metadata.Name,
		Category:     metadata.Category,
		Arguments:    call.Arguments,
		Duration:     duration,
		Confirmed:    true,
		AutoApproved: autoApproved,
		OperationID:  operationID,
		AgentName:    e.AgentName,
	}

	if execErr != nil {
		auditLog.Error = execErr.Error()
	} else {
		// Truncate result if too long
		if len(result) > 500 {
			auditLog.Result = result[:500] + "... (truncated)"
		} else {
			auditLog.Result = result
		}
	}

	if logErr := audit.LogExecution(auditLog); logErr != nil {
		// Don't fail execution if logging fails, just print warning
		fmt.Fprintf(os.Stderr, "Warning: failed to log audit entry: %v\n", logErr)
	}

	return result, execErr
}

// findSimilarTools finds tool names that are similar to the requested name
func (e *Executor) findSimilarTools(requested string) []string {
	allTools := GetAllToolNames()
	similar := make([]string, 0)

	requested = strings.ToLower(requested)

	for _, name := range allTools {
		nameLower := strings.ToLower(name)

		// Exact substring match
		if strings.Contains(nameLower, requested) || strings.Contains(requested, nameLower) {
			similar = append(similar, name)
			continue
		}

		if levenshteinDistance(requested, nameLower) <= 2 {
			similar = append(similar, name)
		}
	}

	return similar
}

// levenshteinDistance calculates the Levenshtein distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}

			matrix[i][j] = minOf(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(s1)][len(s2)]
}

func minOf(a, b, c int) int {
	if a < b {
		if a < c {
			return a
		}
		return c
	}
	if b < c {
		return b
	}
	return c
}

// IsToolCall checks if the response is a tool call request
func IsToolCall(response string) (bool, *ToolCall) {
	response = strings.TrimSpace(response)

	// First, try to parse entire response as JSON (if model was perfect)
	var call ToolCall
	if err := json.Unmarshal([]byte(response), &call); err == nil {
		if call.Tool != "" && call.Arguments != nil {
			return true, &call
		}
	}

	// Try to find JSON in the response (model might add text before/after)
	startIdx := strings.Index(response, `{"tool"`)
	if startIdx == -1 {
		startIdx = strings.Index(response, `{ "tool"`)
	}

	if startIdx != -1 {
		// Find the matching closing brace by counting braces
		braceCount := 0
		endIdx := -1
		for i := startIdx; i < len(response); i++ {
			if response[i] == '{' {
				braceCount++
			} else if response[i] == '}' {
				braceCount--
				if braceCount == 0 {
					endIdx = i
					break
				}
			}
		}

		if endIdx != -1 {
			jsonStr := response[startIdx : endIdx+1]

			var call ToolCall
			if err := json.Unmarshal([]byte(jsonStr), &call); err == nil {
				if call.Tool != "" && call.Arguments != nil {
					return true, &call
				}
			}
		}
	}

	return false, nil
}
