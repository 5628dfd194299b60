package system

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"envoyou/core/approval"
	"envoyou/core/registry"
	. "envoyou/core/types"
)

const (
	defaultExecTimeout = 30 * time.Second
	maxExecTimeout     = 5 * time.Minute
	sandboxDirName     = "execution_sandbox"
)

// executionEngines maps a language to the interpreter and script suffix.
var executionEngines = map[string]struct {
	command string
	suffix  string
}{
	"python":     {"python3", ".py"},
	"javascript": {"node", ".js"},
	"bash":       {"bash", ".sh"},
}

type ExecuteCodeTool struct{}

func (t *ExecuteCodeTool) Metadata() ToolMetadata {
	return ToolMetadata{
		Name:            "execute_code",
		Description:     "Run a code snippet in a sandbox directory (python, javascript, bash)",
		Category:        CategorySystem,
		RiskLevel:       RiskDangerous,
		RequiresConfirm: false, // the tool asks the gate per snippet
		Enabled:         true,
		Parameters: []Parameter{
			{
				Name:        "code",
				Type:        "string",
				Required:    true,
				Description: "code snippet to run",
				Example:     "print('hello')",
			},
			{
				Name:        "language",
				Type:        "string",
				Required:    false,
				Description: "python, javascript, or bash",
				Default:     "python",
			},
			{
				Name:        "timeout",
				Type:        "int",
				Required:    false,
				Description: "seconds before the process is killed",
				Default:     30,
			},
		},
		Examples: []string{
			`{"tool": "execute_code", "arguments": {"code": "print('hello')", "language": "python"}}`,
		},
	}
}

func (t *ExecuteCodeTool) Validate(args map[string]interface{}) error {
	code, ok := args["code"].(string)
	if !ok || code == "" {
		return fmt.Errorf("code parameter is required")
	}
	if lang, ok := args["language"].(string); ok && lang != "" {
		if _, known := executionEngines[lang]; !known {
			return fmt.Errorf("unsupported language %q (expected python, javascript, or bash)", lang)
		}
	}
	return nil
}

func (t *ExecuteCodeTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	code, _ := args["code"].(string)
	language, _ := args["language"].(string)
	if language == "" {
		language = "python"
	}
	engine, ok := executionEngines[language]
	if !ok {
		return "", fmt.Errorf("unsupported language %q", language)
	}

	timeout := defaultExecTimeout
	if raw, ok := args["timeout"].(float64); ok && raw > 0 {
		timeout = time.Duration(raw) * time.Second
	}
	if timeout > maxExecTimeout {
		timeout = maxExecTimeout
	}

	// Long snippets need a human; short ones still pass the lexical filter
	if approval.ShouldRequireConfirmation("execute_code", map[string]interface{}{"code": code}) {
		preview := code
		if len(preview) > 100 {
			preview = preview[:100] + "..."
		}
		approved := approval.RequestDestructive(ctx, gateToolName, "execute",
			fmt.Sprintf("Execute %s code (%d chars, timeout %s)", language, len(code), timeout),
			map[string]interface{}{
				"code":         code,
				"language":     language,
				"code_preview": preview,
			})
		if !approved {
			return fmt.Sprintf(`{"success": false, "cancelled": true, "language": %q}`, language), nil
		}
	}

	sandbox := filepath.Join(GetSafeWorkspace(), sandboxDirName)
	if err := os.MkdirAll(sandbox, 0755); err != nil {
		return "", fmt.Errorf("error creating sandbox: %w", err)
	}

	script, err := os.CreateTemp(sandbox, "snippet_*"+engine.suffix)
	if err != nil {
		return "", fmt.Errorf("error creating script file: %w", err)
	}
	scriptPath := script.Name()
	defer os.Remove(scriptPath)

	if _, err := script.WriteString(code); err != nil {
		script.Close()
		return "", fmt.Errorf("error writing script: %w", err)
	}
	script.Close()

	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, engine.command, scriptPath)
	cmd.Dir = sandbox
	output, err := cmd.CombinedOutput()

	if execCtx.Err() == context.DeadlineExceeded {
		return "", fmt.Errorf("execution timed out after %s", timeout)
	}
	if err != nil {
		return string(output), fmt.Errorf("execution failed: %w", err)
	}

	return string(output), nil
}

func init() {
	registry.Register(&ExecuteCodeTool{})
}
