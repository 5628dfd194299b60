package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envoyou/config"
	"envoyou/core/approval"

	. "envoyou/core/types"
)

// fakeTool is a configurable tool for executor tests.
type fakeTool struct {
	meta        ToolMetadata
	result      string
	execErr     error
	validateErr error
	executed    bool
	gotGate     bool
}

func (f *fakeTool) Metadata() ToolMetadata { return f.meta }

func (f *fakeTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	f.executed = true
	if approval.FromContext(ctx) != nil {
		f.gotGate = true
	}
	return f.result, f.execErr
}

func (f *fakeTool) Validate(args map[string]interface{}) error {
	return f.validateErr
}

// approver approves or declines every suspended request it sees.
type approver struct {
	gate    *approval.Gate
	approve bool
}

func (a *approver) Notify(req approval.Request) {
	a.gate.RespondToConfirmation(req.OperationID, a.approve, nil, "")
}

func setupExecutorTest(t *testing.T) {
	t.Helper()
	config.Set(&config.Config{
		Audit: config.AuditConfig{Enabled: false},
	})
	t.Cleanup(func() { config.Set(nil) })
}

func registerFake(t *testing.T, f *fakeTool) {
	t.Helper()
	Register(f)
}

func TestExecuteRunsEnabledTool(t *testing.T) {
	setupExecutorTest(t)

	tool := &fakeTool{
		meta:   ToolMetadata{Name: "echo_test", Category: CategorySystem, Enabled: true},
		result: "hello",
	}
	registerFake(t, tool)

	gate := approval.NewGate(approval.Options{})
	defer gate.Close()

	exec := NewExecutor(gate)
	result, err := exec.Execute(context.Background(), ToolCall{
		Tool:      "echo_test",
		Arguments: map[string]interface{}{},
	})

	require.NoError(t, err)
	assert.Equal(t, "hello", result)
	assert.True(t, tool.executed)
	assert.True(t, tool.gotGate, "gate should be reachable from the tool context")
}

func TestExecuteUnknownToolSuggestsSimilar(t *testing.T) {
	setupExecutorTest(t)

	tool := &fakeTool{
		meta: ToolMetadata{Name: "read_file", Category: CategoryFileSystem, Enabled: true},
	}
	registerFake(t, tool)

	exec := NewExecutor(nil)
	_, err := exec.Execute(context.Background(), ToolCall{
		Tool:      "read_fil",
		Arguments: map[string]interface{}{},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Did you mean")
	assert.Contains(t, err.Error(), "read_file")
}

func TestExecuteValidationFailure(t *testing.T) {
	setupExecutorTest(t)

	tool := &fakeTool{
		meta:        ToolMetadata{Name: "strict_tool", Category: CategorySystem, Enabled: true},
		validateErr: errors.New("path is required"),
	}
	registerFake(t, tool)

	exec := NewExecutor(nil)
	_, err := exec.Execute(context.Background(), ToolCall{
		Tool:      "strict_tool",
		Arguments: map[string]interface{}{},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.False(t, tool.executed)
}

func TestBeforeToolHookVeto(t *testing.T) {
	setupExecutorTest(t)

	tool := &fakeTool{
		meta: ToolMetadata{Name: "vetoed_tool", Category: CategorySystem, Enabled: true},
	}
	registerFake(t, tool)

	exec := NewExecutor(nil)
	exec.SetHooks(ToolHooks{
		BeforeTool: func(ctx context.Context, call ToolCall) (string, error) {
			return "", errors.New("request contains forbidden content")
		},
	})

	_, err := exec.Execute(context.Background(), ToolCall{
		Tool:      "vetoed_tool",
		Arguments: map[string]interface{}{},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "tool call rejected")
	assert.False(t, tool.executed)
}

func TestBeforeToolHookOverrideSkipsExecution(t *testing.T) {
	setupExecutorTest(t)

	tool := &fakeTool{
		meta:   ToolMetadata{Name: "cached_tool", Category: CategorySystem, Enabled: true},
		result: "real result",
	}
	registerFake(t, tool)

	exec := NewExecutor(nil)
	exec.SetHooks(ToolHooks{
		BeforeTool: func(ctx context.Context, call ToolCall) (string, error) {
			return "cached result", nil
		},
	})

	result, err := exec.Execute(context.Background(), ToolCall{
		Tool:      "cached_tool",
		Arguments: map[string]interface{}{},
	})

	require.NoError(t, err)
	assert.Equal(t, "cached result", result)
	assert.False(t, tool.executed)
}

func TestAfterToolHookRewritesResult(t *testing.T) {
	setupExecutorTest(t)

	tool := &fakeTool{
		meta:   ToolMetadata{Name: "rewritten_tool", Category: CategorySystem, Enabled: true},
		result: "raw output",
	}
	registerFake(t, tool)

	exec := NewExecutor(nil)
	exec.SetHooks(ToolHooks{
		AfterTool: func(ctx context.Context, call ToolCall, result string, execErr error) string {
			return "[scrubbed] " + result
		},
	})

	result, err := exec.Execute(context.Background(), ToolCall{
		Tool:      "rewritten_tool",
		Arguments: map[string]interface{}{},
	})

	require.NoError(t, err)
	assert.Equal(t, "[scrubbed] raw output", result)
}

func TestConfirmationApproved(t *testing.T) {
	setupExecutorTest(t)

	tool := &fakeTool{
		meta: ToolMetadata{
			Name:            "risky_tool",
			Category:        CategorySystem,
			Enabled:         true,
			RequiresConfirm: true,
		},
		result: "done",
	}
	registerFake(t, tool)

	resp := &approver{approve: true}
	gate := approval.NewGate(approval.Options{Notifier: resp})
	resp.gate = gate
	defer gate.Close()

	exec := NewExecutor(gate)
	result, err := exec.Execute(context.Background(), ToolCall{
		Tool:      "risky_tool",
		Arguments: map[string]interface{}{},
	})

	require.NoError(t, err)
	assert.Equal(t, "done", result)
}

func TestConfirmationDeclined(t *testing.T) {
	setupExecutorTest(t)

	tool := &fakeTool{
		meta: ToolMetadata{
			Name:            "declined_tool",
			Category:        CategorySystem,
			Enabled:         true,
			RequiresConfirm: true,
		},
	}
	registerFake(t, tool)

	resp := &approver{approve: false}
	gate := approval.NewGate(approval.Options{Notifier: resp})
	resp.gate = gate
	defer gate.Close()

	exec := NewExecutor(gate)
	_, err := exec.Execute(context.Background(), ToolCall{
		Tool:      "declined_tool",
		Arguments: map[string]interface{}{},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not approved")
	assert.False(t, tool.executed)
}

func TestAutoConfirmBypassesGate(t *testing.T) {
	setupExecutorTest(t)

	tool := &fakeTool{
		meta: ToolMetadata{
			Name:            "bypassed_tool",
			Category:        CategorySystem,
			Enabled:         true,
			RequiresConfirm: true,
		},
		result: "ok",
	}
	registerFake(t, tool)

	// No notifier: a real confirmation request would be denied.
	gate := approval.NewGate(approval.Options{})
	defer gate.Close()

	exec := NewExecutor(gate)
	exec.AutoConfirm = true

	result, err := exec.Execute(context.Background(), ToolCall{
		Tool:      "bypassed_tool",
		Arguments: map[string]interface{}{},
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
}

func TestConfigOverridesRequiresConfirm(t *testing.T) {
	setupExecutorTest(t)

	noConfirm := false
	config.Set(&config.Config{
		Audit: config.AuditConfig{Enabled: false},
		Tools: config.ToolsConfig{
			Tools: map[string]config.ToolConfig{
				"overridden_tool": {Enabled: true, RequiresConfirm: &noConfirm},
			},
		},
	})

	tool := &fakeTool{
		meta: ToolMetadata{
			Name:            "overridden_tool",
			Category:        CategorySystem,
			Enabled:         true,
			RequiresConfirm: true,
		},
		result: "ok",
	}
	registerFake(t, tool)

	gate := approval.NewGate(approval.Options{})
	defer gate.Close()

	exec := NewExecutor(gate)
	result, err := exec.Execute(context.Background(), ToolCall{
		Tool:      "overridden_tool",
		Arguments: map[string]interface{}{},
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
}

func TestIsToolCall(t *testing.T) {
	tests := []struct {
		name     string
		response string
		isCall   bool
		toolName string
	}{
		{
			name:     "pure JSON",
			response: `{"tool": "read_file", "arguments": {"path": "main.go"}}`,
			isCall:   true,
			toolName: "read_file",
		},
		{
			name:     "JSON with surrounding text",
			response: "I'll read the file now.\n" + `{"tool": "read_file", "arguments": {"path": "main.go"}}` + "\nDone.",
			isCall:   true,
			toolName: "read_file",
		},
		{
			name:     "nested arguments",
			response: `{"tool": "write_file", "arguments": {"path": "a.json", "content": "{\"x\": 1}"}}`,
			isCall:   true,
			toolName: "write_file",
		},
		{
			name:     "plain text",
			response: "The file contains a main function.",
			isCall:   false,
		},
		{
			name:     "JSON without tool field",
			response: `{"answer": 42}`,
			isCall:   false,
		},
		{
			name:     "missing arguments",
			response: `{"tool": "read_file"}`,
			isCall:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isCall, call := IsToolCall(tt.response)
			assert.Equal(t, tt.isCall, isCall)
			if tt.isCall {
				require.NotNil(t, call)
				assert.Equal(t, tt.toolName, call.Tool)
			}
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("read", "read"))
	assert.Equal(t, 1, levenshteinDistance("read", "reed"))
	assert.Equal(t, 4, levenshteinDistance("", "read"))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}
