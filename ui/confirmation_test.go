package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envoyou/core/approval"
)

func newTestNotifier(input string) (*TerminalNotifier, *approval.Gate, *bytes.Buffer) {
	out := &bytes.Buffer{}
	notifier := &TerminalNotifier{in: strings.NewReader(input), out: out}
	gate := approval.NewGate(approval.Options{Notifier: notifier})
	notifier.Bind(gate)
	return notifier, gate, out
}

func TestTerminalApproves(t *testing.T) {
	_, gate, out := newTestNotifier("y\n")
	defer gate.Close()

	approved := gate.RequestDestructive(context.Background(),
		"FileSystemTool", "delete", "Delete config",
		map[string]interface{}{"path": "/home/user/config.json"}, "")

	assert.True(t, approved)
	assert.Contains(t, out.String(), "Confirmation Required")
	assert.Contains(t, out.String(), "FileSystemTool")
}

func TestTerminalDeclines(t *testing.T) {
	_, gate, _ := newTestNotifier("n\n")
	defer gate.Close()

	approved := gate.RequestDestructive(context.Background(),
		"FileSystemTool", "delete", "Delete config",
		map[string]interface{}{"path": "/home/user/config.json"}, "")

	assert.False(t, approved)
}

func TestTerminalEOFDenies(t *testing.T) {
	_, gate, _ := newTestNotifier("")
	defer gate.Close()

	approved := gate.RequestDestructive(context.Background(),
		"GitManagerTool", "push", "Push to origin", nil, "")

	assert.False(t, approved)
}

func TestTerminalStructuredWithNote(t *testing.T) {
	_, gate, _ := newTestNotifier("y looks safe to me\n")
	defer gate.Close()

	payload := gate.RequestStructured(context.Background(),
		"DockerBuilderTool", "deploy", "Deploy to production",
		map[string]interface{}{"environment": "production"}, "")

	require.NotNil(t, payload)
	assert.Equal(t, true, payload["approved"])
	assert.Equal(t, "looks safe to me", payload["reason"])
}
