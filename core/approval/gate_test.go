package approval

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// autoResponder answers every notified request with a fixed verdict, like a
// operator who always clicks the same button.
type autoResponder struct {
	gate    *Gate
	confirm bool
	payload map[string]interface{}
}

func (a *autoResponder) Notify(req Request) {
	a.gate.RespondToConfirmation(req.OperationID, a.confirm, a.payload, "")
}

// silentNotifier records notifications and never answers.
type silentNotifier struct {
	mu       sync.Mutex
	notified []string
}

func (s *silentNotifier) Notify(req Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notified = append(s.notified, req.OperationID)
}

func TestRequestConfirmationNotRequired(t *testing.T) {
	g := NewGate(Options{})
	defer g.Close()

	d := g.RequestConfirmation(context.Background(), Request{
		OperationID:          "op-auto",
		ToolName:             "FileSystemTool",
		OperationType:        "write",
		RequiresConfirmation: false,
	})

	assert.True(t, d.Approved)
	assert.True(t, d.AutoApproved)

	// Auto-approved requests leave no lasting entry
	assert.Empty(t, g.PendingConfirmations())
}

func TestRequestConfirmationNotRequiredStructuredDefault(t *testing.T) {
	g := NewGate(Options{})
	defer g.Close()

	d := g.RequestConfirmation(context.Background(), Request{
		OperationID:          "op-auto-structured",
		ConfirmationType:     Structured,
		RequiresConfirmation: false,
	})

	assert.True(t, d.Approved)
	assert.Equal(t, map[string]interface{}{"auto_approved": true}, d.Payload)
}

func TestRequestDestructiveUnsafePathDenied(t *testing.T) {
	// No approval surface wired: unsafe delete is denied by default
	g := NewGate(Options{})
	defer g.Close()

	ok := g.RequestDestructive(context.Background(), "FileSystemTool", "delete",
		"Delete config", map[string]interface{}{"path": "/home/user/config.json"}, "")
	assert.False(t, ok)

	// The denied request stays pending for introspection
	assert.Len(t, g.PendingConfirmations(), 1)
}

func TestRequestDestructiveSafePathAutoApproved(t *testing.T) {
	g := NewGate(Options{})
	defer g.Close()

	ok := g.RequestDestructive(context.Background(), "FileSystemTool", "delete",
		"Delete scratch file", map[string]interface{}{"path": "/tmp/scratch.txt"}, "")
	assert.True(t, ok)
	assert.Empty(t, g.PendingConfirmations())
}

func TestRespondToConfirmationUnknownOperation(t *testing.T) {
	g := NewGate(Options{})
	defer g.Close()

	handlerCalled := false
	g.SetResponseHandler("op1", func(resp Response) error {
		handlerCalled = true
		return nil
	})

	ok := g.RespondToConfirmation("op1", true, map[string]interface{}{"ok": 1}, "")
	assert.False(t, ok)
	assert.False(t, handlerCalled, "handler must not run for unknown operations")
}

func TestStructuredRequestThenRespond(t *testing.T) {
	g := NewGate(Options{})
	defer g.Close()

	result := g.RequestStructured(context.Background(), "FileSystemTool", "overwrite",
		"Overwrite project file", map[string]interface{}{"path": "/srv/app/main.go"}, "op-structured")

	// Placeholder denial until a structured-input channel answers
	assert.Equal(t, false, result["approved"])
	require.Contains(t, g.PendingConfirmations(), "op-structured")

	ok := g.RespondToConfirmation("op-structured", true, map[string]interface{}{"mode": "backup-first"}, "")
	assert.True(t, ok)
	assert.NotContains(t, g.PendingConfirmations(), "op-structured")
}

func TestRespondInvokesHandler(t *testing.T) {
	g := NewGate(Options{})
	defer g.Close()

	g.RequestDestructive(context.Background(), "FileSystemTool", "delete",
		"Delete config", map[string]interface{}{"path": "/etc/app.conf"}, "op-handled")

	var got Response
	g.SetResponseHandler("op-handled", func(resp Response) error {
		got = resp
		return nil
	})

	ok := g.RespondToConfirmation("op-handled", true, map[string]interface{}{"ok": 1}, "yes")
	assert.True(t, ok)
	assert.Equal(t, "op-handled", got.OperationID)
	assert.True(t, got.Confirmed)
	assert.Equal(t, "yes", got.UserInput)
	assert.False(t, got.Timestamp.IsZero())
}

func TestRespondHandlerFailureStillEvicts(t *testing.T) {
	g := NewGate(Options{})
	defer g.Close()

	g.RequestDestructive(context.Background(), "FileSystemTool", "delete",
		"Delete config", map[string]interface{}{"path": "/etc/app.conf"}, "op-failing")
	g.SetResponseHandler("op-failing", func(resp Response) error {
		return errors.New("downstream broke")
	})

	ok := g.RespondToConfirmation("op-failing", true, nil, "")
	assert.False(t, ok, "handler failure reports false")
	assert.NotContains(t, g.PendingConfirmations(), "op-failing",
		"the entry is evicted even when the handler fails")
}

func TestConditionalCallbackSkipsConfirmation(t *testing.T) {
	g := NewGate(Options{})
	defer g.Close()

	g.SetConfirmationCallback("op-cond", func(ctx context.Context, params map[string]interface{}) (bool, error) {
		size, _ := params["size"].(int)
		return size > 100, nil
	})

	d := g.RequestConfirmation(context.Background(), Request{
		OperationID:          "op-cond",
		ToolName:             "FileSystemTool",
		OperationType:        "delete",
		Parameters:           map[string]interface{}{"size": 5, "path": "/home/user/x"},
		ConfirmationType:     Conditional,
		RequiresConfirmation: true,
	})

	assert.True(t, d.Approved)
	assert.True(t, d.AutoApproved)
	assert.Empty(t, g.PendingConfirmations())
}

func TestConditionalCallbackFallsThroughToBoolean(t *testing.T) {
	g := NewGate(Options{})
	defer g.Close()

	g.SetConfirmationCallback("op-cond2", func(ctx context.Context, params map[string]interface{}) (bool, error) {
		return true, nil
	})

	d := g.RequestConfirmation(context.Background(), Request{
		OperationID:          "op-cond2",
		ToolName:             "FileSystemTool",
		OperationType:        "delete",
		Parameters:           map[string]interface{}{"path": "/tmp/x"},
		ConfirmationType:     Conditional,
		RequiresConfirmation: true,
	})

	// Falls through to boolean handling; /tmp is a safe path
	assert.True(t, d.Approved)
}

func TestSuspendedRequestApprovedByResponder(t *testing.T) {
	g := NewGate(Options{Timeout: 5 * time.Second})
	defer g.Close()
	g.notifier = &autoResponder{gate: g, confirm: true}

	ok := g.RequestDestructive(context.Background(), "FileSystemTool", "delete",
		"Delete config", map[string]interface{}{"path": "/home/user/config.json"}, "op-wait")
	assert.True(t, ok)
	assert.Empty(t, g.PendingConfirmations())
}

func TestSuspendedRequestDeclinedByResponder(t *testing.T) {
	g := NewGate(Options{Timeout: 5 * time.Second})
	defer g.Close()
	g.notifier = &autoResponder{gate: g, confirm: false}

	ok := g.RequestDestructive(context.Background(), "FileSystemTool", "delete",
		"Delete config", map[string]interface{}{"path": "/home/user/config.json"}, "op-declined")
	assert.False(t, ok)
	assert.Empty(t, g.PendingConfirmations())
}

func TestSuspendedRequestTimesOut(t *testing.T) {
	notifier := &silentNotifier{}
	g := NewGate(Options{Notifier: notifier, Timeout: 50 * time.Millisecond})
	defer g.Close()

	start := time.Now()
	ok := g.RequestDestructive(context.Background(), "FileSystemTool", "delete",
		"Delete config", map[string]interface{}{"path": "/home/user/config.json"}, "op-timeout")

	assert.False(t, ok)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Empty(t, g.PendingConfirmations(), "timed-out requests are evicted")
}

func TestSuspendedRequestContextCancel(t *testing.T) {
	notifier := &silentNotifier{}
	g := NewGate(Options{Notifier: notifier, Timeout: 10 * time.Second})
	defer g.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	ok := g.RequestDestructive(ctx, "FileSystemTool", "delete",
		"Delete config", map[string]interface{}{"path": "/home/user/config.json"}, "op-cancel")
	assert.False(t, ok)
	assert.Empty(t, g.PendingConfirmations())
}

func TestClearPendingConfirmations(t *testing.T) {
	g := NewGate(Options{})
	defer g.Close()

	g.RequestDestructive(context.Background(), "FileSystemTool", "delete",
		"a", map[string]interface{}{"path": "/home/user/a"}, "op-a")
	g.RequestDestructive(context.Background(), "FileSystemTool", "delete",
		"b", map[string]interface{}{"path": "/home/user/b"}, "op-b")
	require.Len(t, g.PendingConfirmations(), 2)

	g.ClearPendingConfirmations()
	assert.Empty(t, g.PendingConfirmations())

	// Cleared ids are now unknown
	assert.False(t, g.RespondToConfirmation("op-a", true, nil, ""))
}

func TestClearPendingResolvesWaiters(t *testing.T) {
	notifier := &silentNotifier{}
	g := NewGate(Options{Notifier: notifier, Timeout: 10 * time.Second})
	defer g.Close()

	done := make(chan bool, 1)
	go func() {
		done <- g.RequestDestructive(context.Background(), "FileSystemTool", "delete",
			"Delete config", map[string]interface{}{"path": "/home/user/config.json"}, "op-cleared")
	}()

	require.Eventually(t, func() bool {
		_, ok := g.PendingConfirmations()["op-cleared"]
		return ok
	}, 2*time.Second, 10*time.Millisecond)

	g.ClearPendingConfirmations()

	select {
	case ok := <-done:
		assert.False(t, ok, "cleared waiters resolve to deny")
	case <-time.After(2 * time.Second):
		t.Fatal("suspended caller was not released by ClearPendingConfirmations")
	}
}

func TestPendingConfirmationsReturnsCopy(t *testing.T) {
	g := NewGate(Options{})
	defer g.Close()

	g.RequestDestructive(context.Background(), "FileSystemTool", "delete",
		"a", map[string]interface{}{"path": "/home/user/a"}, "op-copy")

	pending := g.PendingConfirmations()
	delete(pending, "op-copy")

	// Mutating the copy does not touch the registry
	assert.Len(t, g.PendingConfirmations(), 1)
}

func TestTTLSweepEvictsStaleRequests(t *testing.T) {
	g := NewGate(Options{TTL: time.Second})
	defer g.Close()

	g.RequestDestructive(context.Background(), "FileSystemTool", "delete",
		"stale", map[string]interface{}{"path": "/home/user/stale"}, "op-stale")
	require.Len(t, g.PendingConfirmations(), 1)

	assert.Eventually(t, func() bool {
		return len(g.PendingConfirmations()) == 0
	}, 5*time.Second, 100*time.Millisecond, "sweeper should evict the stale entry")
}

func TestGenerateOperationID(t *testing.T) {
	a := GenerateOperationID("FileSystemTool", "delete")
	b := GenerateOperationID("FileSystemTool", "delete")

	assert.Contains(t, a, "FileSystemTool_delete_")
	assert.NotEqual(t, a, b)
}

func TestRequestDestructiveWithoutGateInContext(t *testing.T) {
	// No gate injected: package-level helpers fail closed
	assert.False(t, RequestDestructive(context.Background(), "FileSystemTool", "delete", "x", nil))
	assert.Equal(t, map[string]interface{}{"confirmed": false},
		RequestStructured(context.Background(), "FileSystemTool", "overwrite", "x", nil))
}

func TestGateFromContextRoundTrip(t *testing.T) {
	g := NewGate(Options{})
	defer g.Close()

	ctx := NewContext(context.Background(), g)
	assert.Same(t, g, FromContext(ctx))

	ok := RequestDestructive(ctx, "FileSystemTool", "delete", "scratch",
		map[string]interface{}{"path": "/tmp/scratch.txt"})
	assert.True(t, ok)
}
