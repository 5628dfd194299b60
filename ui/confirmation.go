package ui

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"envoyou/core/approval"
)

// TerminalNotifier answers confirmation requests over terminal I/O.
// It is the default approval surface for the CLI.
type TerminalNotifier struct {
	gate *approval.Gate

	mu  sync.Mutex // one prompt at a time
	in  io.Reader
	out io.Writer
}

// NewTerminalNotifier creates the terminal approval surface. Bind it to
// the gate after construction with Bind.
func NewTerminalNotifier() *TerminalNotifier {
	return &TerminalNotifier{in: os.Stdin, out: os.Stdout}
}

// Bind attaches the gate the notifier answers to
func (t *TerminalNotifier) Bind(gate *approval.Gate) {
	t.gate = gate
}

// Notify prompts the user and delivers their decision back to the gate
func (t *TerminalNotifier) Notify(req approval.Request) {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Fprintln(t.out)
	fmt.Fprintf(t.out, "⚠️  Confirmation Required\n")
	fmt.Fprintf(t.out, "Tool: %s\n", req.ToolName)
	fmt.Fprintf(t.out, "Operation: %s\n", req.OperationType)
	fmt.Fprintf(t.out, "Description: %s\n", req.Description)
	fmt.Fprintf(t.out, "Parameters: %s\n", formatArgs(req.Parameters))
	fmt.Fprintln(t.out)

	switch req.ConfirmationType {
	case approval.Structured:
		t.promptStructured(req)
	default:
		t.promptBoolean(req)
	}
}

func (t *TerminalNotifier) promptBoolean(req approval.Request) {
	fmt.Fprint(t.out, "Allow execution? (y/n): ")

	confirmed := false
	input := ""
	scanner := bufio.NewScanner(t.in)
	if scanner.Scan() {
		input = strings.TrimSpace(scanner.Text())
		answer := strings.ToLower(input)
		confirmed = answer == "y" || answer == "yes"
	}

	t.gate.RespondToConfirmation(req.OperationID, confirmed, nil, input)
}

func (t *TerminalNotifier) promptStructured(req approval.Request) {
	fmt.Fprint(t.out, "Approve? (y/n), optionally followed by a note: ")

	confirmed := false
	note := ""
	scanner := bufio.NewScanner(t.in)
	if scanner.Scan() {
		input := strings.TrimSpace(scanner.Text())
		parts := strings.SplitN(input, " ", 2)
		answer := strings.ToLower(parts[0])
		confirmed = answer == "y" || answer == "yes"
		if len(parts) > 1 {
			note = parts[1]
		}
	}

	payload := map[string]interface{}{
		"approved": confirmed,
		"reason":   note,
	}
	t.gate.RespondToConfirmation(req.OperationID, confirmed, payload, note)
}

func formatArgs(args map[string]interface{}) string {
	data, err := json.MarshalIndent(args, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", args)
	}
	return string(data)
}
