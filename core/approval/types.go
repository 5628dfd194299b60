package approval

import (
	"context"
	"time"
)

// ConfirmationType shapes what kind of answer a request expects
type ConfirmationType string

const (
	// Boolean is a simple yes/no confirmation
	Boolean ConfirmationType = "boolean"
	// Structured expects structured data as the answer
	Structured ConfirmationType = "structured"
	// Conditional defers to a registered predicate at decision time
	Conditional ConfirmationType = "conditional"
)

// Request describes one pending approval. Immutable once built.
type Request struct {
	OperationID          string                 `json:"operation_id"`
	ToolName             string                 `json:"tool_name"`
	OperationType        string                 `json:"operation_type"` // "delete", "execute", "deploy", ...
	Description          string                 `json:"description"`
	Parameters           map[string]interface{} `json:"parameters"`
	ConfirmationType     ConfirmationType       `json:"confirmation_type"`
	RequiresConfirmation bool                   `json:"requires_confirmation"`
	Timestamp            time.Time              `json:"timestamp"`
	Context              map[string]interface{} `json:"context,omitempty"`
}

// Response answers a pending request.
type Response struct {
	OperationID string                 `json:"operation_id"`
	Confirmed   bool                   `json:"confirmed"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	UserInput   string                 `json:"user_input,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
}

// Decision is the gate's answer to a confirmation request. The gate never
// returns an error: failures collapse into a deny Decision so the
// fail-closed contract is part of the signature.
type Decision struct {
	Approved     bool                   `json:"approved"`
	AutoApproved bool                   `json:"auto_approved"`
	Reason       string                 `json:"reason,omitempty"`
	Payload      map[string]interface{} `json:"payload,omitempty"` // structured answers
}

// Deny builds a denial with the given reason.
func Deny(reason string) Decision {
	return Decision{Approved: false, Reason: reason}
}

// ResponseHandler is invoked with the Response when an answer is supplied
// for the operation it was registered under.
type ResponseHandler func(resp Response) error

// ConditionFunc decides at response time whether a Conditional request
// actually needs confirmation. Returning (false, nil) auto-approves.
type ConditionFunc func(ctx context.Context, params map[string]interface{}) (bool, error)

// Notifier is told about requests that are suspended awaiting an external
// answer. Implementations (terminal prompt, web UI, bot) are expected to
// eventually call RespondToConfirmation for the operation.
type Notifier interface {
	Notify(req Request)
}

type gateCtxKey struct{}

// NewContext returns a context carrying the gate, so tool implementations
// reach the gate instance the executor owns without a package singleton.
func NewContext(ctx context.Context, g *Gate) context.Context {
	return context.WithValue(ctx, gateCtxKey{}, g)
}

// FromContext extracts the gate from ctx, or nil if none was injected.
func FromContext(ctx context.Context) *Gate {
	g, _ := ctx.Value(gateCtxKey{}).(*Gate)
	return g
}
