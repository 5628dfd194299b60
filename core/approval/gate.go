package approval

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"envoyou/core/audit"
)

// DefaultTimeout is how long a suspended confirmation waits for a human
// answer before it is denied and evicted.
const DefaultTimeout = 60 * time.Second

// Options configures a Gate.
type Options struct {
	// Notifier receives requests that suspend awaiting an external answer.
	// When nil, requests that would suspend resolve immediately to deny.
	Notifier Notifier

	// Timeout bounds a single suspended confirmation. Zero means DefaultTimeout.
	Timeout time.Duration

	// TTL evicts pending requests nobody answered. Zero disables the sweep.
	TTL time.Duration
}

// Gate is the confirmation engine. It owns the only mutable shared state in
// the approval subsystem: the registry of pending requests, their response
// handlers, conditional predicates, and suspended waiters. One long-lived
// Gate is created at startup and handed to the executor; tools reach it
// through the context (see NewContext).
type Gate struct {
	mu         sync.Mutex
	pending    map[string]Request
	handlers   map[string]ResponseHandler
	conditions map[string]ConditionFunc
	waiters    map[string]chan Response

	notifier Notifier
	timeout  time.Duration
	ttl      time.Duration

	done      chan struct{}
	closeOnce sync.Once
}

// NewGate creates a confirmation gate. If opts.TTL is set, a background
// sweeper denies and evicts stale pending entries.
func NewGate(opts Options) *Gate {
	g := &Gate{
		pending:    make(map[string]Request),
		handlers:   make(map[string]ResponseHandler),
		conditions: make(map[string]ConditionFunc),
		waiters:    make(map[string]chan Response),
		notifier:   opts.Notifier,
		timeout:    opts.Timeout,
		ttl:        opts.TTL,
		done:       make(chan struct{}),
	}

	if g.timeout <= 0 {
		g.timeout = DefaultTimeout
	}

	if g.ttl > 0 {
		go g.sweep()
	}

	return g
}

// Close stops the background sweeper. Pending requests are left in place.
func (g *Gate) Close() {
	g.closeOnce.Do(func() { close(g.done) })
}

// RequestConfirmation asks for approval of one operation. It never returns
// an error: any failure during evaluation collapses into a deny Decision.
//
// The request is tracked in the pending registry from the moment this is
// called. Auto-approved requests are resolved and evicted before returning;
// denied or suspended requests stay pending until RespondToConfirmation,
// timeout, or the TTL sweep removes them.
func (g *Gate) RequestConfirmation(ctx context.Context, req Request) (decision Decision) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[approval] error handling confirmation %s: %v", req.OperationID, r)
			decision = Deny("internal error during confirmation")
		}
		audit.LogDecision(audit.DecisionLog{
			OperationID:  req.OperationID,
			ToolName:     req.ToolName,
			Operation:    req.OperationType,
			Approved:     decision.Approved,
			AutoApproved: decision.AutoApproved,
			Reason:       decision.Reason,
		})
	}()

	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now()
	}
	if req.ConfirmationType == "" {
		req.ConfirmationType = Boolean
	}

	g.mu.Lock()
	if _, exists := g.pending[req.OperationID]; exists {
		log.Printf("[approval] operation id reused, overwriting pending request: %s", req.OperationID)
	}
	g.pending[req.OperationID] = req
	g.mu.Unlock()

	if !req.RequiresConfirmation {
		g.evict(req.OperationID)
		log.Printf("[approval] auto-approved operation: %s", req.OperationID)
		d := Decision{Approved: true, AutoApproved: true}
		if req.ConfirmationType == Structured {
			d.Payload = map[string]interface{}{"auto_approved": true}
		}
		return d
	}

	log.Printf("[approval] confirmation requested: %s - %s", req.OperationID, req.Description)

	switch req.ConfirmationType {
	case Structured:
		return g.handleStructured(ctx, req)
	case Conditional:
		return g.handleConditional(ctx, req)
	default:
		return g.handleBoolean(ctx, req)
	}
}

// handleBoolean resolves a yes/no confirmation: safe operations are
// approved on the spot, everything else goes to the wired approval surface
// or, with none wired, is denied for safety.
func (g *Gate) handleBoolean(ctx context.Context, req Request) Decision {
	if IsSafeOperation(req) {
		g.evict(req.OperationID)
		log.Printf("[approval] auto-approved safe operation: %s", req.OperationID)
		return Decision{Approved: true, AutoApproved: true}
	}

	if g.notifier == nil {
		// No approval surface wired: the request stays pending for
		// introspection, the caller gets a deny.
		return Deny("no approval surface wired")
	}

	resp, ok := g.await(ctx, req)
	if !ok {
		return Deny("confirmation timed out")
	}
	if !resp.Confirmed {
		return Deny("declined by operator")
	}
	return Decision{Approved: true, Payload: resp.Payload}
}

// handleStructured resolves a confirmation that expects structured answer
// data. Without an approval surface it returns the placeholder denial.
func (g *Gate) handleStructured(ctx context.Context, req Request) Decision {
	if g.notifier == nil {
		return Decision{
			Approved: false,
			Reason:   "Confirmation required",
			Payload:  map[string]interface{}{"approved": false, "reason": "Confirmation required"},
		}
	}

	resp, ok := g.await(ctx, req)
	if !ok {
		return Deny("confirmation timed out")
	}
	return Decision{Approved: resp.Confirmed, Payload: resp.Payload}
}

// handleConditional consults the predicate registered for this operation;
// if it says confirmation is unnecessary the request is approved, otherwise
// it falls through to boolean handling.
func (g *Gate) handleConditional(ctx context.Context, req Request) Decision {
	g.mu.Lock()
	cond := g.conditions[req.OperationID]
	g.mu.Unlock()

	if cond != nil {
		needed, err := cond(ctx, req.Parameters)
		if err != nil {
			log.Printf("[approval] error in conditional confirmation %s: %v", req.OperationID, err)
		} else if !needed {
			g.evict(req.OperationID)
			log.Printf("[approval] auto-approved by conditional check: %s", req.OperationID)
			return Decision{Approved: true, AutoApproved: true}
		}
	}

	return g.handleBoolean(ctx, req)
}

// await suspends the caller until the operation is answered, times out, or
// the context is cancelled. Timeout and cancellation deny and evict.
func (g *Gate) await(ctx context.Context, req Request) (Response, bool) {
	ch := make(chan Response, 1)

	g.mu.Lock()
	g.waiters[req.OperationID] = ch
	g.mu.Unlock()

	// The notifier may block on I/O (terminal prompt); never hold it up
	// against the engine.
	go g.notifier.Notify(req)

	timer := time.NewTimer(g.timeout)
	defer timer.Stop()

	select {
	case resp := <-ch:
		return resp, true
	case <-timer.C:
		log.Printf("[approval] confirmation timed out: %s", req.OperationID)
	case <-ctx.Done():
	}

	g.evict(req.OperationID)
	return Response{}, false
}

// RespondToConfirmation answers a pending request. It returns false when the
// operation id is unknown or the registered response handler fails; in every
// case where the id was pending, the entry is evicted. A suspended caller is
// handed the response either way.
func (g *Gate) RespondToConfirmation(operationID string, confirmed bool, payload map[string]interface{}, userInput string) bool {
	g.mu.Lock()
	_, exists := g.pending[operationID]
	if !exists {
		g.mu.Unlock()
		log.Printf("[approval] confirmation response for unknown operation: %s", operationID)
		return false
	}

	handler := g.handlers[operationID]
	waiter := g.waiters[operationID]
	delete(g.pending, operationID)
	delete(g.handlers, operationID)
	delete(g.conditions, operationID)
	delete(g.waiters, operationID)
	g.mu.Unlock()

	resp := Response{
		OperationID: operationID,
		Confirmed:   confirmed,
		Payload:     payload,
		UserInput:   userInput,
		Timestamp:   time.Now(),
	}

	if waiter != nil {
		waiter <- resp
	}

	if handler != nil {
		if err := handler(resp); err != nil {
			log.Printf("[approval] error processing confirmation response %s: %v", operationID, err)
			return false
		}
	}

	log.Printf("[approval] confirmation processed: %s - %t", operationID, confirmed)
	return true
}

// SetConfirmationCallback registers the predicate a Conditional request for
// this operation will consult.
func (g *Gate) SetConfirmationCallback(operationID string, cond ConditionFunc) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.conditions[operationID] = cond
}

// SetResponseHandler registers a handler invoked with the Response when the
// operation is answered.
func (g *Gate) SetResponseHandler(operationID string, handler ResponseHandler) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.handlers[operationID] = handler
}

// PendingConfirmations returns a copy of all pending requests.
func (g *Gate) PendingConfirmations() map[string]Request {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make(map[string]Request, len(g.pending))
	for id, req := range g.pending {
		out[id] = req
	}
	return out
}

// ClearPendingConfirmations drops every pending request. Suspended callers
// are resolved to deny; nobody else is notified.
func (g *Gate) ClearPendingConfirmations() {
	g.mu.Lock()
	defer g.mu.Unlock()

	for id, ch := range g.waiters {
		ch <- Response{OperationID: id, Confirmed: false, Timestamp: time.Now()}
	}

	g.pending = make(map[string]Request)
	g.handlers = make(map[string]ResponseHandler)
	g.conditions = make(map[string]ConditionFunc)
	g.waiters = make(map[string]chan Response)
}

// evict removes every trace of an operation from the registry.
func (g *Gate) evict(operationID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.pending, operationID)
	delete(g.handlers, operationID)
	delete(g.conditions, operationID)
	delete(g.waiters, operationID)
}

// sweep periodically denies and evicts pending requests older than the TTL,
// so forgotten confirmations don't accumulate for the process lifetime.
func (g *Gate) sweep() {
	interval := g.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-g.done:
			return
		case <-ticker.C:
		}

		cutoff := time.Now().Add(-g.ttl)

		g.mu.Lock()
		for id, req := range g.pending {
			if req.Timestamp.After(cutoff) {
				continue
			}
			if ch, ok := g.waiters[id]; ok {
				ch <- Response{OperationID: id, Confirmed: false, Timestamp: time.Now()}
			}
			delete(g.pending, id)
			delete(g.handlers, id)
			delete(g.conditions, id)
			delete(g.waiters, id)
			log.Printf("[approval] expired pending confirmation: %s", id)
		}
		g.mu.Unlock()
	}
}

// GenerateOperationID builds an operation id for callers that don't supply
// one: tool name + operation type + timestamp.
func GenerateOperationID(toolName, operationType string) string {
	return fmt.Sprintf("%s_%s_%d", toolName, operationType, time.Now().UnixNano())
}
