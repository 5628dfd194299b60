package agent

import (
	"context"

	"envoyou/llm"
)

// Agent is one node in the configured agent tree
type Agent interface {
	// Name returns the agent's configured name
	Name() string

	// Description returns a short summary of what the agent does
	Description() string

	// Run processes one request and returns the agent's final answer
	Run(ctx context.Context, input string) (string, error)

	// SubAgents returns the agent's children, if any
	SubAgents() []Agent
}

// Generator abstracts the LLM manager for agents (and tests)
type Generator interface {
	Generate(ctx context.Context, purpose llm.Purpose, req llm.Request) (*llm.Response, error)
}
