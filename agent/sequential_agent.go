package agent

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// SequentialAgent runs its sub-agents in order, feeding each one the
// previous agent's output.
type SequentialAgent struct {
	name        string
	description string
	subAgents   []Agent
}

func (a *SequentialAgent) Name() string        { return a.name }
func (a *SequentialAgent) Description() string { return a.description }
func (a *SequentialAgent) SubAgents() []Agent  { return a.subAgents }

func (a *SequentialAgent) Run(ctx context.Context, input string) (string, error) {
	if len(a.subAgents) == 0 {
		return "", fmt.Errorf("%s has no sub-agents", a.name)
	}

	current := input
	var outputs []string

	for _, sub := range a.subAgents {
		log.Printf("[%s] running %s", a.name, sub.Name())

		output, err := sub.Run(ctx, current)
		if err != nil {
			return "", fmt.Errorf("%s failed in %s: %w", a.name, sub.Name(), err)
		}

		outputs = append(outputs, fmt.Sprintf("## %s\n%s", sub.Name(), output))
		current = output
	}

	return strings.Join(outputs, "\n\n"), nil
}
