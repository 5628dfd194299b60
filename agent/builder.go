package agent

import (
	"fmt"

	"envoyou/core/registry"
	"envoyou/llm"
)

// Deps are the shared services every built agent uses
type Deps struct {
	Generator Generator
	Executor  *registry.Executor
	Registry  *Registry // optional; built agents are registered by name
}

// BuildFromConfig constructs an agent (and its whole subtree) from a
// YAML definition.
func BuildFromConfig(path string, deps Deps) (Agent, error) {
	cfg, err := LoadAgentConfig(path)
	if err != nil {
		return nil, err
	}

	subAgents := make([]Agent, 0, len(cfg.SubAgents))
	for _, sub := range cfg.SubAgents {
		if sub.ConfigPath == "" {
			continue
		}
		child, err := BuildFromConfig(resolveSubPath(path, sub.ConfigPath), deps)
		if err != nil {
			return nil, fmt.Errorf("failed to build sub-agent of %s: %w", cfg.Name, err)
		}
		subAgents = append(subAgents, child)
	}

	var built Agent
	switch cfg.AgentClass {
	case "LlmAgent":
		built = &LLMAgent{
			name:        cfg.Name,
			description: cfg.Description,
			instruction: cfg.InstructionText(),
			model:       llm.ResolveModel(cfg.Model, cfg.Name),
			tools:       cfg.Tools,
			subAgents:   subAgents,
			generator:   deps.Generator,
			executor:    deps.Executor,
		}

	case "SequentialAgent":
		built = &SequentialAgent{
			name:        cfg.Name,
			description: cfg.Description,
			subAgents:   subAgents,
		}

	default:
		return nil, fmt.Errorf("unsupported agent class: %s", cfg.AgentClass)
	}

	if deps.Registry != nil {
		if err := deps.Registry.Register(built); err != nil {
			return nil, err
		}
	}
	return built, nil
}
