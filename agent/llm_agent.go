package agent

import (
	"context"
	"fmt"
	"log"

	"envoyou/core/registry"
	"envoyou/llm"
)

// maxIterations bounds the generate/tool-call/observe loop
const maxIterations = 10

// LLMAgent is a model-driven agent that can call tools and delegate to
// sub-agents.
type LLMAgent struct {
	name        string
	description string
	instruction string
	model       string
	tools       []string
	subAgents   []Agent

	generator Generator
	executor  *registry.Executor
}

func (a *LLMAgent) Name() string        { return a.name }
func (a *LLMAgent) Description() string { return a.description }
func (a *LLMAgent) SubAgents() []Agent  { return a.subAgents }

// Run drives the generate/act loop until the model produces a final
// answer or the iteration budget runs out.
func (a *LLMAgent) Run(ctx context.Context, input string) (string, error) {
	if err := CheckRequest(input); err != nil {
		return "", err
	}

	messages := []llm.Message{
		{Role: "system", Content: a.systemPrompt()},
		{Role: "user", Content: input},
	}

	for i := 0; i < maxIterations; i++ {
		resp, err := a.generator.Generate(ctx, llm.PurposeOrchestration, llm.Request{
			Messages: messages,
			Options:  map[string]any{"model": a.model},
		})
		if err != nil {
			return "", fmt.Errorf("%s generation failed: %w", a.name, err)
		}
		if err := ValidateModelResponse(resp.Content); err != nil {
			return "", fmt.Errorf("%s: %w", a.name, err)
		}

		isCall, call := registry.IsToolCall(resp.Content)
		if !isCall {
			return resp.Content, nil
		}

		log.Printf("[%s] tool call: %s", a.name, call.Tool)

		result, err := a.executor.Execute(ctx, *call)
		if err != nil {
			result = fmt.Sprintf("Tool error: %v", err)
		}

		messages = append(messages,
			llm.Message{Role: "assistant", Content: resp.Content},
			llm.Message{Role: "user", Content: fmt.Sprintf("Tool result for %s:\n%s", call.Tool, result)},
		)
	}

	return "", fmt.Errorf("%s exceeded %d iterations without a final answer", a.name, maxIterations)
}

func (a *LLMAgent) systemPrompt() string {
	prompt := a.instruction
	if prompt != "" {
		prompt += "\n\n"
	}
	prompt += registry.GenerateToolPrompt(a.tools)

	if len(a.subAgents) > 0 {
		prompt += "\n\nYou coordinate these specialists:\n"
		for _, sub := range a.subAgents {
			prompt += fmt.Sprintf("- %s: %s\n", sub.Name(), sub.Description())
		}
	}
	return prompt
}
