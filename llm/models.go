package llm

import (
	"os"
	"strings"
)

// providerModels maps a provider to its model per task complexity.
var providerModels = map[string]map[string]string{
	"GOOGLE": {
		"complex": "gemini-2.5-pro",
		"simple":  "gemini-2.5-flash",
	},
	"OPENAI": {
		"complex": "openai/gpt-5",
		"simple":  "openai/gpt-4",
	},
	"ANTHROPIC": {
		"complex": "anthropic/Opus 4.1",
		"simple":  "anthropic/Sonnet 4.5",
	},
	"XAI": {
		"complex": "xai/grok-code-fast-1",
		"simple":  "xai/grok-code-fast-1",
	},
	"OPENROUTER": {
		"complex": "openrouter/openai/gpt-4o",
		"simple":  "openrouter/openai/gpt-4o-mini",
	},
}

// agentComplexity maps agent names to the model tier they need.
// Writers get the strong model, reviewers and refactorers the fast one.
var agentComplexity = map[string]string{
	"FullstackManagerAgent":   "complex",
	"FrontendWriterAgent":     "complex",
	"FrontendReviewerAgent":   "simple",
	"FrontendRefactorerAgent": "simple",
	"BackendWriterAgent":      "complex",
	"BackendReviewerAgent":    "simple",
	"BackendRefactorerAgent":  "simple",
}

// ModelForProvider returns the model string for a provider and complexity.
// An empty provider falls back to the AI_PROVIDER env var, then GOOGLE.
func ModelForProvider(provider, complexity string) string {
	if provider == "" {
		provider = os.Getenv("AI_PROVIDER")
	}
	provider = strings.ToUpper(provider)

	models, ok := providerModels[provider]
	if !ok {
		models = providerModels["GOOGLE"]
	}

	if model, ok := models[complexity]; ok {
		return model
	}
	return models["simple"]
}

// ModelForAgent resolves the model for a named agent. Unknown agents get
// the simple tier.
func ModelForAgent(agentName string) string {
	complexity, ok := agentComplexity[agentName]
	if !ok {
		complexity = "simple"
	}
	return ModelForProvider("", complexity)
}

// ResolveModel expands the "auto" model placeholder used in agent configs.
func ResolveModel(configured, agentName string) string {
	if configured == "" || configured == "auto" {
		return ModelForAgent(agentName)
	}
	return configured
}
