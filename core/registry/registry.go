package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	. "envoyou/core/types"
)

// Registry manages all available tools
type Registry struct {
	tools map[string]Tool
	mu    sync.RWMutex
}

// Global registry instance
var globalRegistry = &Registry{
	tools: make(map[string]Tool),
}

// Register adds a tool to the registry
func Register(tool Tool) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()

	metadata := tool.Metadata()
	globalRegistry.tools[metadata.Name] = tool
}

// GetTool retrieves a tool by name
func GetTool(name string) (Tool, error) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	tool, exists := globalRegistry.tools[name]
	if !exists {
		return nil, fmt.Errorf("tool '%s' not found", name)
	}

	metadata := tool.Metadata()
	if !metadata.Enabled {
		return nil, fmt.Errorf("tool '%s' is disabled", name)
	}

	return tool, nil
}

// GetAllTools returns all registered tools
func GetAllTools() []Tool {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	tools := make([]Tool, 0, len(globalRegistry.tools))
	for _, tool := range globalRegistry.tools {
		tools = append(tools, tool)
	}

	return tools
}

// GetEnabledTools returns only enabled tools
func GetEnabledTools() []Tool {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	tools := make([]Tool, 0)
	for _, tool := range globalRegistry.tools {
		if tool.Metadata().Enabled {
			tools = append(tools, tool)
		}
	}

	return tools
}

// GetAllToolNames returns all tool names
func GetAllToolNames() []string {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	names := make([]string, 0, len(globalRegistry.tools))
	for name := range globalRegistry.tools {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// GetToolsByCategory returns tools grouped by category
func GetToolsByCategory() map[ToolCategory][]Tool {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	categorized := make(map[ToolCategory][]Tool)
	for _, tool := range globalRegistry.tools {
		metadata := tool.Metadata()
		if metadata.Enabled {
			categorized[metadata.Category] = append(categorized[metadata.Category], tool)
		}
	}

	return categorized
}

// GenerateToolPrompt creates the tool-usage section of an agent's system
// prompt from the enabled tools, optionally restricted to an allow-list.
func GenerateToolPrompt(allowed []string) string {
	allowedSet := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		allowedSet[name] = true
	}

	var prompt strings.Builder

	prompt.WriteString("When you need to act, respond with ONLY valid JSON, no other text:\n")
	prompt.WriteString(`{"tool": "tool_name", "arguments": {"param": "value"}}` + "\n\n")
	prompt.WriteString("For multi-step tasks do ONE step, wait for the result, then do the next.\n")
	prompt.WriteString("Never describe what you would do - call the tool.\n\n")

	categorized := GetToolsByCategory()

	categories := make([]ToolCategory, 0, len(categorized))
	for category := range categorized {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })

	prompt.WriteString("Available tools:\n")
	for _, category := range categories {
		for _, tool := range categorized[category] {
			metadata := tool.Metadata()
			if len(allowedSet) > 0 && !allowedSet[metadata.Name] {
				continue
			}

			prompt.WriteString(fmt.Sprintf("- %s: %s\n", metadata.Name, metadata.Description))

			if len(metadata.Parameters) > 0 {
				prompt.WriteString("  Parameters: ")
				paramStrs := make([]string, 0, len(metadata.Parameters))
				for _, param := range metadata.Parameters {
					req := ""
					if param.Required {
						req = " (required)"
					}
					paramStrs = append(paramStrs, fmt.Sprintf("%s: %s%s", param.Name, param.Description, req))
				}
				prompt.WriteString(strings.Join(paramStrs, ", "))
				prompt.WriteString("\n")
			}
		}
	}

	prompt.WriteString("\nIf no tool is needed, respond in plain text.\n")

	return prompt.String()
}
