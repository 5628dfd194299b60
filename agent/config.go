package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// AgentConfig is one YAML agent definition
type AgentConfig struct {
	Name        string           `yaml:"name"`
	AgentClass  string           `yaml:"agent_class"` // LlmAgent or SequentialAgent
	Description string           `yaml:"description"`
	Instruction yaml.Node        `yaml:"instruction"` // string or list of strings
	Model       string           `yaml:"model"`       // "auto" resolves per agent name
	Tools       []string         `yaml:"tools"`
	SubAgents   []SubAgentConfig `yaml:"sub_agents"`
}

// SubAgentConfig points at a child agent's YAML file
type SubAgentConfig struct {
	ConfigPath string `yaml:"config_path"`
}

// LoadAgentConfig reads one agent definition from a YAML file
func LoadAgentConfig(path string) (*AgentConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read agent config: %w", err)
	}

	var cfg AgentConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse agent config %s: %w", path, err)
	}

	if cfg.Name == "" {
		cfg.Name = "UnnamedAgent"
	}
	if cfg.AgentClass == "" {
		cfg.AgentClass = "LlmAgent"
	}
	if cfg.Model == "" {
		cfg.Model = "auto"
	}

	return &cfg, nil
}

// InstructionText flattens the instruction node: a scalar is used as-is, a
// sequence is joined with newlines.
func (c *AgentConfig) InstructionText() string {
	switch c.Instruction.Kind {
	case yaml.ScalarNode:
		return c.Instruction.Value
	case yaml.SequenceNode:
		lines := make([]string, 0, len(c.Instruction.Content))
		for _, node := range c.Instruction.Content {
			lines = append(lines, node.Value)
		}
		return strings.Join(lines, "\n")
	default:
		return ""
	}
}

// resolveSubPath resolves a child config path relative to its parent file
func resolveSubPath(parentPath, childPath string) string {
	if filepath.IsAbs(childPath) {
		return childPath
	}
	if _, err := os.Stat(childPath); err == nil {
		return childPath
	}
	return filepath.Join(filepath.Dir(parentPath), childPath)
}
