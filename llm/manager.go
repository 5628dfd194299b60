package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Manager manages multiple LLM clients for different purposes
type Manager struct {
	clients map[Purpose]Client
	configs map[Purpose]Config
	mu      sync.RWMutex
}

// NewManager creates a new LLM manager
func NewManager() *Manager {
	return &Manager{
		clients: make(map[Purpose]Client),
		configs: make(map[Purpose]Config),
	}
}

// RegisterLLM registers an LLM for a specific purpose
func (m *Manager) RegisterLLM(purpose Purpose, config Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var client Client
	var err error

	switch config.Provider {
	case "ollama":
		client, err = NewOllamaClient(config)
	case "openrouter":
		client, err = NewOpenRouterClient(config)
	default:
		return fmt.Errorf("unsupported provider: %s", config.Provider)
	}

	if err != nil {
		return fmt.Errorf("failed to create %s client: %w", config.Provider, err)
	}

	m.configs[purpose] = config
	m.clients[purpose] = client
	return nil
}

// RegisterClient installs an already-built client for a purpose
func (m *Manager) RegisterClient(purpose Purpose, client Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[purpose] = client
}

// GetClient returns the LLM client for a specific purpose
// If the requested client is not registered, it falls back to the chat client
func (m *Manager) GetClient(purpose Purpose) (Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if client, ok := m.clients[purpose]; ok {
		return client, nil
	}

	if purpose != PurposeChat {
		if chatClient, ok := m.clients[PurposeChat]; ok {
			return chatClient, nil
		}
	}

	return nil, fmt.Errorf("no LLM available for purpose: %s", purpose)
}

// Generate sends a request to the appropriate LLM based on purpose
// If the requested LLM is not responding, it will try the chat client
func (m *Manager) Generate(ctx context.Context, purpose Purpose, req Request) (*Response, error) {
	client, err := m.GetClient(purpose)
	if err != nil {
		return nil, err
	}

	if !client.IsAvailable(ctx) {
		if purpose != PurposeChat {
			chatClient, err := m.GetClient(PurposeChat)
			if err == nil && chatClient != client && chatClient.IsAvailable(ctx) {
				client = chatClient
			} else {
				return nil, fmt.Errorf("LLM for %s is not available and no fallback found", purpose)
			}
		} else {
			return nil, fmt.Errorf("chat LLM is not available")
		}
	}

	return client.Generate(ctx, req)
}

// IsAvailable checks if an LLM for the given purpose is available
func (m *Manager) IsAvailable(purpose Purpose) bool {
	m.mu.RLock()
	client, ok := m.clients[purpose]
	m.mu.RUnlock()
	if !ok {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return client.IsAvailable(ctx)
}

// Purposes returns the purposes with a registered client
func (m *Manager) Purposes() []Purpose {
	m.mu.RLock()
	defer m.mu.RUnlock()

	purposes := make([]Purpose, 0, len(m.clients))
	for purpose := range m.clients {
		purposes = append(purposes, purpose)
	}
	return purposes
}
