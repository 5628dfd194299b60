package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultOpenRouterURL = "https://openrouter.ai/api/v1"

// OpenRouterClient implements the Client interface against the
// OpenAI-compatible OpenRouter API.
type OpenRouterClient struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
}

// NewOpenRouterClient creates a new OpenRouter client. The API key comes
// from config or the OPENROUTER_API_KEY env var.
func NewOpenRouterClient(config Config) (*OpenRouterClient, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENROUTER_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("openrouter api key is required")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterURL
	}

	return &OpenRouterClient{
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       strings.TrimPrefix(config.Model, "openrouter/"),
		temperature: config.Temperature,
		httpClient:  &http.Client{Timeout: 3 * time.Minute},
	}, nil
}

type openRouterRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type openRouterResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Generate sends a chat completion request and returns the response
func (c *OpenRouterClient) Generate(ctx context.Context, req Request) (*Response, error) {
	temperature := req.Temperature
	if temperature == 0 {
		temperature = c.temperature
	}

	body, err := json.Marshal(openRouterRequest{
		Model:       c.model,
		Messages:    req.Messages,
		Temperature: temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openrouter request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var completion openRouterResponse
	if err := json.Unmarshal(data, &completion); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if completion.Error != nil {
		return nil, fmt.Errorf("openrouter error: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("openrouter returned no choices")
	}

	return &Response{
		Content:    completion.Choices[0].Message.Content,
		Model:      c.model,
		TokensUsed: completion.Usage.TotalTokens,
	}, nil
}

// GetModel returns the model name
func (c *OpenRouterClient) GetModel() string {
	return c.model
}

// GetProvider returns the provider name
func (c *OpenRouterClient) GetProvider() string {
	return "openrouter"
}

// IsAvailable checks whether the API endpoint is reachable
func (c *OpenRouterClient) IsAvailable(ctx context.Context) bool {
	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+"/models", nil)
	if err != nil {
		return false
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
