package openrouter_provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mohammad-safakhou/cardwise/models"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

const systemPrompt = "You are a financial advisor specializing in credit card recommendations. " +
	"Analyze real-time market data and provide personalized recommendations based on current credit card offers."

// Client calls the OpenRouter chat completions API (OpenAI-compatible wire
// format).
type Client struct {
	apiKey      string
	baseURL     string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

// Message represents a message in a conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// request represents a chat completion request
type request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature,omitempty"`
}

// response represents a chat completion response
type response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewClient creates a new OpenRouter client
func NewClient(apiKey, baseURL string, maxTokens int, temperature float64, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout == 0 {
		timeout = 45 * time.Second
	}
	return &Client{
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxTokens:   maxTokens,
		temperature: temperature,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// Complete sends one completion request for the given model. Non-2xx
// responses come back as *models.ProviderError classified by status;
// transport errors (timeouts, connection failures) classify as transient.
func (c *Client) Complete(ctx context.Context, model string, prompt string) (string, error) {
	requestBody := request{
		Model: model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &models.ProviderError{Kind: models.ErrorKindTransient, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", &models.ProviderError{
			Status:  resp.StatusCode,
			Kind:    models.ClassifyStatus(resp.StatusCode),
			Message: strings.TrimSpace(string(b)),
		}
	}

	var openrouterResp response
	if err := json.NewDecoder(resp.Body).Decode(&openrouterResp); err != nil {
		return "", &models.ProviderError{Kind: models.ErrorKindTransient, Message: "failed to parse response: " + err.Error()}
	}
	if len(openrouterResp.Choices) == 0 {
		return "", &models.ProviderError{Kind: models.ErrorKindTransient, Message: "no choices in response"}
	}

	return strings.TrimSpace(openrouterResp.Choices[0].Message.Content), nil
}
