package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/datasight/datasight-ai/internal/llm/types"
)

// Package ollama implements the completion client for a local Ollama
// instance. Zero cost, full privacy: nothing leaves the machine.

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3"
	DefaultTimeout = 120 * time.Second
)

// Client calls the Ollama /api/chat endpoint.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done            bool `json:"done"`
	PromptEvalCount int  `json:"prompt_eval_count"`
	EvalCount       int  `json:"eval_count"`
}

// NewClient creates a client for the given Ollama instance and model.
func NewClient(baseURL, model string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Complete sends one non-streaming chat request.
func (c *Client) Complete(ctx context.Context, req types.CompletionRequest) (types.CompletionResponse, error) {
	messages := make([]chatMessage, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = chatMessage{Role: msg.Role, Content: msg.Content}
	}

	payload := chatRequest{
		Model:    c.model,
		Messages: messages,
		Stream:   false,
		Options: chatOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return types.CompletionResponse{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewBuffer(body))
	if err != nil {
		return types.CompletionResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return types.CompletionResponse{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.CompletionResponse{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return types.CompletionResponse{}, fmt.Errorf("ollama API error (status %d): %s", resp.StatusCode, string(responseBody))
	}

	var parsed chatResponse
	if err := json.Unmarshal(responseBody, &parsed); err != nil {
		return types.CompletionResponse{}, fmt.Errorf("failed to parse ollama response: %w", err)
	}

	return types.CompletionResponse{
		Content: parsed.Message.Content,
		Usage: types.TokenUsage{
			PromptTokens:     parsed.PromptEvalCount,
			CompletionTokens: parsed.EvalCount,
			TotalTokens:      parsed.PromptEvalCount + parsed.EvalCount,
		},
	}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string { return c.model }

// SetBaseURL overrides the Ollama base URL.  Used in tests.
func (c *Client) SetBaseURL(url string) { c.baseURL = url }
