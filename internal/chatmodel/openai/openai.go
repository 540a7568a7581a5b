// Package openai implements domain.ChatModel against an OpenAI-compatible
// responses endpoint with function calling.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"librarian/internal/domain"
)

// Client is an OpenAI-compatible responses client.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// Config configures the responses client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

// NewClient creates a new responses client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  key,
		model:   cfg.Model,
		client:  &http.Client{Timeout: t},
	}, nil
}

// wire types for the responses API

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiTool struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters"`
}

type apiToolChoice struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type apiFunctionOutput struct {
	Type   string `json:"type"`
	CallID string `json:"call_id"`
	Output string `json:"output"`
}

type apiRequest struct {
	Model              string `json:"model"`
	Input              any    `json:"input"`
	Tools              []apiTool
	ToolChoice         *apiToolChoice
	PreviousResponseID string
}

func (r apiRequest) MarshalJSON() ([]byte, error) {
	m := map[string]any{
		"model": r.Model,
		"input": r.Input,
	}
	if len(r.Tools) > 0 {
		m["tools"] = r.Tools
	}
	if r.ToolChoice != nil {
		m["tool_choice"] = r.ToolChoice
	}
	if r.PreviousResponseID != "" {
		m["previous_response_id"] = r.PreviousResponseID
	}
	return json.Marshal(m)
}

// Respond sends the messages and tool declarations and normalizes the reply.
func (c *Client) Respond(ctx context.Context, req domain.ChatRequest) (*domain.ChatResult, error) {
	input := make([]apiMessage, len(req.Messages))
	for i, m := range req.Messages {
		input[i] = apiMessage{Role: m.Role, Content: m.Content}
	}
	api := apiRequest{Model: c.model, Input: input}
	for _, t := range req.Tools {
		api.Tools = append(api.Tools, apiTool{
			Type:        "function",
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Parameters,
		})
	}
	if req.ForceTool != "" {
		api.ToolChoice = &apiToolChoice{Type: "function", Name: req.ForceTool}
	}
	return c.send(ctx, api)
}

// SubmitToolResult sends a function call's output back, linked to the call id
// and the previous response, and returns the model's final turn.
func (c *Client) SubmitToolResult(ctx context.Context, previousResponseID string, call domain.ToolCall, output string) (*domain.ChatResult, error) {
	api := apiRequest{
		Model: c.model,
		Input: []apiFunctionOutput{{
			Type:   "function_call_output",
			CallID: call.CallID,
			Output: output,
		}},
		PreviousResponseID: previousResponseID,
	}
	return c.send(ctx, api)
}

func (c *Client) send(ctx context.Context, api apiRequest) (*domain.ChatResult, error) {
	data, err := json.Marshal(api)
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/responses", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("responses request: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("responses request failed: %s", resp.Status)
	}
	var envelope responseEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &domain.ChatResult{
		ResponseID: envelope.ID,
		Text:       envelope.text(),
		ToolCall:   envelope.toolCall(),
	}, nil
}
