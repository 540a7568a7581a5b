package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarian/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("TEST_OPENAI_KEY", "sk-test")
	c, err := NewClient(Config{BaseURL: srv.URL, APIKeyEnv: "TEST_OPENAI_KEY", Model: "gpt-4o-mini"})
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "")
	_, err := NewClient(Config{APIKeyEnv: "TEST_OPENAI_KEY"})
	require.Error(t, err)
}

func TestRespondSendsToolsAndForcedChoice(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/responses", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id": "resp-1", "output": [
			{"type": "function_call", "call_id": "call-1", "name": "get_summary_by_title",
			 "arguments": "{\"title\": \"Dune\"}"}
		]}`)
	})

	result, err := c.Respond(context.Background(), domain.ChatRequest{
		Messages: []domain.ChatMessage{
			{Role: "system", Content: "recommend books"},
			{Role: "user", Content: "deserts"},
		},
		Tools: []domain.ToolSpec{{
			Name:       "get_summary_by_title",
			Parameters: map[string]any{"type": "object"},
		}},
		ForceTool: "get_summary_by_title",
	})
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", got["model"])
	input := got["input"].([]any)
	require.Len(t, input, 2)
	assert.Equal(t, "system", input[0].(map[string]any)["role"])

	tools := got["tools"].([]any)
	require.Len(t, tools, 1)
	assert.Equal(t, "function", tools[0].(map[string]any)["type"])

	choice := got["tool_choice"].(map[string]any)
	assert.Equal(t, "function", choice["type"])
	assert.Equal(t, "get_summary_by_title", choice["name"])
	_, hasPrev := got["previous_response_id"]
	assert.False(t, hasPrev)

	assert.Equal(t, "resp-1", result.ResponseID)
	require.NotNil(t, result.ToolCall)
	assert.Equal(t, "call-1", result.ToolCall.CallID)
}

func TestSubmitToolResultLinksCallAndResponse(t *testing.T) {
	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id": "resp-2", "output_text": "Read Dune."}`)
	})

	result, err := c.SubmitToolResult(context.Background(), "resp-1",
		domain.ToolCall{Name: "get_summary_by_title", CallID: "call-1"}, "Sand.")
	require.NoError(t, err)

	assert.Equal(t, "resp-1", got["previous_response_id"])
	input := got["input"].([]any)
	require.Len(t, input, 1)
	item := input[0].(map[string]any)
	assert.Equal(t, "function_call_output", item["type"])
	assert.Equal(t, "call-1", item["call_id"])
	assert.Equal(t, "Sand.", item["output"])

	assert.Equal(t, "Read Dune.", result.Text)
	assert.Nil(t, result.ToolCall)
}

func TestRespondServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream sad", http.StatusBadGateway)
	})
	_, err := c.Respond(context.Background(), domain.ChatRequest{
		Messages: []domain.ChatMessage{{Role: "user", Content: "hi"}},
	})
	require.Error(t, err)
}
