package openai

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, raw string) responseEnvelope {
	t.Helper()
	var e responseEnvelope
	require.NoError(t, json.Unmarshal([]byte(raw), &e))
	return e
}

func TestToolCallDirectFunctionCallItem(t *testing.T) {
	e := decodeEnvelope(t, `{
		"id": "resp-1",
		"output": [
			{"type": "function_call", "call_id": "call-1", "name": "get_summary_by_title",
			 "arguments": "{\"title\": \"Dune\"}"}
		]
	}`)
	call := e.toolCall()
	require.NotNil(t, call)
	assert.Equal(t, "get_summary_by_title", call.Name)
	assert.Equal(t, "call-1", call.CallID)
	assert.Equal(t, "Dune", call.Arguments["title"])
}

func TestToolCallWrappedToolCallsItem(t *testing.T) {
	e := decodeEnvelope(t, `{
		"id": "resp-1",
		"output": [
			{"type": "tool_calls", "tool_calls": [
				{"id": "call-2", "function": {"name": "get_summary_by_title",
				 "arguments": "{\"title\": \"1984\"}"}}
			]}
		]
	}`)
	call := e.toolCall()
	require.NotNil(t, call)
	assert.Equal(t, "call-2", call.CallID)
	assert.Equal(t, "1984", call.Arguments["title"])
}

func TestToolCallEmbeddedInMessageItem(t *testing.T) {
	e := decodeEnvelope(t, `{
		"id": "resp-1",
		"output": [
			{"type": "message", "role": "assistant", "content": [
				{"type": "text", "text": "Let me check."},
				{"type": "tool_call", "tool_call":
					{"call_id": "call-3", "function": {"name": "get_summary_by_title",
					 "arguments": "{\"title\": \"The Hobbit\"}"}}}
			]}
		]
	}`)
	call := e.toolCall()
	require.NotNil(t, call)
	assert.Equal(t, "call-3", call.CallID)
	assert.Equal(t, "The Hobbit", call.Arguments["title"])
}

func TestToolCallFallsBackToItemID(t *testing.T) {
	e := decodeEnvelope(t, `{
		"output": [
			{"type": "function_call", "id": "fc_9", "name": "get_summary_by_title", "arguments": "{}"}
		]
	}`)
	call := e.toolCall()
	require.NotNil(t, call)
	assert.Equal(t, "fc_9", call.CallID)
}

func TestToolCallAbsent(t *testing.T) {
	e := decodeEnvelope(t, `{
		"output": [
			{"type": "message", "role": "assistant", "content": [{"type": "text", "text": "No tools here."}]}
		]
	}`)
	assert.Nil(t, e.toolCall())
}

func TestToolCallWithoutAnyIDIsUnresolvable(t *testing.T) {
	e := decodeEnvelope(t, `{
		"output": [
			{"type": "function_call", "name": "get_summary_by_title", "arguments": "{}"}
		]
	}`)
	assert.Nil(t, e.toolCall())
}

func TestToolCallToleratesMalformedArguments(t *testing.T) {
	e := decodeEnvelope(t, `{
		"output": [
			{"type": "function_call", "call_id": "c", "name": "get_summary_by_title", "arguments": "not json"}
		]
	}`)
	call := e.toolCall()
	require.NotNil(t, call)
	assert.Empty(t, call.Arguments)
}

func TestTextPrefersOutputText(t *testing.T) {
	e := decodeEnvelope(t, `{
		"output_text": "Consolidated answer.",
		"output": [
			{"type": "message", "content": [{"type": "output_text", "text": "ignored"}]}
		]
	}`)
	assert.Equal(t, "Consolidated answer.", e.text())
}

func TestTextConcatenatesMessageParts(t *testing.T) {
	e := decodeEnvelope(t, `{
		"output": [
			{"type": "message", "content": [
				{"type": "output_text", "text": "Part one. "},
				{"type": "text", "text": "Part two."}
			]},
			{"type": "function_call", "call_id": "c", "name": "n"}
		]
	}`)
	assert.Equal(t, "Part one. Part two.", e.text())
}

func TestTextEmpty(t *testing.T) {
	e := decodeEnvelope(t, `{"output": []}`)
	assert.Equal(t, "", e.text())
}
