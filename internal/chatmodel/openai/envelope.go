package openai

import (
	"encoding/json"
	"strings"

	"librarian/internal/domain"
)

// responseEnvelope is the decoded responses API reply. The API is
// polymorphic: a function call may arrive as a top-level function_call item,
// as a tool_calls item wrapping a list of calls, or embedded in a message
// item's content. All three are normalized into one domain.ToolCall.
type responseEnvelope struct {
	ID         string       `json:"id"`
	OutputText string       `json:"output_text"`
	Output     []outputItem `json:"output"`
}

type outputItem struct {
	Type      string        `json:"type"`
	ID        string        `json:"id"`
	CallID    string        `json:"call_id"`
	Name      string        `json:"name"`
	Arguments string        `json:"arguments"`
	Role      string        `json:"role"`
	Content   []contentPart `json:"content"`
	ToolCalls []wrappedCall `json:"tool_calls"`
}

type contentPart struct {
	Type     string       `json:"type"`
	Text     string       `json:"text"`
	ToolCall *wrappedCall `json:"tool_call"`
}

type wrappedCall struct {
	ID       string `json:"id"`
	CallID   string `json:"call_id"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

// toolCall extracts the first resolvable function call, or nil if the reply
// contains none. A call without any identifier is treated as unresolvable,
// since its output could not be linked back.
func (e *responseEnvelope) toolCall() *domain.ToolCall {
	for _, item := range e.Output {
		switch item.Type {
		case "function_call":
			if call := newToolCall(item.Name, item.Arguments, firstNonEmpty(item.CallID, item.ID)); call != nil {
				return call
			}
		case "tool_calls":
			for _, w := range item.ToolCalls {
				if call := w.normalize(); call != nil {
					return call
				}
			}
		case "message":
			for _, part := range item.Content {
				if part.Type == "tool_call" && part.ToolCall != nil {
					if call := part.ToolCall.normalize(); call != nil {
						return call
					}
				}
			}
		}
	}
	return nil
}

func (w *wrappedCall) normalize() *domain.ToolCall {
	return newToolCall(w.Function.Name, w.Function.Arguments, firstNonEmpty(w.CallID, w.ID))
}

func newToolCall(name, rawArgs, callID string) *domain.ToolCall {
	if name == "" || callID == "" {
		return nil
	}
	args := map[string]any{}
	if rawArgs != "" {
		// malformed arguments still count as a call; the caller does not
		// trust them for the lookup anyway
		_ = json.Unmarshal([]byte(rawArgs), &args)
	}
	return &domain.ToolCall{Name: name, Arguments: args, CallID: callID}
}

// text resolves display text: the consolidated output_text field when
// present, otherwise the concatenated text parts of message items.
func (e *responseEnvelope) text() string {
	if strings.TrimSpace(e.OutputText) != "" {
		return strings.TrimSpace(e.OutputText)
	}
	var sb strings.Builder
	for _, item := range e.Output {
		if item.Type != "message" {
			continue
		}
		for _, part := range item.Content {
			if part.Type == "output_text" || part.Type == "text" {
				sb.WriteString(part.Text)
			}
		}
	}
	return strings.TrimSpace(sb.String())
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
