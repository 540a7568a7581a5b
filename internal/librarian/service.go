// Package librarian is the conversation orchestrator: moderation, retrieval,
// ranking, the two model calls and the summary tool dispatch for one turn.
package librarian

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"librarian/internal/domain"
)

// User-facing messages for the expected non-answer outcomes.
const (
	RefusalMessage       = "Let's keep the conversation polite. Please rephrase without offensive language."
	NoMatchMessage       = "I could not find a match in the collection."
	ToolNotCalledMessage = "The model did not request the summary tool. Please try again."
)

// ToolName is the single function declared to the model.
const ToolName = "get_summary_by_title"

// ReplyKind classifies the outcome of a turn.
type ReplyKind int

const (
	// ReplyAnswer is a completed recommendation.
	ReplyAnswer ReplyKind = iota
	// ReplyRefused means the utterance hit the denylist; no remote calls were made.
	ReplyRefused
	// ReplyNoMatch means retrieval returned zero candidates.
	ReplyNoMatch
	// ReplyToolNotCalled means the model never issued a resolvable tool call.
	ReplyToolNotCalled
)

// Reply is the outcome of one user turn.
type Reply struct {
	Kind    ReplyKind
	Text    string
	Hits    []domain.SearchHit
	Title   string
	Summary string
}

// Options holds the injected conversation configuration.
type Options struct {
	Denylist         []string
	TopK             int
	ResponseLanguage string
}

// Service runs one conversation turn at a time. Turns are sequential; every
// remote call blocks until it completes.
type Service struct {
	retriever domain.Retriever
	model     domain.ChatModel
	summaries domain.SummarySource
	denylist  []string
	topK      int
	language  string
}

// New creates a Service with injected collaborators.
func New(retriever domain.Retriever, model domain.ChatModel, summaries domain.SummarySource, opts Options) *Service {
	denylist := make([]string, 0, len(opts.Denylist))
	for _, term := range opts.Denylist {
		if t := strings.ToLower(strings.TrimSpace(term)); t != "" {
			denylist = append(denylist, t)
		}
	}
	topK := opts.TopK
	if topK <= 0 {
		topK = 3
	}
	language := opts.ResponseLanguage
	if language == "" {
		language = "English"
	}
	return &Service{
		retriever: retriever,
		model:     model,
		summaries: summaries,
		denylist:  denylist,
		topK:      topK,
		language:  language,
	}
}

// Blocked reports whether the utterance contains a denylisted term
// (case-insensitive substring match).
func (s *Service) Blocked(utterance string) bool {
	lowered := strings.ToLower(utterance)
	for _, term := range s.denylist {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}

// Answer runs one turn. Empty input yields a nil reply. Transport failures
// return an error; the caller's loop continues on the next turn.
func (s *Service) Answer(ctx context.Context, utterance string) (*Reply, error) {
	utterance = strings.TrimSpace(utterance)
	if utterance == "" {
		return nil, nil
	}
	if s.Blocked(utterance) {
		return &Reply{Kind: ReplyRefused, Text: RefusalMessage}, nil
	}

	hits, err := s.retriever.Search(ctx, utterance, s.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieval: %w", err)
	}
	if len(hits) == 0 {
		return &Reply{Kind: ReplyNoMatch, Text: NoMatchMessage}, nil
	}

	// The top-scored title is chosen locally; it is not left to the model.
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	top := hits[0].Title

	first, err := s.model.Respond(ctx, domain.ChatRequest{
		Messages: []domain.ChatMessage{
			{Role: "system", Content: s.systemPrompt(top)},
			{Role: "user", Content: userPrompt(utterance, hits)},
		},
		Tools:     []domain.ToolSpec{summaryToolSpec()},
		ForceTool: ToolName,
	})
	if err != nil {
		return nil, fmt.Errorf("model call: %w", err)
	}
	if first.ToolCall == nil || first.ToolCall.CallID == "" {
		return &Reply{Kind: ReplyToolNotCalled, Text: ToolNotCalledMessage, Hits: hits}, nil
	}

	// The lookup key is the locally ranked top title, not whatever title the
	// model put in the call arguments. The call only confirms the model
	// followed the protocol; the tool result must match the local ranking.
	summary := s.summaries.Summary(top)

	final, err := s.model.SubmitToolResult(ctx, first.ResponseID, *first.ToolCall, summary)
	if err != nil {
		return nil, fmt.Errorf("submitting tool result: %w", err)
	}
	text := strings.TrimSpace(final.Text)
	if text == "" {
		text = summary
	}
	return &Reply{Kind: ReplyAnswer, Text: text, Hits: hits, Title: top, Summary: summary}, nil
}

func (s *Service) systemPrompt(topTitle string) string {
	return fmt.Sprintf(
		"You are an assistant that recommends books. You are given results from a vector store. "+
			"Discuss the best match, %q, conversationally in %s. "+
			"Before answering, you must call the %s tool with the chosen title.",
		topTitle, s.language, ToolName)
}

func userPrompt(utterance string, hits []domain.SearchHit) string {
	var sb strings.Builder
	sb.WriteString("Question: ")
	sb.WriteString(utterance)
	sb.WriteString("\nRetrieved candidates (title | score | snippet):\n")
	for _, h := range hits {
		fmt.Fprintf(&sb, "- %s | %.3f | %s\n", h.Title, h.Score, h.Snippet)
	}
	return sb.String()
}

func summaryToolSpec() domain.ToolSpec {
	return domain.ToolSpec{
		Name:        ToolName,
		Description: "Returns the full summary for an exact book title.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{
					"type":        "string",
					"description": "The exact title of the book.",
				},
			},
			"required":             []string{"title"},
			"additionalProperties": false,
		},
	}
}
