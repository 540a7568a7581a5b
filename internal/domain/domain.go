package domain

import "context"

// CatalogEntry is a single book parsed from the catalog document.
type CatalogEntry struct {
	Title   string
	Content string
}

// Record is an indexed book: one per catalog entry, id regenerated per ingestion run.
type Record struct {
	ID        string
	Embedding []float64
	Title     string
	Document  string
}

// Neighbor is a stored record returned from a nearest-neighbor query,
// ordered nearest-first by the store.
type Neighbor struct {
	ID       string
	Title    string
	Document string
	Distance float64
}

// SearchHit is a ranked retrieval candidate. Score is a monotonic transform
// of distance: smaller distance yields a higher score.
type SearchHit struct {
	Title   string
	Score   float64
	Snippet string
}

// Embedder converts text into fixed-length vectors via a remote model.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
}

// VectorStore persists records and answers nearest-neighbor queries.
type VectorStore interface {
	// Rebuild deletes all existing records and inserts the given ones.
	Rebuild(ctx context.Context, records []Record) error
	// Query returns up to k nearest records, nearest-first.
	Query(ctx context.Context, vector []float64, k int) ([]Neighbor, error)
}

// Retriever turns a free-text question into ranked candidates.
type Retriever interface {
	Search(ctx context.Context, query string, topK int) ([]SearchHit, error)
}

// SummarySource resolves a full summary text by title. A miss is a normal
// outcome and yields a sentinel string, never an error.
type SummarySource interface {
	Summary(title string) string
}

// ChatMessage is one input message for the conversational model.
type ChatMessage struct {
	Role    string
	Content string
}

// ToolSpec declares a callable function to the conversational model.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolCall is the normalized form of a structured function-call request,
// regardless of which envelope shape the remote API returned it in.
type ToolCall struct {
	Name      string
	Arguments map[string]any
	CallID    string
}

// ChatRequest carries one turn's messages and tool declarations.
// ForceTool names a tool the model must call before answering.
type ChatRequest struct {
	Messages  []ChatMessage
	Tools     []ToolSpec
	ForceTool string
}

// ChatResult is the normalized outcome of one model call.
type ChatResult struct {
	ResponseID string
	Text       string
	ToolCall   *ToolCall
}

// ChatModel is a remote conversational model with function calling.
type ChatModel interface {
	Respond(ctx context.Context, req ChatRequest) (*ChatResult, error)
	// SubmitToolResult sends a tool's output back, linked to the call and the
	// previous response, and returns the model's final turn.
	SubmitToolResult(ctx context.Context, previousResponseID string, call ToolCall, output string) (*ChatResult, error)
}
