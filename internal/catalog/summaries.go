package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// SummaryNotFound is returned by Summary when no entry matches the title,
// even after normalization. A miss is a user-visible outcome, not an error.
const SummaryNotFound = "No summary found for that title."

// SummaryTable maps exact titles to full summaries, with a normalized
// secondary index to tolerate minor formatting differences.
type SummaryTable struct {
	exact      map[string]string
	normalized map[string]string
}

// LoadSummaries reads the JSON summary table at path.
func LoadSummaries(path string) (*SummaryTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading summaries: %w", err)
	}
	var exact map[string]string
	if err := json.Unmarshal(data, &exact); err != nil {
		return nil, fmt.Errorf("parsing summaries: %w", err)
	}
	return NewSummaryTable(exact), nil
}

// NewSummaryTable builds a table from an in-memory mapping.
func NewSummaryTable(exact map[string]string) *SummaryTable {
	normalized := make(map[string]string, len(exact))
	for title, summary := range exact {
		normalized[NormalizeTitle(title)] = summary
	}
	return &SummaryTable{exact: exact, normalized: normalized}
}

// Summary resolves a full summary by title: exact match first, then a
// normalized match, then the sentinel.
func (t *SummaryTable) Summary(title string) string {
	if s, ok := t.exact[title]; ok {
		return s
	}
	if s, ok := t.normalized[NormalizeTitle(title)]; ok {
		return s
	}
	return SummaryNotFound
}

// NormalizeTitle applies Unicode canonicalization, case folding and
// whitespace trimming so lookup tolerates formatting mismatches.
func NormalizeTitle(s string) string {
	return strings.TrimSpace(cases.Fold().String(norm.NFKC.String(s)))
}
