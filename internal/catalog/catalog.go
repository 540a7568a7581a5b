// Package catalog loads the static book documents: the markdown catalog the
// index is built from, and the JSON table of full summaries.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"librarian/internal/domain"
)

// ErrEmptyCatalog is returned when no entries could be parsed from the
// catalog document. Ingestion cannot proceed with an empty catalog.
var ErrEmptyCatalog = errors.New("no entries parsed from catalog")

// headerRe matches a catalog entry header line and captures the title.
var headerRe = regexp.MustCompile(`(?m)^## Title:[ \t]*(.+)$`)

// LoadCatalog parses the catalog document at path. A new entry begins at each
// "## Title:" header; the block up to the next header is the entry body,
// whitespace-trimmed. Blocks without a parsable header and body are skipped.
func LoadCatalog(path string) ([]domain.CatalogEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	entries := ParseCatalog(string(data))
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyCatalog, path)
	}
	return entries, nil
}

// ParseCatalog splits raw catalog text into entries.
func ParseCatalog(text string) []domain.CatalogEntry {
	locs := headerRe.FindAllStringSubmatchIndex(text, -1)
	var entries []domain.CatalogEntry
	for i, loc := range locs {
		title := strings.TrimSpace(text[loc[2]:loc[3]])
		bodyEnd := len(text)
		if i+1 < len(locs) {
			bodyEnd = locs[i+1][0]
		}
		body := strings.TrimSpace(text[loc[1]:bodyEnd])
		if title == "" || body == "" {
			continue
		}
		entries = append(entries, domain.CatalogEntry{Title: title, Content: body})
	}
	return entries
}
