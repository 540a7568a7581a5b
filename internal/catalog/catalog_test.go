package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCatalog(t *testing.T) {
	text := `## Title: Dune
A desert planet saga about power and prophecy.
Second line.

## Title: 1984
Surveillance state.
`
	entries := ParseCatalog(text)
	require.Len(t, entries, 2)
	assert.Equal(t, "Dune", entries[0].Title)
	assert.Equal(t, "A desert planet saga about power and prophecy.\nSecond line.", entries[0].Content)
	assert.Equal(t, "1984", entries[1].Title)
	assert.Equal(t, "Surveillance state.", entries[1].Content)
}

func TestParseCatalogTrimsWhitespace(t *testing.T) {
	text := "## Title:   The Hobbit  \n\n  An adventure.  \n\n"
	entries := ParseCatalog(text)
	require.Len(t, entries, 1)
	assert.Equal(t, "The Hobbit", entries[0].Title)
	assert.Equal(t, "An adventure.", entries[0].Content)
}

func TestParseCatalogSkipsMalformedBlocks(t *testing.T) {
	text := `Some preamble without a header.

## Title: Empty Body

## Title: Kept
Has a body.
`
	entries := ParseCatalog(text)
	require.Len(t, entries, 1)
	assert.Equal(t, "Kept", entries[0].Title)
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.md")
	require.NoError(t, os.WriteFile(path, []byte("## Title: Dune\nSand.\n"), 0o644))

	entries, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Dune", entries[0].Title)
}

func TestLoadCatalogEmptyIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.md")
	require.NoError(t, os.WriteFile(path, []byte("no headers here\n"), 0o644))

	_, err := LoadCatalog(path)
	require.ErrorIs(t, err, ErrEmptyCatalog)
}
