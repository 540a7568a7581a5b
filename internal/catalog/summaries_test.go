package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable() *SummaryTable {
	return NewSummaryTable(map[string]string{
		"Dune":         "A desert planet saga.",
		"Café Society": "A story with accents.",
	})
}

func TestSummaryExactMatch(t *testing.T) {
	table := newTestTable()
	assert.Equal(t, "A desert planet saga.", table.Summary("Dune"))
}

func TestSummaryNormalizedMatch(t *testing.T) {
	table := newTestTable()
	for _, title := range []string{"dune", "DUNE", "  Dune  ", "  dUnE\t"} {
		assert.Equal(t, "A desert planet saga.", table.Summary(title), "title %q", title)
	}
	// case-folded accented input resolves against the normalized key
	assert.Equal(t, "A story with accents.", table.Summary("café society"))
}

func TestSummaryNormalizationIdempotence(t *testing.T) {
	table := newTestTable()
	for _, key := range []string{"Dune", "Café Society"} {
		assert.Equal(t, table.Summary(key), table.Summary(NormalizeTitle(key)))
	}
}

func TestSummaryMissReturnsSentinel(t *testing.T) {
	table := newTestTable()
	assert.Equal(t, SummaryNotFound, table.Summary("Moby Dick"))
}

func TestLoadSummaries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summaries.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Dune": "Sand."}`), 0o644))

	table, err := LoadSummaries(path)
	require.NoError(t, err)
	assert.Equal(t, "Sand.", table.Summary("dune"))
}

func TestLoadSummariesBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summaries.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o644))

	_, err := LoadSummaries(path)
	require.Error(t, err)
}
