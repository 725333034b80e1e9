package runstats

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileEncodesSummaryAsJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.json")

	s := Summary{
		Command:          "extract_candidates",
		StartedAt:        time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC),
		FinishedAt:       time.Date(2026, 7, 1, 10, 5, 0, 0, time.UTC),
		SentencesRead:    1000,
		CandidatesKept:   42,
		TotalOccurrences: 500,
	}
	require.NoError(t, WriteFile(path, s))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Summary
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, s.Command, got.Command)
	assert.Equal(t, s.SentencesRead, got.SentencesRead)
	assert.Equal(t, s.CandidatesKept, got.CandidatesKept)
	assert.Equal(t, s.TotalOccurrences, got.TotalOccurrences)
	assert.True(t, s.StartedAt.Equal(got.StartedAt))
}

func TestWriteFileFailsOnUnwritablePath(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "missing-dir", "run.json"), Summary{})
	assert.Error(t, err)
}
