package candidate

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainExtractorCountsRepeatedOccurrences(t *testing.T) {
	pe, err := NewPlainExtractor(2, 3, false, 1, 1)
	require.NoError(t, err)

	for _, sentence := range [][]string{
		{"le|le|DET", "chat|chat|NOUN"},
		{"le|le|DET", "chat|chat|NOUN"},
		{"un|un|DET", "chat|chat|NOUN"},
	} {
		for _, tok := range sentence {
			require.NoError(t, pe.AddToken(tok))
		}
		pe.ComputeCandidatesSentence()
	}

	var lines []string
	for _, c := range pe.Store.OrderCandidates() {
		lines = append(lines, c.Output())
	}
	sort.Strings(lines)
	assert.Equal(t, []string{"le|DET chat|NOUN", "un|DET chat|NOUN"}, lines)

	for _, c := range pe.Store.All() {
		if c.Output() == "le|DET chat|NOUN" {
			assert.Equal(t, 2, c.Frequency())
		}
		if c.Output() == "un|DET chat|NOUN" {
			assert.Equal(t, 1, c.Frequency())
		}
	}
}
