package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombosc/mwer/internal/candidate"
)

func TestValidateRequiresCorpusOutputOrderAndMode(t *testing.T) {
	assert.Error(t, validate(&options{}))
	assert.Error(t, validate(&options{corpus: "c", output: "o", order: 5, dependency: true}))
	assert.Error(t, validate(&options{corpus: "c", output: "o", order: 2}))
	assert.Error(t, validate(&options{corpus: "c", output: "o", order: 2, dependency: true, surface: true}))
	assert.NoError(t, validate(&options{corpus: "c", output: "o", order: 2, dependency: true}))
}

func TestResolveRangeAdjacent(t *testing.T) {
	min, max, err := resolveRange(&options{order: 3, adjacent: true})
	require.NoError(t, err)
	assert.Equal(t, 2, min)
	assert.Equal(t, 2, max)
}

func TestResolveRangeDefaultsToOrderMinusOneAndMaxInt(t *testing.T) {
	min, max, err := resolveRange(&options{order: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, min)
	assert.Equal(t, math.MaxInt32, max)
}

func TestResolveRangeExplicit(t *testing.T) {
	min, max, err := resolveRange(&options{order: 3, distRange: "1-5"})
	require.NoError(t, err)
	assert.Equal(t, 1, min)
	assert.Equal(t, 5, max)
}

func TestTotalOccurrencesSumsFrequencies(t *testing.T) {
	pe, err := candidate.NewPlainExtractor(2, 3, false, 1, 1)
	require.NoError(t, err)
	for _, sentence := range [][]string{
		{"le|le|DET", "chat|chat|NOUN"},
		{"le|le|DET", "chat|chat|NOUN"},
	} {
		for _, tok := range sentence {
			require.NoError(t, pe.AddToken(tok))
		}
		pe.ComputeCandidatesSentence()
	}
	assert.Equal(t, 2, totalOccurrences(pe))
}
