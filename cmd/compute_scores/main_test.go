package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContextSkipsMalformedEntries(t *testing.T) {
	names, freqs := parseContext([]string{"dort:3", "", "bien", "bon:x", "noir:2"})
	assert.Equal(t, []string{"dort", "noir"}, names)
	assert.Equal(t, []int{3, 2}, freqs)
}

func TestParseIntsRejectsNonNumeric(t *testing.T) {
	_, err := parseInts([]string{"1", "x", "3"})
	assert.Error(t, err)

	vals, err := parseInts([]string{"1", "2", "3"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, vals)
}

func TestStripToFormLemmaKeepsFirstTwoFactors(t *testing.T) {
	got := stripToFormLemma([]string{"chat|chat|NOUN|1|0", "le|le|DET|2|1"})
	assert.Equal(t, []string{"chat|chat", "le|le"}, got)
}

func TestStripToFormLemmaLeavesShortTokensUnchanged(t *testing.T) {
	got := stripToFormLemma([]string{"chat", "le|DET"})
	assert.Equal(t, []string{"chat", "le|DET"}, got)
}

func TestValidateRequiresScoreIDsAndPaths(t *testing.T) {
	assert.Error(t, validate(&options{}))
	assert.Error(t, validate(&options{scoreIDs: []int{1}}))
	assert.Error(t, validate(&options{scoreIDs: []int{1}, input: "in"}))
	assert.NoError(t, validate(&options{scoreIDs: []int{1}, input: "in", output: "out"}))
}

func TestMaxInt(t *testing.T) {
	assert.Equal(t, 40, maxInt([]int{3, 40, 17}))
	assert.Equal(t, 5, maxInt([]int{5}))
}
