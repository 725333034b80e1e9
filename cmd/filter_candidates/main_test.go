package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRequiresInputOutputAndOrder(t *testing.T) {
	assert.Error(t, validate(&options{}))
	assert.Error(t, validate(&options{input: "i", output: "o", order: 1}))
	assert.NoError(t, validate(&options{input: "i", output: "o", order: 3}))
}

func TestSplitFactorsSplitsOnPipe(t *testing.T) {
	assert.Equal(t, []string{"a", "X", "1", "0"}, splitFactors("a|X|1|0"))
	assert.Equal(t, []string{"a"}, splitFactors("a"))
}
