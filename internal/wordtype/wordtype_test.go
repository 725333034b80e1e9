package wordtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryInternReturnsStablePointer(t *testing.T) {
	r := NewRegistry()
	a := r.Intern("chien", "NOUN")
	b := r.Intern("chien", "NOUN")
	assert.Same(t, a, b)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryInternDistinguishesTag(t *testing.T) {
	r := NewRegistry()
	a := r.Intern("close", "VERB")
	b := r.Intern("close", "ADJ")
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, r.Len())
}

func TestWordTypeString(t *testing.T) {
	wt := &WordType{FormOrLemma: "chat", Tag: "NOUN"}
	assert.Equal(t, "chat|NOUN", wt.String())

	untagged := &WordType{FormOrLemma: "chat"}
	assert.Equal(t, "chat", untagged.String())

	var nilType *WordType
	assert.Equal(t, "*", nilType.String())
}

func TestLessOrdersNilFirstThenLexicographic(t *testing.T) {
	a := &WordType{FormOrLemma: "a", Tag: "X"}
	b := &WordType{FormOrLemma: "b", Tag: "A"}

	assert.True(t, Less(nil, a))
	assert.False(t, Less(a, nil))
	assert.False(t, Less(nil, nil))
	assert.True(t, Less(a, b))
	assert.False(t, Less(b, a))
}

func TestEqualComparesByValueAcrossRegistries(t *testing.T) {
	r1 := NewRegistry()
	r2 := NewRegistry()
	a := r1.Intern("x", "Y")
	b := r2.Intern("x", "Y")

	require.NotSame(t, a, b)
	assert.True(t, Equal(a, b))
	assert.True(t, Equal(a, a))
	assert.False(t, Equal(a, nil))
	var nilA, nilB *WordType
	assert.True(t, Equal(nilA, nilB))
}

func TestHashIsStableAndDistinguishesTag(t *testing.T) {
	r := NewRegistry()
	a := r.Intern("porte", "NOUN")
	b := r.Intern("porte", "NOUN")
	c := r.Intern("porte", "VERB")

	assert.Equal(t, a.Hash(), b.Hash())
	assert.NotEqual(t, a.Hash(), c.Hash())

	var nilType *WordType
	assert.Equal(t, uint64(0), nilType.Hash())
}
