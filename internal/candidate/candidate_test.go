package candidate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombosc/mwer/internal/sentence"
	"github.com/tombosc/mwer/internal/wordtype"
)

func types(r *wordtype.Registry, pairs ...[2]string) []*wordtype.WordType {
	out := make([]*wordtype.WordType, len(pairs))
	for i, p := range pairs {
		out[i] = r.Intern(p[0], p[1])
	}
	return out
}

func TestCandidateEqualIgnoresCounter(t *testing.T) {
	r := wordtype.NewRegistry()
	a := New(types(r, [2]string{"pomme", "NOUN"}, [2]string{"rouge", "ADJ"}), nil, 1, 0)
	b := New(types(r, [2]string{"pomme", "NOUN"}, [2]string{"rouge", "ADJ"}), nil, 7, 0)
	assert.True(t, a.Equal(b))
}

func TestCandidateHashDistinguishesOrder(t *testing.T) {
	r := wordtype.NewRegistry()
	a := New(types(r, [2]string{"grosse", "ADJ"}, [2]string{"pomme", "NOUN"}), nil, 1, 0)
	b := New(types(r, [2]string{"pomme", "NOUN"}, [2]string{"grosse", "ADJ"}), nil, 1, 0)
	assert.NotEqual(t, a.Hash(), b.Hash())
	assert.False(t, a.Equal(b))
}

func TestCandidateOutputWithoutParentIDs(t *testing.T) {
	r := wordtype.NewRegistry()
	c := New(types(r, [2]string{"grosse", "ADJ"}, [2]string{"pomme", "NOUN"}), nil, 3, 0)
	assert.Equal(t, "grosse|ADJ pomme|NOUN", c.Output())
}

func TestCandidateOutputWithParentIDs(t *testing.T) {
	r := wordtype.NewRegistry()
	c := New(types(r, [2]string{"grosse", "ADJ"}, [2]string{"pomme", "NOUN"}), []int{2, 0}, 3, 0)
	assert.Equal(t, "grosse|ADJ|1|2 pomme|NOUN|2|0", c.Output())
}

func TestCandidateLessOrdersByOrderThenTypesThenParentIDs(t *testing.T) {
	r := wordtype.NewRegistry()
	a := New(types(r, [2]string{"a", "X"}), nil, 0, 0)
	b := New(types(r, [2]string{"b", "X"}), nil, 0, 0)
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))

	shallow := New(types(r, [2]string{"a", "X"}), nil, 0, 0)
	deep := New(types(r, [2]string{"a", "X"}), nil, 0, 1)
	assert.True(t, shallow.Less(deep))

	rootParent := New(types(r, [2]string{"a", "X"}), []int{0}, 0, 0)
	firstParent := New(types(r, [2]string{"a", "X"}), []int{1}, 0, 0)
	assert.True(t, rootParent.Less(firstParent))
	assert.False(t, firstParent.Less(rootParent))
}

func TestCandidateUpdateStatistics(t *testing.T) {
	r := wordtype.NewRegistry()
	c := New(types(r, [2]string{"a", "X"}), nil, 0, 0)
	assert.Equal(t, 0, c.Frequency())
	c.UpdateStatistics()
	c.UpdateStatistics()
	assert.Equal(t, 2, c.Frequency())
	assert.True(t, c.FrequencyWithinRange(1, 3))
	assert.False(t, c.FrequencyWithinRange(3, 10))
}

func TestCompilePatternsRequiresExactSlotCount(t *testing.T) {
	_, err := CompilePatterns("a:b", 3)
	assert.Error(t, err)

	patterns, err := CompilePatterns("^a.*$:^b.*$", 2)
	require.NoError(t, err)
	assert.Len(t, patterns, 2)
}

func TestCandidateRegexpFilterRequiresFullMatch(t *testing.T) {
	r := wordtype.NewRegistry()
	c := New(types(r, [2]string{"grosse", "ADJ"}, [2]string{"pomme", "NOUN"}), nil, 0, 0)
	patterns, err := CompilePatterns("gros.*:pomme", 2)
	require.NoError(t, err)
	assert.True(t, c.RegexpFilter(sentence.LEMMA, patterns))

	prefixOnly, err := CompilePatterns("gros:pomme", 2)
	require.NoError(t, err)
	assert.False(t, c.RegexpFilter(sentence.LEMMA, prefixOnly))
}

func TestParseRangeBareAndMinMax(t *testing.T) {
	min, max, err := ParseRange("3")
	require.NoError(t, err)
	assert.Equal(t, 3, min)
	assert.Equal(t, int(^uint(0)>>1), max)

	min, max, err = ParseRange("2-5")
	require.NoError(t, err)
	assert.Equal(t, 2, min)
	assert.Equal(t, 5, max)

	_, _, err = ParseRange("x-5")
	assert.Error(t, err)
}

func TestSortSliceOrdersLexicographically(t *testing.T) {
	r := wordtype.NewRegistry()
	b := New(types(r, [2]string{"b", "X"}), nil, 0, 0)
	a := New(types(r, [2]string{"a", "X"}), nil, 0, 0)
	cands := []*Candidate{b, a}
	SortSlice(cands)
	assert.Same(t, a, cands[0])
	assert.Same(t, b, cands[1])
}

func TestStoreInsertDeduplicatesAndIncrementsCounter(t *testing.T) {
	s, err := NewStore[*Candidate](2)
	require.NoError(t, err)

	wtA := s.AddWordType("a", "X")
	wtB := s.AddWordType("b", "Y")

	first := New([]*wordtype.WordType{wtA, wtB}, nil, 1, 0)
	canonical := s.Insert(first, func(existing *Candidate) { existing.UpdateStatistics() })
	assert.Same(t, first, canonical)

	second := New([]*wordtype.WordType{wtA, wtB}, nil, 1, 0)
	canonical = s.Insert(second, func(existing *Candidate) { existing.UpdateStatistics() })
	assert.Same(t, first, canonical)
	assert.Equal(t, 2, canonical.Frequency())
	assert.Equal(t, 1, s.Len())
}

func TestStoreFrequencyFilterAndInvert(t *testing.T) {
	s, err := NewStore[*Candidate](2)
	require.NoError(t, err)
	wtA := s.AddWordType("a", "X")
	wtB := s.AddWordType("b", "Y")
	wtC := s.AddWordType("c", "Z")

	s.Insert(New([]*wordtype.WordType{wtA, wtB}, nil, 1, 0), nil)
	s.Insert(New([]*wordtype.WordType{wtB, wtC}, nil, 5, 0), nil)

	s.FrequencyFilter(3, 10, false)
	require.Equal(t, 1, s.Len())
	assert.Equal(t, 5, s.All()[0].Frequency())

	inv, err := NewStore[*Candidate](2)
	require.NoError(t, err)
	wtA = inv.AddWordType("a", "X")
	wtB = inv.AddWordType("b", "Y")
	wtC = inv.AddWordType("c", "Z")
	inv.Insert(New([]*wordtype.WordType{wtA, wtB}, nil, 1, 0), nil)
	inv.Insert(New([]*wordtype.WordType{wtB, wtC}, nil, 5, 0), nil)

	inv.FrequencyFilter(3, 10, true)
	require.Equal(t, 1, inv.Len())
	assert.Equal(t, 1, inv.All()[0].Frequency())
}

func TestStoreWriteToFileProducesSortedTabSeparatedLines(t *testing.T) {
	s, err := NewStore[*Candidate](2)
	require.NoError(t, err)
	wtA := s.AddWordType("a", "X")
	wtB := s.AddWordType("b", "Y")

	s.Insert(New([]*wordtype.WordType{wtB, wtA}, nil, 2, 0), nil)
	s.Insert(New([]*wordtype.WordType{wtA, wtB}, nil, 5, 0), nil)

	dir := t.TempDir()
	path := filepath.Join(dir, "candidates.txt")
	require.NoError(t, s.WriteToFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a|X b|Y\t5\nb|Y a|X\t2\n", string(data))
}
