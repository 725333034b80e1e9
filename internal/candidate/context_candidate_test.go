package candidate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombosc/mwer/internal/wordtype"
)

func TestNewContextCandidateContextSizeByOrder(t *testing.T) {
	r := wordtype.NewRegistry()
	concrete := NewContextCandidate(types(r, [2]string{"a", "X"}, [2]string{"b", "Y"}), nil, 0, 0)
	assert.NotPanics(t, func() { concrete.Context(LEFT) })
	assert.NotPanics(t, func() { concrete.Context(RIGHT) })
	assert.NotPanics(t, func() { concrete.Context(BROAD) })

	sub := NewContextCandidate([]*wordtype.WordType{nil, r.Intern("b", "Y")}, nil, 0, 1)
	assert.NotPanics(t, func() { sub.Context(BROAD) })
}

func TestContextCandidateOutputPrintsStarForNullSlots(t *testing.T) {
	r := wordtype.NewRegistry()
	sub := NewContextCandidate([]*wordtype.WordType{nil, r.Intern("b", "Y")}, nil, 0, 1)
	assert.Equal(t, "* b|Y", sub.Output())
}

func TestUpdateStatisticsPropagatesToSubcandidates(t *testing.T) {
	r := wordtype.NewRegistry()
	concrete := NewContextCandidate(types(r, [2]string{"a", "X"}, [2]string{"b", "Y"}), nil, 0, 0)
	subA := NewContextCandidate([]*wordtype.WordType{nil, r.Intern("b", "Y")}, nil, 0, 1)
	subB := NewContextCandidate([]*wordtype.WordType{r.Intern("a", "X"), nil}, nil, 0, 1)
	concrete.AddSubcandidate(subA)
	concrete.AddSubcandidate(subB)

	concrete.UpdateStatistics()
	concrete.UpdateStatistics()

	assert.Equal(t, 2, concrete.Frequency())
	assert.Equal(t, 2, subA.Frequency())
	assert.Equal(t, 2, subB.Frequency())
}

func TestSortedSubcandidatesOrdersLexicographically(t *testing.T) {
	r := wordtype.NewRegistry()
	concrete := NewContextCandidate(types(r, [2]string{"a", "X"}, [2]string{"b", "Y"}), nil, 0, 0)
	subB := NewContextCandidate([]*wordtype.WordType{nil, r.Intern("b", "Y")}, nil, 0, 1)
	subA := NewContextCandidate([]*wordtype.WordType{r.Intern("a", "X"), nil}, nil, 0, 1)
	concrete.AddSubcandidate(subB)
	concrete.AddSubcandidate(subA)

	// the null slot sorts before any concrete type, so (*, b) precedes (a, *)
	sorted := concrete.SortedSubcandidates()
	require.Len(t, sorted, 2)
	assert.Same(t, subB, sorted[0])
	assert.Same(t, subA, sorted[1])
}

func TestOutputContingencyRendersCellsAndResidual(t *testing.T) {
	r := wordtype.NewRegistry()
	concrete := NewContextCandidate(types(r, [2]string{"a", "X"}, [2]string{"b", "Y"}), nil, 0, 0)
	subA := NewContextCandidate([]*wordtype.WordType{nil, r.Intern("b", "Y")}, nil, 0, 1)
	subB := NewContextCandidate([]*wordtype.WordType{r.Intern("a", "X"), nil}, nil, 0, 1)
	concrete.AddSubcandidate(subA)
	concrete.AddSubcandidate(subB)

	for i := 0; i < 3; i++ {
		concrete.UpdateStatistics()
	}
	subA.UpdateStatistics()
	subA.UpdateStatistics()
	subB.UpdateStatistics()

	// concrete=3, subA=5 -> cell 2, subB=4 -> cell 1, residual = 100-3-2-1
	row := concrete.OutputContingency(100)
	assert.Equal(t, "3 2 1 94", row)
}

func TestSubstractTypesInContextErasesOnExactExhaustion(t *testing.T) {
	r := wordtype.NewRegistry()
	wtA := r.Intern("a", "X")
	cc := NewContextCandidate([]*wordtype.WordType{wtA}, nil, 0, 0)
	cc.UpdateStatistics()
	cc.UpdateStatistics()
	cc.AddToContext(BROAD, wtA)
	cc.AddToContext(BROAD, wtA)

	cc.SubstractTypesInContext()
	_, present := cc.Context(BROAD)[wtA]
	assert.False(t, present)
}

func TestSubstractTypesInContextLeavesResidualCount(t *testing.T) {
	r := wordtype.NewRegistry()
	wtA := r.Intern("a", "X")
	cc := NewContextCandidate([]*wordtype.WordType{wtA}, nil, 0, 0)
	cc.UpdateStatistics()
	cc.AddToContext(BROAD, wtA)
	cc.AddToContext(BROAD, wtA)
	cc.AddToContext(BROAD, wtA)

	cc.SubstractTypesInContext()
	assert.Equal(t, 2, cc.Context(BROAD)[wtA])
}

func TestPrintContextOrdersByTypeAndFormatsCounts(t *testing.T) {
	r := wordtype.NewRegistry()
	ctx := Context{
		r.Intern("b", "Y"): 2,
		r.Intern("a", "X"): 5,
	}
	assert.Equal(t, "a|X:5 b|Y:2", PrintContext(ctx))
}
