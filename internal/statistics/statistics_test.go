package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombosc/mwer/internal/wordtype"
)

func TestAddCandidateGeneratesSubcandidatesLinkedToConcrete(t *testing.T) {
	e, err := New(2, 3, 1, 1, false, false, false, nil)
	require.NoError(t, err)

	wtA := e.AddWordType("a", "X")
	wtB := e.AddWordType("b", "Y")
	cc := e.AddCandidate([]*wordtype.WordType{wtA, wtB}, nil)

	subs := cc.SortedSubcandidates()
	assert.Len(t, subs, 2)
}

func TestUpdateStatisticsAccumulatesContingencyForKnownCandidate(t *testing.T) {
	e, err := New(2, 3, 1, 1, false, true, false, nil)
	require.NoError(t, err)

	wtLe := e.AddWordType("le", "DET")
	wtChat := e.AddWordType("chat", "NOUN")
	cc := e.AddCandidate([]*wordtype.WordType{wtLe, wtChat}, nil)

	for _, tok := range []string{"le|le|DET", "chat|chat|NOUN", "dort|dort|VERB"} {
		require.NoError(t, e.AddToken(tok))
	}
	e.UpdateStatistics()

	assert.Equal(t, 1, cc.Frequency())
	assert.Equal(t, 1, e.N)
}

func TestUpdateStatisticsIgnoresUnknownOccurrences(t *testing.T) {
	e, err := New(2, 3, 1, 1, false, false, false, nil)
	require.NoError(t, err)

	wtLe := e.AddWordType("le", "DET")
	wtChat := e.AddWordType("chat", "NOUN")
	cc := e.AddCandidate([]*wordtype.WordType{wtLe, wtChat}, nil)

	for _, tok := range []string{"un|un|DET", "chien|chien|NOUN"} {
		require.NoError(t, e.AddToken(tok))
	}
	e.UpdateStatistics()

	assert.Equal(t, 0, cc.Frequency())
	assert.Equal(t, 0, e.N)
}

func TestWriteDataRendersCandidateRow(t *testing.T) {
	e, err := New(2, 3, 1, 1, false, false, false, nil)
	require.NoError(t, err)

	wtLe := e.AddWordType("le", "DET")
	wtChat := e.AddWordType("chat", "NOUN")
	e.AddCandidate([]*wordtype.WordType{wtLe, wtChat}, nil)

	for _, tok := range []string{"le|le|DET", "chat|chat|NOUN"} {
		require.NoError(t, e.AddToken(tok))
	}
	e.UpdateStatistics()
	e.Finish()

	out := e.WriteData()
	assert.Contains(t, out, "le|DET chat|NOUN")
}
