package candidate

import (
	"github.com/tombosc/mwer/internal/extractor"
	"github.com/tombosc/mwer/internal/wordtype"
)

// PlainExtractor pairs the enumeration engine with a frequency-only Store,
// the "plain extraction" variant described by the engine-templating design
// note: the store supplies onEmit, the engine supplies enumeration, neither
// knows about the other's internals.
type PlainExtractor struct {
	Engine *extractor.Engine
	Store  *Store[*Candidate]
}

// NewPlainExtractor builds a PlainExtractor for order-n candidates.
func NewPlainExtractor(order, nFactors int, dependency bool, surfMin, surfMax int) (*PlainExtractor, error) {
	store, err := NewStore[*Candidate](order)
	if err != nil {
		return nil, err
	}
	pe := &PlainExtractor{Store: store}

	engine, err := extractor.New(order, nFactors, dependency, surfMin, surfMax, store.Types, pe.onEmit)
	if err != nil {
		return nil, err
	}
	pe.Engine = engine
	return pe, nil
}

// onEmit is the engine's Sink: build a candidate for the occurrence and fold
// it into the store, incrementing the canonical entry's counter on a repeat.
func (pe *PlainExtractor) onEmit(types []*wordtype.WordType, parentIDs []int, _, _ *wordtype.WordType) {
	c := New(types, parentIDs, 1, 0)
	pe.Store.Insert(c, func(existing *Candidate) { existing.UpdateStatistics() })
}

// AddToken feeds one corpus token into the sentence being assembled.
func (pe *PlainExtractor) AddToken(factorString string) error {
	return pe.Engine.AddToken(factorString)
}

// ComputeCandidatesSentence enumerates the accumulated sentence and clears it.
func (pe *PlainExtractor) ComputeCandidatesSentence() {
	pe.Engine.ComputeCandidatesSentence()
}
