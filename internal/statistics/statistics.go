// Package statistics implements the statistic extractor: a candidate
// extractor that, instead of discovering new candidates, reads a
// preloaded candidate list and accumulates contingency-table and context
// statistics for it over a corpus pass.
package statistics

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/tombosc/mwer/internal/candidate"
	"github.com/tombosc/mwer/internal/extractor"
	"github.com/tombosc/mwer/internal/sentence"
	"github.com/tombosc/mwer/internal/wordtype"
)

// Extractor accumulates contingency-table and context statistics for a
// preloaded candidate list.
type Extractor struct {
	Order int
	N     int

	hasImmediate bool
	hasBroad     bool
	tagFilter    *regexp.Regexp

	engine        *extractor.Engine
	concrete      *candidate.Store[*candidate.ContextCandidate]
	subcandidates []*candidate.Store[*candidate.ContextCandidate] // indexed by tier 0..n-2
	unigrams      map[*wordtype.WordType]*candidate.ContextCandidate
}

// New builds an Extractor. tagFilter, if non-nil, restricts which context
// member tags are counted into LEFT/RIGHT/BROAD contexts.
func New(order, nFactors, surfMin, surfMax int, dependency, immediate, broad bool, tagFilter *regexp.Regexp) (*Extractor, error) {
	concrete, err := candidate.NewStore[*candidate.ContextCandidate](order)
	if err != nil {
		return nil, err
	}

	e := &Extractor{
		Order:         order,
		hasImmediate:  immediate,
		hasBroad:      broad,
		tagFilter:     tagFilter,
		concrete:      concrete,
		subcandidates: make([]*candidate.Store[*candidate.ContextCandidate], order-1),
		unigrams:      make(map[*wordtype.WordType]*candidate.ContextCandidate),
	}
	for i := range e.subcandidates {
		e.subcandidates[i] = candidate.NewUnvalidatedStore[*candidate.ContextCandidate](order)
	}

	engine, err := extractor.New(order, nFactors, dependency, surfMin, surfMax, concrete.Types, e.computeStats)
	if err != nil {
		return nil, err
	}
	e.engine = engine
	return e, nil
}

// AddToken feeds one corpus token into the sentence currently being
// assembled.
func (e *Extractor) AddToken(factorString string) error {
	return e.engine.AddToken(factorString)
}

// AddWordType interns a (formOrLemma, tag) pair from the preloaded candidate
// list into the extractor's shared vocabulary.
func (e *Extractor) AddWordType(formOrLemma, tag string) *wordtype.WordType {
	return e.concrete.AddWordType(formOrLemma, tag)
}

// AddCandidate loads one candidate from a preloaded list: interns it with
// counter 0, generates and links every subcandidate obtained by nulling one
// or more of its slots, and returns the canonical stored reference.
func (e *Extractor) AddCandidate(types []*wordtype.WordType, parentIDs []int) *candidate.ContextCandidate {
	cc := candidate.NewContextCandidate(types, parentIDs, 0, 0)
	canonical, existed := e.concrete.Lookup(cc)
	if !existed {
		canonical = e.concrete.Insert(cc, nil)
		e.addSubcandidates(canonical, canonical.Types, 0)
	}
	return canonical
}

// addSubcandidates mirrors the reference recursion: every subcandidate,
// regardless of how many slots it nulls out, links directly into concrete's
// subcandidate set (never into an intermediate subcandidate's own set).
// tier is the 0-based nulling round (tier 0 nulls exactly one slot, tier k
// nulls exactly k+1 slots); the stored Order field is tier+1.
func (e *Extractor) addSubcandidates(concrete *candidate.ContextCandidate, types []*wordtype.WordType, tier int) {
	n := len(types)
	for i := 0; i < n; i++ {
		if types[i] == nil {
			continue
		}
		t := append([]*wordtype.WordType(nil), types...)
		t[i] = nil

		sub := candidate.NewContextCandidate(t, nil, 0, tier+1)
		store := e.subcandidates[tier]
		canonical, existed := store.Lookup(sub)
		if !existed {
			canonical = store.Insert(sub, nil)
		}
		concrete.AddSubcandidate(canonical)

		if tier < n-2 {
			e.addSubcandidates(concrete, t, tier+1)
		}
	}
}

// computeStats is the enumeration sink: it looks the occurrence up among
// preloaded candidates and, if found, folds it into that candidate's
// contingency and context counters.
func (e *Extractor) computeStats(types []*wordtype.WordType, parentIDs []int, prevType, nextType *wordtype.WordType) {
	ghost := candidate.NewContextCandidate(types, parentIDs, 0, 0)
	cc, ok := e.concrete.Lookup(ghost)
	if !ok {
		return
	}

	if e.hasImmediate {
		if prevType != nil && e.canAddToContext(prevType) {
			cc.AddToContext(candidate.LEFT, prevType)
		}
		if nextType != nil && e.canAddToContext(nextType) {
			cc.AddToContext(candidate.RIGHT, nextType)
		}
	}
	if e.hasBroad {
		for _, tok := range e.engine.Sentence() {
			if e.canAddToContext(tok.Type) {
				cc.AddToContext(candidate.BROAD, tok.Type)
			}
		}
	}

	cc.UpdateStatistics()
	e.N++
}

// canAddToContext reports whether a context member's tag passes the
// configured tag filter (always true when none is configured).
func (e *Extractor) canAddToContext(t *wordtype.WordType) bool {
	if e.tagFilter == nil {
		return true
	}
	loc := e.tagFilter.FindStringIndex(t.Tag)
	return loc != nil && loc[0] == 0 && loc[1] == len(t.Tag)
}

// UpdateStatistics runs enumeration over the sentence accumulated since the
// last call, folding matches into the preloaded candidates, then (when
// broad context is enabled) runs a dedicated unigram pass so every token
// type's broad context is counted exactly once per sentence regardless of
// how many multi-word candidates it participates in, then clears the
// sentence.
func (e *Extractor) UpdateStatistics() {
	e.engine.EnumerateSentence()

	if e.hasBroad {
		for _, tok := range e.engine.Sentence() {
			e.updateUnigram(tok)
		}
	}

	e.engine.ClearSentence()
}

func (e *Extractor) updateUnigram(tok *sentence.Token) {
	unigram, ok := e.unigrams[tok.Type]
	if !ok {
		unigram = candidate.NewContextCandidate([]*wordtype.WordType{tok.Type}, nil, 0, 0)
		e.unigrams[tok.Type] = unigram
	}
	unigram.UpdateStatistics()

	for _, other := range e.engine.Sentence() {
		if other.Type == tok.Type {
			continue
		}
		if e.canAddToContext(other.Type) {
			unigram.AddToContext(candidate.BROAD, other.Type)
		}
	}
}

// Finish must be called once after the corpus pass. It corrects each
// concrete candidate's BROAD context for the fact that UpdateStatistics
// (the corpus pass) never filtered out the candidate's own occurrences from
// the broad sweep.
func (e *Extractor) Finish() {
	for _, cc := range e.concrete.All() {
		cc.SubstractTypesInContext()
	}
}

// WriteData renders the optional unigram block followed by the per-candidate
// statistics rows, matching the format described for statistics files.
func (e *Extractor) WriteData() string {
	var b strings.Builder
	sep := string(byte(sentence.SepSections))

	if e.hasBroad {
		for _, u := range e.orderedUnigrams() {
			fmt.Fprintf(&b, "%s%s%d%s%s\n", u.Output(), sep, u.Frequency(), sep, candidate.PrintContext(u.Context(candidate.BROAD)))
		}
	}

	for _, cc := range e.concrete.OrderCandidates() {
		fmt.Fprintf(&b, "%s%s%s", cc.Output(), sep, cc.OutputContingency(e.N))
		if e.hasImmediate {
			fmt.Fprintf(&b, "%s%s%s%s", sep, candidate.PrintContext(cc.Context(candidate.LEFT)), sep, candidate.PrintContext(cc.Context(candidate.RIGHT)))
		}
		if e.hasBroad {
			fmt.Fprintf(&b, "%s%s", sep, candidate.PrintContext(cc.Context(candidate.BROAD)))
		}
		b.WriteByte('\n')
	}

	return b.String()
}

func (e *Extractor) orderedUnigrams() []*candidate.ContextCandidate {
	out := make([]*candidate.ContextCandidate, 0, len(e.unigrams))
	for _, u := range e.unigrams {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
