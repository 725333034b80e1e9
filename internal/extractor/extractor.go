// Package extractor implements candidate enumeration over a sentence: both
// the dependency-tree connected-subtree scan and the surface gapped n-gram
// scan, sharing a single postprocessing path. The engine is parametric over
// what it does with an enumerated candidate (plain frequency counting vs.
// statistics/context accumulation) via the Sink callback, so the same
// algorithms serve both internal/candidate and internal/statistics.
package extractor

import (
	"fmt"
	"sort"

	"github.com/tombosc/mwer/internal/sentence"
	"github.com/tombosc/mwer/internal/wordtype"
)

// Sink receives one enumerated candidate occurrence. types[i] is nil only
// for positions that were deliberately nulled out, which never happens for
// engine-produced candidates (only for statistics subcandidates, which are
// constructed separately). parentIDs is nil in surface mode.
type Sink func(types []*wordtype.WordType, parentIDs []int, prevType, nextType *wordtype.WordType)

// Engine enumerates order-n candidates from sentences fed one token at a
// time. Dependency is selected once at construction; a single Engine always
// runs in one mode.
type Engine struct {
	Order      int
	NFactors   int
	Dependency bool
	SurfMin    int
	SurfMax    int

	Types *wordtype.Registry

	tokens []*sentence.Token
	emit   Sink

	compositions map[compKey][][]int
}

type compKey struct {
	sum    int
	nParts int
}

// New builds an Engine. surfMin/surfMax bound the id distance between the
// first and last token of every emitted candidate, in both modes.
func New(order, nFactors int, dependency bool, surfMin, surfMax int, types *wordtype.Registry, emit Sink) (*Engine, error) {
	if order < 2 || order > 4 {
		return nil, fmt.Errorf("extractor: order must be between 2 and 4, got %d", order)
	}
	return &Engine{
		Order:        order,
		NFactors:     nFactors,
		Dependency:   dependency,
		SurfMin:      surfMin,
		SurfMax:      surfMax,
		Types:        types,
		emit:         emit,
		compositions: make(map[compKey][][]int),
	}, nil
}

// AddToken parses one `|`-separated factor string and appends it to the
// sentence currently being assembled. In dependency mode the token's id and
// parent id come from its ID/PARENT_ID factors; in surface mode the id is
// the 1-based insertion position.
func (e *Engine) AddToken(factorString string) error {
	if len(e.tokens) >= sentence.MaxWordsPerSentence {
		return fmt.Errorf("extractor: sentence exceeds %d tokens", sentence.MaxWordsPerSentence)
	}

	var tok *sentence.Token
	var err error
	if e.Dependency {
		tok, err = sentence.NewDependencyToken(e.NFactors, factorString)
	} else {
		tok, err = sentence.NewSurfaceToken(e.NFactors, factorString, len(e.tokens)+1)
	}
	if err != nil {
		return err
	}

	tok.Type = e.internType(tok)
	e.tokens = append(e.tokens, tok)
	return nil
}

// internType resolves the WordType a token contributes: (LEMMA, TAG) when
// at least 3 factors are present, (LEMMA, "") when at least 2, else
// (FORM, "").
func (e *Engine) internType(tok *sentence.Token) *wordtype.WordType {
	switch {
	case e.NFactors >= 3:
		return e.Types.Intern(tok.Factor(sentence.LEMMA), tok.Factor(sentence.TAG))
	case e.NFactors >= 2:
		return e.Types.Intern(tok.Factor(sentence.LEMMA), "")
	default:
		return e.Types.Intern(tok.Factor(sentence.FORM), "")
	}
}

// ComputeCandidatesSentence enumerates every order-n candidate from the
// tokens accumulated since the last call, invoking the sink once per
// occurrence, then clears the sentence.
func (e *Engine) ComputeCandidatesSentence() {
	e.EnumerateSentence()
	e.ClearSentence()
}

// EnumerateSentence runs enumeration over the accumulated tokens without
// clearing them, so a second pass (the statistics extractor's broad-context
// unigram sweep) can still see Sentence() afterward. Callers that don't need
// a second pass should use ComputeCandidatesSentence instead.
func (e *Engine) EnumerateSentence() {
	if len(e.tokens) == 0 {
		return
	}
	if e.Dependency {
		e.computeDepCandidates()
	} else {
		e.computeSurfCandidates()
	}
}

// ClearSentence discards the tokens accumulated for the current sentence.
func (e *Engine) ClearSentence() {
	e.tokens = nil
}

// computeDepCandidates builds the dependency tree rooted at the sentinel
// token 0, then enumerates every order-n connected subtree rooted at each
// real node.
func (e *Engine) computeDepCandidates() {
	root := sentence.NewTree(sentence.NewRootToken(e.NFactors))
	nodes := map[int]*sentence.Tree[*sentence.Token]{0: root}

	for _, tok := range e.tokens {
		e.buildDepTree(tok, nodes)
	}

	for _, tok := range e.tokens {
		node := nodes[tok.ID()]
		for _, set := range e.scanDepTree(e.Order, node) {
			e.emitSet(set, true)
		}
	}
}

// buildDepTree ensures a tree node exists for tok, recursively attaching its
// ancestor chain first since tokens are not guaranteed to arrive in
// parent-before-child order.
func (e *Engine) buildDepTree(tok *sentence.Token, nodes map[int]*sentence.Tree[*sentence.Token]) *sentence.Tree[*sentence.Token] {
	if node, ok := nodes[tok.ID()]; ok {
		return node
	}
	node := sentence.NewTree(tok)
	nodes[tok.ID()] = node

	father, ok := nodes[tok.ParentID()]
	if !ok {
		parentTok := e.findToken(tok.ParentID())
		if parentTok == nil {
			father = nodes[0]
		} else {
			father = e.buildDepTree(parentTok, nodes)
		}
	}
	node.LinkWithFather(father)
	return node
}

func (e *Engine) findToken(id int) *sentence.Token {
	for _, t := range e.tokens {
		if t.ID() == id {
			return t
		}
	}
	return nil
}

// scanDepTree returns every set of exactly order token ids inducing a
// connected subtree rooted at node.
func (e *Engine) scanDepTree(order int, node *sentence.Tree[*sentence.Token]) [][]*sentence.Token {
	if order < 1 {
		return nil
	}
	if order == 1 {
		return [][]*sentence.Token{{node.Element}}
	}

	children := node.Children()
	var results [][]*sentence.Token
	for _, comp := range e.compositionsOf(order-1, len(children)) {
		combined := [][]*sentence.Token{{node.Element}}
		ok := true
		for i, k := range comp {
			if k == 0 {
				continue
			}
			childSets := e.scanDepTree(k, children[i])
			if len(childSets) == 0 {
				ok = false
				break
			}
			combined = concat(combined, childSets)
		}
		if ok {
			results = append(results, combined...)
		}
	}
	return results
}

// compositionsOf returns, memoized by (sum, nParts), every way to write sum
// as an ordered tuple of nParts nonnegative integers.
func (e *Engine) compositionsOf(sum, nParts int) [][]int {
	key := compKey{sum, nParts}
	if cached, ok := e.compositions[key]; ok {
		return cached
	}

	var result [][]int
	if nParts == 0 {
		if sum == 0 {
			result = [][]int{{}}
		}
	} else if nParts == 1 {
		result = [][]int{{sum}}
	} else {
		for first := 0; first <= sum; first++ {
			for _, rest := range e.compositionsOf(sum-first, nParts-1) {
				tuple := append([]int{first}, rest...)
				result = append(result, tuple)
			}
		}
	}

	e.compositions[key] = result
	return result
}

// concat is the cartesian-product-style union: every element of a extended
// by every element of b.
func concat(a, b [][]*sentence.Token) [][]*sentence.Token {
	out := make([][]*sentence.Token, 0, len(a)*len(b))
	for _, x := range a {
		for _, y := range b {
			merged := make([]*sentence.Token, 0, len(x)+len(y))
			merged = append(merged, x...)
			merged = append(merged, y...)
			out = append(out, merged)
		}
	}
	return out
}

// computeSurfCandidates wraps the sentence as a left-to-right chain and
// enumerates every gapped n-gram within the configured distance window. A
// single scanSurfTree call from the chain head covers every possible
// starting position: while no token has been committed as the leftmost
// member yet, the "skip" branch holds depth at 0, so the recursion itself
// tries every later position as a fresh anchor.
func (e *Engine) computeSurfCandidates() {
	var head *sentence.Tree[*sentence.Token]
	var prev *sentence.Tree[*sentence.Token]
	for _, tok := range e.tokens {
		node := sentence.NewTree(tok)
		if prev != nil {
			node.LinkWithFather(prev)
		}
		if head == nil {
			head = node
		}
		prev = node
	}

	for _, set := range e.scanSurfTree(e.Order, head, 0) {
		e.emitSet(set, false)
	}
}

func soleChild(n *sentence.Tree[*sentence.Token]) *sentence.Tree[*sentence.Token] {
	children := n.Children()
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

// scanSurfTree returns every gapped n-gram of length order starting no
// earlier than node, honoring the [SurfMin, SurfMax] distance window via the
// depth counter (distance from the first chosen token once one has been
// chosen).
func (e *Engine) scanSurfTree(order int, node *sentence.Tree[*sentence.Token], depth int) [][]*sentence.Token {
	return e.scanSurfNode(order, node, depth)
}

func (e *Engine) scanSurfNode(order int, node *sentence.Tree[*sentence.Token], depth int) [][]*sentence.Token {
	if order < 1 || node == nil {
		return nil
	}
	if depth == e.SurfMax {
		if order == 1 && depth >= e.SurfMin {
			return [][]*sentence.Token{{node.Element}}
		}
		return nil
	}

	var results [][]*sentence.Token
	if order == 1 && depth >= e.SurfMin {
		results = append(results, []*sentence.Token{node.Element})
	}

	child := soleChild(node)
	if child == nil {
		return results
	}

	skipDepth := depth
	if depth > 0 {
		skipDepth = depth + 1
	}
	results = append(results, e.scanSurfNode(order, child, skipDepth)...)

	if order > 1 {
		for _, tail := range e.scanSurfNode(order-1, child, depth+1) {
			set := make([]*sentence.Token, 0, len(tail)+1)
			set = append(set, node.Element)
			set = append(set, tail...)
			results = append(results, set)
		}
	}

	return results
}

// emitSet runs the shared postprocessing path on one enumerated token set
// and invokes the sink.
func (e *Engine) emitSet(toks []*sentence.Token, isDep bool) {
	if isDep {
		sorted := make([]*sentence.Token, len(toks))
		copy(sorted, toks)
		sort.Slice(sorted, func(i, j int) bool { return sentence.IDLess(sorted[i], sorted[j]) })
		toks = sorted
	}

	first, last := toks[0], toks[len(toks)-1]
	maxDistance := last.ID() - first.ID()
	if maxDistance < e.SurfMin || maxDistance > e.SurfMax {
		return
	}

	types := make([]*wordtype.WordType, len(toks))
	remap := map[int]int{0: 0}
	for i, t := range toks {
		types[i] = t.Type
		remap[t.ID()] = i + 1
	}

	var parentIDs []int
	if isDep {
		parentIDs = make([]int, len(toks))
		for i, t := range toks {
			pid, ok := remap[t.ParentID()]
			if !ok {
				pid = 0
			}
			parentIDs[i] = pid
		}
	}

	prevType := e.neighborType(first.ID() - 1)
	nextType := e.neighborType(last.ID() + 1)

	e.emit(types, parentIDs, prevType, nextType)
}

// neighborType returns the type of the token at sentence position id, or nil
// if id falls outside [1, len(tokens)].
func (e *Engine) neighborType(id int) *wordtype.WordType {
	if id < 1 || id > len(e.tokens) {
		return nil
	}
	return e.tokens[id-1].Type
}

// Sentence exposes the tokens accumulated since the last
// ComputeCandidatesSentence call, for callers (statistics extraction) that
// need a second pass over the same sentence (broad-context unigrams).
func (e *Engine) Sentence() []*sentence.Token {
	return e.tokens
}
