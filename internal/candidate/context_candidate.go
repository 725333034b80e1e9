package candidate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tombosc/mwer/internal/sentence"
	"github.com/tombosc/mwer/internal/wordtype"
)

// ContextType indexes a ContextCandidate's context slice. The ordering
// (BROAD, LEFT, RIGHT) matches the reference implementation's enum so that a
// subcandidate's single-element context slice is always BROAD at index 0.
type ContextType int

const (
	BROAD ContextType = iota
	LEFT
	RIGHT
)

// Context is a multiset of WordType occurrences.
type Context map[*wordtype.WordType]int

// ContextCandidate extends Candidate with left/right/broad context multisets
// and a set of subcandidates: siblings obtained by nulling out one or more
// slots, used to compute marginal contingency-table cells.
type ContextCandidate struct {
	Candidate

	contexts      []Context
	subcandidates map[*ContextCandidate]struct{}
}

// NewContextCandidate builds a ContextCandidate. Concrete candidates
// (order == 0) get all three contexts; subcandidates (order > 0) get only
// BROAD, since LEFT/RIGHT immediate context is never accumulated for them.
func NewContextCandidate(types []*wordtype.WordType, parentIDs []int, freq, order int) *ContextCandidate {
	cc := &ContextCandidate{
		Candidate:     *New(types, parentIDs, freq, order),
		subcandidates: make(map[*ContextCandidate]struct{}),
	}
	size := 1
	if order == 0 {
		size = 3
	}
	cc.contexts = make([]Context, size)
	for i := range cc.contexts {
		cc.contexts[i] = make(Context)
	}
	return cc
}

// Equal compares two ContextCandidates by the same identity rule as
// Candidate.Equal; it exists (rather than relying on promotion) so
// *ContextCandidate satisfies the Store's generic Entry constraint.
func (cc *ContextCandidate) Equal(o *ContextCandidate) bool {
	return cc.Candidate.Equal(&o.Candidate)
}

// Less compares two ContextCandidates by the same lexicographic rule as
// Candidate.Less; see Equal for why it is restated here.
func (cc *ContextCandidate) Less(o *ContextCandidate) bool {
	return cc.Candidate.Less(&o.Candidate)
}

// Output renders the candidate, printing "*" for null (subcandidate) slots
// instead of a type string.
func (cc *ContextCandidate) Output() string {
	parts := make([]string, len(cc.Types))
	hasParents := len(cc.ParentIDs) > 0
	for i, t := range cc.Types {
		if t == nil {
			parts[i] = "*"
			continue
		}
		if hasParents {
			parts[i] = t.String() + "|" + strconv.Itoa(i+1) + "|" + strconv.Itoa(cc.ParentIDs[i])
		} else {
			parts[i] = t.String()
		}
	}
	return strings.Join(parts, string(sentence.SepWords))
}

// AddSubcandidate registers c as a subcandidate. Insertion is idempotent.
func (cc *ContextCandidate) AddSubcandidate(c *ContextCandidate) {
	cc.subcandidates[c] = struct{}{}
}

// SortedSubcandidates returns the subcandidate set in lexicographic order,
// the order the contingency table's marginal cells are serialized in.
func (cc *ContextCandidate) SortedSubcandidates() []*ContextCandidate {
	out := make([]*ContextCandidate, 0, len(cc.subcandidates))
	for sc := range cc.subcandidates {
		out = append(out, sc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// AddToContext increments the count of typ in context c.
func (cc *ContextCandidate) AddToContext(c ContextType, typ *wordtype.WordType) {
	cc.contexts[c][typ]++
}

// Context returns the multiset for context c (BROAD always valid; LEFT/RIGHT
// only for concrete candidates).
func (cc *ContextCandidate) Context(c ContextType) Context {
	return cc.contexts[c]
}

// UpdateStatistics increments the candidate's own counter, then recurses
// into every linked subcandidate so marginal counts stay in sync.
func (cc *ContextCandidate) UpdateStatistics() {
	cc.Counter++
	for sc := range cc.subcandidates {
		sc.UpdateStatistics()
	}
}

// SubstractTypesInContext corrects the artifact that a candidate's own
// occurrences get counted in its own BROAD context once per slot: it
// subtracts Counter from the BROAD entry of every slot type, once per slot
// (so a repeated type like (a, a) is subtracted twice), erasing the entry on
// exact exhaustion.
func (cc *ContextCandidate) SubstractTypesInContext() {
	broad := cc.contexts[BROAD]
	for _, t := range cc.Types {
		if t == nil {
			continue
		}
		if n, ok := broad[t]; ok {
			n -= cc.Counter
			if n == 0 {
				delete(broad, t)
			} else {
				broad[t] = n
			}
		}
	}
}

// OutputContingency renders the candidate's contingency row: its own count,
// then for each subcandidate (in lexicographic order) sub.Counter - Counter,
// then the residual N - sum(previous cells).
func (cc *ContextCandidate) OutputContingency(n int) string {
	sum := cc.Counter
	cells := []string{strconv.Itoa(cc.Counter)}
	for _, sc := range cc.SortedSubcandidates() {
		cell := sc.Counter - cc.Counter
		sum += cell
		cells = append(cells, strconv.Itoa(cell))
	}
	cells = append(cells, strconv.Itoa(n-sum))
	return strings.Join(cells, string(sentence.SepWords))
}

// PrintContext renders a context multiset as "type:count" entries
// space-separated, in the registry's insertion-independent lexicographic
// order so output is deterministic across runs.
func PrintContext(ctx Context) string {
	type entry struct {
		t *wordtype.WordType
		n int
	}
	entries := make([]entry, 0, len(ctx))
	for t, n := range ctx {
		entries = append(entries, entry{t, n})
	}
	sort.Slice(entries, func(i, j int) bool { return wordtype.Less(entries[i].t, entries[j].t) })
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.t.String() + ":" + strconv.Itoa(e.n)
	}
	return strings.Join(parts, string(sentence.SepWords))
}
