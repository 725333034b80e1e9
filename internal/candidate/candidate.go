// Package candidate implements the MWE candidate data model: Candidate (a
// plain frequency-counted n-tuple of WordType references, optionally with
// dependency parent ids) and ContextCandidate (a Candidate augmented with
// left/right/broad context multisets and a subcandidate lattice), plus the
// generic deduplicating Store both extractor variants are built on.
package candidate

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tombosc/mwer/internal/sentence"
	"github.com/tombosc/mwer/internal/wordtype"
)

// Candidate is an n-tuple of WordType references, optionally carrying
// dependency parent-id information, with an occurrence counter. Order is the
// number of null (unfilled) slots: 0 for a concrete candidate.
type Candidate struct {
	Types     []*wordtype.WordType
	ParentIDs []int
	Order     int
	Counter   int
}

// New constructs a Candidate. freq seeds the counter (1 for a freshly
// observed occurrence, 0 when preloading a candidate list for statistics
// extraction).
func New(types []*wordtype.WordType, parentIDs []int, freq, order int) *Candidate {
	return &Candidate{Types: types, ParentIDs: parentIDs, Order: order, Counter: freq}
}

// Hash folds every slot's WordType digest into a single 64-bit value using a
// slot-index-aware combiner. Unlike the legacy `sum ^= hash << i` scheme,
// multiply-then-XOR-with-mixed-index breaks the collision between
// permutations of the same multiset shifted by one slot (see the hash
// quality design note).
func (c *Candidate) Hash() uint64 {
	var h uint64 = 1469598103934665603 // FNV offset basis
	const prime uint64 = 1099511628211
	for i, t := range c.Types {
		h *= prime
		h ^= t.Hash() + uint64(i)*0x9E3779B97F4A7C15
	}
	for i, p := range c.ParentIDs {
		h *= prime
		h ^= uint64(p+1) + uint64(i)*0xBF58476D1CE4E5B9
	}
	return h
}

// Equal reports identity equality: same order, same type tuple (by value,
// since every slot should be a canonical registry pointer), same parent ids.
func (c *Candidate) Equal(o *Candidate) bool {
	if c.Order != o.Order {
		return false
	}
	if len(c.Types) != len(o.Types) {
		return false
	}
	for i := range c.Types {
		if !wordtype.Equal(c.Types[i], o.Types[i]) {
			return false
		}
	}
	if len(c.ParentIDs) != len(o.ParentIDs) {
		return false
	}
	for i := range c.ParentIDs {
		if c.ParentIDs[i] != o.ParentIDs[i] {
			return false
		}
	}
	return true
}

// Less implements the lexicographic ordering: order first, then the type
// sequence element-wise (null slots before concrete types), then parentIds.
func (c *Candidate) Less(o *Candidate) bool {
	if c.Order != o.Order {
		return c.Order < o.Order
	}
	n := len(c.Types)
	if len(o.Types) < n {
		n = len(o.Types)
	}
	for i := 0; i < n; i++ {
		a, b := c.Types[i], o.Types[i]
		if wordtype.Equal(a, b) {
			continue
		}
		return wordtype.Less(a, b)
	}
	if len(c.Types) != len(o.Types) {
		return len(c.Types) < len(o.Types)
	}
	m := len(c.ParentIDs)
	if len(o.ParentIDs) < m {
		m = len(o.ParentIDs)
	}
	for i := 0; i < m; i++ {
		if c.ParentIDs[i] != o.ParentIDs[i] {
			return c.ParentIDs[i] < o.ParentIDs[i]
		}
	}
	return len(c.ParentIDs) < len(o.ParentIDs)
}

// Output renders the candidate the way the candidate file format expects:
// space-separated types, each plain ("formOrLemma[|tag]") or, when parent ids
// are tracked, suffixed "|localIndex|localParentIndex" (1-based localIndex).
func (c *Candidate) Output() string {
	parts := make([]string, len(c.Types))
	for i, t := range c.Types {
		s := t.String()
		if len(c.ParentIDs) > 0 {
			s = fmt.Sprintf("%s|%d|%d", s, i+1, c.ParentIDs[i])
		}
		parts[i] = s
	}
	return strings.Join(parts, string(sentence.SepWords))
}

// Frequency returns the occurrence counter.
func (c *Candidate) Frequency() int { return c.Counter }

// FrequencyWithinRange reports whether the counter lies in [min, max].
func (c *Candidate) FrequencyWithinRange(min, max int) bool {
	return c.Counter >= min && c.Counter <= max
}

// UpdateStatistics records one more observed occurrence.
func (c *Candidate) UpdateStatistics() { c.Counter++ }

// factorValue resolves the value of the requested factor for slot i, used by
// RegexpFilter. factor is sentence.LEMMA (matches FormOrLemma) or
// sentence.TAG (matches Tag); any other index is treated as FormOrLemma,
// mirroring the reference implementation's getFormOrLemma()/getTag() split.
func (c *Candidate) factorValue(i, factor int) string {
	t := c.Types[i]
	if t == nil {
		return ""
	}
	if factor == sentence.TAG {
		return t.Tag
	}
	return t.FormOrLemma
}

// RegexpFilter reports whether every slot's selected factor fully matches
// (not merely contains) the corresponding compiled pattern.
func (c *Candidate) RegexpFilter(factor int, patterns []*regexp.Regexp) bool {
	if len(patterns) != len(c.Types) {
		return false
	}
	for i, re := range patterns {
		if !fullMatch(re, c.factorValue(i, factor)) {
			return false
		}
	}
	return true
}

func fullMatch(re *regexp.Regexp, s string) bool {
	loc := re.FindStringIndex(s)
	return loc != nil && loc[0] == 0 && loc[1] == len(s)
}

// CompilePatterns splits a "regex1:...:regexn" argument into exactly n
// compiled patterns, as required by the CLI's -l/-t options.
func CompilePatterns(spec string, n int) ([]*regexp.Regexp, error) {
	pieces := strings.Split(spec, ":")
	if len(pieces) != n {
		return nil, fmt.Errorf("candidate: regex filter %q has %d pieces, expected %d", spec, len(pieces), n)
	}
	out := make([]*regexp.Regexp, n)
	for i, p := range pieces {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("candidate: invalid regex %q: %w", p, err)
		}
		out[i] = re
	}
	return out, nil
}

// ParseRange parses a "min-max" or bare "min" range argument, the latter
// implying max = MaxInt.
func ParseRange(s string) (min, max int, err error) {
	if i := strings.IndexByte(s, '-'); i >= 0 {
		min, err = strconv.Atoi(s[:i])
		if err != nil {
			return 0, 0, fmt.Errorf("candidate: invalid range %q: %w", s, err)
		}
		max, err = strconv.Atoi(s[i+1:])
		if err != nil {
			return 0, 0, fmt.Errorf("candidate: invalid range %q: %w", s, err)
		}
		return min, max, nil
	}
	min, err = strconv.Atoi(s)
	if err != nil {
		return 0, 0, fmt.Errorf("candidate: invalid range %q: %w", s, err)
	}
	return min, int(^uint(0) >> 1), nil
}

// SortSlice orders candidates in place using Less, the lexicographic order
// OrderCandidates exposes.
func SortSlice(cands []*Candidate) {
	sort.Slice(cands, func(i, j int) bool { return cands[i].Less(cands[j]) })
}
