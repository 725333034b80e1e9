package candidate

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/tombosc/mwer/internal/wordtype"
)

// Entry is the capability set the generic Store needs from a candidate
// variant. *Candidate and *ContextCandidate both satisfy Entry[T] for their
// own T, which is how the engine stays parametric over "plain" vs.
// "statistics-carrying" storage (design note: engine templating over
// candidate variant) without an open inheritance hierarchy.
type Entry[T any] interface {
	Hash() uint64
	Equal(T) bool
	Less(T) bool
	Output() string
	Frequency() int
	FrequencyWithinRange(min, max int) bool
	RegexpFilter(factor int, patterns []*regexp.Regexp) bool
}

// Store is a deduplicating, hash-bucketed collection of candidates of one
// variant, plus the WordType vocabulary they reference. n is the fixed
// candidate arity (2, 3, or 4).
type Store[T Entry[T]] struct {
	N      int
	Types  *wordtype.Registry
	byHash map[uint64][]T
	order  []T // insertion order, for deterministic iteration before OrderCandidates
}

// NewStore validates n and constructs an empty store.
func NewStore[T Entry[T]](n int) (*Store[T], error) {
	if n < 2 || n > 4 {
		return nil, fmt.Errorf("candidate: n must be between 2 and 4, got %d", n)
	}
	return NewUnvalidatedStore[T](n), nil
}

// NewUnvalidatedStore builds a Store without the 2..4 arity check. It exists
// for bookkeeping structures that are never themselves serialized as a
// top-level candidate file: the statistics extractor's per-order
// subcandidate sets (order up to n-1) and its unigram table (n=1).
func NewUnvalidatedStore[T Entry[T]](n int) *Store[T] {
	return &Store[T]{
		N:      n,
		Types:  wordtype.NewRegistry(),
		byHash: make(map[uint64][]T),
	}
}

// AddWordType interns a (formOrLemma, tag) pair into the store's vocabulary.
func (s *Store[T]) AddWordType(formOrLemma, tag string) *wordtype.WordType {
	return s.Types.Intern(formOrLemma, tag)
}

// Insert adds candidate c to the store: if an equal candidate already exists,
// onDuplicate (when non-nil) is called on it, c is discarded, and the
// existing candidate is returned; with a nil onDuplicate its counter is left
// unchanged. Otherwise c is inserted verbatim (with whatever counter the
// caller seeded it with) and returned as the new canonical reference.
func (s *Store[T]) Insert(c T, onDuplicate func(existing T)) T {
	h := c.Hash()
	for _, existing := range s.byHash[h] {
		if existing.Equal(c) {
			if onDuplicate != nil {
				onDuplicate(existing)
			}
			return existing
		}
	}
	s.byHash[h] = append(s.byHash[h], c)
	s.order = append(s.order, c)
	return c
}

// Lookup returns the canonical stored reference equal to c, if any.
func (s *Store[T]) Lookup(c T) (T, bool) {
	for _, existing := range s.byHash[c.Hash()] {
		if existing.Equal(c) {
			return existing, true
		}
	}
	var zero T
	return zero, false
}

// All returns every stored candidate in insertion order.
func (s *Store[T]) All() []T {
	out := make([]T, len(s.order))
	copy(out, s.order)
	return out
}

// Len reports how many candidates are stored.
func (s *Store[T]) Len() int { return len(s.order) }

// RegexpFilter keeps (invert=false) or drops (invert=true) candidates whose
// RegexpFilter(factor, patterns) matches.
func (s *Store[T]) RegexpFilter(factor int, patterns []*regexp.Regexp, invert bool) {
	s.filter(func(c T) bool {
		matched := c.RegexpFilter(factor, patterns)
		if invert {
			return !matched
		}
		return matched
	})
}

// FrequencyFilter keeps (invert=false) or drops (invert=true) candidates
// whose counter lies in [min, max].
func (s *Store[T]) FrequencyFilter(min, max int, invert bool) {
	s.filter(func(c T) bool {
		inRange := c.FrequencyWithinRange(min, max)
		if invert {
			return !inRange
		}
		return inRange
	})
}

// filter keeps only candidates for which keep returns true.
func (s *Store[T]) filter(keep func(T) bool) {
	newOrder := s.order[:0:0]
	newByHash := make(map[uint64][]T)
	for _, c := range s.order {
		if !keep(c) {
			continue
		}
		newOrder = append(newOrder, c)
		h := c.Hash()
		newByHash[h] = append(newByHash[h], c)
	}
	s.order = newOrder
	s.byHash = newByHash
}

// OrderCandidates returns the stored candidates sorted by Less, the
// lexicographic order the candidate file format is written in.
func (s *Store[T]) OrderCandidates() []T {
	out := s.All()
	sortEntries(out)
	return out
}

func sortEntries[T Entry[T]](entries []T) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].Less(entries[j]) })
}

// WriteToFile emits the store's candidates, one per line, in lexicographic
// order: "type1 type2 ... typen\tcounter". Gzip-compresses transparently
// when path ends in .gz.
func (s *Store[T]) WriteToFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("candidate: opening %s: %w", path, err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	var sink interface {
		Write([]byte) (int, error)
	} = bw
	var gz *gzip.Writer
	if strings.EqualFold(filepath.Ext(path), ".gz") {
		gz = gzip.NewWriter(bw)
		sink = gz
	}

	for _, c := range s.OrderCandidates() {
		line := fmt.Sprintf("%s\t%d\n", c.Output(), c.Frequency())
		if _, err := sink.Write([]byte(line)); err != nil {
			return fmt.Errorf("candidate: writing %s: %w", path, err)
		}
	}

	if gz != nil {
		if err := gz.Close(); err != nil {
			return fmt.Errorf("candidate: closing gzip stream for %s: %w", path, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("candidate: flushing %s: %w", path, err)
	}
	return nil
}
