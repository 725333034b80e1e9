// Package sentence implements the per-sentence token and tree model: Token
// (a positional factor array resolved to a WordType) and Tree[T] (a generic
// rooted n-ary tree used for both the surface chain and the dependency
// tree). Both are scoped to one sentence and discarded once enumeration over
// that sentence completes.
package sentence

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tombosc/mwer/internal/wordtype"
)

// Factor indices, fixed by the corpus line format.
const (
	FORM = iota
	LEMMA
	TAG
	ID
	ParentID
	FUNCTION
)

// SepFactors separates factors within one token; SepWords separates tokens
// within one sentence line; SepSections separates the tab-delimited fields
// of a candidate/statistics/score file line; SepRange separates the two
// bounds of a "min-max" range argument; SepRegexps separates the per-slot
// patterns of a "regex1:...:regexn" filter argument.
const (
	SepFactors  = '|'
	SepWords    = ' '
	SepSections = '\t'
	SepRange    = '-'
	SepRegexps  = ':'
)

// MaxWordsPerSentence bounds how many tokens a single sentence may contribute
// before enumeration cost becomes intractable. Carried over from the
// reference implementation's MAX_WORDS_PER_SENTENCE.
const MaxWordsPerSentence = 1024

// Token is one annotated word: its raw factors, resolved WordType, and
// (in dependency mode) its position and parent position in the sentence.
type Token struct {
	Factors  []string
	Type     *wordtype.WordType
	id       int
	parentID int
}

// NewRootToken builds the sentinel "null token" that anchors position 0 of a
// sentence as the dependency tree root. Surface mode's chain starts at the
// first real token and does not use it.
func NewRootToken(nFactors int) *Token {
	factors := make([]string, nFactors)
	for i := range factors {
		factors[i] = "0"
	}
	return &Token{Factors: factors, id: 0, parentID: 0}
}

// NewSurfaceToken builds a token for surface extraction: id is the 1-based
// insertion position supplied by the caller, not read from the factors.
func NewSurfaceToken(nFactors int, tok string, id int) (*Token, error) {
	factors := strings.Split(tok, string(SepFactors))
	if len(factors) != nFactors {
		return nil, fmt.Errorf("sentence: token %q has %d factors, expected %d", tok, len(factors), nFactors)
	}
	return &Token{Factors: factors, id: id}, nil
}

// NewDependencyToken builds a token for dependency extraction: id and parent
// id are read from the ID and ParentID factors.
func NewDependencyToken(nFactors int, tok string) (*Token, error) {
	factors := strings.Split(tok, string(SepFactors))
	if len(factors) != nFactors {
		return nil, fmt.Errorf("sentence: token %q has %d factors, expected %d", tok, len(factors), nFactors)
	}
	t := &Token{Factors: factors}
	id, err := strconv.Atoi(t.Factors[ID])
	if err != nil {
		return nil, fmt.Errorf("sentence: token %q has non-numeric id: %w", tok, err)
	}
	parentID, err := strconv.Atoi(t.Factors[ParentID])
	if err != nil {
		return nil, fmt.Errorf("sentence: token %q has non-numeric parent id: %w", tok, err)
	}
	t.id = id
	t.parentID = parentID
	return t, nil
}

// Factor returns factor n, or "" if the token does not carry that many.
func (t *Token) Factor(n int) string {
	if n < 0 || n >= len(t.Factors) {
		return ""
	}
	return t.Factors[n]
}

// ID returns the token's 1-based position in the sentence (0 for the
// sentinel root).
func (t *Token) ID() int { return t.id }

// ParentID returns the id of the token's syntactic parent. Meaningless in
// surface mode.
func (t *Token) ParentID() int { return t.parentID }

// IDLess orders tokens by position, used to restore sentence order after
// dependency-tree traversal.
func IDLess(a, b *Token) bool { return a.id < b.id }
