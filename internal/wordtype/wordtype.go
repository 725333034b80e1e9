// Package wordtype implements the interning registry for (formOrLemma, tag)
// identities shared by every Token and Candidate slot that resolves to the
// same annotation.
package wordtype

import (
	"encoding/binary"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// WordType is a canonical (formOrLemma, tag) pair. Two tokens that resolve to
// an equal pair share the same *WordType once interned by a Registry.
type WordType struct {
	FormOrLemma string
	Tag         string

	hash uint64 // cached blake2b-derived digest, computed once at intern time
}

// String renders the type the way candidate/statistics files expect it:
// "formOrLemma" when untagged, "formOrLemma|tag" otherwise.
func (t *WordType) String() string {
	if t == nil {
		return "*"
	}
	if t.Tag == "" {
		return t.FormOrLemma
	}
	return t.FormOrLemma + "|" + t.Tag
}

// Less implements the lexicographic pair order: formOrLemma first, then tag.
// A nil WordType (an unfilled candidate slot) sorts before every concrete type.
func Less(a, b *WordType) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}
	if a.FormOrLemma != b.FormOrLemma {
		return a.FormOrLemma < b.FormOrLemma
	}
	return a.Tag < b.Tag
}

// Equal reports structural equality. Since both sides are normally canonical
// references from the same Registry, pointer equality already implies this,
// but callers comparing across registries (e.g. scorer ingestion) need value
// equality too.
func Equal(a, b *WordType) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.FormOrLemma == b.FormOrLemma && a.Tag == b.Tag
}

// Hash returns a 64-bit digest of the type's identity. Unlike the legacy
// std::hash<string> over formOrLemma alone, this folds in the tag and is
// strong enough to serve as the base of Candidate's slot-position-aware
// combiner (see candidate.Hash).
func (t *WordType) Hash() uint64 {
	if t == nil {
		return 0
	}
	return t.hash
}

func digest(formOrLemma, tag string) uint64 {
	var sb strings.Builder
	sb.WriteString(formOrLemma)
	sb.WriteByte('\x00')
	sb.WriteString(tag)
	sum := blake2b.Sum512([]byte(sb.String()))
	return binary.LittleEndian.Uint64(sum[:8])
}

type key struct {
	formOrLemma string
	tag         string
}

// Registry interns WordType values so that repeated (formOrLemma, tag) pairs
// resolve to a single stable pointer for the lifetime of the registry.
type Registry struct {
	byPair map[key]*WordType
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byPair: make(map[key]*WordType)}
}

// Intern returns the canonical *WordType for (formOrLemma, tag), allocating
// it on first use. Two calls with an equal pair always return the same
// pointer.
func (r *Registry) Intern(formOrLemma, tag string) *WordType {
	k := key{formOrLemma, tag}
	if wt, ok := r.byPair[k]; ok {
		return wt
	}
	wt := &WordType{
		FormOrLemma: formOrLemma,
		Tag:         tag,
		hash:        digest(formOrLemma, tag),
	}
	r.byPair[k] = wt
	return wt
}

// Len reports how many distinct types have been interned.
func (r *Registry) Len() int {
	return len(r.byPair)
}
