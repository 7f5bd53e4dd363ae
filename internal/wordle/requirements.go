// Package wordle implements the per-match constraint model (Requirements),
// the guess evaluator, and the trie pruner described by the game's data
// model. It is grounded on original_source/game.c's req_t/analyze_guess/
// prune_full/prune_prev family, restated as idiomatic Go with the tri-state
// prune tag pushed down into the internal/trie package.
package wordle

import "wordguess/internal/alphabet"

const unknown byte = '*'

// Requirements holds every constraint accumulated from guesses within one
// match: the reference word, the positional match mask, per-character
// occurrence bounds and per-position forbidden characters.
type Requirements struct {
	Ref   string
	Match []byte
	Occ   [alphabet.Size]int
	Pos   [alphabet.Size][]bool
}

// NewRequirements builds a fresh, maximally permissive Requirements for
// the given reference word: every position unknown, every occurrence
// bound unbounded (-1), every position allowed for every character.
func NewRequirements(ref string) *Requirements {
	k := len(ref)
	r := &Requirements{
		Ref:   ref,
		Match: make([]byte, k),
	}
	for i := range r.Match {
		r.Match[i] = unknown
	}
	for c := 0; c < alphabet.Size; c++ {
		r.Occ[c] = -1
		r.Pos[c] = make([]bool, k)
		for i := range r.Pos[c] {
			r.Pos[c][i] = true
		}
	}
	return r
}

// WordSize returns K, the fixed word length for this match.
func (r *Requirements) WordSize() int { return len(r.Match) }
