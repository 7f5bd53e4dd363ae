package wordle

import "wordguess/internal/alphabet"

// Evaluate scores guess against r.Ref, returning the per-position feedback
// string ('+' exact, '|' present-elsewhere, '/' absent) and tightening r in
// place. Grounded on original_source/game.c analyze_guess/calculate_occs,
// restated per spec.md §4.2's two-pass-plus-bound-inference algorithm (the
// two are equivalent: see SPEC_FULL.md §9.3 for the derivation).
func Evaluate(guess string, r *Requirements) string {
	k := len(guess)
	eval := make([]byte, k)

	var seen [alphabet.Size]int
	for i := 0; i < k; i++ {
		if guess[i] == r.Ref[i] {
			eval[i] = '+'
			r.Match[i] = guess[i]
		} else {
			seen[alphabet.Index(r.Ref[i])]++
		}
	}

	for i := 0; i < k; i++ {
		if eval[i] == '+' {
			continue
		}
		idx := alphabet.Index(guess[i])
		if seen[idx] > 0 {
			eval[i] = '|'
			seen[idx]--
		} else {
			eval[i] = '/'
		}
		r.Pos[idx][i] = false
	}

	var derived [alphabet.Size]int
	for i := range derived {
		derived[i] = -1
	}

	for i := 0; i < k; i++ {
		if eval[i] == '+' || eval[i] == '|' {
			idx := alphabet.Index(guess[i])
			if derived[idx] < 0 {
				derived[idx]--
			}
		}
	}
	for i := 0; i < k; i++ {
		if eval[i] == '+' {
			idx := alphabet.Index(guess[i])
			if derived[idx] >= 0 {
				derived[idx]++
			}
		}
	}
	for i := 0; i < k; i++ {
		if eval[i] == '/' {
			idx := alphabet.Index(guess[i])
			if derived[idx] < 0 {
				derived[idx] = -derived[idx] - 1
			}
		}
	}

	for i := 0; i < k; i++ {
		idx := alphabet.Index(guess[i])
		if r.Occ[idx] < 0 && (derived[idx] >= 0 || derived[idx] < r.Occ[idx]) {
			r.Occ[idx] = derived[idx]
		}
	}

	return string(eval)
}
