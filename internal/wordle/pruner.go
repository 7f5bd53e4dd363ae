package wordle

import (
	"wordguess/internal/alphabet"
	"wordguess/internal/trie"
)

// pruneCtx carries the mutable per-walk occurrence budget and the
// behavior that distinguishes full prune from incremental prune.
type pruneCtx struct {
	match   []byte
	pos     *[alphabet.Size][]bool
	occ     [alphabet.Size]int
	revisit bool // also consider TempPruned branches for restoration
	// allowTempPrune is true for a full prune and false for an incremental
	// one. A gate-passing Alive branch whose subtree empties out becomes
	// TempPruned under a full prune; under an incremental prune it is left
	// Alive untouched, since only a full prune may create TempPruned
	// (spec.md §3 invariant 5) and a branch with no live leaves today may
	// still gain one from a later insertion.
	allowTempPrune bool
}

// FullPrune walks the whole trie against r, restoring TempPruned branches
// to Alive when revisitTempPruned is true and they have regained a live
// descendant (e.g. after a mid-match insertion). It is the only prune mode
// allowed to mark a branch TempPruned. Returns the live leaf count.
func FullPrune(t *trie.Trie, r *Requirements, revisitTempPruned bool) int {
	ctx := &pruneCtx{match: r.Match, pos: &r.Pos, occ: r.Occ, revisit: revisitTempPruned, allowTempPrune: true}
	return pruneLevel(t.Root(), ctx, 0)
}

// IncrementalPrune walks only the currently Alive part of the trie against
// r. TempPruned branches are left untouched: requirements only tighten
// between ordinary guesses, so a branch already known dead stays dead. A
// gate-passing branch that loses all its live leaves is left Alive — it
// cannot be marked Pruned (that would hide a later insertion under it
// forever) or TempPruned (reserved for the full-prune procedure); only a
// leaf, or a branch that fails the match/occurrence gate outright, is
// ever set Pruned here.
func IncrementalPrune(t *trie.Trie, r *Requirements) int {
	ctx := &pruneCtx{match: r.Match, pos: &r.Pos, occ: r.Occ, revisit: false, allowTempPrune: false}
	return pruneLevel(t.Root(), ctx, 0)
}

func pruneLevel(n *trie.Node, ctx *pruneCtx, depth int) int {
	total := 0
	for ; n != nil; n = n.Next() {
		total += pruneNode(n, ctx, depth)
	}
	return total
}

func pruneNode(n *trie.Node, ctx *pruneCtx, depth int) int {
	status := n.PruneStatus()
	if status == trie.Pruned {
		return 0
	}
	if status == trie.TempPruned && !ctx.revisit {
		return 0
	}

	c := n.Char()
	if ctx.match[depth] != unknown && c != ctx.match[depth] {
		n.SetPruneStatus(trie.Pruned)
		return 0
	}

	idx := alphabet.Index(c)
	if ctx.occ[idx] == 0 || !ctx.pos[idx][depth] {
		n.SetPruneStatus(trie.Pruned)
		return 0
	}

	if n.IsLeaf() {
		consumed, restore := consume(&ctx.occ, idx)
		ok := consumed && checkSuffix(n.Suffix(), depth+1, ctx)
		restore()
		if !ok {
			n.SetPruneStatus(trie.Pruned)
			return 0
		}
		return 1
	}

	_, restore := consume(&ctx.occ, idx)
	total := pruneLevel(n.Children(), ctx, depth+1)
	restore()

	switch status {
	case trie.TempPruned:
		if total > 0 {
			n.SetPruneStatus(trie.Alive)
		}
	default: // Alive
		if total == 0 && ctx.allowTempPrune {
			n.SetPruneStatus(trie.TempPruned)
		}
		// Incremental: an emptied-out gate-passing branch stays Alive so a
		// later insertion under it is still reachable by the next prune.
	}
	return total
}

// checkSuffix walks a leaf's suffix against the same gates pruneNode
// applies to branches, consuming occ as it descends and restoring it on
// the way back out regardless of outcome.
func checkSuffix(suffix string, depth int, ctx *pruneCtx) bool {
	if len(suffix) == 0 {
		for i := 0; i < alphabet.Size; i++ {
			if ctx.occ[i] != -1 && ctx.occ[i] != 0 {
				return false
			}
		}
		return true
	}

	c := suffix[0]
	if ctx.match[depth] != unknown && c != ctx.match[depth] {
		return false
	}
	idx := alphabet.Index(c)
	if ctx.occ[idx] == 0 || !ctx.pos[idx][depth] {
		return false
	}

	_, restore := consume(&ctx.occ, idx)
	ok := checkSuffix(suffix[1:], depth+1, ctx)
	restore()
	return ok
}

// consume applies the descent rule from spec.md §4.3 to occ[idx] and
// returns a restore closure. The caller must already have verified
// occ[idx] != 0. consumed is always true; it exists to keep call sites
// symmetric with checkSuffix's gate-then-consume shape.
func consume(occ *[alphabet.Size]int, idx int) (consumed bool, restore func()) {
	switch v := occ[idx]; {
	case v == -1:
		return true, func() {}
	case v < -1:
		occ[idx]++
		return true, func() { occ[idx]-- }
	default: // v > 0
		occ[idx]--
		return true, func() { occ[idx]++ }
	}
}
