package searcher

import "freckers/game"

type tableEntry struct {
	key   game.StateHash
	depth int
	best  game.Action
	valid bool
}

// transpositionTable remembers the best action found for a position. It only feeds move ordering,
// so a stale or colliding entry costs pruning efficiency, never correctness.
type transpositionTable struct {
	mask    uint64
	entries []tableEntry
}

func newTranspositionTable(size int) *transpositionTable {
	n := uint64(1)
	for n < uint64(size) {
		n <<= 1
	}
	return &transpositionTable{
		mask:    n - 1,
		entries: make([]tableEntry, n),
	}
}

func (t *transpositionTable) slot(key game.StateHash) *tableEntry {
	return &t.entries[uint64(key)&t.mask]
}

// store keeps the deeper result when two positions share a slot.
func (t *transpositionTable) store(key game.StateHash, depth int, best game.Action) {
	e := t.slot(key)
	if e.valid && e.key != key && e.depth > depth {
		return
	}
	*e = tableEntry{key: key, depth: depth, best: best, valid: true}
}

func (t *transpositionTable) hint(key game.StateHash) game.Action {
	e := t.slot(key)
	if !e.valid || e.key != key {
		return nil
	}
	return e.best
}

func (t *transpositionTable) clear() {
	clear(t.entries)
}
