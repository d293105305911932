package searcher

import (
	"time"

	"freckers/experiments/metrics"
	"freckers/game"
)

type Option func(ab *AlphaBeta)

// TieBreak decides between root actions with equal scores.
type TieBreak int

const (
	// TieBreakFirst keeps the first action reaching the best score, in search order.
	TieBreakFirst TieBreak = iota
	// TieBreakRandom picks uniformly among the equal-best actions using the seeded generator.
	TieBreakRandom
)

func (t TieBreak) String() string {
	if t == TieBreakRandom {
		return "random"
	}
	return "first"
}

func WithMaxDepth(depth int) Option {
	return func(ab *AlphaBeta) {
		if depth > 0 {
			ab.maxDepth = depth
		}
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(ab *AlphaBeta) {
		if evaluate != nil {
			ab.evaluate = evaluate
		}
	}
}

// WithSafetyMargin reserves margin out of every budget for returning the action.
func WithSafetyMargin(margin time.Duration) Option {
	return func(ab *AlphaBeta) {
		if margin >= 0 {
			ab.margin = margin
		}
	}
}

func WithTieBreak(tieBreak TieBreak) Option {
	return func(ab *AlphaBeta) {
		ab.tieBreak = tieBreak
	}
}

func WithSeed(seed uint64) Option {
	return func(ab *AlphaBeta) {
		ab.seed = seed
	}
}

func WithClock(clock Clock) Option {
	return func(ab *AlphaBeta) {
		if clock != nil {
			ab.clock = clock
		}
	}
}

func WithMetrics() Option {
	return func(ab *AlphaBeta) {
		ab.metrics = metrics.NewCollector()
	}
}

// WithMoveOrdering toggles heuristic ordering and table hints. The previous iteration's best root
// action is always searched first.
func WithMoveOrdering(enabled bool) Option {
	return func(ab *AlphaBeta) {
		ab.ordering = enabled
	}
}

// WithPartialDepths allows the result of an interrupted depth to replace the last complete one.
func WithPartialDepths(enabled bool) Option {
	return func(ab *AlphaBeta) {
		ab.partial = enabled
	}
}

// WithTranspositionTable sets the number of table slots, rounded up to a power of two. Zero
// disables the table.
func WithTranspositionTable(size int) Option {
	return func(ab *AlphaBeta) {
		if size >= 0 {
			ab.tableSize = size
		}
	}
}
