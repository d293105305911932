package searcher

import (
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"freckers/experiments/metrics"
	"freckers/game"
	"freckers/meta"
)

// AlphaBeta chooses actions with iterative deepening alpha-beta minimax. An AlphaBeta is not safe
// for concurrent use: the tie-break generator and the transposition table are shared by its calls.
type AlphaBeta struct {
	maxDepth  int
	evaluate  game.Evaluate
	margin    time.Duration
	tieBreak  TieBreak
	seed      uint64
	clock     Clock
	ordering  bool
	partial   bool
	tableSize int
	metrics   metrics.Collector

	rng      *rand.Rand
	table    *transpositionTable
	generate func(b *game.Board, color game.PlayerColor) []game.Action
}

// Result is the outcome of one search call.
type Result struct {
	Action     game.Action
	Score      float64 // from the searching color's perspective
	Depth      int     // depth the action was chosen at, 0 when no depth produced a result
	Partial    bool
	Nodes      int
	Candidates int // legal root actions
}

func NewAlphaBeta(options ...Option) *AlphaBeta {
	ab := &AlphaBeta{ // Default values
		maxDepth:  meta.MaxSearchDepth,
		evaluate:  game.EvaluateProgress,
		margin:    meta.SafetyMargin,
		clock:     systemClock{},
		ordering:  true,
		partial:   true,
		tableSize: meta.TableSize,
		metrics:   metrics.NewDummyCollector(),
		generate:  game.LegalActions,
	}
	for _, option := range options {
		option(ab)
	}
	ab.rng = rand.New(rand.NewSource(ab.seed))
	if ab.tableSize > 0 {
		ab.table = newTranspositionTable(ab.tableSize)
	}
	return ab
}

// ChooseAction picks an action for color within budget. board is never modified.
func (ab *AlphaBeta) ChooseAction(board *game.Board, color game.PlayerColor, budget time.Duration) (game.Action, metrics.SearchMetric) {
	ab.metrics.Start(ab.maxDepth)
	result := ab.Search(board, color, budget)
	ab.metrics.SetResult(result.Depth, result.Candidates, result.Partial, result.Score)
	return result.Action, ab.metrics.Complete()
}

// Search runs iterative deepening until budget minus the safety margin has elapsed, the maximum
// depth is reached, the tree is exhausted, or a forced result is proven.
func (ab *AlphaBeta) Search(board *game.Board, color game.PlayerColor, budget time.Duration) Result {
	s := ab.newSearch(board, color)
	s.deadline = s.start.Add(budget - ab.margin)
	s.timed = true
	return s.deepen(ab.maxDepth)
}

// SearchDepth runs a single alpha-beta pass to a fixed depth without a deadline.
func (ab *AlphaBeta) SearchDepth(board *game.Board, color game.PlayerColor, depth int) Result {
	s := ab.newSearch(board, color)
	candidates := s.rootCandidates(nil)
	action, score, _ := s.root(depth, candidates)
	return Result{Action: action, Score: score, Depth: depth, Nodes: s.nodes, Candidates: len(candidates)}
}

type search struct {
	*AlphaBeta
	board    *game.Board
	color    game.PlayerColor
	start    time.Time
	deadline time.Time
	timed    bool
	aborted  bool
	horizon  bool
	nodes    int
}

func (ab *AlphaBeta) newSearch(board *game.Board, color game.PlayerColor) *search {
	clone := board.Clone()
	if clone.Turn() != color {
		clone.SetTurn(color)
	}
	return &search{
		AlphaBeta: ab,
		board:     clone,
		color:     color,
		start:     ab.clock.Now(),
	}
}

func (s *search) deepen(maxDepth int) Result {
	candidates := s.rootCandidates(nil)
	if len(candidates) == 0 {
		return Result{}
	}
	best := Result{Action: candidates[0]}
	if len(candidates) == 1 {
		best.Candidates = 1
		return best
	}

	for depth := 1; depth <= maxDepth; depth++ {
		s.horizon = false
		action, score, evaluated := s.root(depth, candidates)

		if s.aborted {
			if s.partial && evaluated > 0 && action != nil {
				best = Result{Action: action, Score: score, Depth: depth, Partial: true}
			}
			log.Debug().
				Int("depth", depth).
				Int("evaluated", evaluated).
				Int("candidates", len(candidates)).
				Msg("search depth interrupted")
			break
		}
		if action != nil {
			best = Result{Action: action, Score: score, Depth: depth}
		}
		log.Debug().
			Int("depth", depth).
			Float64("score", score).
			Int("nodes", s.nodes).
			Stringer("action", best.Action).
			Msg("search depth complete")

		if !s.horizon || math.Abs(score) >= game.WinScore {
			break
		}
		candidates = s.rootCandidates(best.Action)
	}

	best.Nodes = s.nodes
	best.Candidates = len(candidates)
	return best
}

func (s *search) rootCandidates(previous game.Action) []game.Action {
	actions := s.generate(s.board, s.color)
	return orderActions(s.board, s.color, actions, previous, s.hint(), s.ordering)
}

// root scores every candidate at depth and returns the best fully evaluated one. evaluated counts
// the candidates whose subtree finished before the deadline.
func (s *search) root(depth int, candidates []game.Action) (best game.Action, bestScore float64, evaluated int) {
	bestScore = math.Inf(-1)
	alpha, beta := math.Inf(-1), math.Inf(1)
	ties := 0

	for _, action := range candidates {
		if s.expired() {
			s.aborted = true
			break
		}
		if _, err := s.board.ApplyAction(action); err != nil {
			s.metrics.AddAnomaly()
			log.Warn().Err(err).Stringer("action", action).Msg("root candidate rejected by the board")
			continue
		}
		score := s.minimax(depth-1, s.window(alpha, bestScore), beta, false)
		s.undo()
		if s.aborted {
			break
		}
		evaluated++

		switch {
		case score > bestScore:
			best, bestScore, ties = action, score, 1
		case score == bestScore && s.tieBreak == TieBreakRandom:
			ties++
			if s.rng.Intn(ties) == 0 {
				best = action
			}
		}
		alpha = math.Max(alpha, score)
	}

	if best != nil && !s.aborted && s.table != nil {
		s.table.store(s.board.Hash(), depth, best)
	}
	return best, bestScore, evaluated
}

// window lowers alpha just below the best score so equal scores come back exact and random
// tie-breaks see every equal-best candidate.
func (s *search) window(alpha, best float64) float64 {
	if s.tieBreak != TieBreakRandom || math.IsInf(best, -1) {
		return alpha
	}
	return math.Nextafter(best, math.Inf(-1))
}

func (s *search) minimax(depth int, alpha, beta float64, maximizing bool) float64 {
	s.nodes++
	s.metrics.AddNode()
	if s.expired() {
		s.aborted = true
		return s.leaf(depth)
	}
	if s.board.IsTerminal() {
		return s.leaf(depth)
	}
	if depth == 0 {
		s.horizon = true
		return s.leaf(depth)
	}

	mover := s.board.Turn()
	actions := orderActions(s.board, mover, s.generate(s.board, mover), nil, s.hint(), s.ordering)
	if len(actions) == 0 {
		return s.leaf(depth)
	}

	var best game.Action
	value := math.Inf(1)
	if maximizing {
		value = math.Inf(-1)
	}
	for _, action := range actions {
		if s.aborted {
			break
		}
		var score float64
		if _, err := s.board.ApplyAction(action); err != nil {
			s.metrics.AddAnomaly()
			score = s.leaf(depth)
		} else {
			score = s.minimax(depth-1, alpha, beta, !maximizing)
			s.undo()
		}

		if maximizing && score > value || !maximizing && score < value {
			value, best = score, action
		}
		if maximizing {
			alpha = math.Max(alpha, value)
		} else {
			beta = math.Min(beta, value)
		}
		if beta <= alpha {
			break
		}
	}

	if best != nil && !s.aborted && s.table != nil {
		s.table.store(s.board.Hash(), depth, best)
	}
	return value
}

// leaf scores the current board for the searching color. Forced results are shifted by the
// remaining depth so faster wins and slower losses are preferred.
func (s *search) leaf(depth int) float64 {
	score := s.evaluate(s.board, s.color)
	switch {
	case score >= game.WinScore:
		return score + float64(depth)
	case score <= -game.WinScore:
		return score - float64(depth)
	default:
		return score
	}
}

func (s *search) hint() game.Action {
	if s.table == nil || !s.ordering {
		return nil
	}
	return s.table.hint(s.board.Hash())
}

func (s *search) expired() bool {
	return s.timed && !s.clock.Now().Before(s.deadline)
}

func (s *search) undo() {
	if _, err := s.board.UndoLastAction(); err != nil {
		// Only reachable if apply and undo calls are unbalanced.
		panic(err)
	}
}
