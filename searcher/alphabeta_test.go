package searcher

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"freckers/game"
)

type fakeClock struct {
	now  time.Time
	step time.Duration
}

// Now advances the clock by step on every call.
func (c *fakeClock) Now() time.Time {
	now := c.now
	c.now = c.now.Add(c.step)
	return now
}

func newFakeClock(step time.Duration) *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), step: step}
}

func coord(r, c int) game.Coord {
	return game.Coord{R: r, C: c}
}

func boardWith(t *testing.T, turn game.PlayerColor, cells map[game.Coord]game.CellState) *game.Board {
	t.Helper()
	b := game.NewEmptyBoard(turn)
	for c, s := range cells {
		require.NoError(t, b.SetCell(c, s))
	}
	return b
}

func playRandom(t *testing.T, b *game.Board, n int, seed uint64) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < n && !b.IsTerminal(); i++ {
		actions := game.LegalActions(b, b.Turn())
		_, err := b.ApplyAction(actions[rng.Intn(len(actions))])
		require.NoError(t, err)
	}
}

func isLegal(b *game.Board, color game.PlayerColor, action game.Action) bool {
	for _, legal := range game.LegalActions(b, color) {
		if game.EqualActions(legal, action) {
			return true
		}
	}
	return false
}

// fullMinimax is an unpruned minimax over s.board sharing the searcher's leaf scoring.
func fullMinimax(t *testing.T, s *search, depth int, maximizing bool) float64 {
	if s.board.IsTerminal() || depth == 0 {
		return s.leaf(depth)
	}
	value := math.Inf(1)
	if maximizing {
		value = math.Inf(-1)
	}
	for _, action := range game.LegalActions(s.board, s.board.Turn()) {
		_, err := s.board.ApplyAction(action)
		require.NoError(t, err)
		score := fullMinimax(t, s, depth-1, !maximizing)
		s.undo()
		if maximizing {
			value = math.Max(value, score)
		} else {
			value = math.Min(value, score)
		}
	}
	return value
}

func searchBoards(t *testing.T) map[string]*game.Board {
	boards := map[string]*game.Board{
		"opening": game.NewBoard(),
		"race": boardWith(t, game.Red, map[game.Coord]game.CellState{
			coord(5, 2): game.RedFrog,
			coord(6, 2): game.LilyPad,
			coord(6, 3): game.LilyPad,
			coord(7, 2): game.LilyPad,
			coord(7, 3): game.LilyPad,
			coord(2, 5): game.BlueFrog,
			coord(1, 5): game.LilyPad,
			coord(0, 5): game.LilyPad,
		}),
	}
	for _, seed := range []uint64{21, 22} {
		b := game.NewBoard()
		playRandom(t, b, 24, seed)
		boards[fmt.Sprintf("random playout %d", seed)] = b
	}
	return boards
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	for name, b := range searchBoards(t) {
		for depth := 1; depth <= 3; depth++ {
			t.Run(fmt.Sprintf("%s depth %d", name, depth), func(t *testing.T) {
				ab := NewAlphaBeta()
				color := b.Turn()

				result := ab.SearchDepth(b, color, depth)
				require.NotNil(t, result.Action)

				s := ab.newSearch(b, color)
				best := math.Inf(-1)
				chosen := math.NaN()
				for _, action := range game.LegalActions(s.board, color) {
					_, err := s.board.ApplyAction(action)
					require.NoError(t, err)
					score := fullMinimax(t, s, depth-1, false)
					s.undo()
					best = math.Max(best, score)
					if game.EqualActions(action, result.Action) {
						chosen = score
					}
				}

				require.Equal(t, best, result.Score, "pruned and unpruned root values should agree")
				require.Equal(t, best, chosen, "chosen action %v should be minimax optimal", result.Action)
			})
		}
	}
}

func TestAlphaBetaOrderingDoesNotChangeValue(t *testing.T) {
	b := searchBoards(t)["random playout 21"]

	ordered := NewAlphaBeta().SearchDepth(b, b.Turn(), 3)
	plain := NewAlphaBeta(WithMoveOrdering(false), WithTranspositionTable(0)).SearchDepth(b, b.Turn(), 3)

	require.Equal(t, plain.Score, ordered.Score)
}

func TestSearchDoesNotModifyBoard(t *testing.T) {
	b := game.NewBoard()
	playRandom(t, b, 6, 3)
	before := b.Clone()

	ab := NewAlphaBeta(WithMaxDepth(3))
	action, _ := ab.ChooseAction(b, game.Blue, time.Second)

	require.True(t, b.Equal(before))
	require.Equal(t, before.Hash(), b.Hash())
	require.Len(t, b.History(), len(before.History()))
	require.True(t, isLegal(b, game.Blue, action))
}

func TestSearchPlaysForRequestedColor(t *testing.T) {
	b := game.NewBoard()

	action, _ := NewAlphaBeta(WithMaxDepth(2)).ChooseAction(b, game.Blue, time.Second)

	move, ok := action.(game.MoveAction)
	if ok {
		require.Equal(t, game.BlueFrog, mustCell(t, b, move.Origin), "search should move a BLUE token")
	}
}

func mustCell(t *testing.T, b *game.Board, c game.Coord) game.CellState {
	t.Helper()
	s, err := b.CellAt(c)
	require.NoError(t, err)
	return s
}

func TestTimeBudget(t *testing.T) {
	t.Run("fake clock", func(t *testing.T) {
		clock := newFakeClock(time.Millisecond)
		start := clock.now
		ab := NewAlphaBeta(WithClock(clock), WithSafetyMargin(50*time.Millisecond))

		result := ab.Search(game.NewBoard(), game.Red, time.Second)

		require.LessOrEqual(t, clock.now.Sub(start), time.Second, "search should stop before the budget")
		require.GreaterOrEqual(t, result.Depth, 1)
		require.True(t, isLegal(game.NewBoard(), game.Red, result.Action))
	})

	t.Run("wall clock", func(t *testing.T) {
		const budget = 200 * time.Millisecond
		b := game.NewBoard()
		playRandom(t, b, 10, 9)
		ab := NewAlphaBeta(WithSafetyMargin(20 * time.Millisecond))

		start := time.Now()
		action, metric := ab.ChooseAction(b, b.Turn(), budget)

		require.Less(t, time.Since(start), budget+100*time.Millisecond)
		require.True(t, isLegal(b, b.Turn(), action))
		require.Zero(t, metric.Nodes, "metrics are off unless requested")
	})

	t.Run("budget below margin", func(t *testing.T) {
		clock := newFakeClock(time.Millisecond)
		ab := NewAlphaBeta(WithClock(clock), WithSafetyMargin(50*time.Millisecond))

		result := ab.Search(game.NewBoard(), game.Red, 10*time.Millisecond)

		require.Zero(t, result.Depth)
		require.True(t, isLegal(game.NewBoard(), game.Red, result.Action), "a legal action is returned regardless")
	})
}

func TestPartialDepths(t *testing.T) {
	for _, step := range []time.Duration{time.Millisecond, 3 * time.Millisecond, 7 * time.Millisecond} {
		t.Run(step.String(), func(t *testing.T) {
			ab := NewAlphaBeta(WithClock(newFakeClock(step)), WithPartialDepths(false))

			result := ab.Search(game.NewBoard(), game.Red, time.Second)

			require.False(t, result.Partial)
			require.True(t, isLegal(game.NewBoard(), game.Red, result.Action))
		})
	}
}

func TestTieBreak(t *testing.T) {
	flat := func(*game.Board, game.PlayerColor) float64 { return 0 }
	b := game.NewBoard()
	actions := game.LegalActions(b, game.Red)

	t.Run("first", func(t *testing.T) {
		ab := NewAlphaBeta(WithEvaluationFn(flat), WithMoveOrdering(false), WithTieBreak(TieBreakFirst))
		result := ab.SearchDepth(b, game.Red, 1)
		require.True(t, game.EqualActions(actions[0], result.Action))
	})

	t.Run("random is seeded", func(t *testing.T) {
		chosen := map[string]bool{}
		for seed := uint64(0); seed < 20; seed++ {
			first := NewAlphaBeta(WithEvaluationFn(flat), WithTieBreak(TieBreakRandom), WithSeed(seed)).SearchDepth(b, game.Red, 1)
			again := NewAlphaBeta(WithEvaluationFn(flat), WithTieBreak(TieBreakRandom), WithSeed(seed)).SearchDepth(b, game.Red, 1)

			require.True(t, game.EqualActions(first.Action, again.Action), "same seed should pick the same action")
			require.True(t, isLegal(b, game.Red, first.Action), "result should be among the equal-best actions")
			chosen[first.Action.String()] = true
		}
		require.Greater(t, len(chosen), 1, "different seeds should spread over the tied actions")
	})

	t.Run("random only picks among the best", func(t *testing.T) {
		for seed := uint64(0); seed < 10; seed++ {
			ab := NewAlphaBeta(WithTieBreak(TieBreakRandom), WithSeed(seed))
			random := ab.SearchDepth(b, game.Red, 2)
			first := NewAlphaBeta().SearchDepth(b, game.Red, 2)
			require.Equal(t, first.Score, random.Score)
		}
	})
}

func TestAnomalyFallback(t *testing.T) {
	bogus := game.NewMove(coord(4, 4), game.Down)
	ab := NewAlphaBeta(WithMaxDepth(2), WithMetrics())
	ab.generate = func(b *game.Board, color game.PlayerColor) []game.Action {
		return append([]game.Action{bogus}, game.LegalActions(b, color)...)
	}
	b := game.NewBoard()

	action, metric := ab.ChooseAction(b, game.Red, time.Second)

	require.True(t, isLegal(b, game.Red, action), "the rejected candidate must never be chosen")
	require.Positive(t, metric.Anomalies)
	require.Positive(t, metric.Nodes)
	require.Equal(t, 2, metric.Depth)
	require.Equal(t, len(game.LegalActions(b, game.Red))+1, metric.Candidates)
}

func TestEarlyStop(t *testing.T) {
	t.Run("single candidate", func(t *testing.T) {
		b := boardWith(t, game.Red, map[game.Coord]game.CellState{
			coord(3, 3): game.RedFrog,
			coord(6, 6): game.BlueFrog,
		})

		result := NewAlphaBeta().Search(b, game.Red, time.Second)

		require.Equal(t, game.GrowAction{}, result.Action)
		require.Zero(t, result.Nodes, "no search is needed")
	})

	t.Run("forced win", func(t *testing.T) {
		b := boardWith(t, game.Red, map[game.Coord]game.CellState{
			coord(6, 3): game.RedFrog,
			coord(7, 3): game.LilyPad,
			coord(5, 5): game.BlueFrog,
			coord(4, 5): game.LilyPad,
		})

		result := NewAlphaBeta(WithClock(newFakeClock(0))).Search(b, game.Red, time.Second)

		require.True(t, game.EqualActions(game.NewMove(coord(6, 3), game.Down), result.Action))
		require.GreaterOrEqual(t, result.Score, game.WinScore)
		require.Equal(t, 1, result.Depth, "a proven win ends the deepening")
	})

	t.Run("max depth", func(t *testing.T) {
		result := NewAlphaBeta(WithMaxDepth(2), WithClock(newFakeClock(0))).Search(game.NewBoard(), game.Red, time.Second)
		require.Equal(t, 2, result.Depth)
		require.False(t, result.Partial)
	})
}

func TestPrefersFasterWin(t *testing.T) {
	b := boardWith(t, game.Red, map[game.Coord]game.CellState{
		coord(6, 3): game.RedFrog,
		coord(7, 3): game.LilyPad,
		coord(6, 4): game.LilyPad,
		coord(7, 4): game.LilyPad,
		coord(2, 2): game.BlueFrog,
	})

	result := NewAlphaBeta().SearchDepth(b, game.Red, 3)

	require.Equal(t, game.WinScore+2, result.Score, "winning now should beat winning later")
	dest, err := b.Destination(result.Action.(game.MoveAction))
	require.NoError(t, err)
	require.Equal(t, game.Red.GoalRow(), dest.R)
}
