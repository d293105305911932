package agent

import (
	"time"

	"freckers/experiments/metrics"
	"freckers/game"
	"freckers/meta"
)

type Agent interface {
	// FindMove returns an action for color and performance metrics (if collected) from the search
	FindMove(board *game.Board, color game.PlayerColor, timeRemaining time.Duration) (game.Action, metrics.SearchMetric)
}

// Budget is the time to spend on one move: the smaller of what is left of the game allowance
// and the per-move cap.
func Budget(timeRemaining, moveTime time.Duration) time.Duration {
	if moveTime <= 0 {
		moveTime = meta.MaxMoveTime
	}
	return min(timeRemaining, moveTime)
}
