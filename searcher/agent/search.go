package agent

import (
	"time"

	"github.com/rs/zerolog/log"

	"freckers/experiments/metrics"
	"freckers/game"
	"freckers/searcher"
)

type searchAgent struct {
	ab       *searcher.AlphaBeta
	moveTime time.Duration
}

// NewSearchAgent returns an agent that plays the action chosen by iterative deepening search,
// spending at most moveTime per move.
func NewSearchAgent(ab *searcher.AlphaBeta, moveTime time.Duration) Agent {
	return searchAgent{ab: ab, moveTime: moveTime}
}

func (a searchAgent) FindMove(board *game.Board, color game.PlayerColor, timeRemaining time.Duration) (game.Action, metrics.SearchMetric) {
	action, metric := a.ab.ChooseAction(board, color, Budget(timeRemaining, a.moveTime))
	if metric.Anomalies > 0 {
		log.Warn().Msgf("search for %v discarded %d rejected actions", color, metric.Anomalies)
	}
	return action, metric
}
