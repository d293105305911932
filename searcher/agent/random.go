package agent

import (
	"time"

	"golang.org/x/exp/rand"

	"freckers/experiments/metrics"
	"freckers/game"
)

type randomAgent struct {
	rng *rand.Rand
}

// NewRandomAgent returns an agent that plays a uniformly random legal action.
func NewRandomAgent(seed uint64) Agent {
	return &randomAgent{rng: rand.New(rand.NewSource(seed))}
}

func (a *randomAgent) FindMove(board *game.Board, color game.PlayerColor, _ time.Duration) (game.Action, metrics.SearchMetric) {
	actions := game.LegalActions(board, color)
	return actions[a.rng.Intn(len(actions))], metrics.SearchMetric{Candidates: len(actions)}
}
