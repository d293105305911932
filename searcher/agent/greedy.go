package agent

import (
	"math"
	"time"

	"golang.org/x/exp/rand"

	"freckers/experiments/metrics"
	"freckers/game"
)

type greedyAgent struct {
	evaluate    game.Evaluate
	temperature float64
	rng         *rand.Rand
}

// NewGreedyAgent returns an agent that looks one action ahead. With a zero temperature it plays
// the best scoring action; otherwise it samples actions with softmax weights of their scores.
func NewGreedyAgent(evaluate game.Evaluate, temperature float64, seed uint64) Agent {
	if evaluate == nil {
		evaluate = game.EvaluateGreedy
	}
	return &greedyAgent{
		evaluate:    evaluate,
		temperature: temperature,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

func (a *greedyAgent) FindMove(board *game.Board, color game.PlayerColor, _ time.Duration) (game.Action, metrics.SearchMetric) {
	start := time.Now()
	b := board.Clone()
	b.SetTurn(color)

	actions := game.LegalActions(b, color)
	scores := make([]float64, 0, len(actions))
	candidates := make([]game.Action, 0, len(actions))
	for _, action := range actions {
		if _, err := b.ApplyAction(action); err != nil {
			continue
		}
		scores = append(scores, a.evaluate(b, color))
		candidates = append(candidates, action)
		_, _ = b.UndoLastAction()
	}

	chosen := 0
	if a.temperature <= 0 {
		for i, score := range scores {
			if score > scores[chosen] {
				chosen = i
			}
		}
	} else {
		chosen = a.sample(adjustTemperature(scores, a.temperature))
	}

	return candidates[chosen], metrics.SearchMetric{
		MaxDepth:   1,
		Duration:   time.Since(start),
		Nodes:      len(candidates),
		Depth:      1,
		Candidates: len(actions),
		Score:      scores[chosen],
	}
}

// adjustTemperature turns scores into softmax probabilities.
func adjustTemperature(scores []float64, temperature float64) []float64 {
	peak := math.Inf(-1)
	for _, score := range scores {
		peak = math.Max(peak, score)
	}
	sum := 0.0
	probs := make([]float64, len(scores))
	for i, score := range scores {
		probs[i] = math.Exp((score - peak) / temperature)
		sum += probs[i]
	}
	// Normalize
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

func (a *greedyAgent) sample(probs []float64) int {
	sampled := a.rng.Float64()
	cumulative := 0.0
	for i, prob := range probs {
		cumulative += prob
		if sampled < cumulative {
			return i
		}
	}
	return len(probs) - 1 // Fallback in case of rounding errors
}
