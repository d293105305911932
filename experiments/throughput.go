package experiments

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"freckers/experiments/metrics"
	"freckers/game"
)

// SamplePositions plays random games from the opening and keeps one non-terminal position every
// few turns, until n positions are collected.
func SamplePositions(n int, seed uint64) []*game.Board {
	rng := rand.New(rand.NewSource(seed))
	positions := make([]*game.Board, 0, n)
	for len(positions) < n {
		b := game.NewBoard()
		for !b.IsTerminal() && len(positions) < n {
			actions := game.LegalActions(b, b.Turn())
			if len(actions) == 0 {
				break
			}
			if _, err := b.ApplyAction(actions[rng.Intn(len(actions))]); err != nil {
				break
			}
			if b.TurnCount()%10 == 0 && !b.IsTerminal() {
				positions = append(positions, b.Clone())
			}
		}
	}
	return positions
}

// RunThroughput measures how many nodes each search agent visits per second on the same positions.
func RunThroughput(ctx context.Context, configs []metrics.AgentConfig, positions []*game.Board, root string) (string, []metrics.ThroughputRecord, error) {
	log.Info().Msgf("starting throughput experiment on %d positions...", len(positions))

	records := make([]metrics.ThroughputRecord, 0, len(configs))
	for _, config := range configs {
		if config.Kind != metrics.KindSearch {
			return "", nil, fmt.Errorf("%w: agent %d is not a search agent", ErrInvalidConfig, config.ID)
		}
		var evaluate game.Evaluate
		if config.Evaluator != "" {
			var err error
			if evaluate, err = game.EvaluatorByName(config.Evaluator); err != nil {
				return "", nil, fmt.Errorf("agent %d: %w", config.ID, err)
			}
		}
		ab := createSearcher(config, evaluate, uint64(config.ID))
		budget := config.MoveTime
		if budget <= 0 {
			budget = TimeBudget
		}

		record := metrics.ThroughputRecord{Agent: config.ID}
		depths := 0
		for _, position := range positions {
			if err := ctx.Err(); err != nil {
				return "", records, err
			}
			start := time.Now()
			_, metric := ab.ChooseAction(position, position.Turn(), budget)
			record.Duration += time.Since(start)
			record.Nodes += metric.Nodes
			depths += metric.Depth
			record.Positions++
		}
		if record.Positions > 0 {
			record.MeanDepth = float64(depths) / float64(record.Positions)
		}
		records = append(records, record)

		log.Info().Msgf("agent%d: %.0f nodes/s, mean depth %.2f", config.ID, record.NodesPerSecond(), record.MeanDepth)
	}

	writer, err := metrics.NewWriter(root, "throughput")
	if err != nil {
		return "", records, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return "", records, err
	}
	if err := writer.WriteThroughputRecords(records); err != nil {
		return "", records, err
	}
	log.Info().Msg("stored throughput records")

	return writer.Dir(), records, nil
}
