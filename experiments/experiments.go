package experiments

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"

	"freckers/engine"
	"freckers/experiments/metrics"
	"freckers/game"
	"freckers/searcher"
	"freckers/searcher/agent"
)

// Results holds the records of one experiment run, in game order.
type Results struct {
	Games []metrics.GameRecord
	Moves []metrics.MoveRecord
}

// Summary counts the outcomes of a matchup from the point of view of its first agent.
type Summary struct {
	Agent1, Agent2      int
	Wins, Losses, Draws int
}

// Run plays every matchup of config and writes the records under root/<name>/<run id>. It returns
// the directory written to.
func Run(ctx context.Context, config Config, root string) (string, Results, error) {
	if err := config.Validate(); err != nil {
		return "", Results{}, err
	}

	log.Info().Msgf("starting %s experiment...", config.Name)
	results, err := Play(ctx, config)
	if err != nil {
		return "", results, err
	}
	log.Info().Msgf("completed %s experiment", config.Name)

	for _, summary := range Summarize(results.Games) {
		log.Info().Msgf("agent%d vs agent%d: %d wins, %d losses, %d draws",
			summary.Agent1, summary.Agent2, summary.Wins, summary.Losses, summary.Draws)
	}

	// Store experiment metadata and results
	writer, err := metrics.NewWriter(root, config.Name)
	if err != nil {
		return "", results, fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(config.Agents); err != nil {
		return "", results, err
	}
	log.Info().Msg("stored agent configs")
	if err := writer.WriteGameRecords(results.Games); err != nil {
		return "", results, err
	}
	log.Info().Msg("stored game records")
	if err := writer.WriteMoveRecords(results.Moves); err != nil {
		return "", results, err
	}
	log.Info().Msg("stored move records")

	return writer.Dir(), results, nil
}

// Play runs config.Games games per matchup, at most config.Parallelism at a time. The first agent
// of a matchup plays RED in even games and BLUE in odd ones.
func Play(ctx context.Context, config Config) (Results, error) {
	type job struct {
		record  metrics.GameRecord
		config1 metrics.AgentConfig
		config2 metrics.AgentConfig
	}

	// Seeds are drawn up front so that every record names the seed its game was played with
	var jobs []job
	for _, matchup := range config.Matchups {
		for i := 0; i < config.Games; i++ {
			agent1Plays := game.Red
			if i%2 == 1 {
				agent1Plays = game.Blue
			}
			jobs = append(jobs, job{
				record: metrics.GameRecord{
					ID:          len(jobs) + 1,
					Agent1:      matchup[0],
					Agent2:      matchup[1],
					Agent1Plays: agent1Plays.String(),
					Seed:        frand.Uint64n(math.MaxUint64),
				},
				config1: config.agent(matchup[0]),
				config2: config.agent(matchup[1]),
			})
		}
	}

	games := make([]metrics.GameRecord, len(jobs))
	moves := make([][]metrics.MoveMetric, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(config.Parallelism)
	for i, j := range jobs {
		i, j := i, j
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			record, moveMetrics, err := runGame(ctx, j.record, j.config1, j.config2, config.Allowance)
			if err != nil {
				return err
			}
			games[i] = record
			moves[i] = moveMetrics
			log.Info().Msgf("completed game %d of %d with winner: %q (%s)", record.ID, len(jobs), record.Winner, record.Reason)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Results{}, err
	}

	results := Results{Games: games}
	for i, moveMetrics := range moves {
		for _, mm := range moveMetrics {
			results.Moves = append(results.Moves, metrics.MoveRecord{Game: games[i].ID, MoveMetric: mm})
		}
	}
	return results, nil
}

// Summarize tallies game records per matchup, in the order matchups first appear.
func Summarize(records []metrics.GameRecord) []Summary {
	var summaries []Summary
	index := map[[2]int]int{}
	for _, record := range records {
		key := [2]int{record.Agent1, record.Agent2}
		i, ok := index[key]
		if !ok {
			i = len(summaries)
			index[key] = i
			summaries = append(summaries, Summary{Agent1: record.Agent1, Agent2: record.Agent2})
		}
		switch record.Winner {
		case "":
			summaries[i].Draws++
		case record.Agent1Plays:
			summaries[i].Wins++
		default:
			summaries[i].Losses++
		}
	}
	return summaries
}

// runGame executes a single game between two agents
func runGame(ctx context.Context, record metrics.GameRecord, config1, config2 metrics.AgentConfig, allowance time.Duration) (metrics.GameRecord, []metrics.MoveMetric, error) {
	agent1, err := createAgent(config1, record.Seed)
	if err != nil {
		return record, nil, err
	}
	agent2, err := createAgent(config2, record.Seed+1)
	if err != nil {
		return record, nil, err
	}

	red, blue := agent1, agent2
	if record.Agent1Plays == game.Blue.String() {
		red, blue = agent2, agent1
	}
	e := engine.LocalEngine(red, blue, engine.WithAllowance(allowance))

	_, gameMetric, moveMetrics := e.Run(ctx)
	record.GameMetric = gameMetric
	return record, moveMetrics, nil
}

func createAgent(config metrics.AgentConfig, seed uint64) (agent.Agent, error) {
	var evaluate game.Evaluate
	if config.Evaluator != "" {
		var err error
		evaluate, err = game.EvaluatorByName(config.Evaluator)
		if err != nil {
			return nil, fmt.Errorf("agent %d: %w", config.ID, err)
		}
	}

	switch config.Kind {
	case metrics.KindSearch:
		return agent.NewSearchAgent(createSearcher(config, evaluate, seed), config.MoveTime), nil
	case metrics.KindGreedy:
		return agent.NewGreedyAgent(evaluate, config.Temperature, seed), nil
	case metrics.KindRandom:
		return agent.NewRandomAgent(seed), nil
	default:
		return nil, fmt.Errorf("agent %d: unknown kind %q", config.ID, config.Kind)
	}
}

func createSearcher(config metrics.AgentConfig, evaluate game.Evaluate, seed uint64) *searcher.AlphaBeta {
	options := []searcher.Option{searcher.WithSeed(seed)}

	if config.MaxDepth > 0 {
		options = append(options, searcher.WithMaxDepth(config.MaxDepth))
	}
	if evaluate != nil {
		options = append(options, searcher.WithEvaluationFn(evaluate))
	}
	if config.TieBreak == searcher.TieBreakRandom.String() {
		options = append(options, searcher.WithTieBreak(searcher.TieBreakRandom))
	}

	options = append(options, searcher.WithMetrics())
	return searcher.NewAlphaBeta(options...)
}
