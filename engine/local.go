package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"freckers/communication"
	"freckers/experiments/metrics"
	"freckers/game"
	"freckers/gamemaster"
	"freckers/meta"
	"freckers/searcher/agent"
)

// Observer receives every referee event of a game in order.
type Observer func(update communication.GameUpdate)

var _ Runner = (*Engine)(nil)

type Option func(e *Engine)

func WithAllowance(allowance time.Duration) Option {
	return func(e *Engine) {
		if allowance > 0 {
			e.allowance = allowance
		}
	}
}

// WithBoard starts the game from a copy of board instead of the opening.
func WithBoard(board *game.Board) Option {
	return func(e *Engine) {
		if board != nil {
			e.board = board.Clone()
		}
	}
}

func WithObserver(observer Observer) Option {
	return func(e *Engine) {
		if observer != nil {
			e.observers = append(e.observers, observer)
		}
	}
}

// Engine plays one match between two agents through a referee.
type Engine struct {
	MatchID   uuid.UUID
	agents    map[game.PlayerColor]agent.Agent
	allowance time.Duration
	board     *game.Board
	observers []Observer
}

func LocalEngine(red, blue agent.Agent, options ...Option) *Engine {
	e := &Engine{ // Default values
		MatchID:   uuid.New(),
		agents:    map[game.PlayerColor]agent.Agent{game.Red: red, game.Blue: blue},
		allowance: meta.GameAllowance,
		board:     game.NewBoard(),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// Run executes the entire game loop until the referee declares a result. An agent submitting an
// illegal action or overrunning its allowance loses.
func (e *Engine) Run(ctx context.Context) (gamemaster.Result, metrics.GameMetric, []metrics.MoveMetric) {
	referee := gamemaster.NewRefereeFrom(e.board, e.allowance)
	gameMetric := metrics.GameMetric{
		MatchID:        e.MatchID.String(),
		StartingPlayer: e.board.Turn().String(),
		StartTime:      time.Now(),
	}
	var moveMetrics []metrics.MoveMetric
	logger := log.With().Str("match", gameMetric.MatchID).Logger()

	logger.Info().Msgf("%v is starting", e.board.Turn())

	for {
		if _, over := referee.Result(); over {
			break
		}
		color := referee.Turn()
		if err := ctx.Err(); err != nil {
			logger.Warn().Err(err).Msgf("match cancelled, %v resigns", color)
			_ = referee.Resign(color)
			break
		}

		board := referee.Board()
		start := time.Now()
		action, searchMetric := e.agents[color].FindMove(board, color, referee.TimeRemaining(color))
		spent := time.Since(start)

		if action == nil {
			logger.Warn().Msgf("%v produced no action and resigns", color)
			_ = referee.Resign(color)
			break
		}
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         board.TurnCount() + 1,
			Player:       color.String(),
			Action:       action.String(),
			SearchMetric: searchMetric,
		})

		if err := referee.Play(color, action, spent); err != nil {
			logger.Warn().Err(err).Msgf("%v forfeits", color)
		}
		e.publish(referee)
	}
	e.publish(referee)

	result, _ := referee.Result()
	for _, observe := range e.observers {
		observe(communication.EndUpdate(result.Winner))
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = result.Turns
	gameMetric.Reason = string(result.Reason)
	if !result.Draw() {
		gameMetric.Winner = result.Winner.String()
	}
	logger.Info().Msgf("game over: %v", result)

	return result, gameMetric, moveMetrics
}

// publish forwards the referee's pending updates to the observers.
func (e *Engine) publish(referee *gamemaster.Referee) {
	for {
		select {
		case u, ok := <-referee.Updates():
			if !ok {
				return
			}
			if len(e.observers) == 0 {
				continue
			}
			updates, err := communication.TurnUpdates(u.TurnID, u.Color, u.Action, u.Board)
			if err != nil {
				log.Warn().Err(err).Msg("failed to encode update")
				continue
			}
			for _, observe := range e.observers {
				for _, update := range updates {
					observe(update)
				}
			}
		default:
			return
		}
	}
}
