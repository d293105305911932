package engine

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"freckers/communication/client"
	"freckers/experiments/metrics"
	"freckers/game"
)

// responseGrace is added to the remaining allowance for network overhead.
const responseGrace = 2 * time.Second

// RemoteAgent forwards move requests to an agent server.
type RemoteAgent struct {
	client *client.AgentClient
}

func NewRemoteAgent(url string, httpClient *http.Client) *RemoteAgent {
	return &RemoteAgent{client: client.NewAgentClient(url, httpClient)}
}

// FindMove returns nil when the agent cannot be reached or answers with garbage.
func (a *RemoteAgent) FindMove(board *game.Board, color game.PlayerColor, timeRemaining time.Duration) (game.Action, metrics.SearchMetric) {
	ctx, cancel := context.WithTimeout(context.Background(), timeRemaining+responseGrace)
	defer cancel()

	action, response, err := a.client.RequestAction(ctx, board, color, timeRemaining)
	if err != nil {
		log.Warn().Err(err).Msgf("remote agent for %v failed", color)
		return nil, metrics.SearchMetric{}
	}
	return action, metrics.SearchMetric{Nodes: response.Nodes, Depth: response.Depth}
}
