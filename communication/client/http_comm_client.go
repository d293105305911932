package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"freckers/communication"
	"freckers/game"
)

// AgentClient asks a remote agent server for actions.
type AgentClient struct {
	serverURL  string
	httpClient *http.Client
}

// NewAgentClient returns a client for the agent server at serverURL.
func NewAgentClient(serverURL string, httpClient *http.Client) *AgentClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &AgentClient{
		serverURL:  serverURL,
		httpClient: httpClient,
	}
}

// RequestAction posts the board and waits for the agent's action. The action is only checked for
// shape; legality is up to the referee.
func (c *AgentClient) RequestAction(ctx context.Context, b *game.Board, color game.PlayerColor, timeRemaining time.Duration) (game.Action, communication.ActionResponse, error) {
	payload := communication.NewActionRequest(b, color, timeRemaining.Seconds())
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, communication.ActionResponse{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+"/action", bytes.NewReader(body))
	if err != nil {
		return nil, communication.ActionResponse{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, communication.ActionResponse{}, fmt.Errorf("failed to reach agent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		out, _ := io.ReadAll(resp.Body)
		return nil, communication.ActionResponse{}, fmt.Errorf("agent returned status %d: %s", resp.StatusCode, bytes.TrimSpace(out))
	}

	var response communication.ActionResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, communication.ActionResponse{}, fmt.Errorf("failed to decode response: %w", err)
	}
	action, err := communication.DecodeAction(response.Action)
	if err != nil {
		return nil, response, err
	}
	return action, response, nil
}

// Healthy reports whether the agent server answers its health check.
func (c *AgentClient) Healthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.serverURL+"/healthz", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
