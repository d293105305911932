package gamemaster

import (
	"errors"
	"fmt"
	"time"

	"freckers/game"
)

var (
	ErrGameOver  = errors.New("game is over")
	ErrOutOfTurn = errors.New("not this player's turn")
	ErrTimeout   = errors.New("time allowance exceeded")
)

// Reason explains how a game ended.
type Reason string

const (
	ReasonGoal     Reason = "goal"
	ReasonTurns    Reason = "turn limit"
	ReasonIllegal  Reason = "illegal action"
	ReasonTimeout  Reason = "timeout"
	ReasonResigned Reason = "resigned"
)

// Result of a finished game. Winner is NoColor on a draw.
type Result struct {
	Winner game.PlayerColor
	Reason Reason
	Turns  int
}

func (r Result) Draw() bool {
	return r.Winner == game.NoColor
}

func (r Result) String() string {
	if r.Draw() {
		return fmt.Sprintf("draw after %d turns (%s)", r.Turns, r.Reason)
	}
	return fmt.Sprintf("%v wins after %d turns (%s)", r.Winner, r.Turns, r.Reason)
}

// Allowance is the thinking time a player has left for the rest of the game.
type Allowance struct {
	remaining time.Duration
}

func NewAllowance(total time.Duration) *Allowance {
	return &Allowance{remaining: total}
}

func (a *Allowance) Remaining() time.Duration {
	return max(a.remaining, 0)
}

// Charge deducts the time spent on a move and fails once the allowance is overrun.
func (a *Allowance) Charge(spent time.Duration) error {
	a.remaining -= spent
	if a.remaining < 0 {
		return fmt.Errorf("%w by %v", ErrTimeout, -a.remaining)
	}
	return nil
}
