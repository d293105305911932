package gamemaster

import (
	"fmt"
	"sync"
	"time"

	"freckers/game"
)

// Update is published for every action the referee accepts.
type Update struct {
	TurnID   int
	Color    game.PlayerColor
	Action   game.Action
	Mutation game.Mutation
	Board    *game.Board // copy of the board after the action
}

// Referee owns the authoritative board. It validates and applies actions from both players,
// tracks their time allowances and decides the result.
type Referee struct {
	mu         sync.Mutex
	board      *game.Board
	allowances map[game.PlayerColor]*Allowance
	updateCh   chan Update
	result     *Result
}

// NewReferee starts a game from the standard opening with allowance for each player.
func NewReferee(allowance time.Duration) *Referee {
	return NewRefereeFrom(game.NewBoard(), allowance)
}

// NewRefereeFrom starts a game from a copy of board.
func NewRefereeFrom(board *game.Board, allowance time.Duration) *Referee {
	return &Referee{
		board: board.Clone(),
		allowances: map[game.PlayerColor]*Allowance{
			game.Red:  NewAllowance(allowance),
			game.Blue: NewAllowance(allowance),
		},
		// Every turn fits so Play never blocks on a slow reader.
		updateCh: make(chan Update, game.MaxTurns+1),
	}
}

// Updates returns the channel of accepted actions. It is closed when the game ends.
func (r *Referee) Updates() <-chan Update {
	return r.updateCh
}

// Board returns a copy of the current board.
func (r *Referee) Board() *game.Board {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.board.Clone()
}

func (r *Referee) Turn() game.PlayerColor {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.board.Turn()
}

func (r *Referee) TimeRemaining(color game.PlayerColor) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.allowances[color].Remaining()
}

// Result reports the outcome once the game is over.
func (r *Referee) Result() (Result, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.result == nil {
		return Result{}, false
	}
	return *r.result, true
}

// Play submits color's action after spending spent thinking about it. Out-of-turn submissions are
// rejected without consequence; overrunning the allowance or submitting an illegal action loses
// the game.
func (r *Referee) Play(color game.PlayerColor, action game.Action, spent time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.result != nil {
		return ErrGameOver
	}
	if color != r.board.Turn() {
		return fmt.Errorf("%w: %v played on %v's turn", ErrOutOfTurn, color, r.board.Turn())
	}
	if err := r.allowances[color].Charge(spent); err != nil {
		r.finish(Result{Winner: color.Opponent(), Reason: ReasonTimeout, Turns: r.board.TurnCount()})
		return err
	}

	mutation, err := r.board.ApplyAction(action)
	if err != nil {
		r.finish(Result{Winner: color.Opponent(), Reason: ReasonIllegal, Turns: r.board.TurnCount()})
		return fmt.Errorf("referee rejected action: %w", err)
	}

	r.updateCh <- Update{
		TurnID:   r.board.TurnCount(),
		Color:    color,
		Action:   action,
		Mutation: mutation,
		Board:    r.board.Clone(),
	}

	if r.board.IsTerminal() {
		winner, _ := r.board.Winner()
		reason := ReasonGoal
		if winner == game.NoColor || r.board.TurnCount() >= game.MaxTurns && r.board.Score(winner) < len(r.board.Tokens(winner)) {
			reason = ReasonTurns
		}
		r.finish(Result{Winner: winner, Reason: reason, Turns: r.board.TurnCount()})
	}
	return nil
}

// Resign ends the game in favour of color's opponent.
func (r *Referee) Resign(color game.PlayerColor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.result != nil {
		return ErrGameOver
	}
	r.finish(Result{Winner: color.Opponent(), Reason: ReasonResigned, Turns: r.board.TurnCount()})
	return nil
}

func (r *Referee) finish(result Result) {
	r.result = &result
	close(r.updateCh)
}
