package game

import (
	"fmt"
	"strings"
)

// MaxTurns is the number of actions, counting both players, after which the game ends.
const MaxTurns = 150

// Board is the full game state: every cell, the player on turn, and the history of applied
// actions. A Board is not safe for concurrent use; Clone it to hand a copy to another goroutine.
type Board struct {
	cells     [BoardN * BoardN]CellState
	turn      PlayerColor
	turnCount int
	history   []Mutation
	hash      StateHash
}

// NewBoard returns the standard opening position with RED to move.
func NewBoard() *Board {
	b := NewEmptyBoard(Red)
	for _, r := range []int{0, BoardN - 1} {
		for _, c := range []int{0, BoardN - 1} {
			b.set(Coord{R: r, C: c}, LilyPad)
		}
	}
	for c := 1; c < BoardN-1; c++ {
		b.set(Coord{R: 1, C: c}, LilyPad)
		b.set(Coord{R: BoardN - 2, C: c}, LilyPad)
		b.set(Coord{R: Red.StartRow(), C: c}, RedFrog)
		b.set(Coord{R: Blue.StartRow(), C: c}, BlueFrog)
	}
	return b
}

// NewEmptyBoard returns a board with no pads and no tokens, with turn to move.
func NewEmptyBoard(turn PlayerColor) *Board {
	b := &Board{turn: turn}
	b.hash = StateHash(zobrist.turn(turn))
	return b
}

// CellAt returns the state of cell c.
func (b *Board) CellAt(c Coord) (CellState, error) {
	if !c.Valid() {
		return Empty, fmt.Errorf("%w: %v", ErrOutOfBounds, c)
	}
	return b.cells[c.index()], nil
}

// SetCell overwrites a cell outside of the action history. It is meant for building positions.
func (b *Board) SetCell(c Coord, state CellState) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, c)
	}
	b.set(c, state)
	return nil
}

// SetTurn hands the move to color without recording an action.
func (b *Board) SetTurn(color PlayerColor) {
	b.hash ^= StateHash(zobrist.turn(b.turn) ^ zobrist.turn(color))
	b.turn = color
}

// SetTurnCount overrides the number of actions played, e.g. when a position arrives over the wire.
func (b *Board) SetTurnCount(n int) {
	b.turnCount = n
}

func (b *Board) Turn() PlayerColor {
	return b.turn
}

func (b *Board) TurnCount() int {
	return b.turnCount
}

func (b *Board) Hash() StateHash {
	return b.hash
}

// History returns a copy of the applied mutations, oldest first.
func (b *Board) History() []Mutation {
	return append([]Mutation(nil), b.history...)
}

// Cells returns a copy of every cell in row-major order.
func (b *Board) Cells() [BoardN * BoardN]CellState {
	return b.cells
}

// Clone returns an independent copy of the board, history included.
func (b *Board) Clone() *Board {
	clone := *b
	clone.history = append([]Mutation(nil), b.history...)
	return &clone
}

// Equal compares cells, turn owner and turn count. History is ignored.
func (b *Board) Equal(other *Board) bool {
	return b.cells == other.cells && b.turn == other.turn && b.turnCount == other.turnCount
}

// ApplyAction validates action for the player on turn and applies it. On failure the board is
// unchanged and the error is an *IllegalActionError.
func (b *Board) ApplyAction(action Action) (Mutation, error) {
	mutation, err := b.resolve(action)
	if err != nil {
		return Mutation{}, err
	}
	for _, cm := range mutation.Cells {
		b.set(cm.Cell, cm.Next)
	}
	b.history = append(b.history, mutation)
	b.SetTurn(b.turn.Opponent())
	b.turnCount++
	return mutation, nil
}

// UndoLastAction reverts the most recent action.
func (b *Board) UndoLastAction() (Mutation, error) {
	if len(b.history) == 0 {
		return Mutation{}, ErrEmptyHistory
	}
	mutation := b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]
	for _, cm := range mutation.Cells {
		b.set(cm.Cell, cm.Prev)
	}
	b.SetTurn(mutation.PrevTurn)
	b.turnCount = mutation.PrevCount
	return mutation, nil
}

// Validate reports whether action is legal for the player on turn without applying it.
func (b *Board) Validate(action Action) error {
	_, err := b.resolve(action)
	return err
}

func (b *Board) resolve(action Action) (Mutation, error) {
	var cells []CellMutation
	switch a := action.(type) {
	case MoveAction:
		dest, err := b.resolveMove(b.turn, a)
		if err != nil {
			return Mutation{}, err
		}
		a = NewMove(a.Origin, a.Directions...)
		action = a
		from := CellMutation{Cell: a.Origin, Prev: b.cell(a.Origin), Next: Empty}
		to := CellMutation{Cell: dest, Prev: b.cell(dest), Next: Occupied(b.turn)}
		if dest.Less(a.Origin) {
			cells = []CellMutation{to, from}
		} else {
			cells = []CellMutation{from, to}
		}
	case GrowAction:
		cells = b.resolveGrow(b.turn)
	default:
		return Mutation{}, illegal(b.turn, action, ErrIllegalDirection, "unknown action %T", action)
	}
	return Mutation{Action: action, Cells: cells, PrevTurn: b.turn, PrevCount: b.turnCount}, nil
}

func (b *Board) resolveMove(color PlayerColor, m MoveAction) (Coord, error) {
	if !m.Origin.Valid() {
		return Coord{}, illegal(color, m, ErrOutOfBounds, "origin %v", m.Origin)
	}
	if b.cell(m.Origin).Occupant() != color {
		return Coord{}, illegal(color, m, ErrWrongOccupant, "origin %v holds %v", m.Origin, b.cell(m.Origin))
	}
	if len(m.Directions) == 0 {
		return Coord{}, illegal(color, m, ErrIllegalDirection, "no directions")
	}
	for _, d := range m.Directions {
		if !d.Valid() || !IsLegalDirection(color, d) {
			return Coord{}, illegal(color, m, ErrIllegalDirection, "%v cannot move %v", color, d)
		}
	}

	if len(m.Directions) == 1 {
		next, err := m.Origin.Add(m.Directions[0])
		if err != nil {
			return Coord{}, illegal(color, m, ErrOutOfBounds, "step off the board")
		}
		if !b.cell(next).IsOccupied() {
			if !b.cell(next).IsFreePad() {
				return Coord{}, illegal(color, m, ErrBlockedHop, "no lily pad at %v", next)
			}
			return next, nil
		}
	}

	var visited [BoardN * BoardN]bool
	current := m.Origin
	for _, d := range m.Directions {
		over, err := current.Add(d)
		if err != nil {
			return Coord{}, illegal(color, m, ErrOutOfBounds, "jump off the board from %v", current)
		}
		if !b.cell(over).IsOccupied() {
			return Coord{}, illegal(color, m, ErrBlockedJump, "nothing to jump over at %v", over)
		}
		land, err := over.Add(d)
		if err != nil {
			return Coord{}, illegal(color, m, ErrOutOfBounds, "jump off the board from %v", current)
		}
		if !b.cell(land).IsFreePad() {
			return Coord{}, illegal(color, m, ErrBlockedJump, "cannot land on %v", land)
		}
		if visited[land.index()] {
			return Coord{}, illegal(color, m, ErrBlockedJump, "chain revisits %v", land)
		}
		visited[land.index()] = true
		current = land
	}
	return current, nil
}

// resolveGrow computes the whole neighbourhood before producing mutations, so pads created by
// this action never seed further growth.
func (b *Board) resolveGrow(color PlayerColor) []CellMutation {
	var grow [BoardN * BoardN]bool
	for i, s := range b.cells {
		if s.Occupant() != color {
			continue
		}
		origin := coordOf(i)
		for _, d := range AllDirections() {
			if n, err := origin.Add(d); err == nil && b.cell(n).IsEmpty() {
				grow[n.index()] = true
			}
		}
	}
	var cells []CellMutation
	for i, ok := range grow {
		if ok {
			cells = append(cells, CellMutation{Cell: coordOf(i), Prev: Empty, Next: LilyPad})
		}
	}
	return cells
}

// Tokens returns the cells holding color's tokens in row-major order.
func (b *Board) Tokens(color PlayerColor) []Coord {
	tokens := make([]Coord, 0, BoardN-2)
	for i, s := range b.cells {
		if s.Occupant() == color {
			tokens = append(tokens, coordOf(i))
		}
	}
	return tokens
}

// Score is the number of color's tokens on its goal row.
func (b *Board) Score(color PlayerColor) int {
	score := 0
	row := color.GoalRow()
	for c := 0; c < BoardN; c++ {
		if b.cell(Coord{R: row, C: c}).Occupant() == color {
			score++
		}
	}
	return score
}

func (b *Board) allHome(color PlayerColor) bool {
	tokens := 0
	for _, s := range b.cells {
		if s.Occupant() == color {
			tokens++
		}
	}
	return tokens > 0 && b.Score(color) == tokens
}

// IsTerminal reports whether the game is over: the turn limit is reached or some color has all
// of its tokens on its goal row.
func (b *Board) IsTerminal() bool {
	return b.turnCount >= MaxTurns || b.allHome(Red) || b.allHome(Blue)
}

// Winner returns the color with strictly more tokens on its goal row once the game is over.
// ok is false while the game is running or when it ended in a draw.
func (b *Board) Winner() (winner PlayerColor, ok bool) {
	if !b.IsTerminal() {
		return NoColor, false
	}
	red, blue := b.Score(Red), b.Score(Blue)
	switch {
	case red > blue:
		return Red, true
	case blue > red:
		return Blue, true
	default:
		return NoColor, false
	}
}

func (b *Board) cell(c Coord) CellState {
	return b.cells[c.index()]
}

func (b *Board) set(c Coord, state CellState) {
	i := c.index()
	b.hash ^= StateHash(zobrist.cell(i, b.cells[i]) ^ zobrist.cell(i, state))
	b.cells[i] = state
}

func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < BoardN; r++ {
		for c := 0; c < BoardN; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(b.cell(Coord{R: r, C: c}).String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
