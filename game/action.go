package game

import (
	"fmt"
	"strings"
)

// Action is either a MoveAction or a GrowAction. The set is closed: the unexported method keeps
// other packages from adding variants, so a type switch over the two covers every action.
type Action interface {
	isAction()
	String() string
}

// MoveAction moves the token at Origin. A single direction is a hop when the adjacent cell holds
// no token; otherwise every direction is one jump of a chain.
type MoveAction struct {
	Origin     Coord
	Directions []Direction
}

// GrowAction adds lily pads around every token of the player on turn.
type GrowAction struct{}

func (MoveAction) isAction() {}
func (GrowAction) isAction() {}

// NewMove builds a move action. The directions are copied.
func NewMove(origin Coord, directions ...Direction) MoveAction {
	return MoveAction{Origin: origin, Directions: append([]Direction(nil), directions...)}
}

func (m MoveAction) String() string {
	parts := make([]string, len(m.Directions))
	for i, d := range m.Directions {
		parts[i] = d.String()
	}
	return fmt.Sprintf("MOVE(%v, [%s])", m.Origin, strings.Join(parts, ", "))
}

func (GrowAction) String() string {
	return "GROW"
}

// EqualActions reports whether a and b describe the same action.
func EqualActions(a, b Action) bool {
	switch a := a.(type) {
	case MoveAction:
		m, ok := b.(MoveAction)
		if !ok || a.Origin != m.Origin || len(a.Directions) != len(m.Directions) {
			return false
		}
		for i := range a.Directions {
			if a.Directions[i] != m.Directions[i] {
				return false
			}
		}
		return true
	case GrowAction:
		_, ok := b.(GrowAction)
		return ok
	default:
		return false
	}
}

// CellMutation is the change of one cell caused by an action.
type CellMutation struct {
	Cell Coord
	Prev CellState
	Next CellState
}

// Mutation records every cell changed by one action, sorted by coordinate, plus the turn state
// before the action so undo can restore it exactly.
type Mutation struct {
	Action    Action
	Cells     []CellMutation
	PrevTurn  PlayerColor
	PrevCount int
}

func (m Mutation) String() string {
	parts := make([]string, len(m.Cells))
	for i, c := range m.Cells {
		parts[i] = fmt.Sprintf("%v:%v->%v", c.Cell, c.Prev, c.Next)
	}
	return fmt.Sprintf("Mutation(%v {%s})", m.Action, strings.Join(parts, ", "))
}
