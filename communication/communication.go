// Package communication holds the JSON wire format shared by the agent server, its client and the
// game recorder.
package communication

import (
	"errors"
	"fmt"

	"freckers/game"
)

const (
	moveActionType = "MoveAction"
	growActionType = "GrowAction"
)

// Board cell encoding.
const (
	cellEmpty   = 0
	cellRed     = 1
	cellBlue    = -1
	cellLilyPad = 2
)

var ErrMalformed = errors.New("malformed message")

// Action is the wire form of a game.Action.
type Action struct {
	Type       string  `json:"type"`
	Coord      []int   `json:"coord,omitempty"`
	Directions [][]int `json:"directions,omitempty"`
}

// ActionRequest asks an agent for its next action.
type ActionRequest struct {
	Board         [][]int `json:"board"`
	Color         int     `json:"color"`
	Turn          int     `json:"turn"`
	TurnCount     int     `json:"turnCount"`
	TimeRemaining float64 `json:"timeRemaining"` // seconds
}

type ActionResponse struct {
	Action Action `json:"action"`
	Nodes  int    `json:"nodes,omitempty"`
	Depth  int    `json:"depth,omitempty"`
}

// GameUpdate is one referee event: TurnBegin, TurnEnd, BoardUpdate or GameEnd.
type GameUpdate struct {
	Type   string  `json:"type"`
	TurnID int     `json:"turnId,omitempty"`
	Player int     `json:"player,omitempty"`
	Action *Action `json:"action,omitempty"`
	Board  [][]int `json:"board,omitempty"`
	Winner *int    `json:"winner,omitempty"`
}

const (
	TurnBegin   = "GameUpdate:TurnBegin"
	TurnEnd     = "GameUpdate:TurnEnd"
	BoardUpdate = "GameUpdate:BoardUpdate"
	GameEnd     = "GameUpdate:GameEnd"
)

func EncodeAction(action game.Action) (Action, error) {
	switch a := action.(type) {
	case game.MoveAction:
		dirs := make([][]int, len(a.Directions))
		for i, d := range a.Directions {
			if !d.Valid() {
				return Action{}, fmt.Errorf("%w: direction %v", ErrMalformed, d)
			}
			dr, dc := d.Vector()
			dirs[i] = []int{dr, dc}
		}
		return Action{Type: moveActionType, Coord: []int{a.Origin.R, a.Origin.C}, Directions: dirs}, nil
	case game.GrowAction:
		return Action{Type: growActionType}, nil
	default:
		return Action{}, fmt.Errorf("%w: action %T", ErrMalformed, action)
	}
}

// DecodeAction checks the shape of a wire action. Legality is left to the board.
func DecodeAction(w Action) (game.Action, error) {
	switch w.Type {
	case growActionType:
		return game.GrowAction{}, nil
	case moveActionType:
		if len(w.Coord) != 2 {
			return nil, fmt.Errorf("%w: coord %v", ErrMalformed, w.Coord)
		}
		origin, err := game.NewCoord(w.Coord[0], w.Coord[1])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if len(w.Directions) == 0 {
			return nil, fmt.Errorf("%w: move without directions", ErrMalformed)
		}
		dirs := make([]game.Direction, len(w.Directions))
		for i, v := range w.Directions {
			if len(v) != 2 {
				return nil, fmt.Errorf("%w: direction %v", ErrMalformed, v)
			}
			d, err := game.DirectionOf(v[0], v[1])
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
			}
			dirs[i] = d
		}
		return game.NewMove(origin, dirs...), nil
	default:
		return nil, fmt.Errorf("%w: action type %q", ErrMalformed, w.Type)
	}
}

func EncodeBoard(b *game.Board) [][]int {
	rows := make([][]int, game.BoardN)
	cells := b.Cells()
	for r := range rows {
		rows[r] = make([]int, game.BoardN)
		for c := range rows[r] {
			rows[r][c] = encodeCell(cells[r*game.BoardN+c])
		}
	}
	return rows
}

// DecodeBoard rebuilds a board from its wire cells. The result has no history.
func DecodeBoard(rows [][]int, turn game.PlayerColor, turnCount int) (*game.Board, error) {
	if len(rows) != game.BoardN {
		return nil, fmt.Errorf("%w: %d rows", ErrMalformed, len(rows))
	}
	b := game.NewEmptyBoard(turn)
	b.SetTurnCount(turnCount)
	for r, row := range rows {
		if len(row) != game.BoardN {
			return nil, fmt.Errorf("%w: row %d has %d cells", ErrMalformed, r, len(row))
		}
		for c, v := range row {
			s, err := decodeCell(v)
			if err != nil {
				return nil, err
			}
			if err := b.SetCell(game.Coord{R: r, C: c}, s); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

func DecodeColor(v int) (game.PlayerColor, error) {
	switch game.PlayerColor(v) {
	case game.Red, game.Blue:
		return game.PlayerColor(v), nil
	default:
		return game.NoColor, fmt.Errorf("%w: color %d", ErrMalformed, v)
	}
}

func encodeCell(s game.CellState) int {
	switch s {
	case game.RedFrog:
		return cellRed
	case game.BlueFrog:
		return cellBlue
	case game.LilyPad:
		return cellLilyPad
	default:
		return cellEmpty
	}
}

func decodeCell(v int) (game.CellState, error) {
	switch v {
	case cellEmpty:
		return game.Empty, nil
	case cellRed:
		return game.RedFrog, nil
	case cellBlue:
		return game.BlueFrog, nil
	case cellLilyPad:
		return game.LilyPad, nil
	default:
		return game.Empty, fmt.Errorf("%w: cell %d", ErrMalformed, v)
	}
}

// NewActionRequest builds the request for color to act on b.
func NewActionRequest(b *game.Board, color game.PlayerColor, timeRemaining float64) ActionRequest {
	return ActionRequest{
		Board:         EncodeBoard(b),
		Color:         int(color),
		Turn:          int(b.Turn()),
		TurnCount:     b.TurnCount(),
		TimeRemaining: timeRemaining,
	}
}

// TurnUpdates describes one accepted action as the referee's TurnBegin, TurnEnd and BoardUpdate
// events.
func TurnUpdates(turnID int, color game.PlayerColor, action game.Action, after *game.Board) ([]GameUpdate, error) {
	w, err := EncodeAction(action)
	if err != nil {
		return nil, err
	}
	return []GameUpdate{
		{Type: TurnBegin, TurnID: turnID, Player: int(color)},
		{Type: TurnEnd, TurnID: turnID, Player: int(color), Action: &w},
		{Type: BoardUpdate, TurnID: turnID, Board: EncodeBoard(after)},
	}, nil
}

// EndUpdate reports the winner, 0 for a draw.
func EndUpdate(winner game.PlayerColor) GameUpdate {
	w := int(winner)
	return GameUpdate{Type: GameEnd, Winner: &w}
}
