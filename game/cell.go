package game

import "fmt"

// PlayerColor identifies a player. The zero value means no player.
type PlayerColor int8

const (
	NoColor PlayerColor = 0
	Red     PlayerColor = 1
	Blue    PlayerColor = -1
)

func (p PlayerColor) Opponent() PlayerColor {
	return -p
}

// GoalRow is the row every token of p must reach.
func (p PlayerColor) GoalRow() int {
	if p == Red {
		return BoardN - 1
	}
	return 0
}

// StartRow is the row p's tokens start on.
func (p PlayerColor) StartRow() int {
	return p.Opponent().GoalRow()
}

// Forward is the row delta that advances p towards its goal row.
func (p PlayerColor) Forward() int {
	if p == Red {
		return 1
	}
	return -1
}

func (p PlayerColor) String() string {
	switch p {
	case Red:
		return "RED"
	case Blue:
		return "BLUE"
	default:
		return "NONE"
	}
}

// CellState is the content of a single cell. A token always sits on a lily pad, so an occupied
// cell also counts as having a landing tile.
type CellState uint8

const (
	Empty CellState = iota
	LilyPad
	RedFrog
	BlueFrog
)

// Occupied returns the cell state of a token of the given color.
func Occupied(color PlayerColor) CellState {
	switch color {
	case Red:
		return RedFrog
	case Blue:
		return BlueFrog
	default:
		panic(fmt.Sprintf("no token for color %v", color))
	}
}

func (s CellState) IsEmpty() bool {
	return s == Empty
}

// IsOccupied reports whether a token of either color sits on the cell.
func (s CellState) IsOccupied() bool {
	return s == RedFrog || s == BlueFrog
}

// HasPad reports whether the cell has a landing tile, with or without a token on it.
func (s CellState) HasPad() bool {
	return s != Empty
}

// IsFreePad reports whether a token may land on the cell.
func (s CellState) IsFreePad() bool {
	return s == LilyPad
}

// Occupant returns the color of the token on the cell, or NoColor.
func (s CellState) Occupant() PlayerColor {
	switch s {
	case RedFrog:
		return Red
	case BlueFrog:
		return Blue
	default:
		return NoColor
	}
}

func (s CellState) String() string {
	switch s {
	case Empty:
		return "."
	case LilyPad:
		return "*"
	case RedFrog:
		return "R"
	case BlueFrog:
		return "B"
	default:
		return "?"
	}
}
