package game

import "fmt"

// BoardN is the side length of the square board.
const BoardN = 8

// Coord is a cell position on the board. Rows grow downwards, towards BLUE's start row.
type Coord struct {
	R int
	C int
}

// NewCoord returns the coordinate (r, c) or ErrOutOfBounds if it lies outside the board.
func NewCoord(r, c int) (Coord, error) {
	if !InBounds(r, c) {
		return Coord{}, fmt.Errorf("%w: %d-%d", ErrOutOfBounds, r, c)
	}
	return Coord{R: r, C: c}, nil
}

// InBounds reports whether (r, c) is on the board.
func InBounds(r, c int) bool {
	return 0 <= r && r < BoardN && 0 <= c && c < BoardN
}

func (c Coord) Valid() bool {
	return InBounds(c.R, c.C)
}

// Add steps one cell in direction d.
func (c Coord) Add(d Direction) (Coord, error) {
	dr, dc := d.Vector()
	return NewCoord(c.R+dr, c.C+dc)
}

// Sub steps one cell against direction d.
func (c Coord) Sub(d Direction) (Coord, error) {
	dr, dc := d.Vector()
	return NewCoord(c.R-dr, c.C-dc)
}

// Less orders coordinates by row, then column.
func (c Coord) Less(other Coord) bool {
	if c.R != other.R {
		return c.R < other.R
	}
	return c.C < other.C
}

func (c Coord) index() int {
	return c.R*BoardN + c.C
}

func coordOf(index int) Coord {
	return Coord{R: index / BoardN, C: index % BoardN}
}

func (c Coord) String() string {
	return fmt.Sprintf("%d-%d", c.R, c.C)
}

// Direction is one of the eight unit steps on the grid.
type Direction int8

const (
	Down Direction = iota
	DownLeft
	DownRight
	Up
	UpLeft
	UpRight
	Left
	Right
)

var directionVectors = [...][2]int{
	Down:      {1, 0},
	DownLeft:  {1, -1},
	DownRight: {1, 1},
	Up:        {-1, 0},
	UpLeft:    {-1, -1},
	UpRight:   {-1, 1},
	Left:      {0, -1},
	Right:     {0, 1},
}

var directionNames = [...]string{
	Down:      "[↓]",
	DownLeft:  "[↙]",
	DownRight: "[↘]",
	Up:        "[↑]",
	UpLeft:    "[↖]",
	UpRight:   "[↗]",
	Left:      "[←]",
	Right:     "[→]",
}

// AllDirections lists the eight directions in declaration order.
func AllDirections() []Direction {
	return []Direction{Down, DownLeft, DownRight, Up, UpLeft, UpRight, Left, Right}
}

// DirectionOf returns the direction with unit vector (dr, dc).
func DirectionOf(dr, dc int) (Direction, error) {
	for d, v := range directionVectors {
		if v[0] == dr && v[1] == dc {
			return Direction(d), nil
		}
	}
	return 0, fmt.Errorf("%w: vector (%d, %d)", ErrIllegalDirection, dr, dc)
}

func (d Direction) Valid() bool {
	return d >= Down && d <= Right
}

// Vector returns the row and column deltas of d.
func (d Direction) Vector() (dr, dc int) {
	v := directionVectors[d]
	return v[0], v[1]
}

func (d Direction) Opposite() Direction {
	dr, dc := d.Vector()
	opposite, _ := DirectionOf(-dr, -dc)
	return opposite
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", int8(d))
	}
	return directionNames[d]
}

var (
	redDirections  = []Direction{Down, DownLeft, DownRight, Left, Right}
	blueDirections = []Direction{Up, UpLeft, UpRight, Left, Right}
)

// LegalDirections returns the directions color may move in: every direction except the three
// that retreat towards its own start row. The returned slice must not be modified.
func LegalDirections(color PlayerColor) []Direction {
	switch color {
	case Red:
		return redDirections
	case Blue:
		return blueDirections
	default:
		return nil
	}
}

// IsLegalDirection reports whether color may move in direction d.
func IsLegalDirection(color PlayerColor, d Direction) bool {
	for _, legal := range LegalDirections(color) {
		if legal == d {
			return true
		}
	}
	return false
}
