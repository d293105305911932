package game

// LegalActions returns every legal action for color: single hops and jump chains of each token,
// in token then direction order, followed by Grow. The order is deterministic for a given board.
func LegalActions(b *Board, color PlayerColor) []Action {
	actions := make([]Action, 0, 32)
	for _, origin := range b.Tokens(color) {
		actions = appendHops(actions, b, color, origin)
		actions = appendJumps(actions, b, color, origin)
	}
	return append(actions, GrowAction{})
}

// HasMoves reports whether any token of color can hop or jump.
func HasMoves(b *Board, color PlayerColor) bool {
	for _, origin := range b.Tokens(color) {
		for _, d := range LegalDirections(color) {
			next, err := origin.Add(d)
			if err != nil {
				continue
			}
			if b.cell(next).IsFreePad() {
				return true
			}
			if land, err := next.Add(d); err == nil && b.cell(next).IsOccupied() && b.cell(land).IsFreePad() {
				return true
			}
		}
	}
	return false
}

// Destination returns the cell a move ends on, validated for the color of the token at its origin.
func (b *Board) Destination(m MoveAction) (Coord, error) {
	if !m.Origin.Valid() {
		return Coord{}, illegal(b.turn, m, ErrOutOfBounds, "origin %v", m.Origin)
	}
	return b.resolveMove(b.cell(m.Origin).Occupant(), m)
}

func appendHops(actions []Action, b *Board, color PlayerColor, origin Coord) []Action {
	for _, d := range LegalDirections(color) {
		next, err := origin.Add(d)
		if err == nil && b.cell(next).IsFreePad() {
			actions = append(actions, NewMove(origin, d))
		}
	}
	return actions
}

func appendJumps(actions []Action, b *Board, color PlayerColor, origin Coord) []Action {
	j := jumpSearch{
		board:      b,
		directions: LegalDirections(color),
		origin:     origin,
		actions:    actions,
	}
	j.search(origin)
	return j.actions
}

// jumpSearch enumerates jump chains depth first. visited holds the landings of the current chain
// only: a cell is marked before recursing and cleared on backtrack, so another branch may land on
// it again but one chain never does.
type jumpSearch struct {
	board      *Board
	directions []Direction
	origin     Coord
	visited    [BoardN * BoardN]bool
	path       []Direction
	actions    []Action
}

func (j *jumpSearch) search(current Coord) {
	for _, d := range j.directions {
		over, err := current.Add(d)
		if err != nil || !j.board.cell(over).IsOccupied() {
			continue
		}
		land, err := over.Add(d)
		if err != nil || !j.board.cell(land).IsFreePad() || j.visited[land.index()] {
			continue
		}

		j.path = append(j.path, d)
		j.actions = append(j.actions, NewMove(j.origin, j.path...))

		j.visited[land.index()] = true
		j.search(land)
		j.visited[land.index()] = false

		j.path = j.path[:len(j.path)-1]
	}
}
