package game

// StateHash is a Zobrist hash of the cells and the player on turn.
type StateHash uint64

type zobristTable struct {
	cells [BoardN * BoardN][4]uint64
	blue  uint64
}

var zobrist = newZobristTable(0x9e3779b97f4a7c15 ^ BoardN)

func newZobristTable(seed uint64) *zobristTable {
	rng := splitmix64{state: seed}
	table := &zobristTable{}
	for i := range table.cells {
		// Empty cells hash to zero so an empty board hashes to the turn key alone.
		for s := LilyPad; s <= BlueFrog; s++ {
			table.cells[i][s] = rng.next()
		}
	}
	table.blue = rng.next()
	return table
}

func (z *zobristTable) cell(index int, state CellState) uint64 {
	return z.cells[index][state]
}

func (z *zobristTable) turn(color PlayerColor) uint64 {
	if color == Blue {
		return z.blue
	}
	return 0
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
