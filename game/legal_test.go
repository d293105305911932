package game

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// candidateMoves lists every move shape with up to maxLen directions from color's tokens,
// legal or not.
func candidateMoves(b *Board, color PlayerColor, maxLen int) []MoveAction {
	var moves []MoveAction
	var extend func(origin Coord, path []Direction)
	extend = func(origin Coord, path []Direction) {
		if len(path) > 0 {
			moves = append(moves, NewMove(origin, path...))
		}
		if len(path) == maxLen {
			return
		}
		for _, d := range AllDirections() {
			extend(origin, append(path, d))
		}
	}
	for _, token := range b.Tokens(color) {
		extend(token, nil)
	}
	return moves
}

func agreementBoards(t *testing.T) map[string]*Board {
	boards := map[string]*Board{
		"opening": NewBoard(),
		"crowded": boardWith(t, Red, map[Coord]CellState{
			coord(1, 1): RedFrog,
			coord(1, 3): RedFrog,
			coord(2, 2): BlueFrog,
			coord(2, 3): RedFrog,
			coord(3, 3): LilyPad,
			coord(3, 1): LilyPad,
			coord(2, 1): LilyPad,
			coord(4, 4): BlueFrog,
			coord(5, 5): LilyPad,
			coord(4, 2): BlueFrog,
			coord(5, 1): LilyPad,
			coord(2, 4): LilyPad,
			coord(2, 5): BlueFrog,
			coord(2, 6): LilyPad,
		}),
	}
	for _, seed := range []uint64{11, 12, 13, 14} {
		b := NewBoard()
		playRandom(t, b, 30, seed)
		boards[fmt.Sprintf("random playout %d", seed)] = b
	}
	return boards
}

func TestGeneratorValidatorAgreement(t *testing.T) {
	for name, b := range agreementBoards(t) {
		t.Run(name, func(t *testing.T) {
			generated := LegalActions(b, b.Turn())

			for _, action := range generated {
				require.NoError(t, b.Validate(action), "generated %v should validate", action)
			}
			for _, move := range candidateMoves(b, b.Turn(), 3) {
				if b.Validate(move) == nil {
					require.True(t, containsAction(generated, move),
						"validated %v should be generated", move)
				}
			}
		})
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	for name, b := range agreementBoards(t) {
		t.Run(name, func(t *testing.T) {
			first := LegalActions(b, b.Turn())
			second := LegalActions(b.Clone(), b.Turn())

			require.Len(t, second, len(first))
			for i := range first {
				require.True(t, EqualActions(first[i], second[i]), "order differs at %d", i)
			}
		})
	}
}

func TestGeneratedChainsAreAcyclic(t *testing.T) {
	for name, b := range agreementBoards(t) {
		t.Run(name, func(t *testing.T) {
			for _, action := range LegalActions(b, b.Turn()) {
				move, ok := action.(MoveAction)
				if !ok || len(move.Directions) < 2 {
					continue
				}
				seen := map[Coord]bool{move.Origin: true}
				current := move.Origin
				for _, d := range move.Directions {
					dr, dc := d.Vector()
					current = Coord{R: current.R + 2*dr, C: current.C + 2*dc}
					require.False(t, seen[current], "%v lands twice on %v", move, current)
					seen[current] = true
				}
			}
		})
	}
}

func TestPrefixesAreGenerated(t *testing.T) {
	b := agreementBoards(t)["crowded"]
	actions := LegalActions(b, Red)

	for _, action := range actions {
		move, ok := action.(MoveAction)
		if !ok {
			continue
		}
		for n := 1; n < len(move.Directions); n++ {
			prefix := NewMove(move.Origin, move.Directions[:n]...)
			require.True(t, containsAction(actions, prefix), "prefix %v of %v missing", prefix, move)
		}
	}
}

func TestGoalRowTokens(t *testing.T) {
	b := boardWith(t, Red, map[Coord]CellState{
		coord(7, 3): RedFrog,
		coord(7, 4): LilyPad,
		coord(6, 3): LilyPad,
	})

	for _, action := range LegalActions(b, Red) {
		move, ok := action.(MoveAction)
		if !ok {
			continue
		}
		dest, err := b.Destination(move)
		require.NoError(t, err)
		require.Equal(t, 7, dest.R, "%v should stay on the goal row", move)
	}
	require.True(t, containsAction(LegalActions(b, Red), NewMove(coord(7, 3), Right)),
		"sideways moves along the goal row stay legal")

	_, err := b.ApplyAction(NewMove(coord(7, 3), Down))
	require.ErrorIs(t, err, ErrOutOfBounds)
}

func TestHasMoves(t *testing.T) {
	require.True(t, HasMoves(NewBoard(), Red))
	require.True(t, HasMoves(NewBoard(), Blue))

	stuck := boardWith(t, Red, map[Coord]CellState{coord(3, 3): RedFrog})
	require.False(t, HasMoves(stuck, Red))
	require.Equal(t, []Action{GrowAction{}}, LegalActions(stuck, Red), "grow is the only action left")
}

func TestDestination(t *testing.T) {
	b := boardWith(t, Blue, map[Coord]CellState{
		coord(3, 3): RedFrog,
		coord(4, 4): BlueFrog,
		coord(5, 5): LilyPad,
	})

	dest, err := b.Destination(NewMove(coord(3, 3), DownRight))
	require.NoError(t, err, "destination validates for the origin's owner, not the player on turn")
	require.Equal(t, coord(5, 5), dest)

	_, err = b.Destination(NewMove(coord(-1, 0), Down))
	require.ErrorIs(t, err, ErrOutOfBounds)
}
