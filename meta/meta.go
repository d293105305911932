// meta/meta.go
package meta

import (
	"time"

	"freckers/game"
)

// MaxMoveTime caps the time an agent spends on a single move.
const MaxMoveTime = time.Second

// SafetyMargin is reserved out of every move budget for returning the action.
const SafetyMargin = 50 * time.Millisecond

// GameAllowance is the total thinking time each player gets for a whole game.
const GameAllowance = 180 * time.Second

// MaxSearchDepth bounds iterative deepening.
const MaxSearchDepth = 64

// TableSize is the number of transposition table slots.
const TableSize = 1 << 16

// MAX_TURNS ends the game as a draw or on score.
const MAX_TURNS = game.MaxTurns
