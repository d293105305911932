package searcher

import (
	"math"

	"golang.org/x/exp/slices"

	"freckers/game"
)

const (
	firstKey = math.MaxInt
	hintKey  = math.MaxInt - 1
	growKey  = 50
)

type ranked struct {
	action game.Action
	key    int
}

// orderActions sorts actions in place, best candidates first: first, then hint, then forward
// moves by progress and jump count, then Grow, then sideways moves. Equal keys keep generator
// order. Without heuristic only first is promoted.
func orderActions(b *game.Board, color game.PlayerColor, actions []game.Action, first, hint game.Action, heuristic bool) []game.Action {
	if !heuristic {
		return promote(actions, first)
	}
	rs := make([]ranked, len(actions))
	for i, action := range actions {
		rs[i] = ranked{action: action, key: actionKey(b, color, action)}
		switch {
		case first != nil && game.EqualActions(action, first):
			rs[i].key = firstKey
		case hint != nil && game.EqualActions(action, hint):
			rs[i].key = hintKey
		}
	}
	slices.SortStableFunc(rs, func(a, b ranked) int {
		switch {
		case a.key > b.key:
			return -1
		case a.key < b.key:
			return 1
		default:
			return 0
		}
	})
	for i, r := range rs {
		actions[i] = r.action
	}
	return actions
}

func actionKey(b *game.Board, color game.PlayerColor, action game.Action) int {
	move, ok := action.(game.MoveAction)
	if !ok {
		return growKey
	}
	dest, err := b.Destination(move)
	if err != nil {
		return math.MinInt
	}
	jumps := 0
	if dest.R-move.Origin.R > 1 || move.Origin.R-dest.R > 1 || len(move.Directions) > 1 {
		jumps = len(move.Directions)
	} else if dc := dest.C - move.Origin.C; dc > 1 || dc < -1 {
		jumps = 1
	}
	progress := (dest.R - move.Origin.R) * color.Forward()
	if progress > 0 {
		return 2*growKey + 10*progress + jumps
	}
	return jumps
}

// promote moves first to the front, keeping the order of the rest.
func promote(actions []game.Action, first game.Action) []game.Action {
	if first == nil {
		return actions
	}
	for i, action := range actions {
		if game.EqualActions(action, first) {
			copy(actions[1:i+1], actions[:i])
			actions[0] = action
			break
		}
	}
	return actions
}
