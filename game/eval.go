package game

import "fmt"

// Evaluate scores a board from color's perspective; higher is better for color. Implementations
// must be pure functions of the board and defined for terminal boards too.
type Evaluate func(b *Board, color PlayerColor) float64

// WinScore is the score of a finished game won by the evaluated color.
const WinScore = 1_000_000.0

const (
	homeWeight     = 100.0
	distanceWeight = 1.0
	mobilityWeight = 0.5
	padWeight      = 0.25
)

// EvaluateProgress rewards own tokens on the goal row and penalises the remaining distance of own
// tokens, counting opponent tokens on their goal row against color.
func EvaluateProgress(b *Board, color PlayerColor) float64 {
	if score, ok := terminalScore(b, color); ok {
		return score
	}
	mine := featuresOf(b, color)
	theirs := featuresOf(b, color.Opponent())
	return homeWeight*float64(mine.home-theirs.home) - distanceWeight*float64(mine.distance)
}

// EvaluateMobility is EvaluateProgress made symmetric, plus a small bonus for local mobility and
// for free pads ahead of own tokens.
func EvaluateMobility(b *Board, color PlayerColor) float64 {
	if score, ok := terminalScore(b, color); ok {
		return score
	}
	return featuresOf(b, color).value() - featuresOf(b, color.Opponent()).value()
}

// EvaluateGreedy only counts how far color's tokens have advanced. Used as a weak baseline.
func EvaluateGreedy(b *Board, color PlayerColor) float64 {
	if score, ok := terminalScore(b, color); ok {
		return score
	}
	f := featuresOf(b, color)
	return homeWeight*float64(f.home) - distanceWeight*float64(f.distance)
}

var evaluators = map[string]Evaluate{
	"progress": EvaluateProgress,
	"mobility": EvaluateMobility,
	"greedy":   EvaluateGreedy,
}

// EvaluatorByName looks up one of the built-in evaluation functions.
func EvaluatorByName(name string) (Evaluate, error) {
	evaluate, ok := evaluators[name]
	if !ok {
		return nil, fmt.Errorf("unknown evaluator %q", name)
	}
	return evaluate, nil
}

func terminalScore(b *Board, color PlayerColor) (float64, bool) {
	if !b.IsTerminal() {
		return 0, false
	}
	winner, ok := b.Winner()
	switch {
	case !ok:
		return 0, true
	case winner == color:
		return WinScore, true
	default:
		return -WinScore, true
	}
}

type features struct {
	home      int
	distance  int
	mobility  int
	padsAhead int
}

func (f features) value() float64 {
	return homeWeight*float64(f.home) -
		distanceWeight*float64(f.distance) +
		mobilityWeight*float64(f.mobility) +
		padWeight*float64(f.padsAhead)
}

func featuresOf(b *Board, color PlayerColor) features {
	var f features
	goal := color.GoalRow()
	for _, token := range b.Tokens(color) {
		if token.R == goal {
			f.home++
			continue
		}
		f.distance += abs(goal - token.R)
		for _, d := range LegalDirections(color) {
			next, err := token.Add(d)
			if err != nil {
				continue
			}
			switch s := b.cell(next); {
			case s.IsFreePad():
				f.mobility++
				if dr, _ := d.Vector(); dr == color.Forward() {
					f.padsAhead++
				}
			case s.IsOccupied():
				if land, err := next.Add(d); err == nil && b.cell(land).IsFreePad() {
					f.mobility++
				}
			}
		}
	}
	return f
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
