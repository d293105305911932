// Package render draws boards for a terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"

	"freckers/game"
)

// ANSI colors of the cell states.
const (
	redColor  = "1"
	blueColor = "4"
	padColor  = "2"
	dimColor  = "8"
)

type Renderer struct {
	out *termenv.Output
}

// New returns a renderer writing to w. Colors follow what the terminal behind w supports.
func New(w io.Writer, options ...termenv.OutputOption) *Renderer {
	return &Renderer{out: termenv.NewOutput(w, options...)}
}

// Board writes b with row and column labels, followed by whose turn it is.
func (r *Renderer) Board(b *game.Board) error {
	var sb strings.Builder
	sb.WriteString("  ")
	for c := 0; c < game.BoardN; c++ {
		fmt.Fprintf(&sb, " %d", c)
	}
	sb.WriteByte('\n')

	cells := b.Cells()
	for row := 0; row < game.BoardN; row++ {
		fmt.Fprintf(&sb, "%d ", row)
		for c := 0; c < game.BoardN; c++ {
			sb.WriteByte(' ')
			sb.WriteString(r.cell(cells[row*game.BoardN+c]))
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "turn %d, %s to move\n", b.TurnCount(), r.color(b.Turn()))

	_, err := io.WriteString(r.out, sb.String())
	return err
}

// Line writes a single message, the player colored.
func (r *Renderer) Line(color game.PlayerColor, format string, args ...any) error {
	_, err := fmt.Fprintf(r.out, "%s %s\n", r.color(color), fmt.Sprintf(format, args...))
	return err
}

func (r *Renderer) cell(s game.CellState) string {
	style := r.out.String(s.String())
	switch s {
	case game.RedFrog:
		style = style.Foreground(r.out.Color(redColor)).Bold()
	case game.BlueFrog:
		style = style.Foreground(r.out.Color(blueColor)).Bold()
	case game.LilyPad:
		style = style.Foreground(r.out.Color(padColor))
	default:
		style = style.Foreground(r.out.Color(dimColor))
	}
	return style.String()
}

func (r *Renderer) color(color game.PlayerColor) string {
	style := r.out.String(color.String())
	switch color {
	case game.Red:
		style = style.Foreground(r.out.Color(redColor))
	case game.Blue:
		style = style.Foreground(r.out.Color(blueColor))
	}
	return style.String()
}
