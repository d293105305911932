package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"freckers/game"
)

func TestBoard(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		var buf bytes.Buffer
		r := New(&buf, termenv.WithProfile(termenv.Ascii))

		require.NoError(t, r.Board(game.NewBoard()))

		lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
		require.Len(t, lines, game.BoardN+2)
		require.Equal(t, "   0 1 2 3 4 5 6 7", lines[0])
		require.Equal(t, "0  * R R R R R R *", lines[1])
		require.Equal(t, "1  . * * * * * * .", lines[2])
		require.Equal(t, "7  * B B B B B B *", lines[8])
		require.Equal(t, "turn 0, RED to move", lines[9])
	})

	t.Run("colored", func(t *testing.T) {
		var buf bytes.Buffer
		r := New(&buf, termenv.WithProfile(termenv.ANSI))

		require.NoError(t, r.Board(game.NewBoard()))
		require.Contains(t, buf.String(), "\x1b[", "expected ANSI escape sequences")
	})
}

func TestLine(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, termenv.WithProfile(termenv.Ascii))

	require.NoError(t, r.Line(game.Blue, "plays %s", "GROW"))
	require.Equal(t, "BLUE plays GROW\n", buf.String())
}
