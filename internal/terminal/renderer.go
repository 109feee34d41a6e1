package terminal

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/dropfour/connect4/internal/domain"
)

const piece = "●"

// Renderer draws a game from its events. It keeps its own copy of the grid,
// built only from piece_placed events.
type Renderer struct {
	out    io.Writer
	board  domain.Board
	pieces map[domain.PlayerID]*color.Color
	notice *color.Color
	banner *color.Color
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out: out,
		pieces: map[domain.PlayerID]*color.Color{
			domain.Player1: color.New(color.FgRed, color.Bold),
			domain.Player2: color.New(color.FgYellow, color.Bold),
		},
		notice: color.New(color.FgCyan),
		banner: color.New(color.FgGreen, color.Bold),
	}
}

func (r *Renderer) OnEvent(e domain.Event) {
	switch e.Type {
	case domain.EventPiecePlaced:
		r.board[e.Row][e.Column] = e.Player
		r.Draw()
	case domain.EventColumnFull:
		r.notice.Fprintln(r.out, e.Message())
	case domain.EventTurnChanged:
		// the move prompt names the player
	case domain.EventGameWon, domain.EventGameTied:
		r.banner.Fprintln(r.out, e.Message())
	}
}

func (r *Renderer) playerLabel(p domain.PlayerID) string {
	c, ok := r.pieces[p]
	if !ok {
		return p.String()
	}
	return c.Sprint(piece) + " " + p.String()
}

// Draw writes the grid with the column numbers players type.
func (r *Renderer) Draw() {
	var sb strings.Builder
	for column := 1; column <= domain.Columns; column++ {
		fmt.Fprintf(&sb, " %d", column)
	}
	sb.WriteByte('\n')

	for row := 0; row < domain.Rows; row++ {
		sb.WriteByte('|')
		for column := 0; column < domain.Columns; column++ {
			if c, ok := r.pieces[r.board[row][column]]; ok {
				sb.WriteString(c.Sprint(piece))
			} else {
				sb.WriteByte('.')
			}
			sb.WriteByte('|')
		}
		sb.WriteByte('\n')
	}
	fmt.Fprint(r.out, sb.String())
}
