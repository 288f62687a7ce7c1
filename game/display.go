package game

import (
	"fmt"
	"strings"

	"github.com/domino14/connectfour/board"
)

func addText(lines []string, row int, hpad int, text string) {
	if row >= len(lines) {
		return
	}
	lines[row] += strings.Repeat(" ", hpad) + text
}

func (g *Game) playerLine(pl board.Player) string {
	s := fmt.Sprintf("%c %s", pl.Symbol(), pl)
	if g.playing == PlayStatePlaying && g.onturn == pl {
		s += " <- to move"
	}
	return s
}

// ToDisplayText turns the current state of the game into a displayable
// string: the board with the players, turn and result beside it.
func (g *Game) ToDisplayText() string {
	bt := strings.TrimSuffix(g.pos.ToDisplayText(), "\n")
	bts := strings.Split(bt, "\n")
	hpadding := 3

	addText(bts, 1, hpadding, g.playerLine(board.Player1))
	addText(bts, 2, hpadding, g.playerLine(board.Player2))
	addText(bts, 4, hpadding, fmt.Sprintf("Turn %d", g.Turn()))
	if len(g.moves) > 0 {
		addText(bts, 5, hpadding, "Moves: "+g.MoveString())
	}
	if g.playing == PlayStateGameOver {
		result := "Game is over. Draw."
		if g.winner != board.NoPlayer {
			result = fmt.Sprintf("Game is over. %s wins.", g.winner)
		}
		addText(bts, 7, hpadding, result)
	}
	return strings.Join(bts, "\n") + "\n"
}
