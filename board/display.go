package board

import (
	"strings"
)

const (
	Player1Symbol  = 'X'
	Player2Symbol  = 'O'
	NoPlayerSymbol = ' '

	borderLine = "|===============|"
	footerLine = "| 0 1 2 3 4 5 6 |"
)

// Symbol returns the display rune for the player.
func (p Player) Symbol() rune {
	switch p {
	case Player1:
		return Player1Symbol
	case Player2:
		return Player2Symbol
	}
	return NoPlayerSymbol
}

// ToDisplayText renders the board with the bottom row last, e.g.
//
//	|===============|
//	|               |
//	|               |
//	|     X X       |
//	|     O X X     |
//	|   O X O O     |
//	|   O O X X     |
//	|===============|
//	| 0 1 2 3 4 5 6 |
func (p Position) ToDisplayText() string {
	var sb strings.Builder
	sb.WriteString(borderLine)
	sb.WriteByte('\n')
	for row := Rows - 1; row >= 0; row-- {
		sb.WriteByte('|')
		for col := 0; col < Columns; col++ {
			sb.WriteByte(' ')
			sb.WriteRune(p.At(row, col).Symbol())
		}
		sb.WriteString(" |\n")
	}
	sb.WriteString(borderLine)
	sb.WriteByte('\n')
	sb.WriteString(footerLine)
	sb.WriteByte('\n')
	return sb.String()
}
