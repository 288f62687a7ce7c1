package board

import (
	"fmt"
	"strings"
	"unicode"
)

// FromDisplayText parses the output of ToDisplayText back into a Position.
// Blank lines and surrounding whitespace are ignored; the column footer is
// optional. This is handy for reproducing a position copied out of a log.
func FromDisplayText(text string) (Position, error) {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	if len(lines) > 0 && lines[len(lines)-1] == footerLine {
		lines = lines[:len(lines)-1]
	}
	if len(lines) != Rows+2 {
		return Position{}, fmt.Errorf("%w: expected %d board lines, got %d",
			ErrBadPosition, Rows+2, len(lines))
	}
	if lines[0] != borderLine || lines[len(lines)-1] != borderLine {
		return Position{}, fmt.Errorf("%w: missing border", ErrBadPosition)
	}
	var fields [2]uint64
	for i, line := range lines[1 : Rows+1] {
		row := Rows - 1 - i
		if len(line) != len(borderLine) || line[0] != '|' || line[len(line)-1] != '|' {
			return Position{}, fmt.Errorf("%w: malformed row %q", ErrBadPosition, line)
		}
		for col := 0; col < Columns; col++ {
			b := uint64(1) << (col*ColumnBits + row)
			switch line[2+2*col] {
			case Player1Symbol:
				fields[0] |= b
			case Player2Symbol:
				fields[1] |= b
			case NoPlayerSymbol:
			default:
				return Position{}, fmt.Errorf("%w: unknown symbol %q in row %d",
					ErrBadPosition, line[2+2*col], row)
			}
		}
	}
	return FromBits(fields[0], fields[1])
}

// FromMoves plays a sequence of column digits, starting with Player1, and
// returns the resulting position. Whitespace is ignored.
func FromMoves(moves string) (Position, error) {
	pos := Empty()
	pl := Player1
	for i, c := range moves {
		if unicode.IsSpace(c) {
			continue
		}
		if c < '0' || c >= '0'+Columns {
			return Position{}, fmt.Errorf("%w: bad character %q at index %d", ErrIllegalMove, c, i)
		}
		if pos.IsTerminal() {
			return Position{}, fmt.Errorf("%w: game already over at index %d", ErrIllegalMove, i)
		}
		var err error
		pos, err = pos.Apply(int(c-'0'), pl)
		if err != nil {
			return Position{}, fmt.Errorf("at index %d: %w", i, err)
		}
		pl = pl.Opponent()
	}
	return pos, nil
}
