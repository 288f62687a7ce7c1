// Package board contains the bitboard representation of a Connect Four
// position, along with move generation and terminal-state detection.
package board

import (
	"errors"
	"fmt"
	"math/bits"
)

// The board is 7 columns by 6 rows. Each column gets 7 bits in a field; the
// seventh (guard) bit is never set, which keeps shifts from leaking from one
// column into the next. Bit index = column*ColumnBits + row, row 0 at the
// bottom.
//
//	  6 13 20 27 34 41 48   <- guard row
//	 ---------------------
//	| 5 12 19 26 33 40 47 |
//	| 4 11 18 25 32 39 46 |
//	| 3 10 17 24 31 38 45 |
//	| 2  9 16 23 30 37 44 |
//	| 1  8 15 22 29 36 43 |
//	| 0  7 14 21 28 35 42 |
//	 ---------------------
const (
	Rows       = 6
	Columns    = 7
	ColumnBits = Rows + 1
	NumCells   = Rows * Columns
	ToWin      = 4
)

const (
	// bottomMask has the bottom cell of every column set.
	bottomMask uint64 = 0x0040810204081
	// fullMask has all 42 playable cells set and every guard bit clear.
	fullMask uint64 = bottomMask * ((1 << Rows) - 1)
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrBadPosition = errors.New("invalid position")
)

// Player identifies one of the two sides. NoPlayer is only ever returned by
// cell queries; it is never stored in a Position.
type Player int8

const (
	NoPlayer Player = iota
	Player1
	Player2
)

// Opponent returns the other side.
func (p Player) Opponent() Player {
	switch p {
	case Player1:
		return Player2
	case Player2:
		return Player1
	}
	return NoPlayer
}

func (p Player) String() string {
	switch p {
	case Player1:
		return "player1"
	case Player2:
		return "player2"
	}
	return "none"
}

func (p Player) idx() int {
	if p != Player1 && p != Player2 {
		panic(fmt.Sprintf("not a player: %d", p))
	}
	return int(p) - 1
}

// Position is an immutable board state. It is a plain value; copying it is
// cheap and every move produces a new one.
type Position struct {
	fields [2]uint64
}

// Empty returns the starting position.
func Empty() Position {
	return Position{}
}

// FromBits builds a position from raw player fields. The fields must be
// disjoint, stay within the playable cells, and respect gravity.
func FromBits(p1, p2 uint64) (Position, error) {
	if p1&p2 != 0 {
		return Position{}, fmt.Errorf("%w: players share a cell", ErrBadPosition)
	}
	mask := p1 | p2
	if mask&^fullMask != 0 {
		return Position{}, fmt.Errorf("%w: guard bit set", ErrBadPosition)
	}
	for col := 0; col < Columns; col++ {
		colBits := (mask >> (col * ColumnBits)) & columnMask(0)
		// bottom-packed columns look like 0b0..01..1
		if colBits&(colBits+1) != 0 {
			return Position{}, fmt.Errorf("%w: floating piece in column %d", ErrBadPosition, col)
		}
	}
	return Position{fields: [2]uint64{p1, p2}}, nil
}

func columnMask(col int) uint64 {
	return ((1 << Rows) - 1) << (col * ColumnBits)
}

func bottom(col int) uint64 {
	return 1 << (col * ColumnBits)
}

func top(col int) uint64 {
	return 1 << (col*ColumnBits + Rows - 1)
}

// Bits returns the occupancy field for the given player.
func (p Position) Bits(pl Player) uint64 {
	return p.fields[pl.idx()]
}

// Mask returns all occupied cells.
func (p Position) Mask() uint64 {
	return p.fields[0] | p.fields[1]
}

// IsLegal returns whether a piece can be dropped in col.
func (p Position) IsLegal(col int) bool {
	if col < 0 || col >= Columns {
		return false
	}
	return p.Mask()&top(col) == 0
}

// Apply drops a piece for pl into col and returns the resulting position.
// The receiver is never modified.
func (p Position) Apply(col int, pl Player) (Position, error) {
	if col < 0 || col >= Columns {
		return p, fmt.Errorf("%w: column %d out of range", ErrIllegalMove, col)
	}
	if !p.IsLegal(col) {
		return p, fmt.Errorf("%w: column %d is full", ErrIllegalMove, col)
	}
	return p.apply(col, pl), nil
}

// apply skips the legality checks; the search only calls it on columns
// taken from LegalColumns.
func (p Position) apply(col int, pl Player) Position {
	mask := p.Mask()
	newMask := mask | (mask + bottom(col))
	p.fields[pl.idx()] |= newMask ^ mask
	return p
}

// MustApply is Apply for callers that have already checked legality.
func (p Position) MustApply(col int, pl Player) Position {
	if !p.IsLegal(col) {
		panic(fmt.Sprintf("illegal move in column %d", col))
	}
	return p.apply(col, pl)
}

// LegalColumns returns the playable columns in ascending order.
func (p Position) LegalColumns() []int {
	cols := make([]int, 0, Columns)
	mask := p.Mask()
	for col := 0; col < Columns; col++ {
		if mask&top(col) == 0 {
			cols = append(cols, col)
		}
	}
	return cols
}

// At returns the occupant of a cell. Row 0 is the bottom row.
func (p Position) At(row, col int) Player {
	if row < 0 || row >= Rows || col < 0 || col >= Columns {
		return NoPlayer
	}
	b := uint64(1) << (col*ColumnBits + row)
	switch {
	case p.fields[0]&b != 0:
		return Player1
	case p.fields[1]&b != 0:
		return Player2
	}
	return NoPlayer
}

// Height returns how many pieces are in col.
func (p Position) Height(col int) int {
	return bits.OnesCount64(p.Mask() & columnMask(col))
}

// NumPieces returns the number of pieces on the board.
func (p Position) NumPieces() int {
	return bits.OnesCount64(p.Mask())
}

// PlayerOnTurn infers the side to move, assuming Player1 moved first.
func (p Position) PlayerOnTurn() Player {
	if bits.OnesCount64(p.fields[0]) > bits.OnesCount64(p.fields[1]) {
		return Player2
	}
	return Player1
}

// Swapped returns the position with the two players exchanged.
func (p Position) Swapped() Position {
	return Position{fields: [2]uint64{p.fields[1], p.fields[0]}}
}

func (p Position) String() string {
	return fmt.Sprintf("<p1:%#013x p2:%#013x>", p.fields[0], p.fields[1])
}
