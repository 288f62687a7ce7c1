package equity

import (
	"github.com/domino14/connectfour/board"
)

// NumWindows is the number of length-4 lines on the board: 24 horizontal,
// 21 vertical and 12 for each diagonal.
const NumWindows = 69

// windows holds one bitmask per length-4 line, in the board's bit layout.
var windows = genWindows()

func cellBit(row, col int) uint64 {
	return uint64(1) << (col*board.ColumnBits + row)
}

func genWindows() [NumWindows]uint64 {
	var ws [NumWindows]uint64
	i := 0
	add := func(row, col, dr, dc int) {
		var m uint64
		for k := 0; k < board.ToWin; k++ {
			m |= cellBit(row+k*dr, col+k*dc)
		}
		ws[i] = m
		i++
	}
	for row := 0; row < board.Rows; row++ {
		for col := 0; col <= board.Columns-board.ToWin; col++ {
			add(row, col, 0, 1)
		}
	}
	for col := 0; col < board.Columns; col++ {
		for row := 0; row <= board.Rows-board.ToWin; row++ {
			add(row, col, 1, 0)
		}
	}
	for row := 0; row <= board.Rows-board.ToWin; row++ {
		for col := 0; col <= board.Columns-board.ToWin; col++ {
			add(row, col, 1, 1)
			add(row+board.ToWin-1, col, -1, 1)
		}
	}
	return ws
}
