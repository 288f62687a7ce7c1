package board

import (
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"
)

// bruteForceWin scans every cell and direction for four in a row.
func bruteForceWin(pos Position, pl Player) bool {
	dirs := [][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}
	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			for _, d := range dirs {
				n := 0
				for k := 0; k < ToWin; k++ {
					if pos.At(row+d[0]*k, col+d[1]*k) != pl {
						break
					}
					n++
				}
				if n == ToWin {
					return true
				}
			}
		}
	}
	return false
}

func TestIsWinMatchesBruteForce(t *testing.T) {
	is := is.New(t)
	for i := 0; i < 2000; i++ {
		pos := randomPosition(frand.Intn(NumCells + 1))
		is.Equal(pos.IsWin(Player1), bruteForceWin(pos, Player1))
		is.Equal(pos.IsWin(Player2), bruteForceWin(pos, Player2))
	}
}

func TestIsWinArbitraryFields(t *testing.T) {
	// Raw random fields are not reachable positions, but the shift folding
	// must still agree with a scan as long as guard bits stay clear.
	is := is.New(t)
	for i := 0; i < 2000; i++ {
		p1 := frand.Uint64n(1<<49) & fullMask
		p2 := frand.Uint64n(1<<49) & fullMask &^ p1
		pos := Position{fields: [2]uint64{p1, p2}}
		is.Equal(pos.IsWin(Player1), bruteForceWin(pos, Player1))
		is.Equal(pos.IsWin(Player2), bruteForceWin(pos, Player2))
	}
}

func TestWinDirections(t *testing.T) {
	is := is.New(t)
	cases := []struct {
		name   string
		moves  string
		winner Player
	}{
		{"bottom-row", "0011223", Player1},
		{"vertical", "0101010", Player1},
		{"diagonal-up", "01123223533", Player1},
		{"diagonal-down", "65543443133", Player1},
		{"player2-vertical", "60605060", Player2},
	}
	for _, tc := range cases {
		pos, err := FromMoves(tc.moves)
		is.NoErr(err) // tc.name
		is.True(pos.IsWin(tc.winner))
		is.True(!pos.IsWin(tc.winner.Opponent()))
		is.Equal(pos.State(tc.winner), Win)
		is.True(pos.IsTerminal())
	}
}

func TestNoWinAcrossColumnBoundary(t *testing.T) {
	// Top three of column 0 and bottom three of column 1 would form a run of
	// six if the guard bit at 6 did not sit between them.
	is := is.New(t)
	pos := Position{fields: [2]uint64{1<<3 | 1<<4 | 1<<5 | 1<<7 | 1<<8 | 1<<9, 0}}
	is.True(!pos.IsWin(Player1))
	is.True(!bruteForceWin(pos, Player1))
}

func TestDraw(t *testing.T) {
	is := is.New(t)
	pos, err := FromDisplayText(drawnBoard)
	is.NoErr(err)
	is.Equal(pos.NumPieces(), NumCells)
	is.True(!pos.IsWin(Player1))
	is.True(!pos.IsWin(Player2))
	is.True(pos.IsDraw())
	is.Equal(pos.State(Player1), Draw)
	is.Equal(pos.State(Player2), Draw)
	is.Equal(len(pos.LegalColumns()), 0)
}

func TestWinOnFullBoardIsWin(t *testing.T) {
	is := is.New(t)
	pos, err := FromBits(fullMask, 0)
	is.NoErr(err)
	is.Equal(pos.State(Player1), Win)
	is.Equal(pos.State(Player2), Draw)
}
