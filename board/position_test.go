package board

import (
	"errors"
	"testing"

	"github.com/matryer/is"
	"lukechampine.com/frand"
)

const drawnBoard = `
|===============|
| O O X O O X O |
| O O X O O X O |
| O O X O O X O |
| X X O X X O X |
| X X O X X O X |
| X X O X X O X |
|===============|
| 0 1 2 3 4 5 6 |
`

// randomPosition plays up to n random legal moves, stopping early if the
// game ends.
func randomPosition(n int) Position {
	pos := Empty()
	pl := Player1
	for i := 0; i < n; i++ {
		if pos.IsTerminal() {
			break
		}
		cols := pos.LegalColumns()
		pos = pos.MustApply(cols[frand.Intn(len(cols))], pl)
		pl = pl.Opponent()
	}
	return pos
}

func TestEmpty(t *testing.T) {
	is := is.New(t)
	pos := Empty()
	is.Equal(pos.LegalColumns(), []int{0, 1, 2, 3, 4, 5, 6})
	is.Equal(pos.Mask(), uint64(0))
	is.Equal(pos.NumPieces(), 0)
	is.Equal(pos.PlayerOnTurn(), Player1)
	is.Equal(pos.State(Player1), StillPlaying)
	is.Equal(pos.State(Player2), StillPlaying)
}

func TestApplyStacksPieces(t *testing.T) {
	is := is.New(t)
	pos := Empty()
	var err error
	pos, err = pos.Apply(3, Player1)
	is.NoErr(err)
	pos, err = pos.Apply(3, Player2)
	is.NoErr(err)
	pos, err = pos.Apply(4, Player1)
	is.NoErr(err)

	is.Equal(pos.At(0, 3), Player1)
	is.Equal(pos.At(1, 3), Player2)
	is.Equal(pos.At(0, 4), Player1)
	is.Equal(pos.At(2, 3), NoPlayer)
	is.Equal(pos.Height(3), 2)
	is.Equal(pos.Height(4), 1)
	is.Equal(pos.Height(0), 0)
	is.Equal(pos.NumPieces(), 3)
	is.Equal(pos.PlayerOnTurn(), Player2)
	is.Equal(pos.Bits(Player1), uint64(1<<21|1<<28))
	is.Equal(pos.Bits(Player2), uint64(1<<22))
}

func TestApplyDoesNotMutate(t *testing.T) {
	is := is.New(t)
	for i := 0; i < 200; i++ {
		pos := randomPosition(frand.Intn(NumCells))
		p1, p2 := pos.Bits(Player1), pos.Bits(Player2)
		for _, col := range pos.LegalColumns() {
			child, err := pos.Apply(col, pos.PlayerOnTurn())
			is.NoErr(err)
			is.Equal(child.NumPieces(), pos.NumPieces()+1)
			is.Equal(pos.Bits(Player1), p1)
			is.Equal(pos.Bits(Player2), p2)
		}
	}
}

func TestFilledColumnIsIllegal(t *testing.T) {
	is := is.New(t)
	pos := Empty()
	pl := Player1
	for i := 0; i < Rows; i++ {
		is.True(pos.IsLegal(0))
		var err error
		pos, err = pos.Apply(0, pl)
		is.NoErr(err)
		pl = pl.Opponent()
	}
	is.True(!pos.IsLegal(0))
	is.Equal(pos.LegalColumns(), []int{1, 2, 3, 4, 5, 6})

	after, err := pos.Apply(0, pl)
	is.True(errors.Is(err, ErrIllegalMove))
	is.Equal(after, pos)
}

func TestOutOfRangeIsIllegal(t *testing.T) {
	is := is.New(t)
	pos := Empty()
	for _, col := range []int{-1, 7, 100} {
		is.True(!pos.IsLegal(col))
		_, err := pos.Apply(col, Player1)
		is.True(errors.Is(err, ErrIllegalMove))
	}
}

func TestApplyThenLegal(t *testing.T) {
	// A column stays legal after a move only if it had room for at least
	// two more pieces before the move.
	is := is.New(t)
	for i := 0; i < 300; i++ {
		pos := randomPosition(frand.Intn(NumCells))
		for _, col := range pos.LegalColumns() {
			room := Rows - pos.Height(col)
			child := pos.MustApply(col, pos.PlayerOnTurn())
			is.Equal(child.IsLegal(col), room >= 2)
		}
	}
}

func TestLegalColumnsComplementsFullColumns(t *testing.T) {
	is := is.New(t)
	for i := 0; i < 300; i++ {
		pos := randomPosition(frand.Intn(NumCells + 1))
		legal := pos.LegalColumns()
		is.True(len(legal) <= Columns)
		var expected []int
		for col := 0; col < Columns; col++ {
			if pos.Height(col) < Rows {
				expected = append(expected, col)
			}
		}
		if expected == nil {
			is.Equal(len(legal), 0)
			continue
		}
		is.Equal(legal, expected)
	}
}

func TestFromBitsRejectsBadFields(t *testing.T) {
	is := is.New(t)
	cases := []struct {
		name   string
		p1, p2 uint64
	}{
		{"overlap", 1, 1},
		{"guard", 1 << 6, 0},
		{"floating", 1 << 1, 0},
		{"floating-over-opponent", 1 << 2, 1},
		{"past-last-column", 0, 1 << 49},
	}
	for _, tc := range cases {
		_, err := FromBits(tc.p1, tc.p2)
		is.True(errors.Is(err, ErrBadPosition)) // tc.name
	}
	_, err := FromBits(0b11, 0b100)
	is.NoErr(err)
}

func TestSwapped(t *testing.T) {
	is := is.New(t)
	pos, err := FromMoves("3344")
	is.NoErr(err)
	sw := pos.Swapped()
	is.Equal(sw.Bits(Player1), pos.Bits(Player2))
	is.Equal(sw.Bits(Player2), pos.Bits(Player1))
	is.Equal(sw.Swapped(), pos)
}

func TestPlayerOpponent(t *testing.T) {
	is := is.New(t)
	is.Equal(Player1.Opponent(), Player2)
	is.Equal(Player2.Opponent(), Player1)
	is.Equal(NoPlayer.Opponent(), NoPlayer)
}
