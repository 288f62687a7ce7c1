package agent

import (
	"context"

	"lukechampine.com/frand"

	"github.com/domino14/connectfour/alphabeta"
	"github.com/domino14/connectfour/board"
)

// RandomAgent plays a uniformly random legal column.
type RandomAgent struct{}

func (a *RandomAgent) Name() string {
	return RandomName
}

func (a *RandomAgent) GenerateMove(ctx context.Context, pos board.Position, pl board.Player) (int, error) {
	cols := pos.LegalColumns()
	if len(cols) == 0 {
		return 0, alphabeta.ErrNoLegalColumns
	}
	return cols[frand.Intn(len(cols))], nil
}
