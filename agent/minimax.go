package agent

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/connectfour/alphabeta"
	"github.com/domino14/connectfour/board"
)

// MinimaxAgent plays the column chosen by an alpha-beta search.
type MinimaxAgent struct {
	solver *alphabeta.Solver
	last   alphabeta.Result
}

func NewMinimaxAgent(s *alphabeta.Solver) *MinimaxAgent {
	return &MinimaxAgent{solver: s}
}

func (a *MinimaxAgent) Name() string {
	return fmt.Sprintf("%s:%d", MinimaxName, a.solver.Depth())
}

func (a *MinimaxAgent) Solver() *alphabeta.Solver {
	return a.solver
}

// LastResult is the search result behind the most recent move.
func (a *MinimaxAgent) LastResult() alphabeta.Result {
	return a.last
}

func (a *MinimaxAgent) GenerateMove(ctx context.Context, pos board.Position, pl board.Player) (int, error) {
	if len(pos.LegalColumns()) == 0 {
		return 0, alphabeta.ErrNoLegalColumns
	}
	res, err := a.solver.Solve(ctx, pos, pl)
	if err != nil {
		return 0, err
	}
	a.last = res
	log.Debug().Str("agent", a.Name()).Int("column", res.Column).
		Int("score", res.Score).Str("pv", res.PV.MoveString()).Msg("generated-move")
	return res.Column, nil
}
