// Package alphabeta picks Connect-Four moves with a depth-limited minimax
// search and alpha-beta pruning.
package alphabeta

import (
	"context"

	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/equity"
)

// thanks Wikipedia:
/**function alphabeta(node, depth, α, β, maximizingPlayer) is
    if depth = 0 or node is a terminal node then
        return the heuristic value of node
    if maximizingPlayer then
        value := −∞
        for each child of node do
            value := max(value, alphabeta(child, depth − 1, α, β, FALSE))
            α := max(α, value)
            if α ≥ β then
                break (* β cut-off *)
        return value
    else
        value := +∞
        for each child of node do
            value := min(value, alphabeta(child, depth − 1, α, β, TRUE))
            β := min(β, value)
            if α ≥ β then
                break (* α cut-off *)
        return value
(* Initial call *)
alphabeta(origin, depth, −∞, +∞, TRUE)
**/

const (
	// Infinity is 10 million, well above the win sentinel.
	Infinity = 10000000
	// DefaultDepth is how many plies ChooseMove looks ahead.
	DefaultDepth = 4
)

// ChooseMove returns the best column for pl using the default evaluator.
// Ties go to the lowest column. pos must have at least one legal column.
func ChooseMove(pos board.Position, pl board.Player, depth int) int {
	s := NewSolver(equity.NewWindowEvaluator(equity.DefaultWeights))
	s.SetDepth(depth)
	res, err := s.Solve(context.Background(), pos, pl)
	if err != nil {
		// Only a done context can fail a search.
		panic(err)
	}
	return res.Column
}

// Evaluate runs the pruned search with the default evaluator. Player1 is
// the maximizer; swap the position first to search for Player2.
func Evaluate(pos board.Position, depth, α, β int, maximizing bool) int {
	s := NewSolver(equity.NewWindowEvaluator(equity.DefaultWeights))
	v, _ := s.Evaluate(context.Background(), pos, depth, α, β, maximizing)
	return v
}

// Evaluate is the recursive search. Player1 is always the maximizer and
// moves at maximizing nodes. Returned values are fail-soft: a value at or
// below the original α is an upper bound, one at or above β a lower bound.
func (s *Solver) Evaluate(ctx context.Context, pos board.Position, depth, α, β int,
	maximizing bool) (int, error) {
	var pv PVLine
	return s.alphabeta(ctx, pos, depth, α, β, maximizing, &pv)
}

func (s *Solver) alphabeta(ctx context.Context, pos board.Position, depth, α, β int,
	maximizing bool, pv *PVLine) (int, error) {

	s.nodes.Add(1)
	if depth <= 0 || pos.IsTerminal() {
		return s.evaluator.Evaluate(pos, board.Player1), nil
	}

	onTurn := board.Player1
	value := -Infinity
	if !maximizing {
		onTurn = board.Player2
		value = Infinity
	}
	childPV := PVLine{}

	for _, col := range pos.LegalColumns() {
		if err := ctx.Err(); err != nil {
			return value, err
		}
		child := pos.MustApply(col, onTurn)
		v, err := s.alphabeta(ctx, child, depth-1, α, β, !maximizing, &childPV)
		if err != nil {
			return value, err
		}
		if maximizing {
			if v > value {
				value = v
				pv.Update(col, childPV, v)
			}
			α = max(α, value)
		} else {
			if v < value {
				value = v
				pv.Update(col, childPV, v)
			}
			β = min(β, value)
		}
		childPV.Clear()
		if !s.disablePruning && α >= β {
			break
		}
	}
	return value, nil
}
