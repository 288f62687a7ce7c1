package equity

import (
	"github.com/domino14/connectfour/board"
)

const (
	// WinScore is returned for a won position. It is larger in magnitude
	// than any heuristic sum, so a forced win always beats a good-looking
	// position.
	WinScore  = 100000
	DrawScore = 0
)

// Evaluator scores a position from the point of view of the maximizing
// player. Positive is good for the maximizer.
type Evaluator interface {
	Evaluate(pos board.Position, maximizer board.Player) int
}
