package equity

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/config"
)

// Weights are the per-window values used by the WindowEvaluator.
type Weights struct {
	// Four own pieces.
	Win int
	// Three own pieces and one empty cell.
	Three int
	// Two own pieces and two empty cells.
	Two int
	// Three opponent pieces and one empty cell. Applied independently of
	// the other three.
	OppThree int
}

var DefaultWeights = Weights{Win: 200, Three: 20, Two: 5, OppThree: -1000}

var ErrWeightsTooLarge = errors.New("window weights can outscore a win")

// MaxWeight is the largest weight magnitude for which no heuristic sum can
// reach WinScore. A window scores at most one weight.
const MaxWeight = (WinScore - 1) / NumWindows

// Validate checks that terminal sentinels still dominate every heuristic
// value.
func (w Weights) Validate() error {
	for _, v := range []int{w.Win, w.Three, w.Two, w.OppThree} {
		if v > MaxWeight || v < -MaxWeight {
			return fmt.Errorf("%w: %d is outside ±%d", ErrWeightsTooLarge, v, MaxWeight)
		}
	}
	return nil
}

// WeightsFromConfig reads the window weights from cfg.
func WeightsFromConfig(cfg *config.Config) (Weights, error) {
	w := Weights{
		Win:      cfg.GetInt(config.ConfigEvalWinWindow),
		Three:    cfg.GetInt(config.ConfigEvalThreeWindow),
		Two:      cfg.GetInt(config.ConfigEvalTwoWindow),
		OppThree: cfg.GetInt(config.ConfigEvalOppThreeWindow),
	}
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	return w, nil
}

// WindowEvaluator sums a score over every length-4 window on the board.
// Terminal positions get the fixed WinScore sentinels instead.
type WindowEvaluator struct {
	weights Weights
}

func NewWindowEvaluator(w Weights) *WindowEvaluator {
	return &WindowEvaluator{weights: w}
}

func (e *WindowEvaluator) Weights() Weights {
	return e.weights
}

// Evaluate implements Evaluator.
func (e *WindowEvaluator) Evaluate(pos board.Position, maximizer board.Player) int {
	if v, ok := Terminal(pos, maximizer); ok {
		return v
	}
	return e.Heuristic(pos, maximizer)
}

// Terminal returns the sentinel score of a finished game and true, or
// false if the game is still going.
func Terminal(pos board.Position, maximizer board.Player) (int, bool) {
	switch {
	case pos.IsWin(maximizer):
		return WinScore, true
	case pos.IsWin(maximizer.Opponent()):
		return -WinScore, true
	case pos.IsDraw():
		return DrawScore, true
	}
	return 0, false
}

// Heuristic is the raw window sum for pl, without checking for a finished
// game.
func (e *WindowEvaluator) Heuristic(pos board.Position, pl board.Player) int {
	own := pos.Bits(pl)
	opp := pos.Bits(pl.Opponent())
	v := 0
	for _, w := range windows {
		nOwn := bits.OnesCount64(own & w)
		nOpp := bits.OnesCount64(opp & w)
		nEmpty := board.ToWin - nOwn - nOpp
		switch {
		case nOwn == 4:
			v += e.weights.Win
		case nOwn == 3 && nEmpty >= 1:
			v += e.weights.Three
		case nOwn == 2 && nEmpty >= 2:
			v += e.weights.Two
		}
		if nOpp == 3 && nEmpty >= 1 {
			v += e.weights.OppThree
		}
	}
	return v
}
