package stats

import "fmt"

// WinRate tallies game results for one side. A draw counts as half a win.
type WinRate struct {
	Wins   int
	Draws  int
	Losses int
	stat   Statistic
}

func (w *WinRate) AddWin() {
	w.Wins++
	w.stat.Push(1)
}

func (w *WinRate) AddDraw() {
	w.Draws++
	w.stat.Push(0.5)
}

func (w *WinRate) AddLoss() {
	w.Losses++
	w.stat.Push(0)
}

func (w *WinRate) Games() int {
	return w.stat.Iterations()
}

// Percent returns the win percentage, 0 to 100.
func (w *WinRate) Percent() float64 {
	return 100 * w.stat.Mean()
}

// Interval returns the half-width, in percentage points, of the confidence
// interval around Percent.
func (w *WinRate) Interval(confidence float64) float64 {
	return 100 * Interval(&w.stat, confidence)
}

func (w *WinRate) String() string {
	return fmt.Sprintf("%d-%d-%d (%.2f%% ± %.2f%%)", w.Wins, w.Draws, w.Losses,
		w.Percent(), w.Interval(95))
}
