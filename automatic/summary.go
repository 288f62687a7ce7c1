package automatic

import (
	"fmt"
	"strings"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/cespare/xxhash"
	"github.com/samber/lo"

	"github.com/domino14/connectfour/stats"
)

// Summary tallies a batch of automatic games.
type Summary struct {
	Players [2]string
	Games   int
	Wins    [2]int
	Draws   int
	// FirstMoverWins counts games won by whoever moved first.
	FirstMoverWins int

	rates   [2]stats.WinRate
	length  stats.Statistic
	lengths []float64
	// distinct holds a hash of every move sequence seen.
	distinct map[uint64]struct{}
}

func NewSummary(players [2]string) *Summary {
	return &Summary{Players: players, distinct: map[uint64]struct{}{}}
}

// Add records one finished game.
func (s *Summary) Add(r GameResult) {
	s.Games++
	s.length.Push(float64(r.Plies))
	s.lengths = append(s.lengths, float64(r.Plies))
	s.distinct[xxhash.Sum64String(r.Moves)] = struct{}{}
	switch r.Winner {
	case -1:
		s.Draws++
		s.rates[0].AddDraw()
		s.rates[1].AddDraw()
	default:
		s.Wins[r.Winner]++
		s.rates[r.Winner].AddWin()
		s.rates[1-r.Winner].AddLoss()
		if r.Winner == r.First {
			s.FirstMoverWins++
		}
	}
}

// WinRate returns the tally for the agent at index i.
func (s *Summary) WinRate(i int) *stats.WinRate {
	return &s.rates[i]
}

// DistinctGames counts the different move sequences played. Two
// deterministic agents with alternating first moves only ever play two.
func (s *Summary) DistinctGames() int {
	return len(s.distinct)
}

// MeanLength is the average number of plies per game.
func (s *Summary) MeanLength() float64 {
	return s.length.Mean()
}

func (s *Summary) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Games played: %d (draws: %d, first mover won: %d, distinct: %d)\n",
		s.Games, s.Draws, s.FirstMoverWins, len(s.distinct))
	for i, name := range s.Players {
		fmt.Fprintf(&sb, "%-12s %s\n", name, s.rates[i].String())
	}
	fmt.Fprintf(&sb, "Game length: mean %.2f, stdev %.2f, min %.0f, max %.0f plies\n",
		s.length.Mean(), s.length.Stdev(), s.length.Min(), s.length.Max())
	// A histogram needs a spread of values to bin.
	distinct := lo.Uniq(s.lengths)
	if len(distinct) > 1 {
		sb.WriteString("Game length histogram:\n")
		hist := histogram.Hist(10, s.lengths)
		if err := histogram.Fprint(&sb, hist, histogram.Linear(40)); err != nil {
			fmt.Fprintf(&sb, "(histogram error: %v)\n", err)
		}
	}
	return sb.String()
}
