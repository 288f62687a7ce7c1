package alphabeta

import (
	"fmt"
	"strings"
)

// PVLine is a principal variation: the columns of the best line of play
// found by the search, starting at the root.
type PVLine struct {
	Columns []int
	score   int
}

// Clear the principal variation line.
func (pvLine *PVLine) Clear() {
	pvLine.Columns = pvLine.Columns[:0]
}

// Update the principal variation line with a new best column, and the
// line of best play after it.
func (pvLine *PVLine) Update(col int, newPVLine PVLine, score int) {
	pvLine.Clear()
	pvLine.Columns = append(pvLine.Columns, col)
	pvLine.Columns = append(pvLine.Columns, newPVLine.Columns...)
	pvLine.score = score
}

func (pvLine PVLine) Score() int {
	return pvLine.score
}

func (pvLine PVLine) copy() PVLine {
	return PVLine{Columns: append([]int(nil), pvLine.Columns...), score: pvLine.score}
}

// MoveString returns the columns as a single digit string, e.g. "3342".
func (pvLine PVLine) MoveString() string {
	var sb strings.Builder
	for _, c := range pvLine.Columns {
		sb.WriteByte(byte('0' + c))
	}
	return sb.String()
}

func (pvLine PVLine) String() string {
	var s string
	s = fmt.Sprintf("PV; val %d\n", pvLine.score)
	for i, c := range pvLine.Columns {
		s += fmt.Sprintf("%d: column %d\n", i+1, c)
	}
	return s
}

// NLBString is String without line breaks.
func (pvLine PVLine) NLBString() string {
	var s string
	s = fmt.Sprintf("PV; val %d; ", pvLine.score)
	for i, c := range pvLine.Columns {
		s += fmt.Sprintf("%d: column %d; ", i+1, c)
	}
	return s
}
