package board

// GameState is the state of the game from the point of view of the player
// who just moved.
type GameState int

const (
	StillPlaying GameState = iota
	Win
	Draw
)

func (s GameState) String() string {
	switch s {
	case StillPlaying:
		return "still-playing"
	case Win:
		return "win"
	case Draw:
		return "draw"
	}
	return "unknown"
}

// direction shifts: vertical, horizontal, and the two diagonals.
var directions = [4]uint{1, ColumnBits, ColumnBits - 1, ColumnBits + 1}

// connectedFour folds overlapping pairs: after the first AND every set bit
// starts a run of 2, after the second every set bit starts a run of 4.
func connectedFour(b uint64) bool {
	for _, s := range directions {
		m := b & (b >> s)
		if m&(m>>(2*s)) != 0 {
			return true
		}
	}
	return false
}

// IsWin returns whether pl has four in a row anywhere on the board.
func (p Position) IsWin(pl Player) bool {
	return connectedFour(p.Bits(pl))
}

// IsDraw returns whether every cell is occupied.
func (p Position) IsDraw() bool {
	return p.Mask() == fullMask
}

// State classifies the position for the player who just moved.
func (p Position) State(pl Player) GameState {
	if p.IsWin(pl) {
		return Win
	}
	if p.IsDraw() {
		return Draw
	}
	return StillPlaying
}

// IsTerminal returns whether either player has won or the board is full.
func (p Position) IsTerminal() bool {
	return connectedFour(p.fields[0]) || connectedFour(p.fields[1]) || p.IsDraw()
}
