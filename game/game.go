// Package game tracks a Connect-Four game from the first move to the end:
// whose turn it is, the move history and the result.
package game

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/domino14/connectfour/agent"
	"github.com/domino14/connectfour/board"
)

type PlayState int

const (
	PlayStatePlaying PlayState = iota
	PlayStateGameOver
)

func (p PlayState) String() string {
	if p == PlayStatePlaying {
		return "playing"
	}
	return "game-over"
}

var (
	errGameOver   = errors.New("game is over")
	errNoHistory  = errors.New("no moves to undo")
	errBadPlayer  = errors.New("first player must be player1 or player2")
	errNoAgentFor = errors.New("no agent for player")
)

// Game is the state of a single game. A Game doesn't care how it is
// played; agents choose the columns and the Game enforces the rules.
type Game struct {
	uid       string
	pos       board.Position
	onturn    board.Player
	wentfirst board.Player
	playing   PlayState
	winner    board.Player

	moves []int
	// stateStack holds the state before each move, for undo.
	stateStack []stateBackup
}

type stateBackup struct {
	pos    board.Position
	onturn board.Player
}

func newUID() string {
	return fmt.Sprintf("%x", frand.Bytes(6))
}

// NewGame starts an empty board with first to move.
func NewGame(first board.Player) (*Game, error) {
	if first != board.Player1 && first != board.Player2 {
		return nil, errBadPlayer
	}
	return &Game{
		uid:       newUID(),
		pos:       board.Empty(),
		onturn:    first,
		wentfirst: first,
		playing:   PlayStatePlaying,
	}, nil
}

// NewFromMoves replays a column string such as "3342", with Player1
// moving first. Whitespace and commas are skipped.
func NewFromMoves(moves string) (*Game, error) {
	g, err := NewGame(board.Player1)
	if err != nil {
		return nil, err
	}
	for i, c := range moves {
		if unicode.IsSpace(c) || c == ',' {
			continue
		}
		if c < '0' || c > '9' {
			return nil, fmt.Errorf("%w: bad character %q at index %d", board.ErrIllegalMove, c, i)
		}
		if err := g.PlayMove(int(c - '0')); err != nil {
			return nil, fmt.Errorf("at index %d: %w", i, err)
		}
	}
	return g, nil
}

// NewFromPosition starts a game at pos. The side to move is inferred from
// the piece counts, assuming Player1 moved first. There is no history to
// undo.
func NewFromPosition(pos board.Position) *Game {
	g := &Game{
		uid:       newUID(),
		pos:       pos,
		onturn:    pos.PlayerOnTurn(),
		wentfirst: board.Player1,
		playing:   PlayStatePlaying,
	}
	g.updateState(g.onturn.Opponent())
	return g
}

// updateState checks whether the player who just moved ended the game.
func (g *Game) updateState(justMoved board.Player) {
	g.playing = PlayStatePlaying
	g.winner = board.NoPlayer
	switch {
	case g.pos.State(justMoved) == board.Win:
		g.playing = PlayStateGameOver
		g.winner = justMoved
	case g.pos.IsWin(justMoved.Opponent()):
		// Only reachable from a loaded position.
		g.playing = PlayStateGameOver
		g.winner = justMoved.Opponent()
	case g.pos.IsDraw():
		g.playing = PlayStateGameOver
	}
}

// PlayMove drops a piece for the player on turn.
func (g *Game) PlayMove(col int) error {
	if g.playing != PlayStatePlaying {
		return errGameOver
	}
	next, err := g.pos.Apply(col, g.onturn)
	if err != nil {
		return err
	}
	g.stateStack = append(g.stateStack, stateBackup{pos: g.pos, onturn: g.onturn})
	g.moves = append(g.moves, col)
	g.pos = next
	mover := g.onturn
	g.updateState(mover)
	if g.playing == PlayStatePlaying {
		g.onturn = mover.Opponent()
	}
	log.Debug().Str("uid", g.uid).Str("player", mover.String()).Int("column", col).
		Str("state", g.playing.String()).Msg("played-move")
	return nil
}

// UnplayLastMove takes back the most recent move.
func (g *Game) UnplayLastMove() error {
	n := len(g.stateStack)
	if n == 0 {
		return errNoHistory
	}
	b := g.stateStack[n-1]
	g.pos = b.pos
	g.onturn = b.onturn
	g.stateStack = g.stateStack[:n-1]
	g.moves = g.moves[:n-1]
	g.playing = PlayStatePlaying
	g.winner = board.NoPlayer
	return nil
}

// Play asks the agent for the player on turn for a column until the game
// is over. agents[0] plays Player1 and agents[1] plays Player2.
func (g *Game) Play(ctx context.Context, agents [2]agent.Agent) error {
	for g.playing == PlayStatePlaying {
		if err := ctx.Err(); err != nil {
			return err
		}
		a := agents[g.onturn-1]
		if a == nil {
			return fmt.Errorf("%w %v", errNoAgentFor, g.onturn)
		}
		col, err := a.GenerateMove(ctx, g.pos, g.onturn)
		if err != nil {
			return err
		}
		if err := g.PlayMove(col); err != nil {
			return fmt.Errorf("%s played column %d: %w", a.Name(), col, err)
		}
	}
	return nil
}

func (g *Game) Copy() *Game {
	cp := *g
	cp.moves = append([]int(nil), g.moves...)
	cp.stateStack = append([]stateBackup(nil), g.stateStack...)
	return &cp
}

func (g *Game) Uid() string {
	return g.uid
}

func (g *Game) Position() board.Position {
	return g.pos
}

func (g *Game) Playing() PlayState {
	return g.playing
}

// Winner is NoPlayer while the game is going or if it was drawn.
func (g *Game) Winner() board.Player {
	return g.winner
}

func (g *Game) PlayerOnTurn() board.Player {
	return g.onturn
}

func (g *Game) FirstPlayer() board.Player {
	return g.wentfirst
}

// Turn is the number of moves played.
func (g *Game) Turn() int {
	return len(g.moves)
}

// History returns the columns played so far.
func (g *Game) History() []int {
	return append([]int(nil), g.moves...)
}

// MoveString returns the history as a digit string, e.g. "3342".
func (g *Game) MoveString() string {
	var sb strings.Builder
	for _, m := range g.moves {
		sb.WriteByte(byte('0' + m))
	}
	return sb.String()
}
