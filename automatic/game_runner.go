// Package automatic plays computer-vs-computer games and collects the
// results, for comparing agents and search settings.
package automatic

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/domino14/connectfour/agent"
	"github.com/domino14/connectfour/board"
	"github.com/domino14/connectfour/game"
)

// GameResult is the outcome of one automatic game. Agent indexes refer to
// the runner's agents, not to Player1/Player2.
type GameResult struct {
	ID    int
	First int
	// Winner is the index of the winning agent, or -1 for a draw.
	Winner int
	Plies  int
	Moves  string
}

func (r GameResult) csvRow(names [2]string) string {
	winner := "draw"
	if r.Winner >= 0 {
		winner = names[r.Winner]
	}
	return fmt.Sprintf("%d,%s,%s,%d,%s\n", r.ID, names[r.First], winner, r.Plies, r.Moves)
}

const csvHeader = "gameID,first,winner,plies,moves\n"

// GameRunner plays games between two agents.
type GameRunner struct {
	agents [2]agent.Agent
	game   *game.Game
}

func NewGameRunner(agents [2]agent.Agent) *GameRunner {
	return &GameRunner{agents: agents}
}

// PlayGame plays one full game. first is the index of the agent that
// moves first; it plays Player1.
func (r *GameRunner) PlayGame(ctx context.Context, id, first int) (GameResult, error) {
	g, err := game.NewGame(board.Player1)
	if err != nil {
		return GameResult{}, err
	}
	r.game = g
	seats := [2]agent.Agent{r.agents[first], r.agents[1-first]}
	if err := g.Play(ctx, seats); err != nil {
		return GameResult{}, err
	}
	res := GameResult{
		ID:     id,
		First:  first,
		Winner: -1,
		Plies:  g.Turn(),
		Moves:  g.MoveString(),
	}
	switch g.Winner() {
	case board.Player1:
		res.Winner = first
	case board.Player2:
		res.Winner = 1 - first
	}
	log.Debug().Int("game", id).Str("moves", res.Moves).Int("winner", res.Winner).
		Msg("game-over")
	return res, nil
}

// Game returns the game most recently played.
func (r *GameRunner) Game() *game.Game {
	return r.game
}
